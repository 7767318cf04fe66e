// Package template stores the uploaded petition templates and their
// scanned metadata.
package template

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
)

const metadataFile = "templates_metadata.json"

// Template is one stored petition model.
type Template struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Description  string    `json:"descricao"`
	Filename     string    `json:"arquivo"`
	FilePath     string    `json:"-"`
	Placeholders []string  `json:"placeholders"`
	CreatedAt    time.Time `json:"criado_em"`
	UpdatedAt    time.Time `json:"atualizado_em"`
}

// Store keeps template files plus a JSON metadata index under one
// directory. All mutations lock the index.
type Store struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

type metadata map[string]*storedTemplate

// storedTemplate is the on-disk shape; FilePath persists here but is
// stripped from API responses.
type storedTemplate struct {
	Template
	FilePath string `json:"file_path"`
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.dir, metadataFile)
}

func (s *Store) load() (metadata, error) {
	data, err := os.ReadFile(s.metadataPath())
	if os.IsNotExist(err) {
		return metadata{}, nil
	}
	if err != nil {
		return nil, common.WrapError(err, "read template metadata")
	}
	var m metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, common.WrapError(err, "parse template metadata")
	}
	return m, nil
}

func (s *Store) save(m metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return common.WrapError(err, "encode template metadata")
	}
	if err := os.WriteFile(s.metadataPath(), data, 0o644); err != nil {
		return common.WrapError(err, "write template metadata")
	}
	return nil
}

// Create stores an uploaded .docx, scans its placeholders and registers
// the metadata. The file must be a readable word document.
func (s *Store) Create(name, description, originalFilename string, content []byte) (*Template, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := constants.TemplateExtensions[constants.NormalizeExt(ext)]; !ok {
		return nil, fmt.Errorf("unsupported template extension %q: %w", ext, common.ErrInvalidInput)
	}
	if name == "" {
		name = strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, common.WrapError(err, "create templates directory")
	}

	id := uuid.NewString()[:8]
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", id, strings.ReplaceAll(name, " ", "_"), ext))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, common.WrapError(err, "write template file")
	}

	placeholders, err := ScanPlaceholders(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("template is not a readable .docx: %w", common.ErrInvalidInput)
	}

	now := time.Now()
	t := &storedTemplate{
		Template: Template{
			ID:           id,
			Name:         name,
			Description:  description,
			Filename:     originalFilename,
			Placeholders: placeholders,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		FilePath: path,
	}

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	m[id] = t
	if err := s.save(m); err != nil {
		return nil, err
	}

	s.logger.Info("template.created", "id", id, "name", name, "placeholders", len(placeholders))
	return s.public(t), nil
}

func (s *Store) public(t *storedTemplate) *Template {
	out := t.Template
	out.FilePath = t.FilePath
	return &out
}

// Get returns a template's metadata.
func (s *Store) Get(id string) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	t, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, common.ErrNotFound)
	}
	return s.public(t), nil
}

// Path returns the template's file location, verifying it still exists.
func (s *Store) Path(id string) (string, error) {
	t, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(t.FilePath); err != nil {
		return "", fmt.Errorf("template file %s: %w", t.FilePath, common.ErrNotFound)
	}
	return t.FilePath, nil
}

// List returns all templates, newest first.
func (s *Store) List() ([]*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*Template, 0, len(m))
	for _, t := range m {
		out = append(out, s.public(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a template's file and metadata.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	t, ok := m[id]
	if !ok {
		return fmt.Errorf("template %s: %w", id, common.ErrNotFound)
	}
	if err := os.Remove(t.FilePath); err != nil && !os.IsNotExist(err) {
		return common.WrapError(err, "remove template file")
	}
	delete(m, id)
	if err := s.save(m); err != nil {
		return err
	}
	s.logger.Info("template.deleted", "id", id)
	return nil
}
