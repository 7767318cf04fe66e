// Package prints manages the clause screenshot files attached to contracts.
package prints

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gondimadv/arbitral/constants"
	"github.com/gondimadv/arbitral/internal/common"
)

// Store keeps one image per contract number under a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Available reports whether the prints directory exists. Pendência checks
// skip the image lookup entirely when it does not.
func (s *Store) Available() bool {
	fi, err := os.Stat(s.dir)
	return err == nil && fi.IsDir()
}

// Find returns the path of the screenshot for a contract, trying each
// accepted extension in order. Empty string when none exists.
func (s *Store) Find(contractNumber string) string {
	if contractNumber == "" {
		return ""
	}
	for _, ext := range constants.ClauseImageVariants {
		path := filepath.Join(s.dir, contractNumber+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Save stores an uploaded screenshot as <contract>.<ext>, replacing any
// variant already present for that contract.
func (s *Store) Save(contractNumber, filename string, r io.Reader) (string, error) {
	if contractNumber == "" {
		return "", fmt.Errorf("contract number is required: %w", common.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := constants.PrintExtensions[constants.NormalizeExt(ext)]; !ok {
		return "", fmt.Errorf("unsupported image extension %q: %w", ext, common.ErrInvalidInput)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", common.WrapError(err, "create prints directory")
	}
	if err := s.Delete(contractNumber); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, contractNumber+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", common.WrapError(err, "create print file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", common.WrapError(err, "write print file")
	}
	s.logger.Info("prints.saved", "contract", contractNumber, "path", path)
	return path, nil
}

// List returns the contract numbers that have a screenshot, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, common.WrapError(err, "read prints directory")
	}

	seen := make(map[string]bool)
	var numbers []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := constants.NormalizeExt(filepath.Ext(name))
		if _, ok := constants.PrintExtensions[ext]; !ok {
			continue
		}
		number := strings.TrimSuffix(name, filepath.Ext(name))
		if number == "" || seen[number] {
			continue
		}
		seen[number] = true
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)
	return numbers, nil
}

// Delete removes every stored variant for a contract. Absent files are
// not an error.
func (s *Store) Delete(contractNumber string) error {
	for _, ext := range constants.ClauseImageVariants {
		path := filepath.Join(s.dir, contractNumber+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return common.WrapError(err, "remove print file")
		}
	}
	return nil
}
