// Package office manages the process-wide law-office configuration: the
// lawyer identification, office contact data and locale defaults injected
// into every generated filing. The configuration lives in a JSON file next
// to the binary, merged over compiled-in defaults and schema-validated on
// every load and save.
package office

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gondimadv/arbitral/internal/common"
)

// Config is the read-only view handed to the substitution engine and the
// record extractor. Fields map 1:1 to the JSON file keys.
type Config struct {
	LawyerName         string `json:"advogado_nome"`
	LawyerOAB          string `json:"advogado_oab"`
	OfficePhone        string `json:"escritorio_telefone"`
	OfficeWhatsApp     string `json:"escritorio_whatsapp"`
	OfficeEmail        string `json:"escritorio_email"`
	NoticeEmail        string `json:"escritorio_email_intimacoes"`
	OfficeAddress      string `json:"escritorio_endereco"`
	DefaultNationality string `json:"nacionalidade_padrao"`
	DefaultCity        string `json:"cidade_padrao"`
}

// Defaults returns the compiled-in office configuration.
func Defaults() Config {
	return Config{
		LawyerName:         "João Thomaz Prazeres Gondim",
		LawyerOAB:          "270.757",
		OfficePhone:        "(21) 2262-7979",
		OfficeWhatsApp:     "(21) 96975-0156",
		OfficeEmail:        "quintoandar@gondimadv.com.br",
		NoticeEmail:        "camaras.arbitrais@gondimadv.com.br",
		OfficeAddress:      "Avenida Paulo de Frontin, 1, Centro Empresarial, Cidade Nova, Rio de Janeiro - RJ, 20260-010",
		DefaultNationality: "brasileiro(a)",
		DefaultCity:        "São Paulo",
	}
}

// NoticeEmailOrFallback returns the legal-notice e-mail, falling back to the
// main office e-mail when unset.
func (c Config) NoticeEmailOrFallback() string {
	if c.NoticeEmail != "" {
		return c.NoticeEmail
	}
	return c.OfficeEmail
}

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "advogado_nome": {"type": "string"},
    "advogado_oab": {"type": "string"},
    "escritorio_telefone": {"type": "string"},
    "escritorio_whatsapp": {"type": "string"},
    "escritorio_email": {"type": "string", "minLength": 3},
    "escritorio_email_intimacoes": {"type": "string"},
    "escritorio_endereco": {"type": "string"},
    "nacionalidade_padrao": {"type": "string"},
    "cidade_padrao": {"type": "string"}
  },
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("office-config.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("office-config.json")
	})
	return schema, schemaErr
}

func validate(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return common.WrapError(err, "compile office config schema")
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return common.WrapError(err, "parse office config")
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("office config rejected by schema: %v: %w", err, common.ErrInvalidInput)
	}
	return nil
}

// Load reads the office configuration file, merging it over the defaults.
// A missing file is not an error: defaults are returned so a fresh checkout
// works without any setup. A malformed file IS an error, unlike a missing
// one, so a typo never silently reverts the office identity to defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, common.WrapError(err, "read office config")
	}
	if err := validate(raw); err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, common.WrapError(err, "parse office config")
	}
	return cfg, nil
}

// Save validates and writes the configuration file, creating parents.
func Save(path string, cfg Config) error {
	raw, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return common.WrapError(err, "encode office config")
	}
	if err := validate(raw); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return common.WrapError(err, "create office config directory")
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return common.WrapError(err, "write office config")
	}
	return nil
}

// Update applies the non-empty fields of updates over the stored
// configuration and saves the result.
func Update(path string, updates map[string]string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return cfg, common.WrapError(err, "encode office config")
	}
	merged := map[string]string{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return cfg, common.WrapError(err, "decode office config")
	}
	for k, v := range updates {
		merged[k] = v
	}
	rawMerged, err := json.Marshal(merged)
	if err != nil {
		return cfg, common.WrapError(err, "encode office config")
	}
	if err := validate(rawMerged); err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(rawMerged, &cfg); err != nil {
		return cfg, common.WrapError(err, "decode office config")
	}
	if err := Save(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
