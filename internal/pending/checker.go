// Package pending inspects extracted contract rows for missing mandatory
// data before petition generation.
package pending

import (
	"fmt"
	"log/slog"

	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/extract"
)

// mandatoryField ties a spreadsheet column to its human-readable label.
// Order matters: reports list pendências in this sequence.
type mandatoryField struct {
	Key   string
	Label string
}

var mandatoryFields = []mandatoryField{
	{Key: "nome inqs", Label: "Nome do Inquilino"},
	{Key: "cpf_iqs", Label: "CPF do Inquilino"},
	{Key: "nome pps", Label: "Nome do Locador"},
	{Key: "cpf_pps", Label: "CPF do Locador"},
	{Key: "rg_pps", Label: "RG do Locador"},
	{Key: "endereco_pps", Label: "Endereço do Locador"},
	{Key: "valor_historico", Label: "Valor Histórico do Débito"},
	{Key: "valor_atualizado", Label: "Valor Atualizado do Débito"},
}

const (
	imageFieldKey   = "imagem_clausula"
	imageFieldLabel = "Imagem da Cláusula"
)

// ImageFinder locates the clause screenshot for a contract, returning an
// empty path when none exists. Available reports whether the prints
// directory exists at all; when it does not, no image pendência is raised.
type ImageFinder interface {
	Find(contractNumber string) string
	Available() bool
}

// Checker validates raw spreadsheet rows against the mandatory field set.
type Checker struct {
	images ImageFinder
	logger *slog.Logger
}

func NewChecker(images ImageFinder, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{images: images, logger: logger}
}

// CheckRow returns one PendingField per missing mandatory value in a
// contract row, plus an image pendência when no clause screenshot exists.
func (c *Checker) CheckRow(row extract.RawRecord, sourceFile string) []entity.PendingField {
	number := row.Get("contrato")
	var out []entity.PendingField
	for _, mf := range mandatoryFields {
		if row.Get(mf.Key) != "" {
			continue
		}
		out = append(out, entity.PendingField{
			ContractNumber: number,
			FieldKey:       mf.Key,
			Label:          mf.Label,
			Note:           mf.Label + " não preenchido",
			SourceFile:     sourceFile,
		})
	}
	if c.images != nil && c.images.Available() && c.images.Find(number) == "" {
		out = append(out, entity.PendingField{
			ContractNumber: number,
			FieldKey:       imageFieldKey,
			Label:          imageFieldLabel,
			Note:           fmt.Sprintf("Arquivo prints/%s.png/jpg não encontrado", number),
			SourceFile:     sourceFile,
		})
	}
	return out
}

// CheckAll runs CheckRow over every row of a workbook, in row order.
func (c *Checker) CheckAll(e *extract.Extractor, sourceFile string) []entity.PendingField {
	var out []entity.PendingField
	for _, row := range e.Rows() {
		if row.Get("contrato") == "" {
			continue
		}
		out = append(out, c.CheckRow(row, sourceFile)...)
	}
	c.logger.Info("pending.checked", "source", sourceFile, "pendencias", len(out))
	return out
}
