// Package docgen renders arbitration petitions: it loads the .docx
// template, resolves the anchor substitutions for a contract and writes
// the filled document, embedding the payment-clause screenshot when one
// exists.
package docgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/docx"
	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/office"
)

// clauseImageWidthEMU is the display width of the embedded clause
// screenshot: 5.5 inches.
const clauseImageWidthEMU = int64(5.5 * docx.EMUPerInch)

// ImageFinder locates the clause screenshot for a contract, returning an
// empty path when none exists.
type ImageFinder interface {
	Find(contractNumber string) string
}

// Generator fills petition templates for individual contracts. The
// template is re-read on every call so one corrupted generation never
// leaks state into the next.
type Generator struct {
	templatePath string
	images       ImageFinder
	office       office.Config
	logger       *slog.Logger
}

func NewGenerator(templatePath string, images ImageFinder, cfg office.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		templatePath: templatePath,
		images:       images,
		office:       cfg,
		logger:       logger,
	}
}

// Result describes one successful generation.
type Result struct {
	Substitutions int
	ImageInserted bool
}

// Message is the user-facing summary, e.g. "Gerado com 12 substituições + imagem".
func (r *Result) Message() string {
	msg := fmt.Sprintf("Gerado com %d substituições", r.Substitutions)
	if r.ImageInserted {
		msg += " + imagem"
	}
	return msg
}

// Generate writes the filled petition for a contract to outputPath,
// creating parent directories as needed.
func (g *Generator) Generate(c *entity.Contract, outputPath string) (*Result, error) {
	doc, err := docx.Open(g.templatePath)
	if err != nil {
		return nil, common.WrapError(err, "load template")
	}

	rules := Rules(c, g.office)
	res := &Result{}
	for _, part := range doc.Parts() {
		for _, p := range part.Paragraphs() {
			res.Substitutions += applyRules(p, rules)
		}
	}
	res.Substitutions += g.applyUpdatedDebt(doc, c)
	res.ImageInserted = g.insertClauseImage(doc, c.Number)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, common.WrapError(err, "create output directory")
	}
	if err := doc.Save(outputPath); err != nil {
		return nil, err
	}

	g.logger.Info("docgen.generated",
		"contract", c.Number,
		"output", outputPath,
		"substitutions", res.Substitutions,
		"image", res.ImageInserted,
	)
	return res, nil
}

// applyRules replaces each matching anchor once within a paragraph.
func applyRules(p *docx.Paragraph, rules []Rule) int {
	original := p.Text()
	modified := original
	count := 0
	for _, r := range rules {
		if strings.Contains(modified, r.Anchor) {
			modified = strings.Replace(modified, r.Anchor, r.Value, 1)
			count++
		}
	}
	if modified != original {
		p.SetText(modified)
	}
	return count
}

// applyUpdatedDebt fills the second debt anchor with the updated value.
// The main pass already consumed the first occurrence for the historical
// debt, so this scans top-level body paragraphs (never table cells) and
// stops at the first hit.
func (g *Generator) applyUpdatedDebt(doc *docx.Document, c *entity.Contract) int {
	if !c.UpdatedDebt.IsPositive() {
		return 0
	}
	value := moneyInFull(c.UpdatedDebt)
	for _, p := range doc.Body().Paragraphs() {
		if p.InTable() {
			continue
		}
		text := p.Text()
		if strings.Contains(text, anchorDebtValue) {
			p.SetText(strings.Replace(text, anchorDebtValue, value, 1))
			return 1
		}
	}
	return 0
}

// insertClauseImage swaps the clause anchor paragraph for the contract's
// screenshot. A missing or unreadable image is not a generation failure.
func (g *Generator) insertClauseImage(doc *docx.Document, contractNumber string) bool {
	if g.images == nil {
		return false
	}
	imgPath := g.images.Find(contractNumber)
	if imgPath == "" {
		return false
	}
	for _, p := range doc.Body().Paragraphs() {
		if p.InTable() || !strings.Contains(p.Text(), anchorClauseImage) {
			continue
		}
		img, err := os.ReadFile(imgPath)
		if err != nil {
			g.logger.Warn("docgen.image_read_failed", "contract", contractNumber, "path", imgPath, "error", err)
			return false
		}
		if err := doc.ReplaceWithImage(p, img, clauseImageWidthEMU); err != nil {
			g.logger.Warn("docgen.image_insert_failed", "contract", contractNumber, "path", imgPath, "error", err)
			return false
		}
		return true
	}
	return false
}
