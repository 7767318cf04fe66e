package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/entity"
)

// WriteReport produces the pendências workbook under dir and returns its
// path. Three sheets: the full listing, a per-source summary and a count
// per pendência type. Nothing is written when the list is empty.
func WriteReport(pendings []entity.PendingField, dir string) (string, error) {
	if len(pendings) == 0 {
		return "", nil
	}

	rows := make([]entity.PendingField, len(pendings))
	copy(rows, pendings)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SourceFile != rows[j].SourceFile {
			return rows[i].SourceFile < rows[j].SourceFile
		}
		if rows[i].ContractNumber != rows[j].ContractNumber {
			return rows[i].ContractNumber < rows[j].ContractNumber
		}
		return rows[i].FieldKey < rows[j].FieldKey
	})

	f := excelize.NewFile()
	defer f.Close()

	const listing = "Pendências"
	if err := f.SetSheetName("Sheet1", listing); err != nil {
		return "", common.WrapError(err, "rename listing sheet")
	}
	if err := writeRow(f, listing, 1, []any{"Arquivo Origem", "Contrato", "Campo", "Descrição", "Observação"}); err != nil {
		return "", err
	}
	for i, p := range rows {
		if err := writeRow(f, listing, i+2, []any{p.SourceFile, p.ContractNumber, p.FieldKey, p.Label, p.Note}); err != nil {
			return "", err
		}
	}

	if err := writeSummarySheet(f, rows); err != nil {
		return "", err
	}
	if err := writeByTypeSheet(f, rows); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", common.WrapError(err, "create report directory")
	}
	path := filepath.Join(dir, fmt.Sprintf("PENDENCIAS_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", common.WrapError(err, "save pendências report")
	}
	return path, nil
}

// writeSummarySheet aggregates per source file: how many contracts carry
// pendências and how many pendências in total.
func writeSummarySheet(f *excelize.File, rows []entity.PendingField) error {
	const sheet = "Resumo"
	if _, err := f.NewSheet(sheet); err != nil {
		return common.WrapError(err, "create summary sheet")
	}

	type fileStats struct {
		contracts map[string]bool
		total     int
	}
	stats := make(map[string]*fileStats)
	var files []string
	for _, p := range rows {
		s, ok := stats[p.SourceFile]
		if !ok {
			s = &fileStats{contracts: make(map[string]bool)}
			stats[p.SourceFile] = s
			files = append(files, p.SourceFile)
		}
		s.contracts[p.ContractNumber] = true
		s.total++
	}
	sort.Strings(files)

	if err := writeRow(f, sheet, 1, []any{"Arquivo", "Contratos com Pendência", "Total de Pendências"}); err != nil {
		return err
	}
	for i, file := range files {
		s := stats[file]
		if err := writeRow(f, sheet, i+2, []any{file, len(s.contracts), s.total}); err != nil {
			return err
		}
	}
	return nil
}

// writeByTypeSheet counts pendências per label, most frequent first.
func writeByTypeSheet(f *excelize.File, rows []entity.PendingField) error {
	const sheet = "Por Tipo"
	if _, err := f.NewSheet(sheet); err != nil {
		return common.WrapError(err, "create by-type sheet")
	}

	counts := make(map[string]int)
	var labels []string
	for _, p := range rows {
		if _, ok := counts[p.Label]; !ok {
			labels = append(labels, p.Label)
		}
		counts[p.Label]++
	}
	sort.SliceStable(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if err := writeRow(f, sheet, 1, []any{"Descrição", "Quantidade"}); err != nil {
		return err
	}
	for i, label := range labels {
		if err := writeRow(f, sheet, i+2, []any{label, counts[label]}); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return common.WrapError(err, "resolve cell name")
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return common.WrapError(err, "write report cell")
		}
	}
	return nil
}
