package pending

import (
	"testing"

	"github.com/gondimadv/arbitral/internal/extract"
)

type fakeFinder map[string]string

func (f fakeFinder) Find(number string) string { return f[number] }

func (f fakeFinder) Available() bool { return true }

// noDirFinder mimics a prints store whose directory was never created.
type noDirFinder struct{}

func (noDirFinder) Find(string) string { return "" }

func (noDirFinder) Available() bool { return false }

func fullRow(number string) extract.RawRecord {
	return extract.RawRecord{
		"contrato":         number,
		"nome inqs":        "Ana Lima",
		"cpf_iqs":          "529.982.247-25",
		"nome pps":         "Carlos Prado",
		"cpf_pps":          "390.533.447-05",
		"rg_pps":           "123456789",
		"endereco_pps":     "Rua A, 1",
		"valor_historico":  "12000.50",
		"valor_atualizado": "15000.75",
	}
}

func TestCheckRow_Complete(t *testing.T) {
	c := NewChecker(fakeFinder{"10001": "prints/10001.png"}, nil)
	got := c.CheckRow(fullRow("10001"), "contratos.xlsx")
	if len(got) != 0 {
		t.Errorf("CheckRow() = %d pendências, expected none: %+v", len(got), got)
	}
}

func TestCheckRow_MissingCPFAndImage(t *testing.T) {
	row := fullRow("10002")
	delete(row, "cpf_pps")
	c := NewChecker(fakeFinder{}, nil)

	got := c.CheckRow(row, "contratos.xlsx")
	if len(got) != 2 {
		t.Fatalf("CheckRow() = %d pendências, expected 2: %+v", len(got), got)
	}

	if got[0].FieldKey != "cpf_pps" {
		t.Errorf("pendência 1 key = %q, expected cpf_pps", got[0].FieldKey)
	}
	if got[0].Note != "CPF do Locador não preenchido" {
		t.Errorf("pendência 1 note = %q", got[0].Note)
	}
	if got[1].FieldKey != "imagem_clausula" {
		t.Errorf("pendência 2 key = %q, expected imagem_clausula", got[1].FieldKey)
	}
	if got[1].Note != "Arquivo prints/10002.png/jpg não encontrado" {
		t.Errorf("pendência 2 note = %q", got[1].Note)
	}
	for i, p := range got {
		if p.ContractNumber != "10002" || p.SourceFile != "contratos.xlsx" {
			t.Errorf("pendência %d has wrong provenance: %+v", i+1, p)
		}
	}
}

func TestCheckRow_NoPrintsDirSkipsImageCheck(t *testing.T) {
	row := fullRow("10005")
	delete(row, "cpf_pps")
	c := NewChecker(noDirFinder{}, nil)

	got := c.CheckRow(row, "contratos.xlsx")
	if len(got) != 1 || got[0].FieldKey != "cpf_pps" {
		t.Errorf("CheckRow() = %+v, expected only the cpf_pps pendência", got)
	}
}

func TestCheckRow_OrderFollowsMandatoryList(t *testing.T) {
	row := extract.RawRecord{"contrato": "10003"}
	c := NewChecker(fakeFinder{"10003": "prints/10003.jpg"}, nil)

	got := c.CheckRow(row, "contratos.xlsx")
	want := []string{
		"nome inqs", "cpf_iqs", "nome pps", "cpf_pps",
		"rg_pps", "endereco_pps", "valor_historico", "valor_atualizado",
	}
	if len(got) != len(want) {
		t.Fatalf("CheckRow() = %d pendências, expected %d", len(got), len(want))
	}
	for i, key := range want {
		if got[i].FieldKey != key {
			t.Errorf("pendência %d key = %q, expected %q", i+1, got[i].FieldKey, key)
		}
	}
}

func TestCheckRow_WhitespaceCountsAsMissing(t *testing.T) {
	row := fullRow("10004")
	row["rg_pps"] = "   "
	c := NewChecker(fakeFinder{"10004": "x.png"}, nil)

	got := c.CheckRow(row, "contratos.xlsx")
	if len(got) != 1 || got[0].FieldKey != "rg_pps" {
		t.Errorf("CheckRow() = %+v, expected single rg_pps pendência", got)
	}
}
