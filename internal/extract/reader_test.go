package extract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/office"
)

// buildWorkbook writes sheets into an in-memory XLSX. Each sheet is a header
// row followed by data rows.
func buildWorkbook(t *testing.T, sheets map[string][][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatal(err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			anyRow := make([]any, len(row))
			for j, v := range row {
				anyRow[j] = v
			}
			if err := f.SetSheetRow(name, cell, &anyRow); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func testWorkbook(t *testing.T) *Extractor {
	t.Helper()
	buf := buildWorkbook(t, map[string][][]string{
		"Base Contatos": {
			{"Contrato", "Nome Inqs", "Email Inqs", "Tel Inqs", "CPF_IQS", "Nome PPS", "Email PPS", "Tel PP", "CPF_PPS", "RG_PPS", "ENDERECO_PPS", "Cidade", "valor_aluguel", "valor_condominio", "valor_iptu", "valor_seguro_incendio", "valor_historico", "valor_atualizado"},
			{"10001", "Ana Lima, Bruno Lima", "ana@mail.com", "21969750156, 2122627979", "52998224725, 11144477735", "Carlos Prado", "carlos@mail.com", "21988887777", "39053344705", "123456789", "Rua A, 1, Centro, Rio de Janeiro", "Rio de Janeiro", "2000", "500", "150", "50", "12000.50", "15000.75"},
			{"10002", "Diana Reis", "", "", "", "Edu Melo; Fabia Melo", "edu@mail.com", "", "", "", "", "", "abc", "-10", "", "nan", "0", "0"},
			{"10001", "Duplicada Ignorada", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "", ""},
		},
		"Endereços": {
			{"contract", "house_address", "house_complement", "house_neighborhood", "house_city", "house_zipcode"},
			{"10001", "Rua das Flores, 10", "casa 2", "Botafogo", "Rio de Janeiro", "22250-000"},
		},
	})

	e, err := OpenReader(buf, office.Defaults(), nil)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	return e
}

func TestContractNumbers_UniqueInOrder(t *testing.T) {
	e := testWorkbook(t)
	got := e.ContractNumbers()
	want := []string{"10001", "10002"}
	if len(got) != len(want) {
		t.Fatalf("ContractNumbers() = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ContractNumbers()[%d] = %q, expected %q", i, got[i], want[i])
		}
	}
}

func TestContract_FullRecord(t *testing.T) {
	e := testWorkbook(t)
	c, ok := e.Contract("10001")
	if !ok {
		t.Fatal("Contract(10001) not found")
	}

	if len(c.Tenants) != 2 {
		t.Fatalf("tenants = %d, expected 2", len(c.Tenants))
	}
	if c.Tenants[0].Name != "Ana Lima" || c.Tenants[1].Name != "Bruno Lima" {
		t.Errorf("tenant names = %q, %q", c.Tenants[0].Name, c.Tenants[1].Name)
	}
	if c.Tenants[0].CPF != "529.982.247-25" {
		t.Errorf("tenant 1 CPF = %q", c.Tenants[0].CPF)
	}
	if c.Tenants[1].Phone != "(21) 2262-7979" {
		t.Errorf("tenant 2 phone = %q", c.Tenants[1].Phone)
	}
	// Single e-mail is reused for the second tenant.
	if c.Tenants[1].Email != "ana@mail.com" {
		t.Errorf("tenant 2 email = %q, expected first-value fallback", c.Tenants[1].Email)
	}
	if c.Tenants[0].Nationality != "brasileiro(a)" {
		t.Errorf("tenant nationality = %q", c.Tenants[0].Nationality)
	}

	if len(c.Landlords) != 1 {
		t.Fatalf("landlords = %d, expected 1", len(c.Landlords))
	}
	if c.Landlords[0].CPF != "390.533.447-05" {
		t.Errorf("landlord CPF = %q", c.Landlords[0].CPF)
	}
	if c.Landlords[0].Address != "Rua A, 1, Centro, Rio de Janeiro" {
		t.Errorf("landlord address = %q", c.Landlords[0].Address)
	}

	if got := c.Property.FullAddress(); got != "Rua das Flores, 10, casa 2, Botafogo, Rio de Janeiro, CEP 22250-000" {
		t.Errorf("property address = %q", got)
	}
	if c.City != "Rio de Janeiro" {
		t.Errorf("city = %q", c.City)
	}

	if want := decimal.RequireFromString("2700"); !c.MonthlyValue().Equal(want) {
		t.Errorf("MonthlyValue() = %s, expected %s", c.MonthlyValue(), want)
	}
	if want := decimal.RequireFromString("12000.50"); !c.HistoricalDebt.Equal(want) {
		t.Errorf("HistoricalDebt = %s, expected %s", c.HistoricalDebt, want)
	}
}

func TestContract_PermissiveNumbersAndFallbacks(t *testing.T) {
	e := testWorkbook(t)
	c, ok := e.Contract("10002")
	if !ok {
		t.Fatal("Contract(10002) not found")
	}

	// "abc", "-10", "", "nan" all resolve to zero.
	for name, v := range map[string]decimal.Decimal{
		"rent":      c.RentValue,
		"condo":     c.CondoFee,
		"iptu":      c.PropertyTax,
		"insurance": c.InsuranceFee,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %s, expected 0 for malformed cell", name, v)
		}
	}

	// No CPF at all: tenant CPF stays empty, no cross-position borrowing.
	if c.Tenants[0].CPF != "" {
		t.Errorf("tenant CPF = %q, expected empty", c.Tenants[0].CPF)
	}

	// Two landlords split on ';', missing attributes stay empty.
	if len(c.Landlords) != 2 {
		t.Fatalf("landlords = %d, expected 2", len(c.Landlords))
	}
	if c.Landlords[1].Email != "edu@mail.com" {
		t.Errorf("landlord 2 email = %q, expected first-value fallback", c.Landlords[1].Email)
	}

	// Missing city falls back to the configured default.
	if c.City != office.Defaults().DefaultCity {
		t.Errorf("city = %q, expected default", c.City)
	}
	// No address row for this contract.
	if got := c.Property.FullAddress(); got != "" {
		t.Errorf("property address = %q, expected empty", got)
	}
}

func TestContract_NotFoundIsAbsentNotError(t *testing.T) {
	e := testWorkbook(t)
	c, ok := e.Contract("99999")
	if ok || c != nil {
		t.Errorf("Contract(99999) = (%v, %v), expected absent", c, ok)
	}
}

func TestOpenReader_MissingContactsSheet(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Planilha Qualquer": {{"coluna"}, {"valor"}},
	})
	_, err := OpenReader(buf, office.Defaults(), nil)
	if !errors.Is(err, common.ErrBadSource) {
		t.Errorf("OpenReader() error = %v, expected ErrBadSource", err)
	}
}

func TestOpenReader_ContactsWithoutContractColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Base Contatos": {{"nome inqs"}, {"Ana"}},
	})
	_, err := OpenReader(buf, office.Defaults(), nil)
	if !errors.Is(err, common.ErrBadSource) {
		t.Errorf("OpenReader() error = %v, expected ErrBadSource", err)
	}
}

func TestOpenReader_HeaderOnlyWithoutContractColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Base Contatos": {{"nome inqs", "cpf_iqs"}},
	})
	_, err := OpenReader(buf, office.Defaults(), nil)
	if !errors.Is(err, common.ErrBadSource) {
		t.Errorf("OpenReader() error = %v, expected ErrBadSource", err)
	}
}

func TestOpenReader_HeaderOnlyWithContractColumn(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"Base Contatos": {{"contrato", "nome inqs"}},
	})
	e, err := OpenReader(buf, office.Defaults(), nil)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	if got := e.ContractNumbers(); len(got) != 0 {
		t.Errorf("ContractNumbers() = %v, expected none", got)
	}
}

func TestOpen_FromDisk(t *testing.T) {
	buf := buildWorkbook(t, map[string][][]string{
		"base": {{"contrato"}, {"7"}},
	})
	path := filepath.Join(t.TempDir(), "contratos.xlsx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := Open(path, office.Defaults(), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := e.ContractNumbers(); len(got) != 1 || got[0] != "7" {
		t.Errorf("ContractNumbers() = %v", got)
	}
}

func TestSplitValues(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{name: "commas", in: "a, b ,c", expected: []string{"a", "b", "c"}},
		{name: "mixed separators", in: "a;b|c", expected: []string{"a", "b", "c"}},
		{name: "empty fragments dropped", in: "a,,b, ", expected: []string{"a", "b"}},
		{name: "blank", in: "  ", expected: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitValues(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("SplitValues(%q) = %v, expected %v", tt.in, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("SplitValues(%q)[%d] = %q, expected %q", tt.in, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
