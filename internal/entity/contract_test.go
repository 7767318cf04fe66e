package entity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProperty_FullAddress(t *testing.T) {
	tests := []struct {
		name     string
		prop     Property
		expected string
	}{
		{
			name: "all parts",
			prop: Property{
				Address:      "Rua das Laranjeiras, 100",
				Complement:   "apto 201",
				Neighborhood: "Laranjeiras",
				City:         "Rio de Janeiro",
				ZipCode:      "22240-000",
			},
			expected: "Rua das Laranjeiras, 100, apto 201, Laranjeiras, Rio de Janeiro, CEP 22240-000",
		},
		{
			name:     "city and zip only",
			prop:     Property{City: "Rio de Janeiro", ZipCode: "20000-000"},
			expected: "Rio de Janeiro, CEP 20000-000",
		},
		{
			name:     "address only",
			prop:     Property{Address: "Avenida Paulista, 1000"},
			expected: "Avenida Paulista, 1000",
		},
		{
			name:     "empty",
			prop:     Property{},
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prop.FullAddress(); got != tt.expected {
				t.Errorf("FullAddress() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestContract_DerivedValues(t *testing.T) {
	c := &Contract{
		Number:       "12345",
		RentValue:    decimal.RequireFromString("1500"),
		CondoFee:     decimal.RequireFromString("450.50"),
		PropertyTax:  decimal.RequireFromString("120"),
		InsuranceFee: decimal.RequireFromString("29.50"),
	}

	monthly := c.MonthlyValue()
	if want := decimal.RequireFromString("2100"); !monthly.Equal(want) {
		t.Errorf("MonthlyValue() = %s, expected %s", monthly, want)
	}
	claim := c.ClaimValue()
	if want := decimal.RequireFromString("25200"); !claim.Equal(want) {
		t.Errorf("ClaimValue() = %s, expected %s", claim, want)
	}
}

func TestContract_DerivedValuesZero(t *testing.T) {
	c := &Contract{Number: "1"}
	if !c.MonthlyValue().IsZero() {
		t.Errorf("MonthlyValue() on empty contract = %s, expected 0", c.MonthlyValue())
	}
	if !c.ClaimValue().IsZero() {
		t.Errorf("ClaimValue() on empty contract = %s, expected 0", c.ClaimValue())
	}
}
