package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Tenant represents an inquilino/locatário as found on the contacts sheet.
// Tenants carry no identity beyond their position in the contract's list.
type Tenant struct {
	Name        string `json:"nome"`
	CPF         string `json:"cpf"`
	Phone       string `json:"telefone"`
	Email       string `json:"email"`
	Nationality string `json:"nacionalidade"`
}

// Landlord represents a proprietário/locador.
type Landlord struct {
	Name    string `json:"nome"`
	CPF     string `json:"cpf"`
	RG      string `json:"rg"`
	Phone   string `json:"telefone"`
	Email   string `json:"email"`
	Address string `json:"endereco"`
}

// Property is the leased property described on the address sheet.
type Property struct {
	Address      string `json:"endereco"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	ZipCode      string `json:"cep"`
}

// FullAddress joins the non-empty parts in fixed order, with the zip code
// rendered as "CEP <code>". Empty parts never leave stray separators.
func (p Property) FullAddress() string {
	var parts []string
	if p.Address != "" {
		parts = append(parts, p.Address)
	}
	if p.Complement != "" {
		parts = append(parts, p.Complement)
	}
	if p.Neighborhood != "" {
		parts = append(parts, p.Neighborhood)
	}
	if p.City != "" {
		parts = append(parts, p.City)
	}
	if p.ZipCode != "" {
		parts = append(parts, "CEP "+p.ZipCode)
	}
	return strings.Join(parts, ", ")
}

// Contract is the canonical record for one rental dispute case, assembled
// fresh from the spreadsheet on every extraction. Monetary fields are never
// negative; permissive parsing in the extractor resolves bad cells to zero.
type Contract struct {
	Number    string     `json:"numero"`
	Tenants   []Tenant   `json:"inquilinos"`
	Landlords []Landlord `json:"proprietarios"`
	Property  Property   `json:"imovel"`
	City      string     `json:"cidade"`

	RentValue      decimal.Decimal `json:"valor_aluguel"`
	CondoFee       decimal.Decimal `json:"valor_condominio"`
	PropertyTax    decimal.Decimal `json:"valor_iptu"`
	InsuranceFee   decimal.Decimal `json:"valor_seguro"`
	HistoricalDebt decimal.Decimal `json:"valor_historico"`
	UpdatedDebt    decimal.Decimal `json:"valor_atualizado"`
}

// MonthlyValue is the recurring monthly charge: rent plus condo fee, property
// tax and fire insurance. Always recomputed, never stored.
func (c *Contract) MonthlyValue() decimal.Decimal {
	return c.RentValue.Add(c.CondoFee).Add(c.PropertyTax).Add(c.InsuranceFee)
}

// ClaimValue is the annualized exposure used in the filing (12x monthly).
func (c *Contract) ClaimValue() decimal.Decimal {
	return c.MonthlyValue().Mul(decimal.NewFromInt(12))
}
