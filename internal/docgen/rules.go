package docgen

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/format"
	"github.com/gondimadv/arbitral/internal/office"
)

// Anchors recognized in the petition template. These are the literal
// fill-in instructions left by the drafting lawyers.
const (
	anchorLandlordBlock   = "(inserir a qualificação completa do(s) Locador(es))"
	anchorTenantBlock     = "(inserir a qualificação completa do(s) Inquilino(s))"
	anchorPropertyAddress = "(inserir o endereço completo do imóvel locado objeto do contrato: Rua/Avenida, número, complemento, Cidade, UF e CEP)"
	anchorTenantAddress   = "(inserir o endereço completo dos Inquilinos)"
	anchorDebtValue       = "R$XXXXXX (escrever o valor por extenso)"
	anchorClaimValue      = "R$00.000,00 (inserir o valor por extenso)"
	anchorDateCity        = "Cidade, dia de mês de 2025."
	anchorOfficePhone     = "(DDD) XXXX-YYYY"
	anchorOfficeWhatsApp  = "(DDD) 9XXXX-YYYY"
	anchorOfficeEmail     = "inserir o e-mail do escritório ou assessoria de cobrança"
	anchorLawyerName      = "(inserir o nome do advogado responsável do escritório)"
	anchorLawyerOAB       = "XXX.XXX"
	anchorOfficeAddress   = "(inserir o endereço comercial do escritório)"
	anchorNoticeEmail     = "(inserir o e-mail oficial do escritório para recebimento de intimações)"
	anchorClauseImage     = "(transcrever ou printar a cláusula do contrato relativa ao pagamento)"
)

// Rule maps one template anchor to its resolved replacement text.
type Rule struct {
	Anchor string
	Value  string
}

// Rules resolves the ordered substitution list for a contract. Order is
// load-bearing: the historical-debt rule consumes the first debt anchor,
// leaving later occurrences for the updated-debt pass.
func Rules(c *entity.Contract, cfg office.Config) []Rule {
	var rules []Rule

	if len(c.Landlords) > 0 {
		rules = append(rules, Rule{anchorLandlordBlock, landlordBlock(c.Landlords, cfg)})
	}
	if len(c.Tenants) > 0 {
		rules = append(rules, Rule{anchorTenantBlock, tenantBlock(c.Tenants)})
	}

	propertyAddress := c.Property.FullAddress()
	if propertyAddress == "" {
		propertyAddress = "(inserir endereço do imóvel)"
	}
	rules = append(rules,
		Rule{anchorPropertyAddress, propertyAddress},
		Rule{anchorTenantAddress, propertyAddress},
	)

	if c.HistoricalDebt.IsPositive() {
		rules = append(rules, Rule{anchorDebtValue, moneyInFull(c.HistoricalDebt)})
	}
	if claim := c.ClaimValue(); claim.IsPositive() {
		rules = append(rules, Rule{anchorClaimValue, moneyInFull(claim)})
	}

	rules = append(rules,
		Rule{anchorDateCity, c.City + ", " + format.Date(time.Time{}) + "."},
		Rule{anchorOfficePhone, cfg.OfficePhone},
		Rule{anchorOfficeWhatsApp, cfg.OfficeWhatsApp},
		Rule{anchorOfficeEmail, cfg.OfficeEmail},
		Rule{anchorLawyerName, cfg.LawyerName},
		Rule{anchorLawyerOAB, cfg.LawyerOAB},
		Rule{anchorOfficeAddress, cfg.OfficeAddress},
		Rule{anchorNoticeEmail, cfg.NoticeEmailOrFallback()},
	)
	return rules
}

// moneyInFull renders "R$1.234,56 (mil duzentos e trinta e quatro reais e
// cinquenta e seis centavos)" for the petition body.
func moneyInFull(v decimal.Decimal) string {
	return format.Currency(v) + " (" + format.AmountInWords(v) + ")"
}

func landlordBlock(landlords []entity.Landlord, cfg office.Config) string {
	blocks := make([]string, 0, len(landlords))
	for _, l := range landlords {
		var sb strings.Builder
		sb.WriteString(strings.ToUpper(l.Name))
		sb.WriteString(", ")
		sb.WriteString(cfg.DefaultNationality)
		sb.WriteString(", inscrito(a) no CPF sob o nº ")
		sb.WriteString(orMarker(l.CPF, "(inserir o CPF do locador)"))
		if l.RG != "" {
			sb.WriteString(" e no RG nº ")
			sb.WriteString(l.RG)
		}
		sb.WriteString(", residente e domiciliado(a) à ")
		sb.WriteString(orMarker(l.Address, "(incluir endereço completo do locador)"))
		sb.WriteString(", com endereço eletrônico ")
		sb.WriteString(orMarker(l.Email, "(inserir o e-mail)"))
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, ", e ")
}

// tenantBlock qualifies at most the first two tenants, the second joined
// with " e ". The template's signature area only accommodates two.
func tenantBlock(tenants []entity.Tenant) string {
	block := tenantQualification(tenants[0])
	if len(tenants) > 1 {
		block += " e " + tenantQualification(tenants[1])
	}
	return block
}

func tenantQualification(t entity.Tenant) string {
	return strings.ToUpper(t.Name) + ", (" + t.Nationality + "),  " +
		"inscrito(a) no CPF sob o n.º " + orMarker(t.CPF, "(inserir o CPF do Inquilino)") + ", " +
		"Telefone " + orMarker(t.Phone, "(DDD) (número do whatsapp do Inquilino)") + ", " +
		"e-mail(s) " + orMarker(t.Email, "(inserir o endereço eletrônico do Inquilino)")
}

func orMarker(value, marker string) string {
	if value == "" {
		return marker
	}
	return value
}
