// Package extract reads contract spreadsheets and assembles canonical
// Contract records. The spreadsheets are human-maintained: sheet names,
// column casing and cell contents are all inconsistent, so everything here
// is matched and parsed permissively. Only a missing contacts sheet (or one
// without the contract-number column) is a hard failure.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gondimadv/arbitral/internal/common"
	"github.com/gondimadv/arbitral/internal/entity"
	"github.com/gondimadv/arbitral/internal/format"
	"github.com/gondimadv/arbitral/internal/office"
)

// Column names on the contacts sheet, post-normalization.
const (
	colContract       = "contrato"
	colTenantNames    = "nome inqs"
	colTenantEmails   = "email inqs"
	colTenantPhones   = "tel inqs"
	colTenantCPFs     = "cpf_iqs"
	colLandlordNames  = "nome pps"
	colLandlordEmails = "email pps"
	colLandlordPhones = "tel pp"
	colLandlordCPFs   = "cpf_pps"
	colLandlordRGs    = "rg_pps"
	colLandlordAddrs  = "endereco_pps"
	colCity           = "cidade"
	colRentValue      = "valor_aluguel"
	colCondoFee       = "valor_condominio"
	colPropertyTax    = "valor_iptu"
	colInsuranceFee   = "valor_seguro_incendio"
	colHistoricalDebt = "valor_historico"
	colUpdatedDebt    = "valor_atualizado"
)

// Column names on the address sheet. The export that produces it comes from
// a different system, hence the English names and the different key column.
const (
	colAddrContract     = "contract"
	colAddrStreet       = "house_address"
	colAddrComplement   = "house_complement"
	colAddrNeighborhood = "house_neighborhood"
	colAddrCity         = "house_city"
	colAddrZip          = "house_zipcode"
)

// Extractor indexes one spreadsheet's contacts and address sheets by
// contract number. The indexes are built once at load time and are
// read-only afterwards, so concurrent Contract calls are safe.
type Extractor struct {
	contacts   []RawRecord
	contactIdx map[string]RawRecord
	addressIdx map[string]RawRecord
	numbers    []string
	office     office.Config
	logger     *slog.Logger
}

// Open loads a spreadsheet from disk.
func Open(path string, cfg office.Config, logger *slog.Logger) (*Extractor, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.WrapError(err, "open spreadsheet")
	}
	defer func() { _ = f.Close() }()
	return load(f, cfg, logger)
}

// OpenReader loads a spreadsheet from a stream (uploads).
func OpenReader(r io.Reader, cfg office.Config, logger *slog.Logger) (*Extractor, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.WrapError(err, "open spreadsheet")
	}
	defer func() { _ = f.Close() }()
	return load(f, cfg, logger)
}

func load(f *excelize.File, cfg office.Config, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		contactIdx: make(map[string]RawRecord),
		addressIdx: make(map[string]RawRecord),
		office:     cfg,
		logger:     logger,
	}

	var contactsSheet, addressSheet string
	for _, sheet := range f.GetSheetList() {
		name := strings.ToLower(sheet)
		switch {
		case strings.Contains(name, "endere") && addressSheet == "":
			addressSheet = sheet
		case (strings.Contains(name, "contato") || strings.Contains(name, "base")) && contactsSheet == "":
			contactsSheet = sheet
		}
	}

	if contactsSheet == "" {
		return nil, fmt.Errorf("no contacts sheet in workbook: %w", common.ErrBadSource)
	}

	contacts, headers, err := sheetRecords(f, contactsSheet)
	if err != nil {
		return nil, common.WrapError(err, "read contacts sheet")
	}
	e.contacts = contacts

	// The header row decides indexability, not the data rows: a sheet with
	// the right columns and no contracts yet is valid, one without the
	// contract column never is.
	hasContractCol := false
	for _, h := range headers {
		if h == colContract {
			hasContractCol = true
			break
		}
	}
	if !hasContractCol {
		return nil, fmt.Errorf("contacts sheet %q has no %q column: %w", contactsSheet, colContract, common.ErrBadSource)
	}

	for _, row := range contacts {
		number := row.Get(colContract)
		if number == "" {
			continue
		}
		if _, dup := e.contactIdx[number]; !dup {
			e.contactIdx[number] = row
			e.numbers = append(e.numbers, number)
		}
	}

	if addressSheet != "" {
		addresses, _, err := sheetRecords(f, addressSheet)
		if err != nil {
			return nil, common.WrapError(err, "read address sheet")
		}
		for _, row := range addresses {
			number := row.Get(colAddrContract)
			if number == "" {
				continue
			}
			if _, dup := e.addressIdx[number]; !dup {
				e.addressIdx[number] = row
			}
		}
	}

	logger.Info("spreadsheet.loaded",
		"contacts_sheet", contactsSheet,
		"address_sheet", addressSheet,
		"contracts", len(e.numbers),
	)
	return e, nil
}

// sheetRecords reads a sheet into RawRecords, normalizing header names.
// The normalized header row is returned alongside the data rows.
func sheetRecords(f *excelize.File, sheet string) ([]RawRecord, []string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []RawRecord
	for _, row := range rows[1:] {
		rec := make(RawRecord, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			rec[h] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, headers, nil
}

// ContractNumbers returns the distinct contract numbers in first-appearance
// order on the contacts sheet.
func (e *Extractor) ContractNumbers() []string {
	out := make([]string, len(e.numbers))
	copy(out, e.numbers)
	return out
}

// Rows returns the raw contacts rows in sheet order, for pendência checks.
func (e *Extractor) Rows() []RawRecord {
	return e.contacts
}

// Contract assembles the canonical record for a contract number. The second
// return is false when the number is not on the contacts sheet; that is a
// normal outcome the caller must branch on, not an error.
func (e *Extractor) Contract(number string) (*entity.Contract, bool) {
	row, ok := e.contactIdx[number]
	if !ok {
		e.logger.Warn("contract.not_found", "contract", number)
		return nil, false
	}

	c := &entity.Contract{Number: number}

	tenantNames := SplitValues(row.Get(colTenantNames))
	tenantEmails := SplitValues(row.Get(colTenantEmails))
	tenantPhones := SplitValues(row.Get(colTenantPhones))
	tenantCPFs := SplitValues(row.Get(colTenantCPFs))

	for i, name := range tenantNames {
		c.Tenants = append(c.Tenants, entity.Tenant{
			Name: name,
			// Tenant CPFs are never borrowed across positions; a wrong
			// CPF on a filing is worse than a fill-in marker.
			CPF:         format.CPF(valueAt(tenantCPFs, i, false)),
			Phone:       format.Phone(valueAt(tenantPhones, i, true)),
			Email:       valueAt(tenantEmails, i, true),
			Nationality: e.office.DefaultNationality,
		})
	}

	landlordNames := SplitValues(row.Get(colLandlordNames))
	landlordEmails := SplitValues(row.Get(colLandlordEmails))
	landlordPhones := SplitValues(row.Get(colLandlordPhones))
	landlordCPFs := SplitValues(row.Get(colLandlordCPFs))
	landlordRGs := SplitValues(row.Get(colLandlordRGs))
	landlordAddrs := SplitValues(row.Get(colLandlordAddrs))

	for i, name := range landlordNames {
		c.Landlords = append(c.Landlords, entity.Landlord{
			Name:    name,
			CPF:     format.CPF(valueAt(landlordCPFs, i, true)),
			RG:      valueAt(landlordRGs, i, true),
			Phone:   format.Phone(valueAt(landlordPhones, i, true)),
			Email:   valueAt(landlordEmails, i, true),
			Address: valueAt(landlordAddrs, i, true),
		})
	}

	if addr, ok := e.addressIdx[number]; ok {
		c.Property = entity.Property{
			Address:      addr.Get(colAddrStreet),
			Complement:   addr.Get(colAddrComplement),
			Neighborhood: addr.Get(colAddrNeighborhood),
			City:         addr.Get(colAddrCity),
			ZipCode:      addr.Get(colAddrZip),
		}
	}

	c.City = row.Get(colCity)
	if c.City == "" {
		c.City = e.office.DefaultCity
	}

	c.RentValue = parseMoney(row.Get(colRentValue))
	c.CondoFee = parseMoney(row.Get(colCondoFee))
	c.PropertyTax = parseMoney(row.Get(colPropertyTax))
	c.InsuranceFee = parseMoney(row.Get(colInsuranceFee))
	c.HistoricalDebt = parseMoney(row.Get(colHistoricalDebt))
	c.UpdatedDebt = parseMoney(row.Get(colUpdatedDebt))

	return c, true
}

// parseMoney parses a monetary cell permissively: blank, null-like or
// non-numeric values resolve to zero, and negatives are clamped to zero
// since no monetary field of a contract may go below it.
func parseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null", "-":
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero
	}
	return v
}
