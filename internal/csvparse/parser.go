// Package csvparse converts raw delimited text into lead candidate rows.
//
// Unlike the JSON import path, which silently drops invalid candidates,
// this parser retains every non-empty row and attaches all validation
// failures it finds, so callers can render a full pre-submission review.
// Only structural problems with the CSV itself (quoting, field counts,
// an empty table) reject the whole operation.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/prospecta/leadpipe/internal/lead"
)

// Row is one emitted data row with its diagnostics. Required fields
// default to "" when absent so a row always renders; optional fields
// stay nil when absent. RowIndex is the 1-based source position counting
// the header as row 1, so the first data row is 2.
type Row struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	JobTitle    *string  `json:"jobTitle,omitempty"`
	CountryCode *string  `json:"countryCode,omitempty"`
	CompanyName *string  `json:"companyName,omitempty"`
	IsValid     bool     `json:"isValid"`
	Errors      []string `json:"errors"`
	RowIndex    int      `json:"rowIndex"`
}

// Parse decodes comma-delimited text with a mandatory header row into
// candidate rows. Header matching is case-insensitive and ignores
// non-alphabetic characters ("First Name", "FIRSTNAME" and "firstname"
// all map to the same field); unrecognized columns are ignored.
//
// Rows whose cells are all empty are skipped entirely. Every other row
// is emitted with the full list of validation errors found, never just
// the first.
func Parse(text string) ([]Row, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("CSV content cannot be empty")
	}

	reader := csv.NewReader(strings.NewReader(text))
	records, err := reader.ReadAll()
	if err != nil {
		// encoding/csv only reports structural problems (quoting,
		// delimiters, field-count mismatches); all of them reject the
		// whole parse rather than yielding partial results.
		return nil, fmt.Errorf("CSV parsing failed: %v", err)
	}

	if len(records) < 2 {
		return nil, errors.New("CSV file appears to be empty or contains no valid data")
	}

	header := records[0]
	fieldPos := make(map[string]int, len(header))
	for i, h := range header {
		fieldPos[normalizeHeader(h)] = i
	}

	dataRows := records[1:]
	rows := make([]Row, 0, len(dataRows))

	for i, record := range dataRows {
		if isEmptyRow(record) {
			// Skipped rows still consume their source index so emitted
			// rows keep pointing at the right line in the file.
			continue
		}
		rows = append(rows, buildRow(record, fieldPos, i+2))
	}

	return rows, nil
}

// buildRow maps one record onto the recognized field set and validates
// it, accumulating every applicable error.
func buildRow(record []string, fieldPos map[string]int, rowIndex int) Row {
	row := Row{RowIndex: rowIndex}

	row.FirstName = cell(record, fieldPos, "firstname")
	row.LastName = cell(record, fieldPos, "lastname")
	row.Email = cell(record, fieldPos, "email")
	row.JobTitle = optionalCell(record, fieldPos, "jobtitle")
	row.CompanyName = optionalCell(record, fieldPos, "companyname")

	countryCode := cell(record, fieldPos, "countrycode")

	var errs []string
	if row.FirstName == "" {
		errs = append(errs, "First name is required")
	}
	if row.LastName == "" {
		errs = append(errs, "Last name is required")
	}
	if row.Email == "" {
		errs = append(errs, "Email is required")
	} else if !lead.IsValidEmail(row.Email) {
		errs = append(errs, "Invalid email format")
	}
	// Country code is optional: absence is never penalized, the check
	// only runs when a value is present.
	if countryCode != "" {
		if !IsValidCountryCode(countryCode) {
			errs = append(errs, "Country code is not valid")
		}
		upper := strings.ToUpper(countryCode)
		row.CountryCode = &upper
	}

	row.Errors = errs
	row.IsValid = len(errs) == 0
	return row
}

// cell returns the trimmed value for a recognized field, or "" when the
// column is absent or the record is short.
func cell(record []string, fieldPos map[string]int, field string) string {
	pos, ok := fieldPos[field]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// optionalCell is like cell but returns nil for absent or empty values.
func optionalCell(record []string, fieldPos map[string]int, field string) *string {
	v := cell(record, fieldPos, field)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeHeader lowercases a header cell and strips everything outside
// a-z, so "First Name" and "FIRSTNAME" both become "firstname".
func normalizeHeader(h string) string {
	var b strings.Builder
	b.Grow(len(h))
	for _, r := range strings.ToLower(h) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isEmptyRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
