// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
)

// # CSV Wire Format
//
// Import is lenient: headers are matched case-insensitively against a
// synonym table, unknown columns are ignored, and rows missing the two
// mandatory fields (name, email) are skipped rather than failing the batch.
// Export always emits the canonical header order below.

// exportHeader is the canonical column order for exported files.
var exportHeader = []string{
	FieldName, FieldTitle, FieldCompany, FieldEmail,
	FieldMobilePhone, FieldWorkPhone, FieldFax,
	FieldWebsite, FieldAddress, FieldNotes,
}

// headerSynonyms maps normalized incoming header names to canonical fields.
var headerSynonyms = map[string]string{
	"name":          FieldName,
	"full name":     FieldName,
	"contact name":  FieldName,
	"title":         FieldTitle,
	"job title":     FieldTitle,
	"position":      FieldTitle,
	"company":       FieldCompany,
	"organization":  FieldCompany,
	"organisation":  FieldCompany,
	"email":         FieldEmail,
	"e-mail":        FieldEmail,
	"email address": FieldEmail,
	"mobile phone":  FieldMobilePhone,
	"mobile":        FieldMobilePhone,
	"cell":          FieldMobilePhone,
	"cell phone":    FieldMobilePhone,
	"work phone":    FieldWorkPhone,
	"phone":         FieldWorkPhone,
	"office phone":  FieldWorkPhone,
	"fax":           FieldFax,
	"website":       FieldWebsite,
	"web site":      FieldWebsite,
	"url":           FieldWebsite,
	"address":       FieldAddress,
	"notes":         FieldNotes,
	"note":          FieldNotes,
	"comments":      FieldNotes,
}

func normalizeHeader(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "\uFEFF") // byte order mark on the first column
	return strings.Join(strings.Fields(strings.ReplaceAll(cleaned, "_", " ")), " ")
}

// importRow is one parsed data row keyed by canonical field name.
type importRow map[string]string

// parseImport reads a CSV stream and returns the usable rows plus the count
// of rows skipped for missing mandatory fields.
func parseImport(reader io.Reader) ([]importRow, int, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1 // ragged rows are tolerated, not fatal

	header, err := csvReader.Read()
	if err != nil {
		return nil, 0, err
	}

	// Map each column index to a canonical field, ignoring unknown columns.
	columns := make(map[int]string, len(header))
	for index, name := range header {
		if field, known := headerSynonyms[normalizeHeader(name)]; known {
			columns[index] = field
		}
	}

	rows := make([]importRow, 0)
	skipped := 0

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is a skip, not a batch failure.
			skipped++
			continue
		}

		row := importRow{}
		for index, value := range record {
			if field, known := columns[index]; known {
				row[field] = strings.TrimSpace(value)
			}
		}

		if row[FieldName] == "" || row[FieldEmail] == "" {
			skipped++
			continue
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

// writeExport writes the full directory to a CSV stream in canonical order.
func writeExport(writer io.Writer, entries []*Contact) error {
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(exportHeader); err != nil {
		return err
	}

	for _, contact := range entries {
		record := []string{
			contact.Name, contact.Title, contact.Company, contact.Email,
			contact.MobilePhone, contact.WorkPhone, contact.Fax,
			contact.Website, contact.Address, stripHTML(contact.Notes),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

var (
	htmlBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// stripHTML flattens rich-text notes for CSV output. Paragraph and line
// break tags become newlines, every other tag is dropped.
func stripHTML(notes string) string {
	if !strings.Contains(notes, "<") {
		return notes
	}

	flattened := htmlBreakPattern.ReplaceAllString(notes, "\n")
	flattened = htmlTagPattern.ReplaceAllString(flattened, "")
	return strings.TrimSpace(flattened)
}
