package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyWorkbook is returned when the uploaded file has no rows at all.
	ErrEmptyWorkbook = errors.New("workbook contains no rows")
	// ErrBadWorkbook wraps excelize failures reading the upload, so handlers
	// can tell a broken file from an internal error.
	ErrBadWorkbook = errors.New("workbook could not be read")
)

// HeaderError reports required columns missing from the header row. It
// aborts the whole import before any row is processed.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Record is one named-field data row, keyed by external column name.
// Row is the 1-based data row number (header row excluded), used for
// "Row N" error keys.
type Record struct {
	Row    int
	Fields map[string]string
}

// ParseRecords reads the first worksheet and zips each non-blank data row
// against the trimmed header row. Structural problems with individual rows
// (wrong cell count) are collected into rowErrors under their "Row N" key;
// they do not stop processing of subsequent rows.
func ParseRecords(r io.Reader) ([]Record, map[string][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyWorkbook
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if missing := missingHeaders(headers); len(missing) > 0 {
		return nil, nil, &HeaderError{Missing: missing}
	}

	records := []Record{}
	rowErrors := map[string][]string{}

	for i, cells := range rows[1:] {
		rowNum := i + 1

		if isBlankRow(cells) {
			continue
		}
		if len(cells) > len(headers) {
			rowErrors[rowKey(rowNum)] = append(rowErrors[rowKey(rowNum)],
				fmt.Sprintf("row has %d cells but the sheet has %d columns", len(cells), len(headers)))
			continue
		}

		fields := make(map[string]string, len(headers))
		for col, name := range headers {
			if name == "" {
				continue
			}
			value := ""
			if col < len(cells) {
				value = strings.TrimSpace(cells[col])
			}
			fields[name] = value
		}
		records = append(records, Record{Row: rowNum, Fields: fields})
	}

	return records, rowErrors, nil
}

// ValidateRecord checks one record against the per-column rule set and
// returns human-readable violation messages. Uniqueness of the student
// number is the caller's concern since it needs store access.
func ValidateRecord(rec Record) []string {
	var msgs []string

	for _, name := range ImportHeaders {
		value := rec.Fields[name]

		if value == "" {
			if !optionalColumns[name] {
				msgs = append(msgs, fmt.Sprintf("The %s field is required.", name))
			}
			continue
		}

		if allowed, ok := columnEnums[name]; ok && !contains(allowed, value) {
			msgs = append(msgs, fmt.Sprintf("The %s field must be one of: %s.", name, strings.Join(allowed, ", ")))
		}

		if name == "Email" {
			if _, err := mail.ParseAddress(value); err != nil {
				msgs = append(msgs, "The Email field must be a valid email address.")
			}
		}
	}

	return msgs
}

// rowKey renders the aggregated-error key for a data row.
func rowKey(row int) string {
	return fmt.Sprintf("Row %d", row)
}

// RowKey exposes the "Row N" key format for callers aggregating their own
// errors (e.g. store-level uniqueness failures).
func RowKey(row int) string {
	return rowKey(row)
}

func missingHeaders(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, required := range ImportHeaders {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
