package csvload

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// LoadError means the source itself is unusable: file missing, unreadable,
// or not valid delimited text. Row-level problems never produce a LoadError;
// they surface later as dropped rows.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RawTable is a parsed CSV with its original column names. Values are
// trimmed of surrounding whitespace but otherwise untouched.
type RawTable struct {
	Headers []string
	Rows    []map[string]string
}

// HasColumn reports whether the source declared the named column.
func (t *RawTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Parse reads delimited text into a RawTable. Invalid UTF-8 bytes are
// dropped rather than failing the load. Short rows are padded with empty
// cells, extra cells are ignored.
func Parse(content string) (*RawTable, error) {
	content = strings.ToValidUTF8(content, "")

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Source: "csv", Err: err}
	}

	if len(records) == 0 {
		return &RawTable{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Headers: headers}
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(record) {
				row[header] = strings.TrimSpace(record[j])
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
