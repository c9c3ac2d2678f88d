// Package table reads the parameter table: one row per case, columns of
// opaque string values. The engine never interprets the values; it only
// moves them verbatim into patch rules.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"slices"
)

// CaseNameColumn is the mandatory column naming each row's output case.
const CaseNameColumn = "case_name"

// Row is one parameter row: a named set of raw string values plus the
// case name it builds.
type Row struct {
	CaseName string
	values   map[string]string
}

// Lookup returns the raw value of the named column and whether it exists.
func (r *Row) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Table is the whole parameter sweep in input order. Columns preserves the
// header order for reporting.
type Table struct {
	Columns []string
	Rows    []*Row
}

// Load reads a CSV parameter table. The first record is the header; a
// case_name column is required and the table must contain at least one row.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameter table %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parameter table %s is empty", path)
	}

	header := records[0]
	if !slices.Contains(header, CaseNameColumn) {
		return nil, fmt.Errorf("parameter table %s has no %q column", path, CaseNameColumn)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("parameter table %s has a header but no rows", path)
	}

	tbl := &Table{Columns: header}
	for _, record := range records[1:] {
		values := make(map[string]string, len(header))
		for i, col := range header {
			values[col] = record[i]
		}
		row := &Row{CaseName: values[CaseNameColumn], values: values}
		if row.CaseName == "" {
			return nil, fmt.Errorf("parameter table %s has a row with an empty %s", path, CaseNameColumn)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
