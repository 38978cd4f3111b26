package storage

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Row is a single record of a reference table keyed by column name.
// Columns missing from a short row are absent from the map.
type Row map[string]string

// Table is a parsed tabular reference file.
type Table struct {
	Header []string
	Rows   []Row
}

// ReadTable opens a CSV reference file and parses it into a Table.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open table %s", path)
	}
	defer f.Close()

	table, err := ParseTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse table %s", path)
	}
	return table, nil
}

// ParseTable reads CSV content whose first record is the header.
func ParseTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("table has no header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
	}
	// Exports from spreadsheet tools often start with a UTF-8 BOM.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d", len(table.Rows)+1)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row[col] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
