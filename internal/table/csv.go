package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CSVOptions controls CSV reading.
type CSVOptions struct {
	// Delimiter for fields. If 0, ',' is used ('\t' for .tsv files).
	Delimiter rune
}

// ReadCSV reads a delimited file with a header row into a Table.
func ReadCSV(path string, opt CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
		if strings.HasSuffix(strings.ToLower(path), ".tsv") {
			delim = '\t'
		}
	}

	tbl, err := readCSVFrom(f, delim)
	if err != nil {
		return nil, err
	}
	tbl.Name = baseName(path)
	return tbl, nil
}

func readCSVFrom(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	tbl := &Table{Columns: cols}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(tbl.Rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
