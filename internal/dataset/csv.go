package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// ReadCSV loads a headed CSV file into a table.
// A column is typed integer when every non-empty cell parses as a base-10 int64;
// empty cells are null.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", common.ErrDataAccess, path, err)
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseCSV reads a headed CSV stream into a table.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", common.ErrDataAccess)
		}
		return nil, fmt.Errorf("%w: failed to read header: %v", common.ErrDataAccess, err)
	}

	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDataAccess, err)
		}
		records = append(records, record)
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name, Kind: inferKind(records, i)}
	}

	t := &Table{Columns: columns, Rows: make([]Row, len(records))}
	for r, record := range records {
		row := make(Row, len(record))
		for c, cell := range record {
			row[c] = parseCell(cell, columns[c].Kind)
		}
		t.Rows[r] = row
	}
	return t, nil
}

func inferKind(records [][]string, col int) Kind {
	sawValue := false
	for _, record := range records {
		cell := record[col]
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			return KindText
		}
		sawValue = true
	}
	if !sawValue {
		return KindText
	}
	return KindInteger
}

func parseCell(cell string, kind Kind) Value {
	if cell == "" {
		return Null()
	}
	if kind == KindInteger {
		// inferKind already proved the cell parses.
		n, _ := strconv.ParseInt(cell, 10, 64)
		return Int(n)
	}
	return Text(cell)
}
