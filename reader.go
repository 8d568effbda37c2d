package qfx

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadStatement reads the activity rows of an export file, dispatching on
// the extension: .xlsx opens as a workbook, anything else as CSV.
func ReadStatement(path string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads the activity rows of a CSV export. Reading is line based:
// exports never quote line breaks inside fields, and the first blank line
// after the header matters, it separates the data region from the footer
// disclaimers.
func ReadCSV(r io.Reader) ([]Row, error) {
	scanner := bufio.NewScanner(r)
	var records [][]string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			// exports are often written with a byte order mark
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			records = append(records, nil)
			continue
		}
		cr := csv.NewReader(strings.NewReader(line))
		// footer disclaimers quote sloppily
		cr.LazyQuotes = true
		record, err := cr.Read()
		if err != nil {
			return nil, fmt.Errorf("reading statement: %w", err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return buildRows(records)
}

// ReadXLSX reads the activity rows from the first sheet of a workbook
// export. Sheets go through the same header detection as CSV files.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrHeaderNotFound)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return buildRows(records)
}

// buildRows scans records for the header row, skipping the export preamble,
// then collects data rows until the first fully empty record. The header is
// the first record whose leading cells are "Date" and "Account".
func buildRows(records [][]string) ([]Row, error) {
	header := -1
	for i, record := range records {
		if len(record) >= 2 &&
			strings.TrimSpace(record[0]) == "Date" &&
			strings.TrimSpace(record[1]) == "Account" {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("%w: no row starts with %q, %q cells", ErrHeaderNotFound, "Date", "Account")
	}
	cols, err := columnIndex(records[header])
	if err != nil {
		return nil, err
	}
	var rows []Row
	for _, record := range records[header+1:] {
		if recordIsEmpty(record) {
			break
		}
		rows = append(rows, newRow(cols, record))
	}
	return rows, nil
}

// recordIsEmpty reports whether every cell of the record is blank.
func recordIsEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
