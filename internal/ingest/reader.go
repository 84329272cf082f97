package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row mapped from column name to cell value. Cells
// arrive loosely typed from the upload; the normalizer parses and validates
// them before anything reaches the store.
type Row map[string]string

// Dataset is an ordered sequence of uploaded rows. The first spreadsheet row
// is treated as the header and is not part of the dataset.
type Dataset []Row

// DecodeSpreadsheet decodes an uploaded file into a Dataset, dispatching on
// the filename extension. CSV and XLSX are supported.
func DecodeSpreadsheet(r io.Reader, filename string) (Dataset, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return DecodeCSV(r)
	case ".xlsx":
		return DecodeXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// DecodeCSV reads a comma-separated file with a header row into a Dataset.
func DecodeCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var dataset Dataset
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(dataset)+1, err)
		}

		if row := buildRow(header, cells); len(row) > 0 {
			dataset = append(dataset, row)
		}
	}

	return dataset, nil
}

// DecodeXLSX reads the first sheet of a workbook into a Dataset.
func DecodeXLSX(r io.Reader) (Dataset, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet: missing header row")
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}

	var dataset Dataset
	for _, cells := range rows[1:] {
		if row := buildRow(header, cells); len(row) > 0 {
			dataset = append(dataset, row)
		}
	}

	return dataset, nil
}

// buildRow zips header names with cell values, dropping blank cells. A fully
// blank row yields an empty map and is skipped by the decoders.
func buildRow(header, cells []string) Row {
	row := make(Row)
	for i, cell := range cells {
		if i >= len(header) || header[i] == "" {
			continue
		}
		value := strings.TrimSpace(cell)
		if value == "" {
			continue
		}
		row[header[i]] = value
	}
	return row
}
