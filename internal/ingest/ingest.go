package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular dataset: one header row plus string records. Cell
// values stay untyped strings so identifiers like mobile numbers keep their
// leading zeros.
type Table struct {
	Headers []string
	Rows    [][]string
}

var ErrNoDataRows = errors.New("no data rows")

// FromUpload parses an uploaded call log by file extension. Only .csv and
// .xlsx are accepted; for workbooks the first sheet is read.
func FromUpload(file *multipart.FileHeader) (Table, error) {
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".csv":
		return readCSV(file)
	case ".xlsx":
		return readXLSX(file)
	default:
		return Table{}, fmt.Errorf("unsupported file type %q: want .csv or .xlsx", filepath.Ext(file.Filename))
	}
}

func readCSV(file *multipart.FileHeader) (Table, error) {
	f, err := file.Open()
	if err != nil {
		return Table{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	stripBOM(headers)

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return Table{}, ErrNoDataRows
	}
	return Table{Headers: headers, Rows: rows}, nil
}

func readXLSX(file *multipart.FileHeader) (Table, error) {
	f, err := file.Open()
	if err != nil {
		return Table{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= 1 {
		return Table{}, ErrNoDataRows
	}
	headers := rows[0]
	stripBOM(headers)
	return Table{Headers: headers, Rows: rows[1:]}, nil
}

// stripBOM removes a UTF-8 byte order mark from the first header cell; some
// exports prepend one and it would break the exact column-name match.
func stripBOM(headers []string) {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
}
