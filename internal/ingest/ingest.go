// Package ingest reads delimited and spreadsheet ledger files into a uniform
// in-memory table. All cells are normalized, empty rows dropped, and data rows
// padded or truncated to the header width so downstream stages can index
// columns without bounds checks.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const nbsp = " "

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoData means the file has no header row or no data rows.
	ErrNoData = errors.New("file must have a header row and at least one data row")
)

// Table is one parsed input file.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Read dispatches on the lowercased file extension: .csv/.txt, .xlsx and
// legacy .xls are accepted.
func Read(filename string, data []byte) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var rows [][]string
	var err error
	switch ext {
	case ".csv", ".txt":
		rows, err = readCSV(data)
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(filename, rows)
}

func buildTable(filename string, raw [][]string) (*Table, error) {
	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		nr := make([]string, len(r))
		for j, cell := range r {
			nr[j] = normalizeCell(cell)
		}
		if isEmptyRow(nr) {
			continue
		}
		rows = append(rows, nr)
	}
	if len(rows) < 2 {
		return nil, ErrNoData
	}
	headers := rows[0]
	width := len(headers)
	data := make([][]string, len(rows)-1)
	for i, r := range rows[1:] {
		switch {
		case len(r) < width:
			padded := make([]string, width)
			copy(padded, r)
			r = padded
		case len(r) > width:
			r = r[:width]
		}
		data[i] = r
	}
	return &Table{Name: filepath.Base(filename), Headers: headers, Rows: data}, nil
}

// normalizeCell trims, removes non-breaking spaces and collapses whitespace.
func normalizeCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, nbsp, " ")
	return strings.Join(strings.Fields(s), " ")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		// Exports from older accounting tools arrive as Windows-1252.
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
		if err == nil {
			data = decoded
		}
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	if d := detectDelimiter(data); d != 0 {
		r.Comma = d
	}
	return r.ReadAll()
}

// detectDelimiter prefers ';' when the header line carries more of them than
// commas, the common shape of European CSV exports.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return 0
}

func readXLSX(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer xl.Close()
	return xl.GetRows(xl.GetSheetName(0))
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls has no sheets")
	}
	last := int(sheet.MaxRow)
	rows := make([][]string, 0, last+1)
	for i := 0; i <= last; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
