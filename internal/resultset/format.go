/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package resultset

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render
const (
	FormatJSON     = "json"
	FormatMarkdown = "md"
	FormatCSV      = "csv"
	FormatYAML     = "yaml"
	FormatXLSX     = "xlsx"
	FormatHTML     = "html"
)

// Formats lists every format Render accepts
var Formats = []string{FormatJSON, FormatMarkdown, FormatCSV, FormatYAML, FormatXLSX, FormatHTML}

// CheckFormat returns ErrUnsupportedFormat for a format Render rejects
func CheckFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// MIME types of the attachment formats
const (
	MimeCSV  = "text/csv"
	MimeYAML = "text/yaml"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeHTML = "text/html"
)

// ErrUnsupportedFormat is returned for an unknown format name
var ErrUnsupportedFormat = errors.New("unsupported format")

// Kind says which message shape an Output carries
type Kind int

const (
	KindJSON Kind = iota
	KindText
	KindBlob
)

// Output is a rendered result: a JSON payload, plain text, or a binary
// attachment with a MIME type and file name
type Output struct {
	Kind     Kind
	JSON     interface{}
	Text     string
	Blob     []byte
	MimeType string
	Filename string
}

// Render encodes the result set in the requested format
func Render(rs *ResultSet, format string) (Output, error) {
	switch format {
	case FormatJSON:
		return Output{Kind: KindJSON, JSON: map[string]interface{}{"result": rs.Records()}}, nil
	case FormatMarkdown:
		return Output{Kind: KindText, Text: newTable(rs).RenderMarkdown()}, nil
	case FormatCSV:
		return blob([]byte(newTable(rs).RenderCSV()), MimeCSV, "result.csv"), nil
	case FormatYAML:
		data, err := renderYAML(rs)
		if err != nil {
			return Output{}, err
		}
		return blob(data, MimeYAML, "result.yaml"), nil
	case FormatXLSX:
		data, err := renderXLSX(rs)
		if err != nil {
			return Output{}, err
		}
		return blob(data, MimeXLSX, "result.xlsx"), nil
	case FormatHTML:
		return blob([]byte(newTable(rs).RenderHTML()), MimeHTML, "result.html"), nil
	default:
		return Output{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func blob(data []byte, mimeType, filename string) Output {
	return Output{Kind: KindBlob, Blob: data, MimeType: mimeType, Filename: filename}
}

func newTable(rs *ResultSet) table.Writer {
	t := table.NewWriter()

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rs.Rows {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		t.AppendRow(cells)
	}
	return t
}

// renderYAML writes a sequence of mappings, keys in column order
func renderYAML(rs *ResultSet) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rs.Rows {
		mapping := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range rs.Columns {
			key := &yaml.Node{Kind: yaml.ScalarNode, Value: col}
			value := &yaml.Node{}
			if err := value.Encode(row[i]); err != nil {
				return nil, fmt.Errorf("failed to encode column %s: %w", col, err)
			}
			mapping.Content = append(mapping.Content, key, value)
		}
		doc.Content = append(doc.Content, mapping)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render yaml: %w", err)
	}
	return data, nil
}

// renderXLSX writes a header row and the data rows to the first sheet
func renderXLSX(rs *ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	writeRow := func(rowNum int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	header := make([]interface{}, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	if err := writeRow(1, header); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for r, row := range rs.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = xlsxCell(v)
		}
		if err := writeRow(r+2, cells); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row %d: %w", r+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxCell(v interface{}) interface{} {
	switch v.(type) {
	case nil:
		return nil
	case string, bool, int, int64, uint64, float64:
		return v
	default:
		return FormatValue(v)
	}
}
