// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/catmatch/internal/cmd/constants"
	"github.com/agentstation/catmatch/internal/cmd/table"
)

// Format types for output.
type Format string

const (
	// FormatText prints plain lines.
	FormatText Format = constants.FormatText
	// FormatTable represents table output format.
	FormatTable Format = constants.FormatTable
	// FormatJSON represents JSON output format.
	FormatJSON Format = constants.FormatJSON
	// FormatYAML represents YAML output format.
	FormatYAML Format = constants.FormatYAML
)

// Texter is implemented by data with a plain-text rendering.
type Texter interface {
	Text() string
}

// Tabler is implemented by data with a tabular rendering.
type Tabler interface {
	Table() table.Data
}

// Footer is implemented by tabular data that prints a line after the table.
type Footer interface {
	Footer() string
}

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &TextFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TextFormatter prints Texter data as is and tables as comma-separated lines.
type TextFormatter struct{}

// Format implements the Formatter interface for plain text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Texter:
		_, err := io.WriteString(w, v.Text())
		return err
	case Tabler:
		return writeLines(w, v.Table())
	case table.Data:
		return writeLines(w, v)
	default:
		if d := convertToTableData(data); d != nil {
			return writeLines(w, *d)
		}
		_, err := fmt.Fprintln(w, data)
		return err
	}
}

func writeLines(w io.Writer, data table.Data) error {
	for _, row := range data.Rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	var err error
	switch v := data.(type) {
	case table.Data:
		err = formatTable(w, v)
	case Tabler:
		err = formatTable(w, v.Table())
	default:
		if d := convertToTableData(data); d != nil {
			err = formatTable(w, *d)
			break
		}
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
	if err != nil {
		return err
	}
	if footer, ok := data.(Footer); ok && footer.Footer() != "" {
		_, err = fmt.Fprintln(w, footer.Footer())
	}
	return err
}

func formatTable(w io.Writer, data table.Data) error {
	config := tablewriter.Config{}

	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		tbl.Header(headers...)
	}

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := tbl.Append(cells...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

// DetectFormat returns the explicit format, or text when none was given.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	return FormatText
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return format, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: text, table, json, yaml", s)
	}
}

// convertToTableData renders a slice of structs with one column per field,
// titled from the json tag.
func convertToTableData(data any) *table.Data {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Len() == 0 || v.Index(0).Kind() != reflect.Struct {
		return nil
	}

	elemType := v.Index(0).Type()
	caser := cases.Title(language.English)
	headers := make([]string, 0, elemType.NumField())
	for i := 0; i < elemType.NumField(); i++ {
		field := elemType.Field(i)
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = caser.String(strings.ReplaceAll(tag, "_", " "))
		}
		headers = append(headers, name)
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		row := make([]string, 0, elem.NumField())
		for j := 0; j < elem.NumField(); j++ {
			row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
		}
		rows = append(rows, row)
	}
	return &table.Data{Headers: headers, Rows: rows}
}
