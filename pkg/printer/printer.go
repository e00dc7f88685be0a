// Package printer renders CLI output as aligned tables or JSON.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// OutputType defines the output format
type OutputType string

const (
	// OutputTypeTable outputs in table format (default)
	OutputTypeTable OutputType = "table"
	// OutputTypeJSON outputs in JSON format
	OutputTypeJSON OutputType = "json"
)

// TablePrinter accumulates rows and renders them kubectl-style through a
// tabwriter.
type TablePrinter struct {
	writer    *tabwriter.Writer
	headers   []string
	rows      [][]string
	noHeaders bool
}

// Option configures the TablePrinter
type Option func(*TablePrinter)

// WithNoHeaders disables header output
func WithNoHeaders() Option {
	return func(p *TablePrinter) {
		p.noHeaders = true
	}
}

// NewTablePrinter creates a new table printer writing to out.
func NewTablePrinter(out io.Writer, opts ...Option) *TablePrinter {
	if out == nil {
		out = os.Stdout
	}

	p := &TablePrinter{
		writer: tabwriter.NewWriter(out, 0, 0, 3, ' ', 0),
		rows:   make([][]string, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetHeaders sets the table headers
func (p *TablePrinter) SetHeaders(headers ...string) {
	p.headers = headers
}

// AddRow adds a data row to the table
func (p *TablePrinter) AddRow(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprintf("%v", v)
	}
	p.rows = append(p.rows, row)
}

// Render outputs the formatted table
func (p *TablePrinter) Render() error {
	if len(p.rows) == 0 && len(p.headers) == 0 {
		return nil
	}

	if !p.noHeaders && len(p.headers) > 0 {
		_, _ = fmt.Fprintln(p.writer, strings.ToUpper(strings.Join(p.headers, "\t")))
	}
	for _, row := range p.rows {
		_, _ = fmt.Fprintln(p.writer, strings.Join(row, "\t"))
	}
	return p.writer.Flush()
}

// PrintJSON prints data as indented JSON.
func PrintJSON(out io.Writer, data any) error {
	if out == nil {
		out = os.Stdout
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
