package output

import (
	"io"
	"text/tabwriter"
)

// Tabular is implemented by values with a table layout.
type Tabular interface {
	Table(wide bool) *Table
}

// TableFormatter lines columns up with tabwriter.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format renders Table and Tabular values as tables. Other data is written
// as indented JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Tabular:
		return v.Table(f.Wide).RenderWithOptions(w, f.NoHeaders)
	}
	return writeJSON(w, data)
}

// Table is a header row plus data rows of equal width.
type Table struct {
	Headers []string
	Rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Render writes t with its header row.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions writes t, optionally without headers. An empty cell
// prints as "-" so columns stay aligned.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		writeRow(tw, t.Headers)
	}
	for _, row := range t.Rows {
		writeRow(tw, row)
	}

	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		if cell == "" {
			cell = "-"
		}
		io.WriteString(w, cell)
	}
	io.WriteString(w, "\n")
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
