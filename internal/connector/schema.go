package connector

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

// TableView is one table of a discovered schema, ready for display.
type TableView struct {
	Header  string
	Columns []ColumnView
}

// ColumnView is a column line, rendered as "name (type)".
type ColumnView struct {
	Name string
	Type string
}

func (c ColumnView) String() string {
	return c.Name + " (" + c.Type + ")"
}

// SchemaView groups a schema by table with uppercased table headers.
// A nil schema yields no tables.
func SchemaView(schema *backend.Schema) []TableView {
	if schema == nil {
		return nil
	}
	upper := cases.Upper(language.Und)
	views := make([]TableView, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		cols := make([]ColumnView, 0, len(t.Columns))
		for _, c := range t.Columns {
			cols = append(cols, ColumnView{Name: c.Name, Type: c.Type})
		}
		views = append(views, TableView{Header: upper.String(t.Name), Columns: cols})
	}
	return views
}
