package binding

import (
	"github.com/chriserin/stepmatch/internal/scope"
)

// StepInstance is one concrete occurrence of a step in a scenario.
type StepInstance struct {
	Kind    Kind
	Text    string
	Context *scope.Context

	// DocString and Table are the optional extra data attached to the step.
	// At most one of them is set.
	DocString *string
	Table     *Table
}

// Table is a data table attached to a step. The first row is the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// RowMaps returns each body row keyed by header cell.
func (t *Table) RowMaps() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}
