package parser

import (
	"fmt"

	"github.com/chriserin/stepmatch/internal/binding"
)

// Layer 1: the feature file as written

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Background
	Scenarios  []ScenarioDefinition
}

type FeatureHeader struct {
	Tags        []Tag
	Name        string
	Description string
}

type Background struct {
	Line  int
	Steps []Step
}

type ScenarioDefinition struct {
	Tags     []Tag
	Scenario Scenario
	Line     int // 1-based line number of Scenario: line
}

type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

type Tag struct {
	Name string // e.g. "@smoke", "@web"
}

type Step struct {
	Keyword  string // Given, When, Then, And, But, *
	Text     string
	Line     int
	Argument *StepArgument
}

// StepArgument holds the extra data of a step. At most one field is set.
type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

// attachDocString returns a parse error message, or "" on success.
func (s *Step) attachDocString(ds *DocString) string {
	if s.Argument != nil {
		return "step already has an argument"
	}
	s.Argument = &StepArgument{DocString: ds}
	return ""
}

// appendRow adds a table row. The first row becomes the header.
func (s *Step) appendRow(row []string) string {
	switch {
	case s.Argument == nil:
		s.Argument = &StepArgument{DataTable: &DataTable{HeaderRow: row}}
	case s.Argument.DataTable == nil:
		return "step already has an argument"
	case len(row) != len(s.Argument.DataTable.HeaderRow):
		return "inconsistent cell count"
	default:
		s.Argument.DataTable.Rows = append(s.Argument.DataTable.Rows, row)
	}
	return ""
}

// values converts the argument to the form a step instance carries.
func (a *StepArgument) values() (*string, *binding.Table) {
	switch {
	case a == nil:
		return nil, nil
	case a.DocString != nil:
		content := a.DocString.Content
		return &content, nil
	case a.DataTable != nil:
		return nil, &binding.Table{Header: a.DataTable.HeaderRow, Rows: a.DataTable.Rows}
	}
	return nil, nil
}

type DocString struct {
	MediaType string
	Content   string
}

type DataTable struct {
	HeaderRow []string
	Rows      [][]string
}

type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
