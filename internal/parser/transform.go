package parser

import (
	"fmt"
	"strings"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/scope"
)

// ParsedFile is the Layer 2 application model extracted from the AST.
type ParsedFile struct {
	Name      string
	Tags      []string
	Scenarios []ParsedScenario
	Errors    []ParseError
}

// ParsedScenario is a scenario ready for resolution. Background steps come
// first.
type ParsedScenario struct {
	Name  string
	Tags  []string // scenario tags only, with the leading @
	Line  int      // 1-based line number of Scenario: line
	Steps []ParsedStep
}

// ParsedStep is one step of a scenario together with the step instance the
// resolver sees.
type ParsedStep struct {
	Keyword    string
	Line       int
	Background bool
	Instance   binding.StepInstance
}

// Transform converts a Layer 1 Document into a Layer 2 ParsedFile. Step
// keywords that cannot be mapped to a kind are reported as parse errors.
func Transform(doc *Document, filename string, errors []ParseError) *ParsedFile {
	pf := &ParsedFile{
		Errors: errors,
	}

	if doc.Feature == nil {
		pf.Name = filenameWithoutExt(filename)
		return pf
	}
	pf.Name = doc.Feature.Header.Name
	pf.Tags = tagNames(doc.Feature.Header.Tags)

	for _, sd := range doc.Feature.Scenarios {
		ps := ParsedScenario{
			Name: sd.Scenario.Name,
			Tags: tagNames(sd.Tags),
			Line: sd.Line,
		}
		allTags := append(append([]string{}, pf.Tags...), ps.Tags...)
		ctx := scope.NewContext(pf.Name, ps.Name, allTags...)

		if bg := doc.Feature.Background; bg != nil {
			steps, errs := transformSteps(bg.Steps, ctx, true)
			ps.Steps = append(ps.Steps, steps...)
			pf.Errors = append(pf.Errors, errs...)
		}
		steps, errs := transformSteps(sd.Scenario.Steps, ctx, false)
		ps.Steps = append(ps.Steps, steps...)
		pf.Errors = append(pf.Errors, errs...)

		pf.Scenarios = append(pf.Scenarios, ps)
	}

	return pf
}

func transformSteps(steps []Step, ctx *scope.Context, background bool) ([]ParsedStep, []ParseError) {
	var (
		out      []ParsedStep
		errors   []ParseError
		previous binding.Kind
	)
	for _, s := range steps {
		kind, err := binding.KindFromKeyword(s.Keyword, previous)
		if err != nil {
			errors = append(errors, ParseError{Line: s.Line, Message: err.Error()})
			continue
		}
		previous = kind

		instance := binding.StepInstance{Kind: kind, Text: s.Text, Context: ctx}
		instance.DocString, instance.Table = s.Argument.values()
		out = append(out, ParsedStep{Keyword: s.Keyword, Line: s.Line, Background: background, Instance: instance})
	}
	return out, errors
}

func tagNames(tags []Tag) []string {
	var names []string
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// String renders the step the way it is written in the feature file.
func (s ParsedStep) String() string {
	return fmt.Sprintf("%s %s", s.Keyword, s.Instance.Text)
}

// ScenarioTags joins the scenario tags for display.
func (s ParsedScenario) ScenarioTags() string {
	return strings.Join(s.Tags, " ")
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
