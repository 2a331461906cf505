package match

import (
	"fmt"
	"reflect"

	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/pattern"
)

// Filters selects which checks Match applies on top of the step kind check,
// which always runs.
type Filters struct {
	Text   bool
	Params bool
	Scope  bool
}

// All enables every filter.
var All = Filters{Text: true, Params: true, Scope: true}

// matchState is threaded through the filters of one Match call.
type matchState struct {
	svc          *Service
	binding      *binding.Binding
	step         binding.StepInstance
	locale       language.Tag
	textMatch    *pattern.Match
	scopeMatches int
	args         []binding.MatchArgument
}

// filter returns false to reject the binding. An error aborts matching.
type filter func(st *matchState) (bool, error)

// pipeline lists the filters to run, in order. Parameter checks need the
// captured arguments, so they force the text filter on.
func (f Filters) pipeline() []filter {
	if f.Params {
		f.Text = true
	}
	p := []filter{kindFilter}
	if f.Text {
		p = append(p, textFilter)
	}
	if f.Scope {
		p = append(p, scopeFilter)
	}
	p = append(p, extractArguments)
	if f.Params {
		p = append(p, paramFilter)
	}
	return p
}

func (f Filters) String() string {
	return fmt.Sprintf("text=%t params=%t scope=%t", f.Text || f.Params, f.Params, f.Scope)
}

func kindFilter(st *matchState) (bool, error) {
	return st.binding.Kind() == st.step.Kind, nil
}

func textFilter(st *matchState) (bool, error) {
	if !st.binding.Valid() {
		return false, st.svc.errors.InvalidBinding(st.binding)
	}
	m, err := st.binding.Pattern().Match(st.step.Text)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	st.textMatch = m
	return true, nil
}

func scopeFilter(st *matchState) (bool, error) {
	if !st.binding.Scoped() || st.step.Context == nil {
		return true, nil
	}
	n, ok := st.binding.Scope().Match(st.step.Context)
	if !ok {
		return false, nil
	}
	st.scopeMatches = n
	return true, nil
}

func extractArguments(st *matchState) (bool, error) {
	if st.textMatch != nil {
		st.args = st.svc.extractor.Extract(st.textMatch, st.step, st.binding)
	}
	return true, nil
}

func paramFilter(st *matchState) (bool, error) {
	params := st.binding.Handler().Params
	if len(st.args) != len(params) {
		return false, nil
	}
	for i, arg := range st.args {
		if !st.svc.canConvert(arg.Value, params[i], st.locale) {
			return false, nil
		}
	}
	return true, nil
}

// canConvert tries plain type compatibility before asking the converter,
// which may need to parse with the locale.
func (s *Service) canConvert(value any, target reflect.Type, locale language.Tag) bool {
	if value != nil && reflect.TypeOf(value).AssignableTo(target) {
		return true
	}
	return s.converter.CanConvert(value, target, locale)
}

// Match evaluates one binding against one step under the given filters. It
// returns binding.NonMatching when any filter rejects the binding, and an
// error when the text filter meets an invalid binding.
func (s *Service) Match(b *binding.Binding, step binding.StepInstance, locale language.Tag, f Filters) (binding.Match, error) {
	st := &matchState{svc: s, binding: b, step: step, locale: locale}
	for _, apply := range f.pipeline() {
		ok, err := apply(st)
		if err != nil {
			return binding.NonMatching, err
		}
		if !ok {
			return binding.NonMatching, nil
		}
	}
	return binding.NewMatch(b, st.scopeMatches, st.args, step.Context), nil
}
