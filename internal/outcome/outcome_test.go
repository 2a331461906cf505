package outcome

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/match"
	"github.com/chriserin/stepmatch/internal/registry"
	"github.com/chriserin/stepmatch/internal/scope"
)

var intType = reflect.TypeOf(0)

func resolve(t *testing.T, step binding.StepInstance, bindings ...*binding.Binding) (Result, error) {
	t.Helper()
	reg := registry.New()
	for _, b := range bindings {
		require.NoError(t, reg.Add(b))
	}
	reg.MarkReady()
	svc := match.NewService(reg, match.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	res, err := svc.Resolve(step, language.AmericanEnglish)
	return Classify(step, res, err)
}

func given(text string, tags ...string) binding.StepInstance {
	return binding.StepInstance{Kind: binding.Given, Text: text, Context: scope.NewContext("Cukes", "Eating", tags...)}
}

func cukes(id string, s *scope.Scope, params ...reflect.Type) *binding.Binding {
	return binding.New(binding.Given, `I have (\d+) cukes`, binding.Handler{ID: id, Params: params}, s)
}

func TestClassify_Bound(t *testing.T) {
	r, err := resolve(t, given("I have 5 cukes"), cukes("A", nil, intType))
	require.NoError(t, err)
	assert.Equal(t, Bound, r.Outcome)
	assert.Equal(t, "A", r.Handler)
	assert.Equal(t, []string{"A"}, r.Candidates)
	assert.Empty(t, r.Message)
}

func TestClassify_Undefined(t *testing.T) {
	r, err := resolve(t, given("I eat 5 cukes"), cukes("A", nil, intType))
	require.NoError(t, err)
	assert.Equal(t, Undefined, r.Outcome)
	assert.Empty(t, r.Candidates)
	assert.Equal(t, "no step definition found for step 'Given I eat 5 cukes'", r.Message)
}

func TestClassify_Ambiguous(t *testing.T) {
	r, err := resolve(t, given("I have 5 cukes"), cukes("A", nil, intType), cukes("B", nil, intType))
	require.NoError(t, err)
	assert.Equal(t, Ambiguous, r.Outcome)
	assert.Equal(t, binding.AmbiguousSteps, r.Reason)
	assert.Equal(t, []string{"A", "B"}, r.Candidates)
	assert.Contains(t, r.Message, "ambiguous step definitions")
}

func TestClassify_ScopeExcluded(t *testing.T) {
	web, err := scope.New("web", "", "", "")
	require.NoError(t, err)

	r, err := resolve(t, given("I have 5 cukes"), cukes("A", web, intType))
	require.NoError(t, err)
	assert.Equal(t, ScopeExcluded, r.Outcome)
	assert.Equal(t, binding.AmbiguousScopes, r.Reason)
}

func TestClassify_ParamErrors(t *testing.T) {
	r, err := resolve(t, given("I have 5 cukes"), cukes("A", nil), cukes("B", nil, intType, intType))
	require.NoError(t, err)
	assert.Equal(t, ParamErrors, r.Outcome)
	assert.Equal(t, []string{"A", "B"}, r.Candidates)
}

func TestClassify_InvalidBinding(t *testing.T) {
	broken := binding.New(binding.Given, `I have (`, binding.Handler{ID: "Broken"}, nil)
	r, err := resolve(t, given("I have 5 cukes"), broken)
	require.NoError(t, err)
	assert.Equal(t, InvalidBinding, r.Outcome)
	assert.Equal(t, "Broken", r.Handler)
	assert.Contains(t, r.Message, "invalid step definition")
}

func TestClassify_OtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err := Classify(given("x"), match.Resolution{Match: binding.NonMatching}, boom)
	assert.ErrorIs(t, err, boom)
}

func TestParse(t *testing.T) {
	for _, o := range All {
		got, err := Parse(string(o))
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := Parse("lost")
	assert.EqualError(t, err, `unknown outcome "lost"`)
}
