package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepmatch/internal/config"
)

func runResolve(t *testing.T, kind, text string, opts ResolveOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunResolve(&buf, kind, text, opts))
	return buf.String()
}

func TestResolve_BoundStepConvertsArguments(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "Given", "I have 5 cukes", ResolveOptions{})

	assert.Contains(t, out, "bound  Given I have 5 cukes\n")
	assert.Contains(t, out, "handler: CukeSteps.HaveCukes\n")
	assert.Contains(t, out, "arg 1: 5\n")
}

func TestResolve_KindIsCaseInsensitive(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "given", "I have 5 cukes", ResolveOptions{})

	assert.Contains(t, out, "bound  Given I have 5 cukes\n")
}

func TestResolve_TagSelectsScopedBinding(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "Given", "I have 5 cukes", ResolveOptions{Tags: []string{"@web"}})

	assert.Contains(t, out, "handler: WebSteps.HaveCukes\n")
}

func TestResolve_AmbiguousStep(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "When", "I eat 2 cukes", ResolveOptions{})

	assert.Contains(t, out, "ambiguous  When I eat 2 cukes\n")
	assert.Contains(t, out, "ambiguous step definitions found for step 'When I eat 2 cukes'")
}

func TestResolve_UndefinedStep(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "When", "I juggle cukes", ResolveOptions{})

	assert.Contains(t, out, "undefined  When I juggle cukes\n")
	assert.Contains(t, out, "no step definition found for step 'When I juggle cukes'")
}

func TestResolve_InvalidBinding(t *testing.T) {
	setupProject(t, nil)

	out := runResolve(t, "Then", "the basket is empty", ResolveOptions{Tags: []string{"admin"}})

	assert.Contains(t, out, "invalid-binding  Then the basket is empty\n")
	assert.Contains(t, out, "invalid step definition")
}

func TestResolve_SingleTextMatchReportsConversionFailure(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFile(t, "bindings.yaml", `bindings:
  - handler: CukeSteps.Wait
    kind: When
    pattern: 'I wait (.*)'
    params: [int]
`)

	out := runResolve(t, "When", "I wait a while", ResolveOptions{})

	assert.Contains(t, out, "bound  When I wait a while\n")
	assert.Contains(t, out, "arguments:")
	assert.Contains(t, out, "CukeSteps.Wait: argument 1")
}

func TestResolve_UsesConfiguredLocale(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFile(t, "bindings.yaml", `bindings:
  - handler: ShopSteps.Price
    kind: Then
    pattern: 'the price is (.*)'
    params: [float64]
`)
	t.Setenv(config.EnvLocale, "de-DE")

	out := runResolve(t, "Then", "the price is 1,5", ResolveOptions{})

	assert.Contains(t, out, "arg 1: 1.5\n")
}

func TestResolve_UnknownKind(t *testing.T) {
	setupProject(t, nil)

	var buf bytes.Buffer
	err := RunResolve(&buf, "Sometimes", "I have 5 cukes", ResolveOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown step kind "Sometimes"`)
}

func TestResolve_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunResolve(&buf, "Given", "I have 5 cukes", ResolveOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `stepmatch init` first")
}
