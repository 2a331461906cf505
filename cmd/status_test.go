package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStatus(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunStatus(&buf))
	return buf.String()
}

func TestStatus_ReportWithNoFeatures(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runStatus(t)

	assert.Equal(t, "Features: 0\nSteps: 0\n", out)
}

func TestStatus_ReportCountsByOutcome(t *testing.T) {
	setupProject(t, map[string]string{"features/cukes.feature": cukesFeature})
	runSync(t)

	out := runStatus(t)

	assert.Contains(t, out, "Features: 1\n")
	assert.Contains(t, out, "Steps: 5\n")
	assert.Regexp(t, `bound:\s+2\n`, out)
	assert.Regexp(t, `undefined:\s+1\n`, out)
	assert.Regexp(t, `ambiguous:\s+1\n`, out)
	assert.Regexp(t, `invalid-binding:\s+1\n`, out)
}

func TestStatus_ReportOmitsZeroCounts(t *testing.T) {
	setupProject(t, map[string]string{"features/cukes.feature": cukesFeature})
	runSync(t)

	out := runStatus(t)

	assert.NotContains(t, out, "scope-excluded")
	assert.NotContains(t, out, "param-errors")
	assert.NotContains(t, out, "Parse errors")
}

func TestStatus_ReportFollowsOutcomeOrder(t *testing.T) {
	setupProject(t, map[string]string{"features/cukes.feature": cukesFeature})
	runSync(t)

	out := runStatus(t)

	bound := strings.Index(out, "bound:")
	undefined := strings.Index(out, "undefined:")
	invalid := strings.Index(out, "invalid-binding:")
	require.True(t, bound >= 0 && undefined >= 0 && invalid >= 0)
	assert.True(t, bound < undefined, "bound should come before undefined")
	assert.True(t, undefined < invalid, "undefined should come before invalid-binding")
}

func TestStatus_ReportCountsParseErrors(t *testing.T) {
	setupProject(t, map[string]string{
		"features/outline.feature": "Feature: Outline\n  Scenario Outline: Many\n    Given I have <n> cukes\n",
	})
	runSync(t)

	out := runStatus(t)

	assert.Contains(t, out, "Parse errors: 1\n")
}

func TestStatus_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunStatus(&buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `stepmatch init` first")
}
