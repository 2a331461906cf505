package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScope(t *testing.T, tag, feature, scenario, expression string) *Scope {
	t.Helper()
	s, err := New(tag, feature, scenario, expression)
	require.NoError(t, err)
	return s
}

func TestNewContext_NormalizesTags(t *testing.T) {
	ctx := NewContext("Login", "User logs in", "@web", "smoke", "@web", " ")

	assert.Equal(t, []string{"web", "smoke"}, ctx.Tags)
	assert.True(t, ctx.HasTag("@smoke"))
	assert.False(t, ctx.HasTag("slow"))
}

func TestMatch_NilScopeAlwaysMatches(t *testing.T) {
	var s *Scope
	n, ok := s.Match(NewContext("", ""))

	assert.True(t, ok)
	assert.Equal(t, 0, n)
	assert.True(t, s.Empty())
}

func TestMatch_TagDimension(t *testing.T) {
	s := mustScope(t, "@web", "", "", "")

	n, ok := s.Match(NewContext("", "", "@web"))
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = s.Match(NewContext("", "", "@api"))
	assert.False(t, ok)
}

func TestMatch_CountsEveryMatchedDimension(t *testing.T) {
	s := mustScope(t, "web", "Login", "User logs in", `"smoke" in tags`)

	n, ok := s.Match(NewContext("Login", "User logs in", "@web", "@smoke"))
	assert.True(t, ok)
	assert.Equal(t, 4, n)
}

func TestMatch_OneFailingDimensionFailsScope(t *testing.T) {
	s := mustScope(t, "web", "Login", "", "")

	_, ok := s.Match(NewContext("Checkout", "", "@web"))
	assert.False(t, ok)
}

func TestMatch_Expression(t *testing.T) {
	s := mustScope(t, "", "", "", `feature startsWith "Log" && !("slow" in tags)`)

	n, ok := s.Match(NewContext("Login", "any"))
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = s.Match(NewContext("Login", "any", "@slow"))
	assert.False(t, ok)
}

func TestMatch_NilContextFailsTagScope(t *testing.T) {
	s := mustScope(t, "web", "", "", "")

	_, ok := s.Match(nil)
	assert.False(t, ok)
}

func TestNew_InvalidExpression(t *testing.T) {
	_, err := New("", "", "", "tags +")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile scope expression")
}

func TestNew_NonBoolExpression(t *testing.T) {
	_, err := New("", "", "", "feature")
	require.Error(t, err)
}

func TestString(t *testing.T) {
	s := mustScope(t, "web", "Login", "", "")
	assert.Equal(t, `@web feature="Login"`, s.String())
	assert.Equal(t, "", mustScope(t, "", "", "", "").String())
}
