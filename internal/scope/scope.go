package scope

import (
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Context is the execution context a step runs in: the active tags plus the
// titles of the enclosing feature and scenario.
type Context struct {
	Tags          []string
	FeatureTitle  string
	ScenarioTitle string
}

// NewContext builds a Context. Tags are stored without their leading "@".
func NewContext(feature, scenario string, tags ...string) *Context {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" || slices.Contains(normalized, t) {
			continue
		}
		normalized = append(normalized, t)
	}
	return &Context{Tags: normalized, FeatureTitle: feature, ScenarioTitle: scenario}
}

func (c *Context) HasTag(tag string) bool {
	return slices.Contains(c.Tags, NormalizeTag(tag))
}

func NormalizeTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "@")
}

// Scope restricts a binding to contexts that satisfy every dimension it sets.
// A nil *Scope means the binding is unscoped.
type Scope struct {
	tag      string
	feature  string
	scenario string
	expr     string
	program  *vm.Program
}

// New builds a Scope. The expression, when set, is compiled once here and is
// evaluated with the variables tags ([]string), feature and scenario (string).
func New(tag, feature, scenario, expression string) (*Scope, error) {
	s := &Scope{
		tag:      NormalizeTag(tag),
		feature:  feature,
		scenario: scenario,
		expr:     strings.TrimSpace(expression),
	}
	if s.expr != "" {
		program, err := expr.Compile(s.expr, expr.Env(exprEnv(&Context{})), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile scope expression %q: %w", s.expr, err)
		}
		s.program = program
	}
	return s, nil
}

func (s *Scope) Tag() string      { return s.tag }
func (s *Scope) Feature() string  { return s.feature }
func (s *Scope) Scenario() string { return s.scenario }
func (s *Scope) Expr() string     { return s.expr }

// Empty reports whether the scope restricts nothing.
func (s *Scope) Empty() bool {
	return s == nil || (s.tag == "" && s.feature == "" && s.scenario == "" && s.program == nil)
}

// Match evaluates the scope against ctx and returns how many dimensions
// matched. Any set dimension that does not match fails the whole scope.
func (s *Scope) Match(ctx *Context) (int, bool) {
	if s == nil {
		return 0, true
	}
	if ctx == nil {
		ctx = &Context{}
	}

	matches := 0
	if s.tag != "" {
		if !ctx.HasTag(s.tag) {
			return 0, false
		}
		matches++
	}
	if s.feature != "" {
		if ctx.FeatureTitle != s.feature {
			return 0, false
		}
		matches++
	}
	if s.scenario != "" {
		if ctx.ScenarioTitle != s.scenario {
			return 0, false
		}
		matches++
	}
	if s.program != nil {
		out, err := expr.Run(s.program, exprEnv(ctx))
		if err != nil {
			return 0, false
		}
		if ok, _ := out.(bool); !ok {
			return 0, false
		}
		matches++
	}
	return matches, true
}

func (s *Scope) String() string {
	if s.Empty() {
		return ""
	}
	var parts []string
	if s.tag != "" {
		parts = append(parts, "@"+s.tag)
	}
	if s.feature != "" {
		parts = append(parts, fmt.Sprintf("feature=%q", s.feature))
	}
	if s.scenario != "" {
		parts = append(parts, fmt.Sprintf("scenario=%q", s.scenario))
	}
	if s.expr != "" {
		parts = append(parts, fmt.Sprintf("expr=%q", s.expr))
	}
	return strings.Join(parts, " ")
}

func exprEnv(ctx *Context) map[string]any {
	tags := ctx.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"tags":     tags,
		"feature":  ctx.FeatureTitle,
		"scenario": ctx.ScenarioTitle,
	}
}
