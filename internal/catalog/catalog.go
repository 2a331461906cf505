package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/registry"
	"github.com/chriserin/stepmatch/internal/scope"
)

// Catalog is the parsed form of a bindings file.
type Catalog struct {
	Bindings []Entry `yaml:"bindings" json:"bindings" jsonschema:"description=Step definitions in registration order"`
}

// Entry declares one step definition. Entries that share a Handler are the
// same step definition: their params must agree.
type Entry struct {
	Handler string      `yaml:"handler"          json:"handler"          jsonschema:"minLength=1"`
	Kind    string      `yaml:"kind"             json:"kind"             jsonschema:"enum=Given,enum=When,enum=Then"`
	Pattern string      `yaml:"pattern"          json:"pattern"          jsonschema:"minLength=1"`
	Params  []string    `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"description=Parameter type names"`
	Scopes  []ScopeSpec `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

// ScopeSpec restricts an entry. Each spec yields its own binding.
type ScopeSpec struct {
	Tag      string `yaml:"tag,omitempty"      json:"tag,omitempty"`
	Feature  string `yaml:"feature,omitempty"  json:"feature,omitempty"`
	Scenario string `yaml:"scenario,omitempty" json:"scenario,omitempty"`
	Expr     string `yaml:"expr,omitempty"     json:"expr,omitempty"`
}

var paramTypes = map[string]reflect.Type{
	"string":   reflect.TypeOf(""),
	"int":      reflect.TypeOf(0),
	"int64":    reflect.TypeOf(int64(0)),
	"uint":     reflect.TypeOf(uint(0)),
	"float":    reflect.TypeOf(float64(0)),
	"float64":  reflect.TypeOf(float64(0)),
	"bool":     reflect.TypeOf(false),
	"duration": reflect.TypeOf(time.Duration(0)),
	"time":     reflect.TypeOf(time.Time{}),
	"strings":  reflect.TypeOf([]string(nil)),
	"table":    reflect.TypeOf((*binding.Table)(nil)),
}

// ParamType resolves a catalog parameter type name.
func ParamType(name string) (reflect.Type, bool) {
	t, ok := paramTypes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// ParamTypeNames lists the accepted parameter type names.
func ParamTypeNames() []string {
	names := make([]string, 0, len(paramTypes))
	for name := range paramTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Issue is a single problem found while loading a catalog.
type Issue struct {
	Phase   string
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Phase, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Phase, i.Path, i.Message)
}

// ValidationError carries every issue found in a catalog.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return "invalid catalog:\n  " + strings.Join(lines, "\n  ")
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog strictly, then validates it against the JSON
// schema and the domain rules. Invalid patterns are not reported here: they
// become invalid bindings and surface when a step is resolved.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Issues: []Issue{{Phase: "structural", Message: "catalog is empty"}}}
		}
		return nil, &ValidationError{Issues: []Issue{{Phase: "structural", Message: err.Error()}}}
	}
	if c.Bindings == nil {
		c.Bindings = []Entry{}
	}

	if issues := validateSchema(&c); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	if issues := validateDomain(&c); len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return &c, nil
}

func validateDomain(c *Catalog) []Issue {
	var issues []Issue
	params := map[string][]string{}
	for i, e := range c.Bindings {
		path := fmt.Sprintf("bindings/%d", i)
		if _, err := binding.KindFromString(e.Kind); err != nil {
			issues = append(issues, Issue{Phase: "domain", Path: path + "/kind", Message: err.Error()})
		}
		for j, p := range e.Params {
			if _, ok := ParamType(p); !ok {
				issues = append(issues, Issue{
					Phase:   "domain",
					Path:    fmt.Sprintf("%s/params/%d", path, j),
					Message: fmt.Sprintf("unknown parameter type %q (want one of %s)", p, strings.Join(ParamTypeNames(), ", ")),
				})
			}
		}
		for j, s := range e.Scopes {
			if _, err := s.build(); err != nil {
				issues = append(issues, Issue{Phase: "domain", Path: fmt.Sprintf("%s/scopes/%d", path, j), Message: err.Error()})
			}
		}
		if prev, ok := params[e.Handler]; ok && !equalParams(prev, e.Params) {
			issues = append(issues, Issue{
				Phase:   "domain",
				Path:    path + "/params",
				Message: fmt.Sprintf("handler %s declared with params %v and %v", e.Handler, prev, e.Params),
			})
		} else if !ok {
			params[e.Handler] = e.Params
		}
	}
	return issues
}

func equalParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ta, _ := ParamType(a[i])
		tb, _ := ParamType(b[i])
		if ta != tb {
			return false
		}
	}
	return true
}

func (s ScopeSpec) build() (*scope.Scope, error) {
	return scope.New(s.Tag, s.Feature, s.Scenario, s.Expr)
}

// Expand turns the catalog into bindings: one per scope, or a single
// unscoped binding when an entry has no scopes.
func (c *Catalog) Expand() ([]*binding.Binding, error) {
	var out []*binding.Binding
	for i, e := range c.Bindings {
		kind, err := binding.KindFromString(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		h := binding.Handler{ID: e.Handler, Params: make([]reflect.Type, len(e.Params))}
		for j, p := range e.Params {
			t, ok := ParamType(p)
			if !ok {
				return nil, fmt.Errorf("binding %d: unknown parameter type %q", i, p)
			}
			h.Params[j] = t
		}
		if len(e.Scopes) == 0 {
			out = append(out, binding.New(kind, e.Pattern, h, nil))
			continue
		}
		for _, spec := range e.Scopes {
			s, err := spec.build()
			if err != nil {
				return nil, fmt.Errorf("binding %d: %w", i, err)
			}
			out = append(out, binding.New(kind, e.Pattern, h, s))
		}
	}
	return out, nil
}

// Build registers every binding with reg and marks it ready.
func (c *Catalog) Build(reg *registry.Registry) error {
	bindings, err := c.Expand()
	if err != nil {
		return err
	}
	for _, b := range bindings {
		if err := reg.Add(b); err != nil {
			return fmt.Errorf("registering %s: %w", b, err)
		}
	}
	reg.MarkReady()
	return nil
}
