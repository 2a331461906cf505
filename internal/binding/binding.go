package binding

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/chriserin/stepmatch/internal/pattern"
	"github.com/chriserin/stepmatch/internal/scope"
)

// Handler identifies the code a binding executes. Bindings that share a
// Handler ID are the same step definition declared with different scopes.
type Handler struct {
	ID     string
	Params []reflect.Type
}

// FuncHandler derives a Handler from a Go function: its ID is the fully
// qualified function name and Params are its parameter types.
func FuncHandler(fn any) (Handler, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return Handler{}, fmt.Errorf("handler must be a func, got %T", fn)
	}
	t := v.Type()
	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}
	name := runtime.FuncForPC(v.Pointer()).Name()
	return Handler{ID: name, Params: params}, nil
}

// Binding is one registered step definition. Bindings are immutable once
// built and are owned by the registry.
type Binding struct {
	kind    Kind
	source  string
	pattern *pattern.Regex
	scope   *scope.Scope
	handler Handler
	invalid error
}

// New builds a binding. A pattern that fails to compile does not fail
// construction: the binding is kept but reports Valid() == false so the
// problem is raised when a step is matched against it.
func New(kind Kind, expr string, handler Handler, s *scope.Scope) *Binding {
	b := &Binding{kind: kind, source: expr, handler: handler}
	if !s.Empty() {
		b.scope = s
	}
	re, err := pattern.Compile(expr)
	if err != nil {
		b.invalid = err
		return b
	}
	b.pattern = re
	return b
}

func (b *Binding) Kind() Kind              { return b.kind }
func (b *Binding) Expression() string      { return b.source }
func (b *Binding) Pattern() *pattern.Regex { return b.pattern }
func (b *Binding) Handler() Handler        { return b.handler }
func (b *Binding) Scope() *scope.Scope     { return b.scope }
func (b *Binding) Scoped() bool            { return b.scope != nil }

// Valid reports whether the pattern compiled.
func (b *Binding) Valid() bool { return b.invalid == nil }

// Err is the pattern compile error of an invalid binding.
func (b *Binding) Err() error { return b.invalid }

func (b *Binding) String() string {
	s := fmt.Sprintf("[%s(%q)] %s", b.kind, b.source, b.handler.ID)
	if b.scope != nil {
		s += " scope " + b.scope.String()
	}
	return s
}
