package binding

import (
	"fmt"

	"github.com/chriserin/stepmatch/internal/scope"
)

// MatchArgument is one extracted value destined for the handler parameter at
// the same position.
type MatchArgument struct {
	Value any
}

// Match is the outcome of matching one binding against one step. It is
// either a fully populated success or the NonMatching sentinel; use Success
// to tell them apart.
type Match struct {
	success      bool
	binding      *Binding
	scopeMatches int
	arguments    []MatchArgument
	context      *scope.Context
}

// NonMatching is the single non-match value.
var NonMatching = Match{}

// NewMatch builds a successful match.
func NewMatch(b *Binding, scopeMatches int, args []MatchArgument, ctx *scope.Context) Match {
	if b == nil {
		panic("binding: NewMatch with nil binding")
	}
	if scopeMatches < 0 {
		panic(fmt.Sprintf("binding: negative scope match count %d", scopeMatches))
	}
	return Match{
		success:      true,
		binding:      b,
		scopeMatches: scopeMatches,
		arguments:    append([]MatchArgument{}, args...),
		context:      ctx,
	}
}

func (m Match) Success() bool           { return m.success }
func (m Match) Binding() *Binding       { return m.binding }
func (m Match) ScopeMatches() int       { return m.scopeMatches }
func (m Match) Context() *scope.Context { return m.context }

func (m Match) Arguments() []MatchArgument {
	return append([]MatchArgument(nil), m.arguments...)
}

func (m Match) String() string {
	if !m.success {
		return "<no match>"
	}
	return m.binding.String()
}

// AmbiguityReason says why no unique match could be produced.
type AmbiguityReason int

const (
	None AmbiguityReason = iota
	AmbiguousSteps
	AmbiguousScopes
	ParameterErrors
)

func (r AmbiguityReason) String() string {
	switch r {
	case None:
		return "None"
	case AmbiguousSteps:
		return "AmbiguousSteps"
	case AmbiguousScopes:
		return "AmbiguousScopes"
	case ParameterErrors:
		return "ParameterErrors"
	default:
		return fmt.Sprintf("AmbiguityReason(%d)", int(r))
	}
}
