package outcome

import (
	"errors"
	"fmt"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/diag"
	"github.com/chriserin/stepmatch/internal/match"
)

// Outcome is how a step fared against the binding catalog.
type Outcome string

const (
	Bound          Outcome = "bound"
	Undefined      Outcome = "undefined"
	Ambiguous      Outcome = "ambiguous"
	ScopeExcluded  Outcome = "scope-excluded"
	ParamErrors    Outcome = "param-errors"
	InvalidBinding Outcome = "invalid-binding"
)

// All lists the outcomes in display order.
var All = []Outcome{Bound, Undefined, Ambiguous, ScopeExcluded, ParamErrors, InvalidBinding}

// Parse validates a user supplied outcome name.
func Parse(s string) (Outcome, error) {
	for _, o := range All {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Result is the stored form of a resolution.
type Result struct {
	Outcome    Outcome
	Reason     binding.AmbiguityReason
	Handler    string
	Candidates []string
	Message    string
}

// Classify turns the result of match.Service.Resolve into a Result. Errors
// other than an invalid binding are returned unchanged.
func Classify(step binding.StepInstance, res match.Resolution, err error) (Result, error) {
	if err != nil {
		var invalid *diag.InvalidBindingError
		if !errors.As(err, &invalid) {
			return Result{}, err
		}
		return Result{
			Outcome:    InvalidBinding,
			Handler:    invalid.Binding.Handler().ID,
			Candidates: []string{invalid.Binding.Handler().ID},
			Message:    invalid.Error(),
		}, nil
	}

	r := Result{Reason: res.Reason}
	for _, c := range res.Candidates {
		r.Candidates = append(r.Candidates, c.Binding().Handler().ID)
	}
	if res.Unique() {
		r.Outcome = Bound
		r.Handler = res.Match.Binding().Handler().ID
		return r, nil
	}

	switch res.Reason {
	case binding.AmbiguousSteps:
		r.Outcome = Ambiguous
	case binding.AmbiguousScopes:
		r.Outcome = ScopeExcluded
	case binding.ParameterErrors:
		r.Outcome = ParamErrors
	default:
		r.Outcome = Undefined
	}
	if rerr := diag.ForResolution(step, res.Match, res.Reason, res.Candidates); rerr != nil {
		r.Message = rerr.Error()
	}
	return r, nil
}
