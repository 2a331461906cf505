package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/stepmatch/internal/binding"
)

var (
	ErrAmbiguous         = errors.New("ambiguous step definitions")
	ErrScopeExcluded     = errors.New("no step definition with matching scope")
	ErrParameterMismatch = errors.New("no step definition with matching parameters")
	ErrUndefined         = errors.New("undefined step")
)

// InvalidBindingError reports a binding whose pattern cannot be used.
type InvalidBindingError struct {
	Binding *binding.Binding
	Err     error
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("invalid step definition %s: %v", e.Binding, e.Err)
}

func (e *InvalidBindingError) Unwrap() error { return e.Err }

// Factory builds the errors raised for structurally invalid bindings.
type Factory struct{}

func (Factory) InvalidBinding(b *binding.Binding) error {
	err := b.Err()
	if err == nil {
		err = errors.New("binding is not valid")
	}
	return &InvalidBindingError{Binding: b, Err: err}
}

// ResolutionError describes why a step could not be bound to exactly one
// step definition. Candidates are listed in the message in resolution order.
type ResolutionError struct {
	Step       binding.StepInstance
	Reason     binding.AmbiguityReason
	Candidates []binding.Match
}

func (e *ResolutionError) Error() string {
	step := fmt.Sprintf("%s %s", e.Step.Kind, e.Step.Text)
	var msg string
	switch e.Reason {
	case binding.AmbiguousSteps:
		msg = fmt.Sprintf("ambiguous step definitions found for step '%s'", step)
	case binding.AmbiguousScopes:
		msg = fmt.Sprintf("no matching step definition found for step '%s': matching step definitions exist but none of them have a matching scope", step)
	case binding.ParameterErrors:
		msg = fmt.Sprintf("multiple step definitions found for step '%s' but none of them have matching parameter count and types", step)
	default:
		return fmt.Sprintf("no step definition found for step '%s'", step)
	}

	var sb strings.Builder
	sb.WriteString(msg)
	for _, c := range e.Candidates {
		sb.WriteString("\n  ")
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (e *ResolutionError) Unwrap() error {
	switch e.Reason {
	case binding.AmbiguousSteps:
		return ErrAmbiguous
	case binding.AmbiguousScopes:
		return ErrScopeExcluded
	case binding.ParameterErrors:
		return ErrParameterMismatch
	default:
		return ErrUndefined
	}
}

// ForResolution returns nil when match is a unique binding, otherwise the
// ResolutionError the caller should report for the step.
func ForResolution(step binding.StepInstance, match binding.Match, reason binding.AmbiguityReason, candidates []binding.Match) error {
	if match.Success() && reason == binding.None {
		return nil
	}
	return &ResolutionError{Step: step, Reason: reason, Candidates: candidates}
}
