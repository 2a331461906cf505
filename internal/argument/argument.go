package argument

import (
	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/pattern"
)

// Extractor turns a pattern match into handler arguments: one per capture
// group in order, followed by the step's doc string or table if present.
type Extractor struct{}

func (Extractor) Extract(m *pattern.Match, step binding.StepInstance, _ *binding.Binding) []binding.MatchArgument {
	var args []binding.MatchArgument
	if m != nil {
		for _, g := range m.Groups() {
			args = append(args, binding.MatchArgument{Value: g})
		}
	}
	if step.DocString != nil {
		args = append(args, binding.MatchArgument{Value: *step.DocString})
	}
	if step.Table != nil {
		args = append(args, binding.MatchArgument{Value: step.Table})
	}
	return args
}
