package diag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/stepmatch/internal/binding"
)

func step(text string) binding.StepInstance {
	return binding.StepInstance{Kind: binding.Given, Text: text}
}

func TestFactory_InvalidBinding(t *testing.T) {
	b := binding.New(binding.Given, `I have (\d+ cukes`, binding.Handler{ID: "Cukes.Broken"}, nil)

	err := Factory{}.InvalidBinding(b)

	var ibe *InvalidBindingError
	require.ErrorAs(t, err, &ibe)
	assert.Same(t, b, ibe.Binding)
	assert.Contains(t, err.Error(), "Cukes.Broken")
	assert.ErrorIs(t, err, b.Err())
}

func TestForResolution_UniqueMatchIsNil(t *testing.T) {
	b := binding.New(binding.Given, "a", binding.Handler{ID: "x"}, nil)
	m := binding.NewMatch(b, 0, nil, nil)

	assert.NoError(t, ForResolution(step("a"), m, binding.None, []binding.Match{m}))
}

func TestForResolution_Reasons(t *testing.T) {
	a := binding.NewMatch(binding.New(binding.Given, "a", binding.Handler{ID: "Steps.A"}, nil), 0, nil, nil)
	b := binding.NewMatch(binding.New(binding.Given, "a", binding.Handler{ID: "Steps.B"}, nil), 0, nil, nil)

	tests := []struct {
		reason     binding.AmbiguityReason
		candidates []binding.Match
		sentinel   error
		contains   string
	}{
		{binding.AmbiguousSteps, []binding.Match{a, b}, ErrAmbiguous, "ambiguous step definitions"},
		{binding.AmbiguousScopes, []binding.Match{a}, ErrScopeExcluded, "matching scope"},
		{binding.ParameterErrors, []binding.Match{a, b}, ErrParameterMismatch, "parameter count"},
		{binding.None, nil, ErrUndefined, "no step definition found"},
	}

	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			err := ForResolution(step("a"), binding.NonMatching, tt.reason, tt.candidates)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "Given a")
			for _, c := range tt.candidates {
				assert.Contains(t, err.Error(), c.Binding().Handler().ID)
			}
		})
	}
}
