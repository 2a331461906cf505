package match

import (
	"fmt"
	"reflect"

	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
)

// ValueConverter converts a step argument to a handler parameter type.
type ValueConverter interface {
	Convert(value any, target reflect.Type, locale language.Tag) (any, error)
}

// ConvertArguments converts the arguments of a successful match to the
// handler's parameter types. This is where a parameter mismatch of a step
// that resolved to a single text match is finally reported.
func ConvertArguments(m binding.Match, locale language.Tag, c ValueConverter) ([]any, error) {
	if !m.Success() {
		return nil, fmt.Errorf("convert arguments: step did not match")
	}
	b := m.Binding()
	params := b.Handler().Params
	args := m.Arguments()
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s: expects %d arguments, step provides %d", b.Handler().ID, len(params), len(args))
	}

	out := make([]any, len(args))
	for i, arg := range args {
		v, err := c.Convert(arg.Value, params[i], locale)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", b.Handler().ID, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
