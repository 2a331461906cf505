package match

import (
	"errors"
	"log/slog"
	"reflect"

	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/argument"
	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/convert"
	"github.com/chriserin/stepmatch/internal/diag"
	"github.com/chriserin/stepmatch/internal/pattern"
)

// ErrNotReady is returned by Resolve while the registry is still being built.
var ErrNotReady = errors.New("match: binding registry is not ready")

// Registry supplies candidate bindings. It must not change once Ready
// reports true.
type Registry interface {
	Ready() bool
	ConsideredBindings(kind binding.Kind, text string) []*binding.Binding
}

// ArgumentExtractor produces the arguments for a successful pattern match,
// positionally aligned with the binding's handler parameters.
type ArgumentExtractor interface {
	Extract(m *pattern.Match, step binding.StepInstance, b *binding.Binding) []binding.MatchArgument
}

// Converter answers whether a value can be converted to a parameter type.
type Converter interface {
	CanConvert(value any, target reflect.Type, locale language.Tag) bool
}

// ErrorFactory builds the error raised for a structurally invalid binding.
type ErrorFactory interface {
	InvalidBinding(b *binding.Binding) error
}

// Service matches steps against the bindings of a registry. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	registry  Registry
	extractor ArgumentExtractor
	converter Converter
	errors    ErrorFactory
	logger    *slog.Logger
}

type Option func(*Service)

func WithArgumentExtractor(e ArgumentExtractor) Option {
	return func(s *Service) { s.extractor = e }
}

func WithConverter(c Converter) Option {
	return func(s *Service) { s.converter = c }
}

func WithErrorFactory(f ErrorFactory) Option {
	return func(s *Service) { s.errors = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service over reg using the default extractor,
// converter and error factory unless overridden.
func NewService(reg Registry, opts ...Option) *Service {
	s := &Service{
		registry:  reg,
		extractor: argument.Extractor{},
		converter: convert.Converter{},
		errors:    diag.Factory{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready reports whether the underlying registry is ready.
func (s *Service) Ready() bool {
	return s.registry.Ready()
}
