package pattern

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultTimeout bounds a single match so a pathological pattern cannot stall
// a resolution.
const DefaultTimeout = 2 * time.Second

// Regex is a compiled step pattern. Capture groups are numbered positionally
// and feed handler parameters in declaration order.
type Regex struct {
	source string
	re     *regexp2.Regexp
}

// Compile anchors expr at both ends (unless already anchored) and compiles it
// with the .NET-compatible regexp2 dialect.
func Compile(expr string) (*Regex, error) {
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^" + anchored
	}
	if !strings.HasSuffix(anchored, "$") || strings.HasSuffix(anchored, `\$`) {
		anchored += "$"
	}

	re, err := regexp2.Compile(anchored, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	re.MatchTimeout = DefaultTimeout
	return &Regex{source: expr, re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Regex {
	r, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Regex) String() string { return r.source }

// Match applies the pattern to text. A nil Match with a nil error means the
// text did not match.
func (r *Regex) Match(text string) (*Match, error) {
	m, err := r.re.FindStringMatch(text)
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", r.source, err)
	}
	if m == nil {
		return nil, nil
	}

	groups := m.Groups()
	values := make([]string, 0, len(groups))
	for _, g := range groups[1:] {
		if len(g.Captures) == 0 {
			values = append(values, "")
			continue
		}
		values = append(values, g.String())
	}
	return &Match{text: m.String(), groups: values}, nil
}

// Match is a successful pattern application.
type Match struct {
	text   string
	groups []string
}

func (m *Match) Text() string { return m.text }

// Groups returns capture values 1..n. Groups that did not participate in the
// match are empty strings.
func (m *Match) Groups() []string {
	return append([]string(nil), m.groups...)
}
