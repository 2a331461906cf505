package ui

import (
	"fmt"
	"io"

	"github.com/chriserin/stepmatch/internal/outcome"
)

// ResolveReport prints an ad-hoc resolution. args are the converted handler
// arguments of a bound step; convErr is the deferred conversion failure.
func ResolveReport(w io.Writer, step string, r outcome.Result, args []any, convErr error) {
	fmt.Fprintf(w, "%s  %s\n", Outcome(r.Outcome), step)
	switch r.Outcome {
	case outcome.Bound:
		fmt.Fprintf(w, "  handler: %s\n", r.Handler)
		if convErr != nil {
			fmt.Fprintf(w, "  %s %v\n", errorStyle.Render("arguments:"), convErr)
			return
		}
		for i, a := range args {
			fmt.Fprintf(w, "  arg %d: %#v\n", i+1, a)
		}
	default:
		if r.Message != "" {
			fmt.Fprintf(w, "  %s\n", Faint(r.Message))
		}
	}
}
