package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chriserin/stepmatch/internal/binding"
)

// Bindings prints one aligned line per binding: kind, pattern, handler and
// scope. Invalid bindings carry their compile error.
func Bindings(w io.Writer, bs []*binding.Binding) {
	var kindW, patternW, handlerW int
	for _, b := range bs {
		kindW = max(kindW, runewidth.StringWidth(b.Kind().String()))
		patternW = max(patternW, runewidth.StringWidth(b.Expression()))
		handlerW = max(handlerW, runewidth.StringWidth(b.Handler().ID))
	}

	for _, b := range bs {
		line := fmt.Sprintf("%s  %s  %s",
			runewidth.FillRight(b.Kind().String(), kindW),
			runewidth.FillRight(b.Expression(), patternW),
			runewidth.FillRight(b.Handler().ID, handlerW),
		)
		if b.Scoped() {
			line += "  " + Faint(b.Scope().String())
		}
		if !b.Valid() {
			line += "  " + errorStyle.Render("invalid: "+b.Err().Error())
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
