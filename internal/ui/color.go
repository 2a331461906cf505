package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/stepmatch/internal/outcome"
)

var (
	boundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

var outcomeStyles = map[outcome.Outcome]lipgloss.Style{
	outcome.Bound:          boundStyle,
	outcome.Undefined:      errorStyle,
	outcome.Ambiguous:      warnStyle,
	outcome.ScopeExcluded:  warnStyle,
	outcome.ParamErrors:    warnStyle,
	outcome.InvalidBinding: invalidStyle,
}

// Outcome renders an outcome name in its color.
func Outcome(o outcome.Outcome) string {
	style, ok := outcomeStyles[o]
	if !ok {
		return string(o)
	}
	return style.Render(string(o))
}

func NewLine(w io.Writer, path string, steps int) {
	fmt.Fprintf(w, "%s  %s (%d steps)\n", boundStyle.Render("new"), path, steps)
}

func TrkLine(w io.Writer, path string, steps int) {
	fmt.Fprintf(w, "%s  %s (%d steps)\n", faintStyle.Render("trk"), path, steps)
}

func GoneLine(w io.Writer, path string) {
	fmt.Fprintln(w, errorStyle.Render("del")+"  "+path)
}

func ParseErrorLine(w io.Writer, path string, line int, msg string) {
	fmt.Fprintf(w, "%s  %s:%d: %s\n", errorStyle.Render("err"), path, line, msg)
}

func SummaryLine(w io.Writer, files, steps int) {
	fmt.Fprintf(w, "synced %d files, %d steps\n", files, steps)
}

func Faint(s string) string { return faintStyle.Render(s) }
