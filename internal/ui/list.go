package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chriserin/stepmatch/internal/outcome"
)

// Row is one stored step as shown by list.
type Row struct {
	ID       int64
	Location string // file:line
	Step     string // keyword and text
	Outcome  outcome.Outcome
	Handler  string
}

// Widths holds the display width of each padded column.
type Widths struct {
	ID, Location, Step int
}

// MeasureRows computes column widths wide enough for every row.
func MeasureRows(rows []Row) Widths {
	var w Widths
	for _, r := range rows {
		w.ID = max(w.ID, runewidth.StringWidth(fmt.Sprintf("#%d", r.ID)))
		w.Location = max(w.Location, runewidth.StringWidth(r.Location))
		w.Step = max(w.Step, runewidth.StringWidth(r.Step))
	}
	return w
}

func ListRow(w io.Writer, r Row, widths Widths) {
	line := fmt.Sprintf("%s  %s  %s  %s",
		runewidth.FillRight(fmt.Sprintf("#%d", r.ID), widths.ID),
		runewidth.FillRight(r.Location, widths.Location),
		runewidth.FillRight(r.Step, widths.Step),
		Outcome(r.Outcome),
	)
	if r.Handler != "" {
		line += "  " + Faint(r.Handler)
	}
	fmt.Fprintln(w, line)
}

// Detail is one stored step as shown by show.
type Detail struct {
	ID         int64
	Location   string
	Feature    string
	Scenario   string
	Step       string
	Outcome    outcome.Outcome
	Reason     string
	Handler    string
	Candidates []string
	Message    string
}

func ShowHeader(w io.Writer, id int64, location string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("#%d", id))+"  "+location)
}

func ShowDetail(w io.Writer, d Detail) {
	ShowHeader(w, d.ID, d.Location)
	fmt.Fprintf(w, "Feature:  %s\n", d.Feature)
	fmt.Fprintf(w, "Scenario: %s\n", d.Scenario)
	fmt.Fprintf(w, "Step:     %s\n", d.Step)
	fmt.Fprintf(w, "Outcome:  %s\n", Outcome(d.Outcome))
	fmt.Fprintf(w, "Reason:   %s\n", d.Reason)
	if d.Handler != "" {
		fmt.Fprintf(w, "Handler:  %s\n", d.Handler)
	}
	if len(d.Candidates) > 0 {
		fmt.Fprintln(w, "Candidates:")
		for _, c := range d.Candidates {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
	if d.Message != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, Faint(d.Message))
	}
}

// StatusLine prints the count of steps with one outcome.
func StatusLine(w io.Writer, o outcome.Outcome, count int) {
	label := runewidth.FillRight(string(o)+":", runewidth.StringWidth("invalid-binding:"))
	fmt.Fprintf(w, "  %s %d\n", strings.Replace(label, string(o), Outcome(o), 1), count)
}
