package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/ui"
)

var outcomeFlags []string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored steps with their outcome",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		includes, excludes := splitOutcomeFlags(outcomeFlags)
		return RunList(cmd.OutOrStdout(), includes, excludes)
	},
}

func init() {
	listCmd.Flags().StringSliceVar(&outcomeFlags, "outcome", nil, "Filter by outcome, prefix with ! to exclude (repeatable)")
	rootCmd.AddCommand(listCmd)
}

// splitOutcomeFlags separates "!undefined" style exclusions from plain
// inclusions.
func splitOutcomeFlags(values []string) (includes, excludes []string) {
	for _, v := range values {
		if rest, ok := strings.CutPrefix(v, "!"); ok {
			excludes = append(excludes, rest)
		} else {
			includes = append(includes, v)
		}
	}
	return includes, excludes
}

func parseOutcomes(names []string) (map[outcome.Outcome]bool, error) {
	set := map[outcome.Outcome]bool{}
	for _, name := range names {
		o, err := outcome.Parse(name)
		if err != nil {
			return nil, err
		}
		set[o] = true
	}
	return set, nil
}

func RunList(w io.Writer, includes, excludes []string) error {
	include, err := parseOutcomes(includes)
	if err != nil {
		return err
	}
	exclude, err := parseOutcomes(excludes)
	if err != nil {
		return err
	}

	sqlDB, err := openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, s.line, s.keyword, s.text, s.outcome, s.handler
		FROM steps s
		JOIN features f ON s.feature_id = f.id
		ORDER BY f.file_path, s.id
	`)
	if err != nil {
		return fmt.Errorf("querying steps: %w", err)
	}
	defer rows.Close()

	var results []ui.Row
	for rows.Next() {
		var r ui.Row
		var filePath, keyword, text, o string
		var line int
		if err := rows.Scan(&r.ID, &filePath, &line, &keyword, &text, &o, &r.Handler); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.Outcome = outcome.Outcome(o)
		if len(include) > 0 && !include[r.Outcome] {
			continue
		}
		if exclude[r.Outcome] {
			continue
		}
		r.Location = fmt.Sprintf("%s:%d", filePath, line)
		r.Step = keyword + " " + text
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	widths := ui.MeasureRows(results)
	for _, r := range results {
		ui.ListRow(w, r, widths)
	}
	return nil
}
