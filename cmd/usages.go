package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/ui"
)

var usagesCmd = &cobra.Command{
	Use:   "usages <handler>",
	Short: "List the stored steps bound to, or competing for, a handler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunUsages(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(usagesCmd)
}

func RunUsages(w io.Writer, handler string) error {
	sqlDB, err := openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT s.id, f.file_path, s.line, s.keyword, s.text, s.outcome
		FROM steps s
		JOIN features f ON s.feature_id = f.id
		WHERE s.handler = ? OR ',' || s.candidates || ',' LIKE '%,' || ? || ',%'
		ORDER BY f.file_path, s.id
	`, handler, handler)
	if err != nil {
		return fmt.Errorf("querying usages: %w", err)
	}
	defer rows.Close()

	var results []ui.Row
	for rows.Next() {
		var r ui.Row
		var filePath, keyword, text, o string
		var line int
		if err := rows.Scan(&r.ID, &filePath, &line, &keyword, &text, &o); err != nil {
			return fmt.Errorf("scanning usage: %w", err)
		}
		r.Location = fmt.Sprintf("%s:%d", filePath, line)
		r.Step = keyword + " " + text
		r.Outcome = outcome.Outcome(o)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating usages: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "no stored steps use %s\n", handler)
		return nil
	}

	widths := ui.MeasureRows(results)
	for _, r := range results {
		ui.ListRow(w, r, widths)
	}
	return nil
}
