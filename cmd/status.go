package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many stored steps ended in each outcome",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	sqlDB, err := openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var features, steps, parseErrors int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM features`).Scan(&features); err != nil {
		return fmt.Errorf("counting features: %w", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&steps); err != nil {
		return fmt.Errorf("counting steps: %w", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM parse_errors`).Scan(&parseErrors); err != nil {
		return fmt.Errorf("counting parse errors: %w", err)
	}

	fmt.Fprintf(w, "Features: %d\n", features)
	fmt.Fprintf(w, "Steps: %d\n", steps)

	if steps > 0 {
		rows, err := sqlDB.Query(`SELECT outcome, COUNT(*) FROM steps GROUP BY outcome`)
		if err != nil {
			return fmt.Errorf("querying outcome counts: %w", err)
		}
		defer rows.Close()

		counts := map[outcome.Outcome]int{}
		for rows.Next() {
			var o string
			var cnt int
			if err := rows.Scan(&o, &cnt); err != nil {
				return fmt.Errorf("scanning outcome row: %w", err)
			}
			counts[outcome.Outcome(o)] = cnt
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating outcome rows: %w", err)
		}

		for _, o := range outcome.All {
			if counts[o] > 0 {
				ui.StatusLine(w, o, counts[o])
			}
		}
	}

	if parseErrors > 0 {
		fmt.Fprintf(w, "Parse errors: %d\n", parseErrors)
	}
	return nil
}
