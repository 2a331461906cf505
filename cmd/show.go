package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show how a stored step was resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func parseStepID(rawID string) (int64, error) {
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid step ID: %s", rawID)
	}
	return id, nil
}

func RunShow(w io.Writer, rawID string) error {
	id, err := parseStepID(rawID)
	if err != nil {
		return err
	}

	sqlDB, err := openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	d := ui.Detail{ID: id}
	var filePath, keyword, text, o, candidates string
	var line int
	err = sqlDB.QueryRow(`
		SELECT f.file_path, f.name, s.scenario, s.line, s.keyword, s.text, s.outcome, s.reason, s.handler, s.candidates, s.message
		FROM steps s
		JOIN features f ON s.feature_id = f.id
		WHERE s.id = ?
	`, id).Scan(&filePath, &d.Feature, &d.Scenario, &line, &keyword, &text, &o, &d.Reason, &d.Handler, &candidates, &d.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("step %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("querying step %d: %w", id, err)
	}

	d.Location = fmt.Sprintf("%s:%d", filePath, line)
	d.Step = keyword + " " + text
	d.Outcome = outcome.Outcome(o)
	if candidates != "" {
		d.Candidates = strings.Split(candidates, ",")
	}

	ui.ShowDetail(w, d)
	return nil
}
