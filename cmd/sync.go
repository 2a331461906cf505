package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/match"
	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/parser"
	"github.com/chriserin/stepmatch/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Resolve every step of the feature files and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

type resolvedStep struct {
	scenario *parser.ParsedScenario
	step     parser.ParsedStep
	result   outcome.Result
}

func RunSync(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, _, err := loadService(cfg)
	if err != nil {
		return err
	}

	sqlDB, err := openDB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	paths, err := doublestar.FilepathGlob(cfg.Features)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Features, err)
	}
	sort.Strings(paths)

	seen := map[string]bool{}
	total := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, parseErrors := parser.Parse(path, content)
		pf := parser.Transform(doc, path, parseErrors)

		steps, err := resolveFile(svc, cfg.LocaleTag(), pf)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		isNew, err := storeFeature(sqlDB, path, pf, steps)
		if err != nil {
			return err
		}

		if isNew {
			ui.NewLine(w, path, len(steps))
		} else {
			ui.TrkLine(w, path, len(steps))
		}
		for _, pe := range pf.Errors {
			ui.ParseErrorLine(w, path, pe.Line, pe.Message)
		}
		slog.Debug("feature synced", "path", path, "steps", len(steps), "errors", len(pf.Errors))

		seen[path] = true
		total += len(steps)
	}

	gone, err := removeMissingFeatures(sqlDB, seen)
	if err != nil {
		return err
	}
	for _, path := range gone {
		ui.GoneLine(w, path)
	}

	ui.SummaryLine(w, len(paths), total)
	return nil
}

func resolveFile(svc *match.Service, locale language.Tag, pf *parser.ParsedFile) ([]resolvedStep, error) {
	var out []resolvedStep
	for i := range pf.Scenarios {
		sc := &pf.Scenarios[i]
		for _, step := range sc.Steps {
			res, err := svc.Resolve(step.Instance, locale)
			result, err := outcome.Classify(step.Instance, res, err)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", step.Line, err)
			}
			out = append(out, resolvedStep{scenario: sc, step: step, result: result})
		}
	}
	return out, nil
}

// storeFeature replaces the stored steps of one feature file. It reports
// whether the file was seen for the first time.
func storeFeature(sqlDB *sql.DB, path string, pf *parser.ParsedFile, steps []resolvedStep) (bool, error) {
	tx, err := sqlDB.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning sync of %s: %w", path, err)
	}
	defer tx.Rollback()

	var id int64
	isNew := false
	err = tx.QueryRow(`SELECT id FROM features WHERE file_path = ?`, path).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(`INSERT INTO features (file_path, name) VALUES (?, ?)`, path, pf.Name)
		if err != nil {
			return false, fmt.Errorf("inserting %s: %w", path, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("inserting %s: %w", path, err)
		}
		isNew = true
	case err != nil:
		return false, fmt.Errorf("querying %s: %w", path, err)
	default:
		if _, err := tx.Exec(`UPDATE features SET name = ?, updated_at = datetime('now') WHERE id = ?`, pf.Name, id); err != nil {
			return false, fmt.Errorf("updating %s: %w", path, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM steps WHERE feature_id = ?`, id); err != nil {
		return false, fmt.Errorf("clearing steps of %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM parse_errors WHERE feature_id = ?`, id); err != nil {
		return false, fmt.Errorf("clearing parse errors of %s: %w", path, err)
	}

	for _, s := range steps {
		_, err := tx.Exec(`
			INSERT INTO steps (feature_id, scenario, scenario_line, line, keyword, kind, text, outcome, reason, handler, candidates, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, s.scenario.Name, s.scenario.Line, s.step.Line, s.step.Keyword, s.step.Instance.Kind.String(), s.step.Instance.Text,
			string(s.result.Outcome), s.result.Reason.String(), s.result.Handler, strings.Join(s.result.Candidates, ","), s.result.Message,
		)
		if err != nil {
			return false, fmt.Errorf("inserting step at %s:%d: %w", path, s.step.Line, err)
		}
	}
	for _, pe := range pf.Errors {
		if _, err := tx.Exec(`INSERT INTO parse_errors (feature_id, line, message) VALUES (?, ?, ?)`, id, pe.Line, pe.Message); err != nil {
			return false, fmt.Errorf("inserting parse error of %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing sync of %s: %w", path, err)
	}
	return isNew, nil
}

func removeMissingFeatures(sqlDB *sql.DB, seen map[string]bool) ([]string, error) {
	rows, err := sqlDB.Query(`SELECT file_path FROM features ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	var gone []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		if !seen[path] {
			gone = append(gone, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating features: %w", err)
	}

	for _, path := range gone {
		if _, err := sqlDB.Exec(`DELETE FROM features WHERE file_path = ?`, path); err != nil {
			return nil, fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return gone, nil
}
