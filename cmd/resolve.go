package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/convert"
	"github.com/chriserin/stepmatch/internal/match"
	"github.com/chriserin/stepmatch/internal/outcome"
	"github.com/chriserin/stepmatch/internal/scope"
	"github.com/chriserin/stepmatch/internal/ui"
)

// ResolveOptions is the scenario context an ad-hoc step is resolved in.
type ResolveOptions struct {
	Tags      []string
	Feature   string
	Scenario  string
	DocString string
}

var resolveOpts ResolveOptions

var resolveCmd = &cobra.Command{
	Use:   "resolve <Given|When|Then> <text...>",
	Short: "Resolve a single step against the bindings catalog",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunResolve(cmd.OutOrStdout(), args[0], strings.Join(args[1:], " "), resolveOpts)
	},
}

func init() {
	resolveCmd.Flags().StringSliceVar(&resolveOpts.Tags, "tag", nil, "Scenario tag (repeatable)")
	resolveCmd.Flags().StringVar(&resolveOpts.Feature, "feature", "", "Feature title")
	resolveCmd.Flags().StringVar(&resolveOpts.Scenario, "scenario", "", "Scenario title")
	resolveCmd.Flags().StringVar(&resolveOpts.DocString, "doc", "", "Doc string attached to the step")
	rootCmd.AddCommand(resolveCmd)
}

func RunResolve(w io.Writer, rawKind, text string, opts ResolveOptions) error {
	kind, err := binding.KindFromString(rawKind)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, _, err := loadService(cfg)
	if err != nil {
		return err
	}

	step := binding.StepInstance{
		Kind:    kind,
		Text:    text,
		Context: scope.NewContext(opts.Feature, opts.Scenario, opts.Tags...),
	}
	if opts.DocString != "" {
		step.DocString = &opts.DocString
	}
	return resolveStep(w, svc, cfg.LocaleTag(), step)
}

// resolveStep resolves one step and reports it, converting the arguments of
// a bound step.
func resolveStep(w io.Writer, svc *match.Service, locale language.Tag, step binding.StepInstance) error {
	res, err := svc.Resolve(step, locale)
	result, err := outcome.Classify(step, res, err)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", step.Text, err)
	}

	var args []any
	var convErr error
	if result.Outcome == outcome.Bound {
		args, convErr = match.ConvertArguments(res.Match, locale, convert.Converter{})
	}
	ui.ResolveReport(w, step.Kind.String()+" "+step.Text, result, args, convErr)
	return nil
}
