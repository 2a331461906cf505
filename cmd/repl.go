package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/match"
	"github.com/chriserin/stepmatch/internal/registry"
	"github.com/chriserin/stepmatch/internal/scope"
	"github.com/chriserin/stepmatch/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Resolve steps interactively against the bindings catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRepl(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

var replCommands = []string{"Given", "When", "Then", "And", "But",
	"tags", "feature", "scenario", "context", "bindings", "help", "quit"}

const replHelp = `Commands:
  [@tag ...] Given|When|Then|And|But <text>   resolve a step
  tags [@tag ...]                             set the scenario tags (none clears)
  feature [title]                             set the feature title
  scenario [title]                            set the scenario title
  context                                     show the current scenario context
  bindings                                    list the catalog bindings
  help                                        show this help
  quit                                        leave the repl
`

// replSession holds the scenario context steps are resolved in. And and But
// continue the kind of the previous step.
type replSession struct {
	svc      *match.Service
	reg      *registry.Registry
	locale   language.Tag
	out      io.Writer
	tags     []string
	feature  string
	scenario string
	previous binding.Kind
}

func RunRepl(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, reg, err := loadService(cfg)
	if err != nil {
		return err
	}
	s := &replSession{svc: svc, reg: reg, locale: cfg.LocaleTag(), out: w}

	completer := readline.NewPrefixCompleter()
	for _, c := range replCommands {
		completer.Children = append(completer.Children, readline.PcItem(c))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          w,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(w, "stepmatch repl, %d bindings, locale %s\n", len(reg.Bindings()), s.locale)
	fmt.Fprintln(w, "Type 'help' for available commands.")

	for {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		quit, err := s.handle(line)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *replSession) prompt() string {
	if len(s.tags) == 0 {
		return "stepmatch> "
	}
	return fmt.Sprintf("stepmatch[@%s]> ", strings.Join(s.tags, " @"))
}

// handle runs one input line. It reports whether the session should end.
func (s *replSession) handle(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	// Leading tags apply to this step only.
	var inline []string
	for len(fields) > 0 && strings.HasPrefix(fields[0], "@") {
		inline = append(inline, fields[0])
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return false, errors.New("tags must be followed by a step")
	}

	cmd, rest := fields[0], strings.Join(fields[1:], " ")
	if len(inline) == 0 {
		switch cmd {
		case "tags":
			s.tags = scope.NewContext("", "", fields[1:]...).Tags
			return false, nil
		case "feature":
			s.feature = rest
			return false, nil
		case "scenario":
			s.scenario = rest
			return false, nil
		case "context":
			s.printContext()
			return false, nil
		case "bindings":
			ui.Bindings(s.out, s.reg.Bindings())
			return false, nil
		case "help", "?":
			fmt.Fprint(s.out, replHelp)
			return false, nil
		case "quit", "q", "exit":
			return true, nil
		}
	}

	kind, err := binding.KindFromKeyword(cmd, s.previous)
	if err != nil {
		return false, fmt.Errorf("unknown command %q, type 'help' for available commands", cmd)
	}
	if rest == "" {
		return false, errors.New("step text is required")
	}
	s.previous = kind

	tags := append(append([]string{}, s.tags...), inline...)
	step := binding.StepInstance{
		Kind:    kind,
		Text:    rest,
		Context: scope.NewContext(s.feature, s.scenario, tags...),
	}
	return false, resolveStep(s.out, s.svc, s.locale, step)
}

func (s *replSession) printContext() {
	fmt.Fprintf(s.out, "Feature:  %s\n", s.feature)
	fmt.Fprintf(s.out, "Scenario: %s\n", s.scenario)
	if len(s.tags) > 0 {
		fmt.Fprintf(s.out, "Tags:     @%s\n", strings.Join(s.tags, " @"))
	} else {
		fmt.Fprintln(s.out, "Tags:")
	}
}
