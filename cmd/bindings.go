package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/stepmatch/internal/binding"
	"github.com/chriserin/stepmatch/internal/catalog"
	"github.com/chriserin/stepmatch/internal/ui"
)

var bindingsKind string

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the bindings declared in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunBindings(cmd.OutOrStdout(), bindingsKind)
	},
}

func init() {
	bindingsCmd.Flags().StringVar(&bindingsKind, "kind", "", "Only list bindings of this kind")
	rootCmd.AddCommand(bindingsCmd)
}

func RunBindings(w io.Writer, rawKind string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := catalog.Load(cfg.Bindings)
	if err != nil {
		return fmt.Errorf("loading bindings: %w", err)
	}
	bs, err := c.Expand()
	if err != nil {
		return fmt.Errorf("expanding bindings: %w", err)
	}

	if rawKind != "" {
		kind, err := binding.KindFromString(rawKind)
		if err != nil {
			return err
		}
		var filtered []*binding.Binding
		for _, b := range bs {
			if b.Kind() == kind {
				filtered = append(filtered, b)
			}
		}
		bs = filtered
	}

	ui.Bindings(w, bs)
	return nil
}
