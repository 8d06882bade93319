package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
)

// prefsCommand creates the command that manages the saved layout.
func (c *CLI) prefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the saved page layout",
		Long: `The saved layout holds the paper size, margins and preview zoom. It is
written by the preview server's controls and by "iclabels prefs set", and
overrides the paper and margins of every rendered sheet.`,
	}

	cmd.AddCommand(c.prefsShowCommand())
	cmd.AddCommand(c.prefsSetCommand())
	cmd.AddCommand(c.prefsResetCommand())
	cmd.AddCommand(c.prefsPathCommand())

	return cmd
}

func (c *CLI) prefsShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := c.openPrefs(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			state, saved, err := mgr.Load(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(state)
			}
			printState(state)
			if !saved {
				printDetail("nothing saved, sheets keep their own paper and margins")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) prefsSetCommand() *cobra.Command {
	var (
		paper   string
		margins string
		zoom    float64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved layout",
		Example: `  iclabels prefs set --paper A4
  iclabels prefs set --margins "10 5" --zoom 1.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("paper") && !flags.Changed("margins") && !flags.Changed("zoom") {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to set: pass --paper, --margins or --zoom")
			}
			ctx := cmd.Context()
			mgr, err := c.openPrefs(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			state, _, err := mgr.Load(ctx)
			if err != nil {
				return err
			}
			if flags.Changed("paper") {
				p, ok := page.LookupPaper(paper)
				if !ok {
					return errors.New(errors.ErrCodeInvalidPaper, "unknown paper %q (want A4 or Letter)", paper)
				}
				state.Paper = p.Name
			}
			if flags.Changed("margins") {
				m := page.ParseMargins(margins, page.Uniform(-1))
				if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
					return errors.New(errors.ErrCodeInvalidMargins, "invalid margins %q", margins)
				}
				state.Margins = m
			}
			if flags.Changed("zoom") {
				state.Zoom = zoom
			}

			if err := mgr.Save(ctx, state); err != nil {
				return err
			}
			printSuccess("Saved layout")
			printState(state.Normalize())
			return nil
		},
	}
	cmd.Flags().StringVar(&paper, "paper", "", "paper size: A4, Letter")
	cmd.Flags().StringVar(&margins, "margins", "", `page margins in mm, CSS order ("10" or "10 5 10 5")`)
	cmd.Flags().Float64Var(&zoom, "zoom", prefs.DefaultZoom, fmt.Sprintf("preview zoom, %g to %g", prefs.MinZoom, prefs.MaxZoom))
	return cmd
}

func (c *CLI) prefsResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := c.openPrefs(ctx)
			if err != nil {
				return err
			}
			defer mgr.Close()

			state, err := mgr.Reset(ctx)
			if err != nil {
				return err
			}
			printSuccess("Layout reset")
			printState(state)
			return nil
		},
	}
}

func (c *CLI) prefsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the layout is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.settings().Prefs.Options()
			store, err := prefs.Open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer store.Close()

			switch s := store.(type) {
			case *prefs.FileStore:
				fmt.Fprintln(stdout, s.Path(prefs.Key))
			case *prefs.RedisStore:
				fmt.Fprintln(stdout, opts.RedisURL)
			case *prefs.MongoStore:
				fmt.Fprintf(stdout, "%s (%s.%s)\n", opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
			}
			return nil
		},
	}
}

func printState(s prefs.State) {
	printKeyValue("Paper", s.Paper)
	printKeyValue("Margins", s.Margins.String()+" mm")
	printKeyValue("Zoom", strconv.FormatFloat(s.Zoom, 'f', -1, 64))
}
