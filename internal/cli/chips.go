package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/registry"
)

// chipsCommand creates the chips command and its subcommands.
func (c *CLI) chipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chips",
		Short: "Inspect the chip registry",
		Long: `Inspect the chip pinout registry: the built-in tables plus any
--chips-file and --packages-file given on the command line or in the config.`,
	}

	cmd.AddCommand(c.chipsListCommand())
	cmd.AddCommand(c.chipsShowCommand())
	cmd.AddCommand(c.chipsPackagesCommand())
	cmd.AddCommand(c.chipsValidateCommand())
	cmd.AddCommand(c.chipsBrowseCommand())

	return cmd
}

func (c *CLI) chipsListCommand() *cobra.Command {
	var (
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known chips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry()
			if err != nil {
				return err
			}
			chips := reg.Search(search)
			if asJSON {
				return writeJSON(chips)
			}
			if len(chips) == 0 {
				printInfo("No chips match %q", search)
				return nil
			}
			fmt.Fprintln(stdout, chipTable(chips))
			printDetail("%d of %d chips", len(chips), reg.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only chips whose name, description or category contains this")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) chipsShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show the pinout of a chip",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeChipNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := errors.ValidateChipName(name); err != nil {
				return err
			}
			reg, err := c.openRegistry()
			if err != nil {
				return err
			}
			chip, ok := reg.Lookup(name)
			if !ok {
				return errors.ChipNotFound(name)
			}
			if asJSON {
				return writeJSON(chip)
			}

			fmt.Fprintln(stdout, StyleTitle.Render(chip.Name))
			printKeyValue("Description", orDash(chip.Description))
			printKeyValue("Category", orDash(string(chip.Category)))
			pkg := orDash(chip.Package)
			if p, ok := reg.LookupPackage(chip.Package); ok {
				pkg = fmt.Sprintf("%s (%d pins, %.2f mm pitch)", p.Name, p.Pins, p.PinPitch)
			}
			printKeyValue("Package", pkg)
			fmt.Fprintln(stdout, pinTable(chip))
			printNextStep("Render it", fmt.Sprintf("%s render --chip %s", appName, chip.Name))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *CLI) chipsPackagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List known DIP packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry()
			if err != nil {
				return err
			}
			rows := [][]string{}
			for _, name := range reg.PackageNames() {
				p, _ := reg.LookupPackage(name)
				rows = append(rows, []string{
					p.Name,
					strconv.Itoa(p.Pins),
					formatMM(p.PinPitch),
					formatMM(p.RowSpacing),
					formatMM(p.BodyHeight()),
				})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(tableBorderStyle).
				Headers("Package", "Pins", "Pitch", "Rows", "Body").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return tableHeaderStyle
					}
					if col == 0 {
						return StyleHighlight
					}
					return listNormalStyle
				})
			fmt.Fprintln(stdout, t.Render())
			return nil
		},
	}
}

func (c *CLI) chipsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every chip record for layout problems",
		Long: `Validate checks that pin numbers run contiguously from 1, that every chip
has an even pin count and that the count matches its package.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry()
			if err != nil {
				return err
			}
			problems := reg.Validate()
			if len(problems) == 0 {
				printSuccess("%d chips OK", reg.Len())
				return nil
			}
			for _, p := range problems {
				printError("%s", p)
			}
			return errors.New(errors.ErrCodeInvalidRegistry, "%d problem(s) in %d chips", len(problems), reg.Len())
		},
	}
}

func (c *CLI) chipsBrowseCommand() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse chips interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.openRegistry()
			if err != nil {
				return err
			}
			chips := reg.Search(search)
			if len(chips) == 0 {
				printInfo("No chips match %q", search)
				return nil
			}
			p := tea.NewProgram(NewChipListModel(chips), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(ChipListModel); ok && m.Selected != nil {
				printNextStep("Render it", fmt.Sprintf("%s render --chip %s", appName, m.Selected.Name))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "start from the chips matching this")
	return cmd
}

// chipTable renders a one-line summary per chip.
func chipTable(chips []registry.Chip) string {
	rows := make([][]string, 0, len(chips))
	for _, ch := range chips {
		rows = append(rows, []string{ch.Name, orDash(string(ch.Category)), orDash(ch.Package), strconv.Itoa(len(ch.Pins)), ch.Description})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("Chip", "Category", "Package", "Pins", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return StyleHighlight
			case col == 4:
				return listNormalStyle
			}
			return listDimStyle
		}).
		Render()
}

func formatMM(v float64) string {
	if v <= 0 {
		return "—"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " mm"
}

// writeJSON prints v as indented JSON on stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
