package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tripjournal/tripjournal/internal/cli/pages"
)

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var (
		assignments []string
		noFollow    bool
	)

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a page, e.g. /trips or '/trips/detail?tripId=3'",
		Long: `Open loads one page of the travel journal.

Pages that need input prompt for it interactively. Values can be given up front
with --set, which also makes the page usable from scripts:

  tripjournal open /trips/new --set title=Jeju --set startDate=2024-05-01 --set endDate=2024-05-04`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := pages.ParseAssignments(assignments)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			target := args[0]
			if !strings.HasPrefix(target, "/") {
				target = "/" + target
			}

			sh, err := newShell(cfg, cmd.OutOrStdout(), shellOptions{
				start:  target,
				prompt: pages.FieldPrompter{Values: values, Fallback: pages.TerminalPrompter{}},
			})
			if err != nil {
				return err
			}
			return sh.open(cmd.Context(), !noFollow)
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Provide a page input as key=value (repeatable)")
	cmd.Flags().BoolVar(&noFollow, "no-follow", false, "Do not follow redirects requested by the page")

	return cmd
}
