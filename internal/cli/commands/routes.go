package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tripjournal/tripjournal/internal/cli/routes"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the pages that can be opened",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tPAGE\tLOGIN REQUIRED")
			fmt.Fprintln(w, "────\t────\t──────────────")

			for _, e := range routes.Default().Entries() {
				required := "no"
				if e.RequiresAuth {
					required = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Path, e.Module, required)
			}

			return w.Flush()
		},
	}
}
