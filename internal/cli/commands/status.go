package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripjournal/tripjournal/internal/cli/nav"
	"github.com/tripjournal/tripjournal/internal/cli/session"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"whoami"},
		Short:   "Show who is signed in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sh, err := newShell(cfg, cmd.OutOrStdout(), shellOptions{start: nav.Root})
			if err != nil {
				return err
			}

			if err := sh.session.UpdateHeaderUI(sh.header); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := sh.header.WriteTo(out); err != nil {
				return err
			}

			user, ok, err := sh.session.CurrentUser()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "Not signed in (%s).\n", session.GuestLabel)
				fmt.Fprintln(out, "\nSign in with: tripjournal login")
				return nil
			}

			fmt.Fprintf(out, "Signed in as %s\n", user.Username())
			if email, ok := user["email"].(string); ok && email != "" {
				fmt.Fprintf(out, "  Email:   %s\n", email)
			}
			fmt.Fprintf(out, "  Server:  %s\n", sh.api.BaseURL())
			fmt.Fprintf(out, "  Storage: %s\n", cfg.Storage.Backend)
			return nil
		},
	}
}
