package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tripjournal/tripjournal/internal/cli/nav"
	"github.com/tripjournal/tripjournal/internal/cli/pages"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the travel journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for environment variables (useful for scripts)
			if username == "" {
				username = os.Getenv("TRIPJOURNAL_USERNAME")
			}
			if password == "" {
				password = os.Getenv("TRIPJOURNAL_PASSWORD")
			}

			if password == "" && username != "" {
				// Prompt for the password only when stdin is a terminal (not piped)
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("password is required in non-interactive mode (use --password flag or TRIPJOURNAL_PASSWORD env var)")
				}
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(bytePassword)
			}

			values := map[string]string{}
			if username != "" {
				values["usernameOrEmail"] = username
			}
			if password != "" {
				values["password"] = password
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sh, err := newShell(cfg, cmd.OutOrStdout(), shellOptions{
				start:  nav.LoginPath,
				prompt: pages.FieldPrompter{Values: values, Fallback: pages.TerminalPrompter{}},
			})
			if err != nil {
				return err
			}
			if err := sh.open(cmd.Context(), true); err != nil {
				return err
			}

			authenticated, err := sh.session.IsAuthenticated()
			if err != nil {
				return err
			}
			if !authenticated {
				return fmt.Errorf("login failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username or email (or set TRIPJOURNAL_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set TRIPJOURNAL_PASSWORD, will prompt if not provided)")

	return cmd
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sh, err := newShell(cfg, cmd.OutOrStdout(), shellOptions{start: nav.Root})
			if err != nil {
				return err
			}

			if err := sh.session.Logout(); err != nil {
				return fmt.Errorf("failed to log out: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")

			// Logout navigated to the root; load it so the chrome shows the guest state
			if _, ok := sh.location.Next(); !ok {
				return nil
			}
			return sh.open(cmd.Context(), true)
		},
	}
}
