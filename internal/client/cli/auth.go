package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *App) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.valueOr(username, "Username: ")
			if err != nil {
				return err
			}
			pw, err := a.secret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := a.secret("Repeat password: ")
			if err != nil {
				return err
			}
			if pw != confirm {
				return errors.New("passwords do not match")
			}

			u, err := a.api.Register(cmd.Context(), name, pw)
			if err != nil {
				return err
			}
			success(a.out, "Registered %s", color.YellowString(u.UserName))
			hint(a.out, "Run %s to start a session", color.YellowString("vaultctl login"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func newLoginCmd(a *App) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.valueOr(username, "Username: ")
			if err != nil {
				return err
			}
			pw, err := a.secret("Password: ")
			if err != nil {
				return err
			}

			pair, err := a.api.Login(cmd.Context(), name, pw)
			if err != nil {
				return err
			}
			if err := a.startSession(name, pair); err != nil {
				return err
			}
			success(a.out, "Logged in as %s", color.YellowString(name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	return cmd
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			// The local session goes away even if the server already
			// considers it dead.
			if err := a.api.Logout(cmd.Context()); err != nil && !errors.Is(err, common.ErrorUnauthorized) {
				return err
			}
			if err := a.endSession(); err != nil {
				return err
			}
			success(a.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.api.User(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintf(tw, "%s\t%s\n", bold("Username:"), u.UserName)
			fmt.Fprintf(tw, "%s\t%s\n", bold("ID:"), u.ID)
			fmt.Fprintf(tw, "%s\t%s\n", bold("Server:"), a.cfg.ServerURL)
			fmt.Fprintf(tw, "%s\t%s\n", bold("Member since:"), u.CreatedAt.Local().Format(time.DateOnly))
			return tw.Flush()
		},
	}
}
