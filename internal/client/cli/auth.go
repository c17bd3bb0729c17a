package cli

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) loginCommand() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the access token in the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				email, err = GetSimpleText(a.in, "-Enter email", cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}

			var password []byte
			if passwordStdin {
				line, err := a.in.ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password on stdin")
				}
				password = []byte(strings.TrimRight(line, "\r\n"))
			} else {
				password, err = a.readPassword()
				if err != nil {
					return err
				}
			}
			defer common.WipeByteArray(password)

			user, err := a.session.Auth.Login(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}
			a.notef("Login successful")
			return a.printJSON(user)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email, prompted when omitted")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the access token and cached profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.session.Auth.Logout(cmd.Context())
			a.notef("Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, from the cache when offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.session.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
}

func (a *App) profileCommand() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "profile [field=value...]",
		Short: "Update fields of the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.recordInput(cmd, raw, args)
			if err != nil {
				return err
			}
			user, err := a.session.Auth.UpdateMe(cmd.Context(), data)
			if err != nil {
				return err
			}
			return a.printJSON(user)
		},
	}
	cmd.Flags().StringVar(&raw, "json", "", "changes as a JSON object")
	return cmd
}

func (a *App) resetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Auth.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.notef("Password reset requested for %s", args[0])
			return nil
		},
	}
}
