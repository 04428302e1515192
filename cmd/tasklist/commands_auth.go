package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lironatar/TasksList/pkg/client"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// password prefers the flag and falls back to $TASKLIST_PASSWORD so it stays out of shell history.
func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("TASKLIST_PASSWORD"); env != "" {
		return env, nil
	}
	return "", errors.New("password is required (--password or $TASKLIST_PASSWORD)")
}

func (c *cli) registerCmd() *cobra.Command {
	var in client.RegisterInput
	var pw string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a verification code is emailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Password, err = password(pw); err != nil {
				return err
			}
			res, err := c.client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Registered %s.\n", res.User.Email)
			if res.RequiresVerification {
				fmt.Fprintf(c.out, "Check your inbox and run: tasklist verify --email %s --code <code>\n", res.User.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&pw, "password", "", "Password")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, pw string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := password(pw)
			if err != nil {
				return err
			}
			res, err := c.client.Login(cmd.Context(), email, secret)
			if err != nil {
				return err
			}
			if res.RequiresVerification {
				fmt.Fprintf(c.out, "%s is not verified yet. Run: tasklist verify --email %s --code <code>\n", res.Email, res.Email)
				return nil
			}
			if err := c.persist(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s.\n", res.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&pw, "password", "", "Password")
	return cmd
}

func (c *cli) verifyCmd() *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm the emailed verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(code) == "" {
				return errors.New("--code is required; use `tasklist resend` for a new code")
			}
			if err := c.client.Verify(cmd.Context(), email, code); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s verified. You can log in now.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&code, "code", "", "Verification code")
	return cmd
}

func (c *cli) resendCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Email a fresh verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.SendCode(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "A new code was sent to %s.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = c.client.Logout(cmd.Context())
			if err := c.persist(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				if c.session.Token != "" {
					if err := c.persist(); err != nil {
						return err
					}
				}
				fmt.Fprintln(c.out, "Not logged in.")
				return nil
			}
			printUser(c.out, user)
			return nil
		},
	}
}
