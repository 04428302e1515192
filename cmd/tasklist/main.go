// Command tasklist is a terminal client for the TasksList API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lironatar/TasksList/pkg/client"
)

const defaultServer = "http://localhost:8000"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by every subcommand.
type cli struct {
	out         io.Writer
	server      string
	sessionPath string
	timeout     time.Duration

	session *sessionFile
	client  *client.Client
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	cmd := &cobra.Command{
		Use:   "tasklist",
		Short: "Manage task lists from the terminal",
		Long: `tasklist talks to a TasksList server.

Examples:
  tasklist register --email dana@example.com --name Dana
  tasklist verify --email dana@example.com --code 123456
  tasklist login --email dana@example.com
  tasklist list create --title Groceries --task Milk --task Bread
  tasklist complete-all <list-id>
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.init(cmd) },
	}

	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&c.server, "server", "", "API base URL (default $TASKLIST_SERVER, the saved session, or "+defaultServer+")")
	cmd.PersistentFlags().StringVar(&c.sessionPath, "session", defaultSessionPath(), "Path of the session file")
	cmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Per-request timeout")

	cmd.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.verifyCmd(),
		c.resendCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.listsCmd(),
		c.listCmd(),
		c.taskCmd(),
		c.completeAllCmd(),
	)
	return cmd
}

func (c *cli) init(cmd *cobra.Command) error {
	session, err := loadSession(c.sessionPath)
	if err != nil {
		return err
	}
	c.session = session

	server := strings.TrimSpace(c.server)
	if server == "" {
		server = strings.TrimSpace(os.Getenv("TASKLIST_SERVER"))
	}
	if server == "" {
		server = session.Server
	}
	if server == "" {
		server = defaultServer
	}

	// A token is only valid for the server that issued it.
	var restored *client.Session
	if session.Token != "" && strings.TrimRight(session.Server, "/") == strings.TrimRight(server, "/") {
		restored = client.NewSession(session.Token, session.User)
	}

	c.client, err = client.New(server,
		client.WithSession(restored),
		client.WithHTTPClient(newHTTPClient(c.timeout)),
	)
	if err != nil {
		return err
	}
	c.session.Server = c.client.BaseURL()
	return nil
}

// persist writes the client's current session back to disk.
func (c *cli) persist() error {
	s := c.client.Session()
	c.session.Token = s.Token()
	c.session.User = s.User()
	c.session.SavedAt = time.Now().UTC()
	if c.session.Token == "" {
		c.session.User = nil
	}
	return saveSession(c.sessionPath, c.session)
}

func (c *cli) requireLogin() error {
	if !c.client.Session().Authenticated() {
		return fmt.Errorf("not logged in; run `tasklist login` first")
	}
	return nil
}
