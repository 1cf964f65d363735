package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/licitacrm/licitacrm/internal/client/client"
	"github.com/licitacrm/licitacrm/internal/client/config"
)

type App struct {
	config  *config.Config
	api     client.Client
	reader  *bufio.Reader
	out     io.Writer
	profile *client.Profile
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "LicitaCRM auth CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.profile != nil
}

func (a *App) getStatus() string {
	if a.profile == nil {
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s %s)", a.profile.Email, a.profile.Role)
}
