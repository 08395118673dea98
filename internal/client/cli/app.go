package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/healthkeeper/internal/client/client"
	"github.com/dmitrijs2005/healthkeeper/internal/client/config"
	"github.com/dmitrijs2005/healthkeeper/internal/client/services"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(c *config.Config) *App {
	apiClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	as := services.NewAuthService(apiClient)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.CurrentUser()
	return ok
}

func (a *App) getStatus() string {
	if u, ok := a.authService.CurrentUser(); ok {
		return fmt.Sprintf("(%s) ", u.Email)
	}
	return ""
}

// Run greets the user, warns when the server is not reachable and starts the
// REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to healthkeeper CLI (type 'help' for commands)")

	pingCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	if err := a.authService.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable\n", a.config.ServerURL)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}
