package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/sportconnect/internal/client/api"
	"github.com/iudanet/sportconnect/internal/client/session"
)

const shellHelp = `Commands:
  status                       Show session status
  login [username]             Log in
  register                     Create an account and log in
  logout                       Log out
  me                           Show your profile
  profile set <field> <value>  Update a profile field
  delete-account               Delete your account
  theme [auto|light|dark|toggle]
  get <path>                   GET any API path (e.g. activities/)
  help                         Show this help
  exit                         Leave the shell`

// runShell reads commands until EOF or exit. Every entered line counts as user
// activity and pushes the inactivity deadline back.
func (c *Cli) runShell(ctx context.Context) error {
	c.session.Bootstrap(ctx)

	stop := c.serveMetrics()
	defer stop()

	var wasAuthenticated atomic.Bool
	wasAuthenticated.Store(c.session.State().Authenticated())
	c.session.OnChange(func(s session.State) {
		now := s.Authenticated()
		if wasAuthenticated.Swap(now) && !now && !c.quiet.Load() {
			// Таймер неактивности или отказ refresh: сообщаем асинхронно
			c.io.Println()
			c.io.Println("Session closed. Run 'login' to authenticate again.")
		}
	})

	c.io.Println("SportConnect GN shell. Type 'help' for commands.")

	for {
		line, err := c.io.ReadInput(c.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.io.Println()
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		c.session.NotifyActivity()

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		if err := c.dispatch(ctx, args); err != nil {
			c.io.Printf("Error: %s\n", api.ErrorMessage(err))
		}
	}
}

func (c *Cli) prompt() string {
	if state := c.session.State(); state.Authenticated() {
		return state.User.Username + "@scgn> "
	}
	return "scgn> "
}

// dispatch runs one shell command.
func (c *Cli) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		c.io.Println(shellHelp)
		return nil
	case "status":
		return c.runStatus(ctx)
	case "login":
		return c.runLogin(ctx, optionalArg(args[1:]))
	case "register":
		return c.runRegister(ctx)
	case "logout":
		return c.runLogout()
	case "me":
		return c.runMe(ctx)
	case "profile":
		if len(args) < 4 || args[1] != "set" {
			return fmt.Errorf("usage: profile set <field> <value>")
		}
		return c.runProfileUpdate(ctx, map[string]string{args[2]: strings.Join(args[3:], " ")})
	case "delete-account":
		return c.runDeleteAccount(ctx, false)
	case "theme":
		return c.runTheme(ctx, optionalArg(args[1:]))
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <path>")
		}
		return c.runGet(ctx, args[1])
	default:
		return fmt.Errorf("unknown command %q, type 'help'", args[0])
	}
}

// serveMetrics exposes the client metrics while the shell runs.
func (c *Cli) serveMetrics() (stop func()) {
	if c.metricsAddr == "" || c.registry == nil {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              c.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		c.logger.Info("serving metrics", "addr", c.metricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			c.logger.Warn("metrics server shutdown", "error", err)
		}
	}
}
