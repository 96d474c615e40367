package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/sportconnect/internal/client/api"
	"github.com/iudanet/sportconnect/internal/client/auth"
	"github.com/iudanet/sportconnect/internal/client/iocli"
	"github.com/iudanet/sportconnect/internal/client/session"
	"github.com/iudanet/sportconnect/internal/client/theme"
)

// ErrNotLoggedIn is returned by commands that need a session.
var ErrNotLoggedIn = errors.New("not logged in, run 'scgn login' first")

// Cli implements the commands on top of the session stack.
type Cli struct {
	io        iocli.IO
	apiClient *api.Client
	tokens    *auth.Store
	session   *session.Controller
	theme     *theme.Preferences
	logger    *slog.Logger
	registry  *prometheus.Registry

	metricsAddr string
	// quiet подавляет сообщение о закрытии сессии, когда выход инициирован командой
	quiet atomic.Bool
}

// New creates the command set.
func New(io iocli.IO, apiClient *api.Client, tokens *auth.Store, sess *session.Controller, prefs *theme.Preferences, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cli{
		io:        io,
		apiClient: apiClient,
		tokens:    tokens,
		session:   sess,
		theme:     prefs,
		logger:    logger,
	}
}

// ServeMetrics makes the shell expose reg on addr.
func (c *Cli) ServeMetrics(reg *prometheus.Registry, addr string) {
	c.registry = reg
	c.metricsAddr = addr
}

// requireSession restores the session from storage and fails if nobody is logged in.
func (c *Cli) requireSession(ctx context.Context) error {
	c.session.Bootstrap(ctx)
	if !c.session.State().Authenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// endSession runs fn (a command-initiated logout) without the shell notice.
func (c *Cli) endSession(fn func() error) error {
	c.quiet.Store(true)
	defer c.quiet.Store(false)
	return fn()
}
