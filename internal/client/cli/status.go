package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/sportconnect/internal/client/theme"
	"github.com/iudanet/sportconnect/pkg/api"
)

type statusView struct {
	TokenExpiry  time.Time
	IdleDeadline time.Time
	User         *api.User
	API          string
	Mode         theme.Mode
	Theme        theme.Theme
	HasExpiry    bool
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.session.Bootstrap(ctx)
	state := c.session.State()

	view := statusView{
		API:          c.apiClient.BaseURL(),
		User:         state.User,
		IdleDeadline: state.IdleDeadline,
		Mode:         c.theme.Mode(ctx),
		Theme:        c.theme.Current(ctx),
	}
	// exp из JWT только для отображения
	view.TokenExpiry, view.HasExpiry = c.tokens.AccessExpiry()

	if err := statusTmpl.Execute(c.io, view); err != nil {
		return fmt.Errorf("failed to render status: %w", err)
	}
	if !state.Authenticated() {
		c.io.Println()
		c.io.Println("Run 'scgn login' to authenticate.")
	}
	return nil
}
