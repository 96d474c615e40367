package cli

import (
	"context"

	"github.com/iudanet/sportconnect/internal/client/theme"
)

// runTheme shows the theme, toggles it, or sets a mode (auto, light, dark).
func (c *Cli) runTheme(ctx context.Context, arg string) error {
	switch arg {
	case "":
	case "toggle":
		if _, err := c.theme.Toggle(ctx); err != nil {
			return err
		}
	default:
		mode, err := theme.ParseMode(arg)
		if err != nil {
			return err
		}
		if err := c.theme.SetMode(ctx, mode); err != nil {
			return err
		}
	}

	c.io.Printf("Theme: %s (mode: %s)\n", c.theme.Current(ctx), c.theme.Mode(ctx))
	return nil
}
