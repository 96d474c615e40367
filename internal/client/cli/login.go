package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogin(ctx context.Context, username string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем username, если он не передан аргументом
	if username == "" {
		var err error
		username, err = c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	user, err := c.session.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Logged in as %s (%s)\n", user.DisplayName(), user.Username)
	if expiresAt, ok := c.tokens.AccessExpiry(); ok {
		c.io.Printf("Access token expires: %s\n", expiresAt.Local().Format("15:04:05"))
	}

	return nil
}
