package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/sportconnect/internal/validation"
	"github.com/iudanet/sportconnect/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	var form api.RegisterRequest
	prompts := []struct {
		dst    *string
		prompt string
	}{
		{&form.FirstName, "First name: "},
		{&form.LastName, "Last name: "},
		{&form.Username, "Username: "},
		{&form.Email, "Email (optional): "},
	}
	for _, p := range prompts {
		value, err := c.io.ReadInput(p.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*p.dst = value
	}

	password, err := c.io.ReadPassword(fmt.Sprintf("Password (min %d chars): ", validation.MinPasswordLen))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	form.Password = password

	// Подтверждение пароля
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	form.PasswordConfirm = confirm

	c.io.Println()
	c.io.Println("Creating account...")

	// Регистрация и сразу вход с теми же данными
	user, err := c.session.Register(ctx, form)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Welcome, %s! You are now logged in.\n", user.DisplayName())

	return nil
}
