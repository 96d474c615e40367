package cli

func (c *Cli) runLogout() error {
	c.io.Println("=== Logout ===")

	// Только локальная очистка, без обращения к API
	_ = c.endSession(func() error {
		c.session.Logout()
		return nil
	})

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
