package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/sportconnect/pkg/api"
)

// profileFields maps the editable field names accepted by the CLI to setters.
var profileFields = map[string]func(u *api.ProfileUpdate, value string) error{
	"first_name": func(u *api.ProfileUpdate, v string) error { u.FirstName = &v; return nil },
	"last_name":  func(u *api.ProfileUpdate, v string) error { u.LastName = &v; return nil },
	"email":      func(u *api.ProfileUpdate, v string) error { u.Email = &v; return nil },
	"city":       func(u *api.ProfileUpdate, v string) error { u.City = &v; return nil },
	"district":   func(u *api.ProfileUpdate, v string) error { u.District = &v; return nil },
	"bio":        func(u *api.ProfileUpdate, v string) error { u.Bio = &v; return nil },
	"level": func(u *api.ProfileUpdate, v string) error {
		level, err := api.ParseLevel(v)
		if err != nil {
			return err
		}
		u.Level = &level
		return nil
	},
}

// ProfileFieldNames returns the editable field names, sorted.
func ProfileFieldNames() []string {
	names := make([]string, 0, len(profileFields))
	for name := range profileFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildProfileUpdate turns field=value pairs into a partial update.
func buildProfileUpdate(values map[string]string) (api.ProfileUpdate, error) {
	var update api.ProfileUpdate
	if len(values) == 0 {
		return update, fmt.Errorf("nothing to update (fields: %s)", strings.Join(ProfileFieldNames(), ", "))
	}
	for field, value := range values {
		set, ok := profileFields[field]
		if !ok {
			return update, fmt.Errorf("unknown profile field %q (fields: %s)", field, strings.Join(ProfileFieldNames(), ", "))
		}
		if err := set(&update, value); err != nil {
			return update, err
		}
	}
	return update, nil
}

func (c *Cli) printProfile(user *api.User) error {
	if err := profileTmpl.Execute(c.io, user); err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	return nil
}

func (c *Cli) runMe(ctx context.Context) error {
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	user, err := c.session.RefreshMe(ctx)
	if err != nil {
		return err
	}
	return c.printProfile(user)
}

func (c *Cli) runProfileUpdate(ctx context.Context, values map[string]string) error {
	update, err := buildProfileUpdate(values)
	if err != nil {
		return err
	}
	if err := c.requireSession(ctx); err != nil {
		return err
	}

	user, err := c.session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}

	c.io.Println("✓ Profile updated")
	return c.printProfile(user)
}

func (c *Cli) runDeleteAccount(ctx context.Context, confirmed bool) error {
	if err := c.requireSession(ctx); err != nil {
		return err
	}
	username := c.session.State().User.Username

	if !confirmed {
		c.io.Println("⚠️  This permanently deletes your account.")
		answer, err := c.io.ReadInput(fmt.Sprintf("Type your username (%s) to confirm: ", username))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer != username {
			c.io.Println("Aborted.")
			return nil
		}
	}

	if err := c.endSession(func() error { return c.session.DeleteAccount(ctx) }); err != nil {
		return err
	}

	c.io.Println("✓ Account deleted. Your local session has been removed.")
	return nil
}
