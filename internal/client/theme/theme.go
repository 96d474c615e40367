// Package theme keeps the display theme preference (auto, light or dark)
// next to the session tokens.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// Mode is the persisted user choice.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Theme is the effective theme after resolving auto.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ErrInvalidMode is returned by ParseMode for unknown values.
var ErrInvalidMode = errors.New("invalid theme mode")

// ParseMode parses "auto", "light" or "dark" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeLight, ModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want auto, light or dark)", ErrInvalidMode, s)
	}
}

// Resolve returns the effective theme; auto follows the system theme.
func (m Mode) Resolve(system Theme) Theme {
	switch m {
	case ModeLight:
		return Light
	case ModeDark:
		return Dark
	default:
		return system
	}
}

// Toggle switches to the opposite of the effective theme.
// From auto this pins a manual mode.
func (m Mode) Toggle(system Theme) Mode {
	if m.Resolve(system) == Dark {
		return ModeLight
	}
	return ModeDark
}

// SystemTheme guesses the terminal background from COLORFGBG ("fg;bg").
// Without a hint it assumes light.
func SystemTheme() Theme {
	return themeFromColorFGBG(os.Getenv("COLORFGBG"))
}

func themeFromColorFGBG(v string) Theme {
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if v == "" || err != nil {
		return Light
	}
	// Цвета 0-6 и 8 — тёмные в стандартной палитре
	if (bg >= 0 && bg <= 6) || bg == 8 {
		return Dark
	}
	return Light
}

// Preferences reads and writes the theme mode in the client storage.
type Preferences struct {
	storage storage.PreferenceStorage
	logger  *slog.Logger
	system  func() Theme
}

// NewPreferences creates a theme preference store.
func NewPreferences(s storage.PreferenceStorage, logger *slog.Logger) *Preferences {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Preferences{
		storage: s,
		logger:  logger,
		system:  SystemTheme,
	}
}

// Mode returns the saved mode; absent or unreadable values mean auto.
func (p *Preferences) Mode(ctx context.Context) Mode {
	value, err := p.storage.GetPreference(ctx, storage.PreferenceThemeMode)
	if err != nil {
		if !errors.Is(err, storage.ErrPreferenceNotFound) {
			p.logger.Warn("failed to read theme mode", "error", err)
		}
		return ModeAuto
	}

	mode, err := ParseMode(value)
	if err != nil {
		p.logger.Warn("ignoring stored theme mode", "value", value)
		return ModeAuto
	}
	return mode
}

// SetMode saves mode.
func (p *Preferences) SetMode(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if err := p.storage.SavePreference(ctx, storage.PreferenceThemeMode, string(mode)); err != nil {
		return fmt.Errorf("failed to save theme mode: %w", err)
	}
	return nil
}

// Toggle flips the effective theme and saves the resulting manual mode.
func (p *Preferences) Toggle(ctx context.Context) (Mode, error) {
	next := p.Mode(ctx).Toggle(p.system())
	if err := p.SetMode(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Current returns the effective theme.
func (p *Preferences) Current(ctx context.Context) Theme {
	return p.Mode(ctx).Resolve(p.system())
}
