package storage

import "context"

// PreferenceThemeMode хранит выбранный режим темы (auto, light, dark)
const PreferenceThemeMode = "scgn_theme_mode"

// PreferenceStorage defines interface for storing user-level client preferences.
// It shares the storage substrate with the tokens but is unrelated to authentication.
type PreferenceStorage interface {
	// GetPreference returns the stored value for key
	// Returns ErrPreferenceNotFound if the key was never saved
	GetPreference(ctx context.Context, key string) (string, error)

	// SavePreference stores value under key, overwriting any previous value
	SavePreference(ctx context.Context, key, value string) error
}
