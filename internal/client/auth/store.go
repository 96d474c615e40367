package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// storeTimeout bounds a single storage operation; the facade has no caller context.
const storeTimeout = 5 * time.Second

// Store is the token store used by the HTTP client and the session controller.
// It wraps a durable storage.TokenStorage and never surfaces errors: reads of an
// absent or unreadable token return "", failed writes are logged and dropped.
type Store struct {
	storage storage.TokenStorage
	logger  *slog.Logger

	mu      sync.Mutex
	onClear []func()
}

// NewStore creates a token store over the given durable storage.
func NewStore(s storage.TokenStorage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		storage: s,
		logger:  logger,
	}
}

// Get returns the token of the given kind, or "" if none is stored.
func (s *Store) Get(kind storage.TokenKind) string {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	token, err := s.storage.GetToken(ctx, kind)
	if err != nil {
		if !errors.Is(err, storage.ErrTokenNotFound) {
			s.logger.Warn("failed to read token", "kind", kind, "error", err)
		}
		return ""
	}
	return token
}

// Set stores the non-empty fields of creds; empty fields are left untouched.
func (s *Store) Set(creds storage.Credentials) {
	if creds.Access == "" && creds.Refresh == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.storage.SaveTokens(ctx, creds); err != nil {
		s.logger.Error("failed to save tokens", "error", err)
	}
}

// Clear removes both tokens and then runs the OnClear hooks.
func (s *Store) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.storage.DeleteTokens(ctx); err != nil {
		s.logger.Error("failed to delete tokens", "error", err)
	}

	s.mu.Lock()
	hooks := make([]func(), len(s.onClear))
	copy(hooks, s.onClear)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
}

// OnClear registers fn to run after every Clear, whoever triggered it.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Credentials returns both stored tokens.
func (s *Store) Credentials() storage.Credentials {
	return storage.Credentials{
		Access:  s.Get(storage.TokenAccess),
		Refresh: s.Get(storage.TokenRefresh),
	}
}

// AccessExpiry reads the exp claim of the stored access token without verifying
// the signature. It is for display only; ok is false for opaque or absent tokens.
func (s *Store) AccessExpiry() (time.Time, bool) {
	return TokenExpiry(s.Get(storage.TokenAccess))
}

// TokenExpiry returns the unverified exp claim of a JWT.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
