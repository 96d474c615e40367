package storage

import (
	"context"
)

// TokenKind names one of the two persisted bearer tokens.
// The value doubles as the storage key, so it must stay stable across releases.
type TokenKind string

const (
	// TokenAccess is the short-lived token sent with every authenticated request
	TokenAccess TokenKind = "scgn_access_token"
	// TokenRefresh is the long-lived token used only to mint new access tokens
	TokenRefresh TokenKind = "scgn_refresh_token"
)

// Kinds lists every token kind in a fixed order.
var Kinds = []TokenKind{TokenAccess, TokenRefresh}

// Credentials is an access/refresh token pair.
// An empty field means "absent": SaveTokens leaves the stored value untouched.
type Credentials struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Get returns the token of the given kind.
func (c Credentials) Get(kind TokenKind) string {
	switch kind {
	case TokenAccess:
		return c.Access
	case TokenRefresh:
		return c.Refresh
	default:
		return ""
	}
}

// TokenStorage defines interface for durable token persistence on the client.
// This is the lowest storage layer: tokens are opaque strings, no business logic.
type TokenStorage interface {
	// GetToken returns the stored token of the given kind.
	// Returns ErrTokenNotFound if nothing is stored under that kind.
	GetToken(ctx context.Context, kind TokenKind) (string, error)

	// SaveTokens stores non-empty fields of creds; empty fields are left untouched.
	SaveTokens(ctx context.Context, creds Credentials) error

	// DeleteTokens removes both tokens. Deleting absent tokens is not an error.
	DeleteTokens(ctx context.Context) error
}

// Storage is the full client-side persistence substrate.
type Storage interface {
	TokenStorage
	PreferenceStorage
	Close() error
}
