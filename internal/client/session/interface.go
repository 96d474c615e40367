package session

import (
	"context"

	"github.com/iudanet/sportconnect/internal/client/storage"
	"github.com/iudanet/sportconnect/pkg/api"
)

//go:generate moq -out api_mock.go . API

// API is the part of the HTTP client the session controller uses.
type API interface {
	ObtainToken(ctx context.Context, username, password string) (*api.TokenResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.User, error)
	Me(ctx context.Context) (*api.User, error)
	UpdateMe(ctx context.Context, update api.ProfileUpdate) (*api.User, error)
	DeleteMe(ctx context.Context) error
}

// TokenStore is the durable credential store shared with the HTTP client.
type TokenStore interface {
	Get(kind storage.TokenKind) string
	Set(creds storage.Credentials)
	Clear()
	// OnClear registers fn to run after every Clear, whoever triggers it.
	OnClear(fn func())
}
