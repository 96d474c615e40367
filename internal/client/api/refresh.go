package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/sportconnect/internal/client/metrics"
	"github.com/iudanet/sportconnect/internal/client/storage"
)

// RenewFunc exchanges a refresh token for new credentials at the remote endpoint.
// Refresh in the result is optional (set only when the server rotates it).
type RenewFunc func(ctx context.Context, refreshToken string) (storage.Credentials, error)

// Refresher collapses concurrent token renewals into one remote call.
// Callers that arrive while a renewal is pending wait for it and observe the
// same access token or the same error.
type Refresher struct {
	tokens  TokenStore
	renew   RenewFunc
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending *flight
	waiters int
}

// flight is one in-progress renewal. token and err are written before done is closed.
type flight struct {
	done  chan struct{}
	err   error
	token string
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithRefreshLogger sets the logger.
func WithRefreshLogger(logger *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRefreshMetrics enables refresh counters.
func WithRefreshMetrics(m *metrics.Metrics) RefresherOption {
	return func(r *Refresher) {
		r.metrics = m
	}
}

// NewRefresher creates a coordinator that reads the refresh token from tokens,
// calls renew and stores the resulting access token.
func NewRefresher(tokens TokenStore, renew RenewFunc, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		tokens: tokens,
		renew:  renew,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Renew returns a fresh access token, starting a renewal only if none is pending.
// The renewal itself is detached from ctx: a caller that gives up stops waiting
// but does not abort the renewal other callers share.
func (r *Refresher) Renew(ctx context.Context) (string, error) {
	r.mu.Lock()
	f := r.pending
	if f == nil {
		f = &flight{done: make(chan struct{})}
		r.pending = f
		go r.run(context.WithoutCancel(ctx), f)
	} else {
		r.metrics.ObserveRefreshJoin()
	}
	r.waiters++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.waiters--
		r.mu.Unlock()
	}()

	select {
	case <-f.done:
		return f.token, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending reports whether a renewal is in progress.
func (r *Refresher) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// waiting returns the number of callers blocked in Renew.
func (r *Refresher) waiting() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiters
}

func (r *Refresher) run(ctx context.Context, f *flight) {
	f.token, f.err = r.refresh(ctx)
	r.metrics.ObserveRefresh(f.err)

	// Сначала освобождаем слот, затем будим ожидающих:
	// следующий 401 после пробуждения должен начать новое обновление
	r.mu.Lock()
	r.pending = nil
	r.mu.Unlock()
	close(f.done)
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	refreshToken := r.tokens.Get(storage.TokenRefresh)
	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	creds, err := r.renew(ctx, refreshToken)
	if err != nil {
		r.logger.Warn("access token refresh rejected", "error", err)
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if creds.Access == "" {
		return "", ErrNoAccessToken
	}

	r.tokens.Set(creds)
	r.logger.Info("access token refreshed", "rotated_refresh", creds.Refresh != "")

	return creds.Access, nil
}
