package apitest

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iudanet/sportconnect/pkg/api"
)

// Request is one request observed by the fake server.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

type account struct {
	password string
	user     api.User
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	logger *slog.Logger
	jwt    jwtConfig

	mu            sync.Mutex
	accounts      map[string]*account
	refreshTokens map[string]string // refresh token -> username
	requests      []Request
	refreshHold   chan struct{}
	nextID        int64
	epoch         int
	rejectRefresh bool

	refreshCalls atomic.Int64
	rejected     atomic.Int64
}

// Option configures the fake server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) {
		s.jwt.accessTTL = d
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New starts a fake API server that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		logger: slog.New(slog.DiscardHandler),
		jwt: jwtConfig{
			secret:    []byte("apitest-secret"),
			accessTTL: 5 * time.Minute,
		},
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/token/", s.handleToken)
	mux.HandleFunc("POST /api/auth/token/refresh/", s.handleRefresh)
	mux.HandleFunc("POST /api/auth/register/", s.handleRegister)
	mux.HandleFunc("GET /api/users/me/", s.authMiddleware(s.handleGetMe))
	mux.HandleFunc("PATCH /api/users/me/", s.authMiddleware(s.handlePatchMe))
	mux.HandleFunc("DELETE /api/users/me/", s.authMiddleware(s.handleDeleteMe))

	s.Server = httptest.NewServer(recoveryMiddleware(s.logger)(s.recordMiddleware(mux)))
	t.Cleanup(s.Close)

	return s
}

// BaseURL returns the API root the client should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + "/api/"
}

// AddUser creates an account and returns its profile.
func (s *Server) AddUser(username, password string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	acc := &account{
		password: password,
		user: api.User{
			ID:       s.nextID,
			Username: username,
			Level:    api.LevelBeginner,
		},
	}
	s.accounts[username] = acc
	return acc.user
}

// IssueTokens mints a valid credential pair for an existing user.
func (s *Server) IssueTokens(t testing.TB, username string) (access, refresh string) {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		t.Fatalf("apitest: unknown user %q", username)
	}
	access, refresh, err := s.issueLocked(acc)
	if err != nil {
		t.Fatalf("apitest: issue tokens: %v", err)
	}
	return access, refresh
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
}

// RejectRefresh makes the refresh endpoint answer 401.
func (s *Server) RejectRefresh(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectRefresh = reject
}

// HoldRefresh blocks refresh requests until the returned release func is called.
func (s *Server) HoldRefresh() (release func()) {
	hold := make(chan struct{})
	s.mu.Lock()
	s.refreshHold = hold
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.refreshHold = nil
			s.mu.Unlock()
			close(hold)
		})
	}
}

// RefreshCalls returns how many times the refresh endpoint was hit.
func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// Rejected returns how many requests were answered 401 by the auth middleware.
func (s *Server) Rejected() int {
	return int(s.rejected.Load())
}

// Requests returns the requests observed so far, optionally filtered by path.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Request
	for _, r := range s.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// User returns the current profile of username.
func (s *Server) User(username string) (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[username]
	if !ok {
		return api.User{}, false
	}
	return acc.user, true
}

func (s *Server) record(r Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
}

func (s *Server) currentEpoch() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Server) issueLocked(acc *account) (string, string, error) {
	access, err := generateAccessToken(s.jwt, itoa(acc.user.ID), acc.user.Username, s.epoch)
	if err != nil {
		return "", "", err
	}
	refresh, err := generateRefreshToken()
	if err != nil {
		return "", "", err
	}
	s.refreshTokens[refresh] = acc.user.Username
	return access, refresh, nil
}
