// Package session tracks who is logged in: it restores the session from stored
// credentials at startup, performs login/logout, and ends the session after a
// period without user activity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/sportconnect/internal/client/metrics"
	"github.com/iudanet/sportconnect/internal/client/storage"
	"github.com/iudanet/sportconnect/internal/validation"
	"github.com/iudanet/sportconnect/pkg/api"
)

// DefaultInactivityTimeout is the idle time after which an authenticated session ends.
const DefaultInactivityTimeout = 15 * time.Minute

var (
	// ErrNotAuthenticated is returned by operations that need a logged in user.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionEnded is returned when credentials were erased while the profile was loading.
	ErrSessionEnded = errors.New("session ended while loading profile")
)

// State is a snapshot of the session.
type State struct {
	// User is nil when nobody is logged in.
	User *api.User
	// IdleDeadline is when the session ends without further activity; zero when anonymous.
	IdleDeadline  time.Time
	Bootstrapping bool
}

// Authenticated reports whether a user is logged in.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Controller owns the current user, the bootstrapping flag and the inactivity deadline.
type Controller struct {
	client  API
	tokens  TokenStore
	clock   Clock
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu            sync.Mutex
	user          *api.User
	timer         Timer
	deadline      time.Time
	listeners     []func(State)
	timeout       time.Duration
	generation    uint64
	// epoch растёт при каждой очистке токенов
	epoch         uint64
	bootstrapping bool

	bootstrapOnce sync.Once
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for the inactivity deadline.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithInactivityTimeout sets the idle time after which the session ends.
func WithInactivityTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables logout counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithOnChange registers a listener called after every state change.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

// New creates a controller in the bootstrapping state. Call Bootstrap next.
func New(client API, tokens TokenStore, opts ...Option) *Controller {
	c := &Controller{
		client:        client,
		tokens:        tokens,
		clock:         realClock{},
		logger:        slog.New(slog.DiscardHandler),
		timeout:       DefaultInactivityTimeout,
		bootstrapping: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Токены могут стереть и без нас (неудачный refresh в HTTP клиенте)
	tokens.OnClear(c.credentialsCleared)

	return c
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// OnChange registers a listener called after every state change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Bootstrap restores the session from stored credentials. Only the first call
// does anything. It never fails: unusable credentials are erased and the
// session stays anonymous. Bootstrapping is false when it returns.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.bootstrapOnce.Do(func() {
		c.bootstrap(ctx)
	})
}

func (c *Controller) bootstrap(ctx context.Context) {
	defer c.finishBootstrap()

	if c.tokens.Get(storage.TokenAccess) == "" {
		c.logger.Debug("no stored credentials, starting anonymous")
		return
	}

	epoch := c.currentEpoch()
	user, err := c.client.Me(ctx)
	if err != nil {
		c.logger.Info("stored credentials rejected, clearing", "error", err)
		c.tokens.Clear()
		return
	}

	if !c.startSession(user, epoch) {
		c.logger.Info("credentials cleared during restore, staying anonymous")
		return
	}
	c.logger.Info("session restored", "username", user.Username)
}

func (c *Controller) finishBootstrap() {
	c.mu.Lock()
	c.bootstrapping = false
	state := c.stateLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, state)
}

// Login obtains a token pair, stores it and loads the profile.
// If the profile cannot be loaded the fresh credentials are erased again.
func (c *Controller) Login(ctx context.Context, username, password string) (*api.User, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	pair, err := c.client.ObtainToken(ctx, username, password)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(storage.Credentials{Access: pair.Access, Refresh: pair.Refresh})

	epoch := c.currentEpoch()
	user, err := c.client.Me(ctx)
	if err != nil {
		c.logger.Warn("profile fetch after login failed, clearing credentials", "error", err)
		c.tokens.Clear()
		return nil, err
	}

	if !c.startSession(user, epoch) {
		return nil, ErrSessionEnded
	}
	c.logger.Info("logged in", "username", user.Username)
	return cloneUser(user), nil
}

// Register creates an account and logs into it with the same credentials.
func (c *Controller) Register(ctx context.Context, form api.RegisterRequest) (*api.User, error) {
	form = validation.NormalizeRegistration(form)
	if err := validation.ValidateRegistration(form); err != nil {
		return nil, err
	}

	if _, err := c.client.Register(ctx, form); err != nil {
		return nil, err
	}
	c.logger.Info("account registered", "username", form.Username)

	return c.Login(ctx, form.Username, form.Password)
}

// Logout erases credentials and the user and cancels the inactivity deadline.
// It performs no network call and is idempotent.
func (c *Controller) Logout() {
	if c.endSession(metrics.ReasonUser, nil) {
		c.logger.Info("logged out")
	}
	c.tokens.Clear()
}

// RefreshMe reloads the profile of the current credentials.
func (c *Controller) RefreshMe(ctx context.Context) (*api.User, error) {
	epoch := c.currentEpoch()
	user, err := c.client.Me(ctx)
	if err != nil {
		return nil, err
	}
	if !c.startSession(user, epoch) {
		return nil, ErrSessionEnded
	}
	return cloneUser(user), nil
}

// UpdateProfile applies a partial update and reloads the profile.
func (c *Controller) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*api.User, error) {
	if !c.State().Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if _, err := c.client.UpdateMe(ctx, update); err != nil {
		return nil, err
	}
	return c.RefreshMe(ctx)
}

// DeleteAccount deletes the account on the server and logs out.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	if !c.State().Authenticated() {
		return ErrNotAuthenticated
	}
	if err := c.client.DeleteMe(ctx); err != nil {
		return err
	}

	if c.endSession(metrics.ReasonDeleted, nil) {
		c.logger.Info("account deleted")
	}
	c.tokens.Clear()
	return nil
}

// NotifyActivity pushes the inactivity deadline back by the full timeout.
// It does nothing while anonymous.
func (c *Controller) NotifyActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return
	}
	c.armLocked()
}

// startSession sets (or replaces) the user and re-arms the deadline. A profile
// fetched before the credentials were cleared (epoch changed) or while no access
// token is stored is dropped, and startSession reports false.
func (c *Controller) startSession(user *api.User, epoch uint64) bool {
	if c.tokens.Get(storage.TokenAccess) == "" {
		return false
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return false
	}
	c.user = cloneUser(user)
	c.armLocked()
	state := c.stateLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notify(listeners, state)
	return true
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// armLocked заменяет единственный таймер новым; c.mu должен быть захвачен
func (c *Controller) armLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.deadline = c.clock.Now().Add(c.timeout)
	c.timer = c.clock.AfterFunc(c.timeout, func() {
		c.expire(gen)
	})
}

func (c *Controller) disarmLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// Устаревший колбэк, уже запущенный рантаймом, увидит другое поколение
	c.generation++
	c.deadline = time.Time{}
}

// expire runs when a deadline of generation gen fires.
func (c *Controller) expire(gen uint64) {
	ended := c.endSession(metrics.ReasonInactivity, func() bool {
		return gen == c.generation
	})
	if !ended {
		return
	}
	c.logger.Info("session ended after inactivity", "timeout", c.timeout)
	c.tokens.Clear()
}

func (c *Controller) credentialsCleared() {
	c.mu.Lock()
	c.epoch++
	c.mu.Unlock()

	if c.endSession(metrics.ReasonExpired, nil) {
		c.logger.Info("credentials cleared, session ended")
	}
}

// endSession drops the user and the deadline if a session is active and cond
// (evaluated under the lock) holds. It reports whether the state changed.
func (c *Controller) endSession(reason string, cond func() bool) bool {
	c.mu.Lock()
	if c.user == nil || (cond != nil && !cond()) {
		c.mu.Unlock()
		return false
	}
	c.user = nil
	c.disarmLocked()
	state := c.stateLocked()
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.metrics.ObserveLogout(reason)
	notify(listeners, state)
	return true
}

func (c *Controller) stateLocked() State {
	return State{
		User:          cloneUser(c.user),
		IdleDeadline:  c.deadline,
		Bootstrapping: c.bootstrapping,
	}
}

func (c *Controller) listenersLocked() []func(State) {
	out := make([]func(State), len(c.listeners))
	copy(out, c.listeners)
	return out
}

func notify(listeners []func(State), state State) {
	for _, fn := range listeners {
		fn(state)
	}
}

func cloneUser(u *api.User) *api.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Photo != nil {
		photo := *u.Photo
		clone.Photo = &photo
	}
	return &clone
}
