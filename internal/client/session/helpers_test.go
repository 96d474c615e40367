package session

import (
	"sort"
	"sync"
	"time"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// fakeClock — управляемые часы: таймеры срабатывают только в Advance
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance сдвигает время и синхронно вызывает наступившие таймеры
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

// active возвращает число взведённых таймеров
func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// memTokens — хранилище токенов в памяти с хуками очистки
type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	hooks   []func()
	clears  int
}

func (m *memTokens) Get(kind storage.TokenKind) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case storage.TokenAccess:
		return m.access
	case storage.TokenRefresh:
		return m.refresh
	}
	return ""
}

func (m *memTokens) Set(creds storage.Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if creds.Access != "" {
		m.access = creds.Access
	}
	if creds.Refresh != "" {
		m.refresh = creds.Refresh
	}
}

func (m *memTokens) Clear() {
	m.mu.Lock()
	m.access = ""
	m.refresh = ""
	m.clears++
	hooks := append([]func(){}, m.hooks...)
	m.mu.Unlock()

	for _, h := range hooks {
		h()
	}
}

func (m *memTokens) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

func (m *memTokens) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}
