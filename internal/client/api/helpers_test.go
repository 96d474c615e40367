package api

import (
	"sync"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// memTokens — потокобезопасное хранилище токенов в памяти для тестов
type memTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	clears  int
}

func newMemTokens(access, refresh string) *memTokens {
	return &memTokens{access: access, refresh: refresh}
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
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.clears++
}

func (m *memTokens) clearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}
