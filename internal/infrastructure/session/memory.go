// Package session holds the in-process bearer session store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

// TokenBytes is the amount of randomness behind every token (64 hex chars).
const TokenBytes = 32

// NewToken returns a hex encoded random token.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MemoryStore keeps sessions in a map for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Session)}
}

func (m *MemoryStore) Issue(_ context.Context, s domain.Session) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}
	s.Token = token

	m.mu.Lock()
	m.sessions[token] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return token, nil
}

func (m *MemoryStore) Resolve(_ context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &s, nil
}

func (m *MemoryStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return nil
}

func (m *MemoryStore) PropagateAdminChange(_ context.Context, isAdmin bool, keys ...string) (int, error) {
	match := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			match[k] = struct{}{}
		}
	}
	if len(match) == 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	updated := 0
	for token, s := range m.sessions {
		_, byUID := match[s.UID]
		_, byEmail := match[s.Email]
		if !byUID && !byEmail {
			continue
		}
		s.IsAdmin = isAdmin
		m.sessions[token] = s
		updated++
	}
	return updated, nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
