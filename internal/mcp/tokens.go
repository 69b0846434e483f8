// ABOUTME: MCP token store mapping access tokens to client labels
// ABOUTME: Tokens are minted at runtime and checked on initialize

package mcp

import (
	"sync"

	"github.com/google/uuid"
)

// TokenStore manages MCP access tokens. Each token carries a human-readable
// label identifying which client it was issued to.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string // token -> client label
}

// NewTokenStore creates a new token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[string]string),
	}
}

// CreateToken mints a new token for the given client label and returns the
// token string to embed in MCP URLs.
func (s *TokenStore) CreateToken(label string) string {
	token := uuid.New().String()

	s.mu.Lock()
	s.tokens[token] = label
	s.mu.Unlock()

	return token
}

// Valid reports whether the token is currently issued.
func (s *TokenStore) Valid(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// Label returns the client label for a token, or "" if not found.
func (s *TokenStore) Label(token string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[token]
}

// InvalidateToken removes a token from the store.
func (s *TokenStore) InvalidateToken(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// TokenCount returns the number of active tokens (for monitoring).
func (s *TokenStore) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
