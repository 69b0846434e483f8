// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows handler tests to run without SQLite or a remote endpoint

package datastore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu           sync.RWMutex
	users        map[string]*User
	records      map[string][]*MedicalRecord // keyed by user ID
	interactions []*Interaction

	// FailWith, when set, makes every operation return this error.
	// Used to verify fault containment at the handler boundary.
	FailWith error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:   make(map[string]*User),
		records: make(map[string][]*MedicalRecord),
	}
}

// AddUser registers a user for subsequent lookups.
func (m *MockStore) AddUser(user *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// AddMedicalRecord registers a medical record for a user.
func (m *MockStore) AddMedicalRecord(record *MedicalRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = append(m.records[record.UserID], record)
}

// Interactions returns a copy of all saved interactions.
func (m *MockStore) Interactions() []*Interaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out
}

func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MockStore) ListMedicalRecords(ctx context.Context, userID string) ([]*MedicalRecord, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*MedicalRecord, len(m.records[userID]))
	copy(records, m.records[userID])

	// Most recent first, regardless of insertion order
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (m *MockStore) SaveInteraction(ctx context.Context, interaction *Interaction) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	m.interactions = append(m.interactions, interaction)
	return nil
}

func (m *MockStore) Close() error {
	return nil
}
