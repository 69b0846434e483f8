// ABOUTME: Store interface and record types for care-gateway persistence
// ABOUTME: Defines User, MedicalRecord, Interaction and the Store contract

package datastore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// User represents a user profile row in the users collection
type User struct {
	ID                 string `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Age                int    `json:"age"`
	MedicalHistory     string `json:"medical_history"`
	Allergies          string `json:"allergies"`
	CurrentMedications string `json:"current_medications"`
}

// MedicalRecord represents a single entry in a user's medical history
type MedicalRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Condition  string    `json:"condition"`
	Treatment  string    `json:"treatment"`
	DoctorName string    `json:"doctor_name"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Interaction represents a logged user interaction (insert-only)
type Interaction struct {
	ID              string    `json:"id,omitempty"`
	UserID          string    `json:"user_id"`
	InteractionType string    `json:"interaction_type"`
	Details         string    `json:"details"`
	CreatedAt       time.Time `json:"timestamp"`
}

// Store defines the interface for user and medical record persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetUser retrieves a user profile by ID.
	// Returns ErrNotFound if no user exists with the given ID.
	GetUser(ctx context.Context, id string) (*User, error)

	// ListMedicalRecords returns all medical records for a user,
	// ordered most recent first. An empty slice means no history.
	ListMedicalRecords(ctx context.Context, userID string) ([]*MedicalRecord, error)

	// SaveInteraction appends an interaction log entry.
	SaveInteraction(ctx context.Context, interaction *Interaction) error

	// Close releases any resources held by the store.
	Close() error
}
