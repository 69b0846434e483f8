// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Local datastore mode with automatic schema creation

package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
// It serves development and tests; production deployments use RESTStore.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed. Use ":memory:" for an
// in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "datastore")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL improves concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite datastore initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			medical_history TEXT NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			current_medications TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS medical_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			condition TEXT NOT NULL DEFAULT '',
			treatment TEXT NOT NULL DEFAULT '',
			doctor_name TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_medical_records_user_created
			ON medical_records(user_id, created_at);

		CREATE TABLE IF NOT EXISTS user_interactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			interaction_type TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_user_interactions_user
			ON user_interactions(user_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetUser retrieves a user profile by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, full_name, email, age, medical_history, allergies, current_medications
		FROM users
		WHERE id = ?
	`

	var user User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Age,
		&user.MedicalHistory,
		&user.Allergies,
		&user.CurrentMedications,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &user, nil
}

// ListMedicalRecords returns a user's medical records, most recent first.
func (s *SQLiteStore) ListMedicalRecords(ctx context.Context, userID string) ([]*MedicalRecord, error) {
	query := `
		SELECT id, user_id, condition, treatment, doctor_name, notes, created_at
		FROM medical_records
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying medical records: %w", err)
	}
	defer rows.Close()

	var records []*MedicalRecord
	for rows.Next() {
		var record MedicalRecord
		var createdAtStr string
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Condition,
			&record.Treatment,
			&record.DoctorName,
			&record.Notes,
			&createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning medical record: %w", err)
		}
		record.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating medical records: %w", err)
	}

	return records, nil
}

// SaveInteraction appends an interaction log entry.
func (s *SQLiteStore) SaveInteraction(ctx context.Context, interaction *Interaction) error {
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO user_interactions (id, user_id, interaction_type, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		interaction.ID,
		interaction.UserID,
		interaction.InteractionType,
		interaction.Details,
		interaction.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}

	s.logger.Debug("interaction saved", "id", interaction.ID, "user_id", interaction.UserID)
	return nil
}

// SeedUser inserts or replaces a user row. Used by tests and local setup.
func (s *SQLiteStore) SeedUser(ctx context.Context, user *User) error {
	query := `
		INSERT OR REPLACE INTO users (id, full_name, email, age, medical_history, allergies, current_medications)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Email, user.Age,
		user.MedicalHistory, user.Allergies, user.CurrentMedications,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// SeedMedicalRecord inserts a medical record row. Used by tests and local setup.
func (s *SQLiteStore) SeedMedicalRecord(ctx context.Context, record *MedicalRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO medical_records (id, user_id, condition, treatment, doctor_name, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.UserID, record.Condition, record.Treatment,
		record.DoctorName, record.Notes, record.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting medical record: %w", err)
	}
	return nil
}
