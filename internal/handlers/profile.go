// ABOUTME: Resource handlers for user profile and medical history lookups
// ABOUTME: Renders data store records into fixed text templates

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/careassist/care-gateway/internal/datastore"
	"github.com/careassist/care-gateway/internal/registry"
)

// orDefault substitutes a placeholder for empty record fields so the
// rendered templates never show blank lines.
func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// UserProfile serves the user://profile/{user_id} resource. A missing user
// is a normal outcome rendered as text, not a fault.
func (h *handlers) UserProfile(ctx context.Context, lc *registry.Lifecycle, userID string) (registry.Result, error) {
	user, err := lc.Store.GetUser(ctx, userID)
	if errors.Is(err, datastore.ErrNotFound) {
		return registry.Textf("No user found with ID: %s", userID), nil
	}
	if err != nil {
		return registry.Result{}, fmt.Errorf("retrieving user profile: %w", err)
	}

	age := "N/A"
	if user.Age > 0 {
		age = fmt.Sprintf("%d", user.Age)
	}

	return registry.Textf(`
User Profile:
- Name: %s
- Email: %s
- Age: %s
- Medical History: %s
- Allergies: %s
- Current Medications: %s
`,
		orDefault(user.FullName, "N/A"),
		orDefault(user.Email, "N/A"),
		age,
		orDefault(user.MedicalHistory, "No history recorded"),
		orDefault(user.Allergies, "None reported"),
		orDefault(user.CurrentMedications, "None reported"),
	), nil
}

// MedicalHistory serves the user://medical-history/{user_id} resource,
// rendering records newest first.
func (h *handlers) MedicalHistory(ctx context.Context, lc *registry.Lifecycle, userID string) (registry.Result, error) {
	records, err := lc.Store.ListMedicalRecords(ctx, userID)
	if err != nil {
		return registry.Result{}, fmt.Errorf("retrieving medical history: %w", err)
	}
	if len(records) == 0 {
		return registry.Textf("No medical history found for user: %s", userID), nil
	}

	entries := make([]string, 0, len(records))
	for _, rec := range records {
		date := "Unknown"
		if !rec.CreatedAt.IsZero() {
			date = rec.CreatedAt.Format("2006-01-02 15:04")
		}
		entries = append(entries, fmt.Sprintf(`
Date: %s
Condition: %s
Treatment: %s
Doctor: %s
Notes: %s
---`,
			date,
			orDefault(rec.Condition, "N/A"),
			orDefault(rec.Treatment, "N/A"),
			orDefault(rec.DoctorName, "N/A"),
			orDefault(rec.Notes, "No notes"),
		))
	}

	return registry.Textf("Medical History for User %s:\n%s", userID, strings.Join(entries, "\n")), nil
}
