// ABOUTME: PostgREST-style remote Store implementation (Supabase semantics)
// ABOUTME: Talks to {base}/rest/v1/<collection> with apikey + bearer headers

package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// restTimeout bounds every data store round-trip.
const restTimeout = 30 * time.Second

// RESTStore implements Store against a PostgREST-compatible endpoint.
// The access key is sent both as the apikey header and as a bearer token,
// matching how hosted Postgres REST gateways authenticate anonymous access.
type RESTStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewRESTStore creates a remote store client for the given endpoint and
// access key. Both values are required; construction does not touch the
// network, so a bad endpoint only surfaces on first use.
func NewRESTStore(endpoint, apiKey string) (*RESTStore, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("datastore endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("datastore access key is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid datastore endpoint: %w", err)
	}

	return &RESTStore{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: restTimeout},
		logger:  slog.Default().With("component", "datastore"),
	}, nil
}

// GetUser retrieves a user profile by ID.
func (s *RESTStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	}

	var users []*User
	if err := s.get(ctx, "users", query, &users); err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// ListMedicalRecords returns a user's medical records, most recent first.
// Ordering happens in the query; callers rely on it.
func (s *RESTStore) ListMedicalRecords(ctx context.Context, userID string) ([]*MedicalRecord, error) {
	query := url.Values{
		"select":  {"*"},
		"user_id": {"eq." + userID},
		"order":   {"created_at.desc"},
	}

	var records []*MedicalRecord
	if err := s.get(ctx, "medical_records", query, &records); err != nil {
		return nil, fmt.Errorf("querying medical_records: %w", err)
	}
	return records, nil
}

// SaveInteraction inserts an interaction log row.
func (s *RESTStore) SaveInteraction(ctx context.Context, interaction *Interaction) error {
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(interaction)
	if err != nil {
		return fmt.Errorf("encoding interaction: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "user_interactions", nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("inserting interaction: datastore returned status %d", resp.StatusCode)
	}

	s.logger.Debug("interaction saved", "user_id", interaction.UserID, "type", interaction.InteractionType)
	return nil
}

// Close is a no-op: the remote store holds only fire-and-forget network
// handles that are released with process exit.
func (s *RESTStore) Close() error {
	return nil
}

// get issues a GET against a collection and decodes the JSON array response.
func (s *RESTStore) get(ctx context.Context, collection string, query url.Values, out any) error {
	req, err := s.newRequest(ctx, http.MethodGet, collection, query, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Bounded read keeps error payloads from ballooning log lines
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("datastore returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (s *RESTStore) newRequest(ctx context.Context, method, collection string, query url.Values, body io.Reader) (*http.Request, error) {
	u := s.baseURL + "/rest/v1/" + collection
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	return req, nil
}
