// ABOUTME: Tool handler that records user interactions in the data store
// ABOUTME: Interactions feed future personalization and audit review

package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/careassist/care-gateway/internal/datastore"
	"github.com/careassist/care-gateway/internal/registry"
)

type saveInteractionInput struct {
	UserID          string `json:"user_id"`
	InteractionType string `json:"interaction_type"`
	Details         string `json:"details"`
}

// SaveUserInteraction persists one interaction record for a user.
func (h *handlers) SaveUserInteraction(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
	var in saveInteractionInput
	if err := json.Unmarshal(input, &in); err != nil {
		return registry.Result{}, fmt.Errorf("invalid input: %w", err)
	}
	if in.UserID == "" || in.InteractionType == "" {
		return registry.Result{}, fmt.Errorf("user_id and interaction_type are required")
	}

	interaction := &datastore.Interaction{
		UserID:          in.UserID,
		InteractionType: in.InteractionType,
		Details:         in.Details,
	}
	if err := lc.Store.SaveInteraction(ctx, interaction); err != nil {
		return registry.Result{}, fmt.Errorf("saving interaction: %w", err)
	}

	return registry.Textf("✅ Interaction saved successfully for user %s", in.UserID), nil
}
