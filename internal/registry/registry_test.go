// ABOUTME: Tests for the operation registry and dispatcher
// ABOUTME: Covers duplicate names, URI matching, and fault containment

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careassist/care-gateway/internal/datastore"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	lc := &Lifecycle{Store: datastore.NewMockStore(), logger: slog.Default()}
	return NewRegistry(lc, slog.Default())
}

func TestRegister_DuplicateName(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterTool("save_note", "saves a note", `{"type":"object"}`, func(ctx context.Context, lc *Lifecycle, input json.RawMessage) (Result, error) {
		return Text("ok"), nil
	})
	require.NoError(t, err)

	err = r.RegisterTool("save_note", "duplicate", `{"type":"object"}`, nil)
	require.ErrorIs(t, err, ErrDuplicateOperation)

	// One namespace across kinds: a prompt cannot reuse a tool name
	err = r.RegisterPrompt("save_note", "duplicate across kinds", nil, nil)
	require.ErrorIs(t, err, ErrDuplicateOperation)
}

func TestDispatch_UnknownOperation(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Dispatch(context.Background(), "does_not_exist", nil)
	require.ErrorIs(t, err, ErrUnknownOperation)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestDispatch_ResourceURIMatching(t *testing.T) {
	r := newTestRegistry(t)

	var gotID string
	err := r.RegisterResource("user://profile/{user_id}", "user profile", func(ctx context.Context, lc *Lifecycle, id string) (Result, error) {
		gotID = id
		return Textf("profile for %s", id), nil
	})
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "user://profile/42", nil)
	require.NoError(t, err)
	assert.Equal(t, "42", gotID)
	assert.Equal(t, "profile for 42", result.Render())

	// An extra path segment must not match the template
	_, err = r.Dispatch(context.Background(), "user://profile/42/extra", nil)
	require.ErrorIs(t, err, ErrUnknownOperation)

	// An empty identifier must not match either
	_, err = r.Dispatch(context.Background(), "user://profile/", nil)
	require.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRegisterResource_BadTemplate(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterResource("user://profile/no-placeholder", "bad", nil)
	require.Error(t, err)
}

func TestDispatch_HandlerErrorIsContained(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterTool("flaky", "always fails", `{"type":"object"}`, func(ctx context.Context, lc *Lifecycle, input json.RawMessage) (Result, error) {
		return Result{}, errors.New("searching for doctors: connection refused")
	})
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "flaky", json.RawMessage(`{}`))
	require.NoError(t, err, "handler faults must not propagate past dispatch")
	assert.True(t, result.IsError())
	assert.Contains(t, result.Render(), "Error")
	assert.Contains(t, result.Render(), "connection refused")
}

func TestDispatch_HandlerPanicIsContained(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterTool("panicky", "panics", `{"type":"object"}`, func(ctx context.Context, lc *Lifecycle, input json.RawMessage) (Result, error) {
		panic("nil map write")
	})
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "panicky", nil)
	require.NoError(t, err, "panics must not propagate past dispatch")
	assert.True(t, result.IsError())
	assert.Contains(t, result.Render(), "Error")
}

func TestDispatch_PromptReturnsMessages(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterPrompt("greeting", "scripted greeting", []PromptArgument{{Name: "name"}}, func(input json.RawMessage) (Result, error) {
		var in struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(input, &in); err != nil {
			return Result{}, err
		}
		return Conversation(
			UserMessage("Hello, I am "+in.Name),
			AssistantMessage("Welcome, "+in.Name+"!"),
		), nil
	})
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "greeting", json.RawMessage(`{"name":"Ada"}`))
	require.NoError(t, err)

	msgs := result.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Ada")
}

func TestDispatch_NilParamsBecomeEmptyObject(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterTool("echo_params", "echoes raw params", `{"type":"object"}`, func(ctx context.Context, lc *Lifecycle, input json.RawMessage) (Result, error) {
		return Text(string(input)), nil
	})
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "echo_params", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", result.Render())
}

func TestRegistry_Listings(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterResource("user://profile/{user_id}", "profile", nil))
	require.NoError(t, r.RegisterTool("tool_b", "b", "{}", nil))
	require.NoError(t, r.RegisterTool("tool_a", "a", "{}", nil))
	require.NoError(t, r.RegisterPrompt("prompt_x", "x", nil, nil))

	tools := r.Tools()
	require.Len(t, tools, 2)
	// Registration order, not lexical order
	assert.Equal(t, "tool_b", tools[0].Name)
	assert.Equal(t, "tool_a", tools[1].Name)

	assert.Len(t, r.Resources(), 1)
	assert.Len(t, r.Prompts(), 1)
}

func TestResult_Render(t *testing.T) {
	assert.Equal(t, "hello", Text("hello").Render())
	assert.Equal(t, "Error fetching data: boom", Fail(errors.New("fetching data: boom")).Render())

	rendered := Conversation(UserMessage("hi"), AssistantMessage("hello")).Render()
	assert.True(t, strings.Contains(rendered, "[user] hi"))
	assert.True(t, strings.Contains(rendered, "[assistant] hello"))
}
