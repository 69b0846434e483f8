// ABOUTME: Tests for the MCP HTTP server transport
// ABOUTME: Validates sessions, method routing, auth, and contained faults

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/careassist/care-gateway/internal/datastore"
	"github.com/careassist/care-gateway/internal/registry"
)

// setupTestRegistry creates a registry with one of each operation kind plus
// a deliberately failing tool.
func setupTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	lc := &registry.Lifecycle{
		Store: datastore.NewMockStore(),
		HTTP:  http.DefaultClient,
	}
	reg := registry.NewRegistry(lc, slog.Default())

	err := reg.RegisterResource("note://item/{id}", "A test note",
		func(ctx context.Context, lc *registry.Lifecycle, id string) (registry.Result, error) {
			return registry.Textf("note %s", id), nil
		})
	if err != nil {
		t.Fatalf("failed to register resource: %v", err)
	}

	err = reg.RegisterTool("echo", "Echo the message back",
		`{"type":"object","properties":{"message":{"type":"string"}}}`,
		func(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
			var in struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return registry.Result{}, err
			}
			return registry.Text(in.Message), nil
		})
	if err != nil {
		t.Fatalf("failed to register tool: %v", err)
	}

	err = reg.RegisterTool("boom", "Always fails", `{"type":"object"}`,
		func(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
			return registry.Result{}, errors.New("backend unavailable")
		})
	if err != nil {
		t.Fatalf("failed to register failing tool: %v", err)
	}

	err = reg.RegisterPrompt("greeting", "A short greeting",
		[]registry.PromptArgument{{Name: "name"}},
		func(input json.RawMessage) (registry.Result, error) {
			var in struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return registry.Result{}, err
			}
			return registry.Conversation(
				registry.UserMessage("Hello "+in.Name),
				registry.AssistantMessage("Hi there!"),
			), nil
		})
	if err != nil {
		t.Fatalf("failed to register prompt: %v", err)
	}

	return reg
}

func setupTestServer(t *testing.T, cfg Config) *http.ServeMux {
	t.Helper()
	if cfg.Registry == nil {
		cfg.Registry = setupTestRegistry(t)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	server, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	return mux
}

// postRPC sends one JSON-RPC request and returns the recorder.
func postRPC(t *testing.T, mux *http.ServeMux, sessionID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// initialize performs the handshake and returns the session ID.
func initialize(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	rr := postRPC(t, mux, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("initialize returned status %d: %s", rr.Code, rr.Body.String())
	}
	sessionID := rr.Header().Get("Mcp-Session-Id")
	if sessionID == "" {
		t.Fatal("initialize did not return a session ID")
	}
	return sessionID
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Result json.RawMessage `json:"result"`
		Error  *JSONRPCError   `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected JSON-RPC error: %d %s", resp.Error.Code, resp.Error.Message)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *JSONRPCError {
	t.Helper()
	var resp struct {
		Error *JSONRPCError `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("expected a JSON-RPC error")
	}
	return resp.Error
}

func TestInitialize(t *testing.T) {
	mux := setupTestServer(t, Config{})

	rr := postRPC(t, mux, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("Mcp-Session-Id") == "" {
		t.Error("expected Mcp-Session-Id header")
	}

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	decodeResult(t, rr, &result)
	if result.ProtocolVersion != latestProtocolVersion {
		t.Errorf("protocolVersion = %q, want %q", result.ProtocolVersion, latestProtocolVersion)
	}
	if result.ServerInfo.Name != "care-gateway" {
		t.Errorf("serverInfo.name = %q", result.ServerInfo.Name)
	}
}

func TestInitializeEchoesRequestedProtocolVersion(t *testing.T) {
	mux := setupTestServer(t, Config{})

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
	}

	// A supported client version is pinned for the session
	rr := postRPC(t, mux, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`)
	decodeResult(t, rr, &result)
	if result.ProtocolVersion != "2025-03-26" {
		t.Errorf("protocolVersion = %q, want 2025-03-26", result.ProtocolVersion)
	}

	// An unknown version falls back to the latest we speak
	rr = postRPC(t, mux, "", `{"jsonrpc":"2.0","id":2,"method":"initialize","params":{"protocolVersion":"1999-01-01"}}`)
	decodeResult(t, rr, &result)
	if result.ProtocolVersion != latestProtocolVersion {
		t.Errorf("protocolVersion = %q, want %q", result.ProtocolVersion, latestProtocolVersion)
	}
}

func TestSessionRequired(t *testing.T) {
	mux := setupTestServer(t, Config{})

	t.Run("missing session", func(t *testing.T) {
		rr := postRPC(t, mux, "", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rr := postRPC(t, mux, "no-such-session", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})
}

func TestNotificationsAccepted(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if rr.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}
}

func TestToolsList(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var result ListToolsResult
	decodeResult(t, rr, &result)
	if len(result.Tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "echo" {
		t.Errorf("first tool = %q, want echo", result.Tools[0].Name)
	}
	if len(result.Tools[0].InputSchema) == 0 {
		t.Error("expected non-empty input schema")
	}
}

func TestToolsCall(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	t.Run("success", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hello"}}}`)

		var result CallToolResult
		decodeResult(t, rr, &result)
		if result.IsError {
			t.Error("unexpected isError")
		}
		if len(result.Content) != 1 || result.Content[0].Text != "hello" {
			t.Errorf("unexpected content: %+v", result.Content)
		}
	})

	t.Run("handler fault becomes isError content", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"boom","arguments":{}}}`)

		var result CallToolResult
		decodeResult(t, rr, &result)
		if !result.IsError {
			t.Fatal("expected isError")
		}
		if !strings.Contains(result.Content[0].Text, "backend unavailable") {
			t.Errorf("content = %q, want fault text", result.Content[0].Text)
		}
	})

	t.Run("unknown tool", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"missing"}}`)

		rpcErr := decodeError(t, rr)
		if rpcErr.Code != JSONRPCInvalidParams {
			t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidParams)
		}
	})
}

func TestResources(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	t.Run("list", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)

		var result ListResourcesResult
		decodeResult(t, rr, &result)
		if len(result.Resources) != 1 || result.Resources[0].URI != "note://item/{id}" {
			t.Errorf("unexpected resources: %+v", result.Resources)
		}
	})

	t.Run("read", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":7,"method":"resources/read","params":{"uri":"note://item/7"}}`)

		var result ReadResourceResult
		decodeResult(t, rr, &result)
		if len(result.Contents) != 1 || result.Contents[0].Text != "note 7" {
			t.Errorf("unexpected contents: %+v", result.Contents)
		}
	})

	t.Run("read with prompt name rejected", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":13,"method":"resources/read","params":{"uri":"greeting"}}`)

		rpcErr := decodeError(t, rr)
		if rpcErr.Code != JSONRPCInvalidParams {
			t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidParams)
		}
	})

	t.Run("read unknown uri", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":8,"method":"resources/read","params":{"uri":"note://other/7"}}`)

		rpcErr := decodeError(t, rr)
		if rpcErr.Code != JSONRPCInvalidParams {
			t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidParams)
		}
	})
}

func TestResourcesReadDoesNotExecuteTools(t *testing.T) {
	lc := &registry.Lifecycle{
		Store: datastore.NewMockStore(),
		HTTP:  http.DefaultClient,
	}
	reg := registry.NewRegistry(lc, slog.Default())

	executed := false
	err := reg.RegisterTool("book_appointment", "Books an appointment", `{"type":"object"}`,
		func(ctx context.Context, lc *registry.Lifecycle, input json.RawMessage) (registry.Result, error) {
			executed = true
			return registry.Text("booked"), nil
		})
	if err != nil {
		t.Fatalf("failed to register tool: %v", err)
	}

	mux := setupTestServer(t, Config{Registry: reg})
	sessionID := initialize(t, mux)

	rr := postRPC(t, mux, sessionID,
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"book_appointment"}}`)

	rpcErr := decodeError(t, rr)
	if rpcErr.Code != JSONRPCInvalidParams {
		t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidParams)
	}
	if rpcErr.Message != "resource not found" {
		t.Errorf("error message = %q, want resource not found", rpcErr.Message)
	}
	if executed {
		t.Error("resources/read must not execute a tool handler")
	}
}

func TestPrompts(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	t.Run("list", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","id":9,"method":"prompts/list"}`)

		var result ListPromptsResult
		decodeResult(t, rr, &result)
		if len(result.Prompts) != 1 || result.Prompts[0].Name != "greeting" {
			t.Errorf("unexpected prompts: %+v", result.Prompts)
		}
		if len(result.Prompts[0].Arguments) != 1 {
			t.Errorf("expected 1 argument, got %+v", result.Prompts[0].Arguments)
		}
	})

	t.Run("get", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID,
			`{"jsonrpc":"2.0","id":10,"method":"prompts/get","params":{"name":"greeting","arguments":{"name":"Ada"}}}`)

		var result GetPromptResult
		decodeResult(t, rr, &result)
		if len(result.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(result.Messages))
		}
		if result.Messages[0].Role != "user" || result.Messages[0].Content.Text != "Hello Ada" {
			t.Errorf("unexpected first message: %+v", result.Messages[0])
		}
	})
}

func TestPing(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","id":11,"method":"ping"}`)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	mux := setupTestServer(t, Config{})

	big := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"pad":%q}}`,
		strings.Repeat("x", MaxRequestBodySize))
	rr := postRPC(t, mux, "", big)

	rpcErr := decodeError(t, rr)
	if rpcErr.Code != JSONRPCInvalidRequest {
		t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidRequest)
	}
}

func TestUnsupportedProtocolVersion(t *testing.T) {
	mux := setupTestServer(t, Config{})
	sessionID := initialize(t, mux)

	req := httptest.NewRequest(http.MethodPost, "/mcp",
		bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)))
	req.Header.Set("Mcp-Session-Id", sessionID)
	req.Header.Set("Mcp-Protocol-Version", "1999-01-01")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestTokenAuth(t *testing.T) {
	tokens := NewTokenStore()
	token := tokens.CreateToken("test-client")

	mux := setupTestServer(t, Config{TokenStore: tokens, RequireAuth: true})

	t.Run("initialize without token rejected", func(t *testing.T) {
		rr := postRPC(t, mux, "", `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
		rpcErr := decodeError(t, rr)
		if rpcErr.Code != JSONRPCInvalidRequest {
			t.Errorf("error code = %d, want %d", rpcErr.Code, JSONRPCInvalidRequest)
		}
	})

	t.Run("initialize with path token succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp/"+token,
			bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if rr.Header().Get("Mcp-Session-Id") == "" {
			t.Error("expected session ID")
		}
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp/not-a-token",
			bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		rpcErr := decodeError(t, rr)
		if rpcErr.Message != "invalid or expired token" {
			t.Errorf("error message = %q", rpcErr.Message)
		}
	})
}

func TestSessionDelete(t *testing.T) {
	tokens := NewTokenStore()
	token := tokens.CreateToken("test-client")
	mux := setupTestServer(t, Config{TokenStore: tokens, RequireAuth: true})

	// initialize with the token so the session is bound to it
	req := httptest.NewRequest(http.MethodPost, "/mcp/"+token,
		bytes.NewReader([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	sessionID := rr.Header().Get("Mcp-Session-Id")
	if sessionID == "" {
		t.Fatal("initialize did not return a session ID")
	}

	t.Run("delete with wrong token forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/mcp/other-token", nil)
		req.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", rr.Code)
		}
	})

	t.Run("delete with owner token succeeds", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/mcp/"+token, nil)
		req.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Errorf("expected status 204, got %d", rr.Code)
		}
	})

	t.Run("session gone after delete", func(t *testing.T) {
		rr := postRPC(t, mux, sessionID, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
		if rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})
}
