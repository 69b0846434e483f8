// ABOUTME: MCP-compatible HTTP server for AI assistant clients
// ABOUTME: Implements Streamable HTTP transport with session management

package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careassist/care-gateway/internal/registry"
)

// Supported MCP protocol versions
var supportedProtocolVersions = map[string]bool{
	"2025-03-26": true,
	"2025-11-25": true,
}

// latestProtocolVersion is the version advertised in initialize responses
const latestProtocolVersion = "2025-11-25"

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// MCP-specific types

// ToolInfo describes one tool in a tools/list result.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the result for tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content is a piece of text content in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ResourceInfo describes one resource template in a resources/list result.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult is the result for resources/list.
type ListResourcesResult struct {
	Resources []ResourceInfo `json:"resources"`
}

// ReadResourceParams are the params for resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is one entry in a resources/read result.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResourceResult is the result for resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// PromptArgumentInfo describes one prompt argument in a prompts/list result.
type PromptArgumentInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptInfo describes one prompt in a prompts/list result.
type PromptInfo struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Arguments   []PromptArgumentInfo `json:"arguments,omitempty"`
}

// ListPromptsResult is the result for prompts/list.
type ListPromptsResult struct {
	Prompts []PromptInfo `json:"prompts"`
}

// GetPromptParams are the params for prompts/get.
type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// PromptMessage is one turn in a prompts/get result.
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// GetPromptResult is the result for prompts/get.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// mcpSession tracks an active MCP client session.
type mcpSession struct {
	id              string
	protocolVersion string
	ownerToken      string // auth token used to verify session ownership on DELETE
	createdAt       time.Time
}

// sessionStore manages active MCP sessions (in-memory).
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*mcpSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*mcpSession)}
}

func (s *sessionStore) create(protocolVersion, ownerToken string) *mcpSession {
	sess := &mcpSession{
		id:              uuid.New().String(),
		protocolVersion: protocolVersion,
		ownerToken:      ownerToken,
		createdAt:       time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id string) (*mcpSession, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	_, existed := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	return existed
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry    *registry.Registry
	Logger      *slog.Logger
	TokenStore  *TokenStore // Token-based auth (URL path or query param)
	RequireAuth bool        // If true, reject requests without a valid token
}

// Server exposes the operation registry over MCP-compatible HTTP
// endpoints, conforming to the Streamable HTTP transport specification.
type Server struct {
	registry    *registry.Registry
	logger      *slog.Logger
	tokenStore  *TokenStore
	requireAuth bool
	sessions    *sessionStore
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.RequireAuth && cfg.TokenStore == nil {
		return nil, errors.New("token store required when auth is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		registry:    cfg.Registry,
		logger:      logger,
		tokenStore:  cfg.TokenStore,
		requireAuth: cfg.RequireAuth,
		sessions:    newSessionStore(),
	}, nil
}

// RegisterRoutes registers the MCP endpoint on the given ServeMux.
// Supports both /mcp (bare) and /mcp/<token> (token-in-path) access patterns.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/mcp/", s.handleMCP)
}

// handleMCP is the single MCP endpoint supporting POST, GET, and DELETE per
// the Streamable HTTP transport spec.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodGet:
		// Server-initiated SSE streams are not supported
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, GET, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleDelete terminates a session. The caller must carry the same auth it
// used on initialize.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		http.Error(w, "Bad Request: missing Mcp-Session-Id", http.StatusBadRequest)
		return
	}

	sess, ok := s.sessions.get(sessionID)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if sess.ownerToken != "" {
		callerToken := s.extractToken(r)
		if callerToken != sess.ownerToken {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	s.sessions.delete(sessionID)
	s.logger.Info("MCP session terminated", "session_id", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// handlePost processes JSON-RPC messages sent via HTTP POST.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("Mcp-Session-Id")
	protoVersion := r.Header.Get("Mcp-Protocol-Version")

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		s.sendJSONRPCError(w, nil, JSONRPCParseError, "failed to read request body", nil)
		return
	}
	if int64(len(body)) > MaxRequestBodySize {
		s.sendJSONRPCError(w, nil, JSONRPCInvalidRequest, "request body too large", nil)
		return
	}

	var req JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendJSONRPCError(w, nil, JSONRPCParseError, "invalid JSON", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version", nil)
		return
	}

	isInitialize := req.Method == "initialize"
	isNotification := len(req.ID) == 0 || string(req.ID) == "null"

	// Protocol version header is not required on initialize
	if !isInitialize && protoVersion != "" {
		if !supportedProtocolVersions[protoVersion] {
			http.Error(w, "Bad Request: unsupported MCP-Protocol-Version", http.StatusBadRequest)
			return
		}
	}

	if isInitialize {
		if err := s.checkAuth(r); err != nil {
			s.sendJSONRPCError(w, nil, JSONRPCInvalidRequest, err.Error(), nil)
			return
		}
	} else {
		// Non-initialize requests require a valid session
		if sessionID == "" {
			http.Error(w, "Bad Request: missing Mcp-Session-Id", http.StatusBadRequest)
			return
		}
		if _, ok := s.sessions.get(sessionID); !ok {
			// Session expired or invalid - client must re-initialize
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
	}

	s.logger.Debug("MCP request",
		"method", req.Method,
		"is_notification", isNotification,
		"session_id", sessionID,
	)

	// Notifications: accept and return HTTP 202 with no body
	if isNotification {
		if strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Debug("accepted MCP notification", "method", req.Method)
		} else {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	switch req.Method {
	case "initialize":
		s.handleInitialize(w, r, req)
	case "ping":
		s.sendJSONRPCResult(w, req.ID, map[string]any{})
	case "tools/list":
		s.handleToolsList(w, req)
	case "tools/call":
		s.handleToolsCall(w, r, req)
	case "resources/list":
		s.handleResourcesList(w, req)
	case "resources/read":
		s.handleResourcesRead(w, r, req)
	case "prompts/list":
		s.handlePromptsList(w, req)
	case "prompts/get":
		s.handlePromptsGet(w, r, req)
	default:
		s.sendJSONRPCError(w, req.ID, JSONRPCMethodNotFound, "method not found", nil)
	}
}

// handleInitialize handles the MCP initialize handshake and creates a session.
// The session pins the client's requested protocol version when we support it,
// otherwise the latest version we speak.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	protoVersion := latestProtocolVersion
	if len(req.Params) > 0 {
		var params struct {
			ProtocolVersion string `json:"protocolVersion"`
		}
		if err := json.Unmarshal(req.Params, &params); err == nil && supportedProtocolVersions[params.ProtocolVersion] {
			protoVersion = params.ProtocolVersion
		}
	}

	// Bind the session to the caller's token so only the creator can DELETE it
	sess := s.sessions.create(protoVersion, s.extractToken(r))

	s.logger.Info("MCP session created",
		"session_id", sess.id,
		"protocol_version", sess.protocolVersion,
	)

	w.Header().Set("Mcp-Session-Id", sess.id)

	result := map[string]any{
		"protocolVersion": protoVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "care-gateway",
			"version": "1.0.0",
		},
	}
	s.sendJSONRPCResult(w, req.ID, result)
}

// handleToolsList handles tools/list requests.
func (s *Server) handleToolsList(w http.ResponseWriter, req JSONRPCRequest) {
	ops := s.registry.Tools()
	result := ListToolsResult{Tools: make([]ToolInfo, len(ops))}
	for i, op := range ops {
		result.Tools[i] = ToolInfo{
			Name:        op.Name,
			Description: op.Description,
			InputSchema: json.RawMessage(op.InputSchema),
		}
	}

	s.logger.Debug("tools/list", "count", len(ops))
	s.sendJSONRPCResult(w, req.ID, result)
}

// handleToolsCall handles tools/call requests.
func (s *Server) handleToolsCall(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.Name == "" {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "tool name is required", nil)
		return
	}

	op, ok := s.registry.Lookup(params.Name)
	if !ok || op.Kind != registry.KindTool {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "tool not found", nil)
		return
	}

	res, err := s.registry.Dispatch(r.Context(), params.Name, params.Arguments)
	if err != nil {
		// Only registry misuse reaches here; handler faults arrive contained
		s.sendJSONRPCError(w, req.ID, JSONRPCInternalError, "tool execution failed", nil)
		return
	}

	result := CallToolResult{
		Content: []Content{{Type: "text", Text: res.Render()}},
		IsError: res.IsError(),
	}

	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"is_error", result.IsError,
	)
	s.sendJSONRPCResult(w, req.ID, result)
}

// handleResourcesList handles resources/list requests. Registered resources
// are URI templates, so the template itself is advertised as the URI.
func (s *Server) handleResourcesList(w http.ResponseWriter, req JSONRPCRequest) {
	ops := s.registry.Resources()
	result := ListResourcesResult{Resources: make([]ResourceInfo, len(ops))}
	for i, op := range ops {
		result.Resources[i] = ResourceInfo{
			URI:         op.Name,
			Name:        op.Name,
			Description: op.Description,
			MimeType:    "text/plain",
		}
	}

	s.logger.Debug("resources/list", "count", len(ops))
	s.sendJSONRPCResult(w, req.ID, result)
}

// handleResourcesRead handles resources/read requests.
func (s *Server) handleResourcesRead(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	var params ReadResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.URI == "" {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "resource uri is required", nil)
		return
	}

	// A uri that exactly names a tool or prompt must not execute it
	if op, ok := s.registry.Lookup(params.URI); ok && op.Kind != registry.KindResource {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "resource not found", nil)
		return
	}

	res, err := s.registry.Dispatch(r.Context(), params.URI, nil)
	if err != nil {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "resource not found", nil)
		return
	}

	s.sendJSONRPCResult(w, req.ID, ReadResourceResult{
		Contents: []ResourceContents{{
			URI:      params.URI,
			MimeType: "text/plain",
			Text:     res.Render(),
		}},
	})
}

// handlePromptsList handles prompts/list requests.
func (s *Server) handlePromptsList(w http.ResponseWriter, req JSONRPCRequest) {
	ops := s.registry.Prompts()
	result := ListPromptsResult{Prompts: make([]PromptInfo, len(ops))}
	for i, op := range ops {
		info := PromptInfo{Name: op.Name, Description: op.Description}
		for _, arg := range op.Arguments {
			info.Arguments = append(info.Arguments, PromptArgumentInfo{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		result.Prompts[i] = info
	}

	s.logger.Debug("prompts/list", "count", len(ops))
	s.sendJSONRPCResult(w, req.ID, result)
}

// handlePromptsGet handles prompts/get requests.
func (s *Server) handlePromptsGet(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	var params GetPromptParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}
	if params.Name == "" {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "prompt name is required", nil)
		return
	}

	op, ok := s.registry.Lookup(params.Name)
	if !ok || op.Kind != registry.KindPrompt {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "prompt not found", nil)
		return
	}

	args, err := json.Marshal(params.Arguments)
	if err != nil {
		s.sendJSONRPCError(w, req.ID, JSONRPCInvalidParams, "invalid arguments", nil)
		return
	}

	res, dispatchErr := s.registry.Dispatch(r.Context(), params.Name, args)
	if dispatchErr != nil {
		s.sendJSONRPCError(w, req.ID, JSONRPCInternalError, "prompt generation failed", nil)
		return
	}

	result := GetPromptResult{Description: op.Description}
	if res.IsError() {
		result.Messages = []PromptMessage{{
			Role:    string(registry.RoleAssistant),
			Content: Content{Type: "text", Text: res.Render()},
		}}
	} else {
		for _, m := range res.Messages() {
			result.Messages = append(result.Messages, PromptMessage{
				Role:    string(m.Role),
				Content: Content{Type: "text", Text: m.Content},
			})
		}
	}
	s.sendJSONRPCResult(w, req.ID, result)
}

// checkAuth validates the caller's token on initialize. With auth disabled
// it always succeeds; with auth enabled a missing or unknown token rejects
// the handshake.
func (s *Server) checkAuth(r *http.Request) error {
	token := s.extractToken(r)
	if token == "" {
		if s.requireAuth {
			return errors.New("authentication required")
		}
		return nil
	}
	if s.tokenStore == nil || !s.tokenStore.Valid(token) {
		return errors.New("invalid or expired token")
	}
	return nil
}

// extractToken derives the caller's token from the URL path (/mcp/<token>),
// the token query parameter, or a Bearer Authorization header, in that
// order of priority.
func (s *Server) extractToken(r *http.Request) string {
	if pathToken := strings.TrimPrefix(r.URL.Path, "/mcp/"); pathToken != "" && pathToken != r.URL.Path {
		pathToken = strings.TrimRight(pathToken, "/")
		if !strings.Contains(pathToken, "/") {
			return pathToken
		}
		return ""
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// sendJSONRPCResult sends a successful JSON-RPC response.
func (s *Server) sendJSONRPCResult(w http.ResponseWriter, id json.RawMessage, result any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
	}
}

// sendJSONRPCError sends a JSON-RPC error response.
func (s *Server) sendJSONRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string, data any) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("failed to encode JSON-RPC error response", "error", err)
	}
}
