// ABOUTME: Package documentation for the mcp package
// ABOUTME: Describes the Streamable HTTP transport implementation

// Package mcp exposes the operation registry to AI assistant clients over
// the MCP Streamable HTTP transport.
//
// # Transport
//
// A single endpoint (/mcp) accepts JSON-RPC 2.0 messages via POST. The
// initialize handshake creates an in-memory session returned in the
// Mcp-Session-Id header; every subsequent request must carry it. DELETE
// terminates a session, verified against the token used at initialize.
// Server-initiated SSE streams are not supported.
//
// # Methods
//
// initialize, ping, tools/list, tools/call, resources/list,
// resources/read, prompts/list, prompts/get. Notifications are accepted
// with HTTP 202 and no body.
//
// Tool faults arrive already contained in the dispatch result and are
// returned as text content with isError set, never as JSON-RPC errors.
// JSON-RPC errors are reserved for transport and registry misuse: unknown
// methods, invalid params, missing tools.
//
// # Auth
//
// Optional token auth covers the initialize handshake. Tokens are minted
// by TokenStore and arrive in the URL path (/mcp/<token>), a token query
// parameter, or a Bearer Authorization header.
package mcp
