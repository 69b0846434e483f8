// ABOUTME: Package documentation for the gateway package
// ABOUTME: Describes the orchestrator and its startup order

// Package gateway assembles the care-gateway server.
//
// New builds the components in a fixed order: it validates configuration
// and brings up the lifecycle clients, constructs the operation registry,
// registers the handler surface, and wires the MCP server onto an HTTP
// mux alongside health endpoints. Any failure in that chain tears down
// the clients already built and aborts startup.
//
// Run serves until the context is canceled or the server fails, then
// shuts down with a fresh bounded context. The lifecycle teardown is
// deferred at the top of Run, so the shared clients are released exactly
// once on every exit path.
package gateway
