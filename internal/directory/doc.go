// ABOUTME: Package documentation for the directory package
// ABOUTME: Describes the doctor-directory API client

// Package directory provides a client for the external doctor-directory
// API used by the doctor search tool.
//
// The client borrows the shared HTTP client from the lifecycle context
// instead of constructing its own, so the gateway-wide request timeout
// applies uniformly. Upstream responses carry many fields the gateway
// never renders; only the projected subset in Doctor is parsed.
package directory
