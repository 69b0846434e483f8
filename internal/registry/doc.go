// Package registry provides the operation registry, dispatcher, and shared
// lifecycle context for the gateway.
//
// # Overview
//
// Every capability the gateway exposes is an Operation of one of three
// kinds:
//
//   - Resource: read-only lookup keyed by an identifier in a URI template
//   - Tool: action that may read/write or call external services
//   - Prompt: pure scripted-conversation generator
//
// Operations are registered once at startup into an explicit Registry
// (no ambient global) and looked up by name at dispatch time. Names share
// one namespace across kinds; duplicates are rejected at registration.
//
// # Lifecycle Context
//
// The Lifecycle holds the two shared external clients — the data store
// client and the provider HTTP client — created exactly once per run, in
// that order, and injected into resource and tool handlers by Dispatch.
// Prompt handlers receive only their declared parameters. Teardown is
// idempotent and is invoked via defer so the HTTP client is released on
// every exit path, including a panicking run loop.
//
// # Fault Containment
//
// Dispatch returns an error only for registry misuse (unknown operation).
// Faults raised inside handler bodies, including panics, are contained at
// the handler boundary and carried inside the Result, which renders them
// as readable text. The caller is an AI assistant: it always receives a
// string it can read aloud, never a machine fault object.
//
// # Concurrency
//
// The registry is read-only after startup and guarded by an RWMutex for
// the registration phase. Dispatch adds no locking of its own: the shared
// clients are internally safe for concurrent use and handlers hold no
// other shared mutable state.
package registry
