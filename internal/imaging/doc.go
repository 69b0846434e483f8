// ABOUTME: Package documentation for the imaging package
// ABOUTME: Describes the skin-analysis API client

// Package imaging provides a client for the external skin-analysis API
// used by the skin condition tool.
//
// Images travel as base64 strings inside a JSON body. Analyze validates
// the encoding locally before touching the network, so callers get a
// fast error for garbage input instead of an upstream rejection.
package imaging
