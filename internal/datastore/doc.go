// Package datastore provides access to the backing user data store.
//
// # Overview
//
// The gateway reads user profiles and medical history and appends
// interaction logs. Three collections exist: users (by ID), medical_records
// (by user ID, time-ordered), and user_interactions (insert-only).
//
// # Implementations
//
//   - RESTStore: PostgREST-compatible remote endpoint (Supabase semantics).
//     This is the production store: endpoint URL + access key, no explicit
//     close step.
//   - SQLiteStore: local database for development and tests, schema created
//     automatically.
//   - MockStore: in-memory store for handler tests, including forced-failure
//     mode for fault containment checks.
//
// All implementations are safe for concurrent use and return ErrNotFound
// for missing users; an empty history is an empty slice, not an error.
package datastore
