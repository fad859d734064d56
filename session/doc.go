// Package session provides the client session model and Redis-backed session
// persistence for the shared app core.
//
// # Binary encoding
//
// Persisted sessions are stored in Redis as a compact versioned binary blob.
// The encoder is append-only: new schema versions add fields but never
// reinterpret old ones. Decoding is strict; a blob that does not parse is
// reported as corrupt rather than silently dropped.
//
// # Architecture boundaries
//
// This package owns the [Session] model, the binary codec, and the [Store]
// (Redis operations). It reads token claims only for expiry bookkeeping —
// verification of token signatures is the credential store's job, and
// authentication policy belongs to the Manager.
//
// # What this package must NOT do
//
//   - Import the root appcore package or credential (no upward imports).
//   - Verify token signatures or make authentication decisions.
//   - Store plaintext passwords in [Session] fields.
package session
