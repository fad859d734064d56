// Package credential defines the boundary to the external identity provider:
// password verification, session issuance, sign-out, and asynchronous
// auth-state change notifications.
//
// The provider itself is consumed, not built. [Store] is the complete
// surface the app core needs; the hosted service is wired in by the
// consuming application. [Memory] is an in-process implementation with the
// same observable behavior, shipped for tests, examples, and load tooling.
//
// # Error contract
//
// Implementations must not reveal whether an email is registered: an unknown
// email and a wrong password both fail sign-in with [ErrInvalidCredentials].
// Duplicate registration fails with [ErrDuplicateAccount]. Network and
// timeout failures surface as [ErrUnavailable] so callers can distinguish
// "call failed" from "session absent".
//
// # What this package must NOT do
//
//   - Import the root appcore package (no upward imports).
//   - Persist sessions across processes — that is session.Store's job.
//   - Make route or display decisions.
package credential
