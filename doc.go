// Package appcore is the session-gated access-control and reward core shared
// by the diary and progress apps.
//
// The package owns the process-wide session state: [Manager] signs clients
// in and out against an external credential store, restores persisted
// sessions on start, and pushes every session transition to its subscribers.
// Route gating ([routegate]), the reward notification slot ([reward]), and
// form validation ([validation]) live in subpackages; this package wires
// them together behind [Builder].
//
// # Architecture boundaries
//
// appcore is the public surface. Construction goes through [New] and
// [Builder.Build]; after Build the Manager is safe for concurrent use. The
// credential store is consumed through [credential.Store] and never built
// here; presentation (pages, styling, image galleries) stays entirely
// outside this module.
//
// # What this package must NOT do
//
//   - Verify passwords or mint tokens — the credential store owns identity.
//   - Render anything: it exposes state and decisions, not views.
//   - Create more than one live session per client context.
package appcore
