// Package routegate decides, once per inbound navigation, whether a path is
// served or redirected based on session presence and a static public-route
// allow-list.
//
// # Decision model
//
// [Gate.Decide] is a pure, synchronous classification: no I/O, no retries,
// no session mutation. The allow-list match is exact-or-prefix for
// unauthenticated requests but exact-only for authenticated ones. The
// asymmetry is intentional: a sub-path of an auth-only route (a
// reset-password sub-flow, say) must stay reachable while authenticated,
// but the bare login/signup entry points must not.
//
// # Failure policy
//
// The gate fails closed. A malformed allow-list is rejected at construction,
// and both a nil gate and an unresolved session state deny protected paths
// rather than allowing them.
//
// # Architecture boundaries
//
// This package translates paths and a derived authentication boolean into
// decisions. It never reads or writes session state itself — [Middleware]
// takes a read-only session source.
package routegate
