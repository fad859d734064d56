package routegate

import (
	"net/http"
)

// SessionSource is the read-only view of session state the middleware
// needs. *appcore.Manager satisfies it.
type SessionSource interface {
	// Ready is closed once the initial session fetch has resolved. Until
	// then the session is indeterminate: neither authenticated nor
	// anonymous.
	Ready() <-chan struct{}
	// Authenticated reports whether a live, unexpired session is present.
	Authenticated() bool
}

// Middleware gates every inbound navigation. Skipped paths pass straight
// through without waiting for the session source. For everything else the
// middleware waits for the session source to resolve (bounded by the
// request context), runs the decision synchronously, and either serves the
// request or issues a redirect.
//
// Fail-closed behavior: a nil gate or nil source denies every path,
// including ones a configured gate would skip (the skip set lives on the
// gate, so without one nothing is exempt), and a request whose context
// expires while the session is still indeterminate is denied rather than
// guessed at.
func Middleware(gate *Gate, src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate != nil && gate.Skipped(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if gate == nil || src == nil {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			select {
			case <-src.Ready():
			case <-r.Context().Done():
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}

			decision := gate.Decide(r.URL.Path, src.Authenticated())
			if decision.Action == ActionRedirect {
				http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
