package routegate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigInvalid is returned by [NewGate] when the allow-list or target
// paths are malformed.
var ErrConfigInvalid = errors.New("route config invalid")

// Action is the outcome kind of a route decision.
type Action uint8

const (
	// ActionAllow passes the request through.
	ActionAllow Action = iota
	// ActionRedirect sends the client to Decision.Target instead.
	ActionRedirect
)

// Decision is the result of classifying one navigation.
type Decision struct {
	Action Action
	Target string
}

// Allow returns a pass-through decision.
func Allow() Decision {
	return Decision{Action: ActionAllow}
}

// Redirect returns a decision sending the client to target.
func Redirect(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

// Config is the static routing classification, part of deployment
// configuration rather than runtime state.
type Config struct {
	// Public lists routes reachable without a session: the auth entry
	// points (login, signup, reset-password) and any marketing pages.
	Public []string
	// Landing is the path that renders regardless of auth state.
	// Defaults to "/".
	Landing string
	// Home is where authenticated clients are sent when they hit a bare
	// auth entry point. Defaults to "/dashboard".
	Home string
	// SkipPrefixes are excluded from gating entirely: static assets, API
	// endpoints, framework internals. Defaults cover "/static/", "/api/"
	// and "/favicon.ico".
	SkipPrefixes []string
}

func defaultSkipPrefixes() []string {
	return []string{"/static/", "/api/", "/favicon.ico"}
}

// Gate holds a validated route configuration. The zero value is unusable;
// construct gates with [NewGate].
type Gate struct {
	public  []string
	landing string
	home    string
	skip    []string
}

// NewGate validates cfg and returns a gate. Empty or non-rooted allow-list
// entries are configuration defects and are rejected outright so a typo
// cannot silently widen the public surface.
func NewGate(cfg Config) (*Gate, error) {
	landing := cfg.Landing
	if landing == "" {
		landing = "/"
	}
	home := cfg.Home
	if home == "" {
		home = "/dashboard"
	}
	skip := cfg.SkipPrefixes
	if skip == nil {
		skip = defaultSkipPrefixes()
	}

	public := make([]string, 0, len(cfg.Public))
	for _, entry := range cfg.Public {
		if entry == "" || !strings.HasPrefix(entry, "/") {
			return nil, fmt.Errorf("%w: allow-list entry %q", ErrConfigInvalid, entry)
		}
		trimmed := strings.TrimRight(entry, "/")
		// An entry that normalizes to "" ("/", "//") would prefix-match
		// every rooted path and silently make the whole site public. The
		// landing path is not an allow-list entry; reject it here.
		if trimmed == "" {
			return nil, fmt.Errorf("%w: allow-list entry %q matches every path", ErrConfigInvalid, entry)
		}
		public = append(public, trimmed)
	}
	for _, target := range []string{landing, home} {
		if !strings.HasPrefix(target, "/") {
			return nil, fmt.Errorf("%w: redirect target %q", ErrConfigInvalid, target)
		}
	}

	return &Gate{
		public:  public,
		landing: landing,
		home:    home,
		skip:    skip,
	}, nil
}

// Skipped reports whether path is excluded from gating entirely (assets,
// API, framework internals). Skipped paths are never classified.
func (g *Gate) Skipped(path string) bool {
	if g == nil {
		return false
	}
	for _, prefix := range g.skip {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Decide classifies one navigation. It is side-effect free and safe for
// concurrent use. A nil gate fails closed: every non-landing path redirects
// to "/".
func (g *Gate) Decide(path string, authenticated bool) Decision {
	if g == nil {
		if path == "/" {
			return Allow()
		}
		return Redirect("/")
	}

	if g.Skipped(path) {
		return Allow()
	}

	isLanding := path == g.landing

	if !authenticated {
		if isLanding || g.isPublic(path) {
			return Allow()
		}
		return Redirect(g.landing)
	}

	if isLanding {
		return Allow()
	}
	// Exact match only: sub-paths of auth-only routes stay reachable while
	// authenticated, the bare entry points do not.
	if g.isPublicExact(path) {
		return Redirect(g.home)
	}
	return Allow()
}

// isPublic is the unauthenticated match: exact, or a sub-path separated by
// "/".
func (g *Gate) isPublic(path string) bool {
	for _, entry := range g.public {
		if path == entry || strings.HasPrefix(path, entry+"/") {
			return true
		}
	}
	return false
}

func (g *Gate) isPublicExact(path string) bool {
	for _, entry := range g.public {
		if path == entry {
			return true
		}
	}
	return false
}
