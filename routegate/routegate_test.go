package routegate

import (
	"errors"
	"testing"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	gate, err := NewGate(Config{
		Public: []string{"/login", "/signup", "/auth/reset-password", "/about"},
	})
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}
	return gate
}

func TestDecideAnonymousProtectedRedirectsToLanding(t *testing.T) {
	gate := newTestGate(t)

	for _, path := range []string{"/dashboard", "/diary/today", "/gacha", "/settings/profile"} {
		d := gate.Decide(path, false)
		if d.Action != ActionRedirect || d.Target != "/" {
			t.Fatalf("Decide(%q, anon) = %+v, want redirect to /", path, d)
		}
	}
}

func TestDecideAnonymousPublicAllowed(t *testing.T) {
	gate := newTestGate(t)

	for _, path := range []string{
		"/",
		"/login",
		"/signup",
		"/about",
		"/auth/reset-password",
		"/auth/reset-password/xyz",
		"/login/help",
	} {
		if d := gate.Decide(path, false); d.Action != ActionAllow {
			t.Fatalf("Decide(%q, anon) = %+v, want allow", path, d)
		}
	}
}

func TestDecideAnonymousPrefixNeedsSeparator(t *testing.T) {
	gate := newTestGate(t)

	// "/loginx" shares a prefix with "/login" but is not a sub-path.
	if d := gate.Decide("/loginx", false); d.Action != ActionRedirect {
		t.Fatalf("Decide(/loginx, anon) = %+v, want redirect", d)
	}
}

func TestDecideAuthenticatedEntryPointsRedirectHome(t *testing.T) {
	gate := newTestGate(t)

	for _, path := range []string{"/login", "/signup", "/about", "/auth/reset-password"} {
		d := gate.Decide(path, true)
		if d.Action != ActionRedirect || d.Target != "/dashboard" {
			t.Fatalf("Decide(%q, authed) = %+v, want redirect to /dashboard", path, d)
		}
	}
}

func TestDecideAuthenticatedSubPathExemptionPersists(t *testing.T) {
	gate := newTestGate(t)

	// A reset-password sub-flow must stay reachable even while signed in.
	if d := gate.Decide("/auth/reset-password/xyz", true); d.Action != ActionAllow {
		t.Fatalf("Decide(reset sub-path, authed) = %+v, want allow", d)
	}
}

func TestDecideAuthenticatedLandingAndProtectedAllowed(t *testing.T) {
	gate := newTestGate(t)

	for _, path := range []string{"/", "/dashboard", "/diary/today", "/gacha"} {
		if d := gate.Decide(path, true); d.Action != ActionAllow {
			t.Fatalf("Decide(%q, authed) = %+v, want allow", path, d)
		}
	}
}

func TestDecideSkipPrefixesBypassGating(t *testing.T) {
	gate := newTestGate(t)

	for _, path := range []string{"/static/css/app.css", "/api/parrots", "/favicon.ico"} {
		for _, authed := range []bool{false, true} {
			if d := gate.Decide(path, authed); d.Action != ActionAllow {
				t.Fatalf("Decide(%q, authed=%v) = %+v, want allow", path, authed, d)
			}
		}
	}
}

func TestDecideCustomLandingAndHome(t *testing.T) {
	gate, err := NewGate(Config{
		Public:  []string{"/login"},
		Landing: "/welcome",
		Home:    "/home",
	})
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}

	if d := gate.Decide("/secret", false); d.Target != "/welcome" {
		t.Fatalf("expected redirect to /welcome, got %+v", d)
	}
	if d := gate.Decide("/login", true); d.Target != "/home" {
		t.Fatalf("expected redirect to /home, got %+v", d)
	}
	if d := gate.Decide("/welcome", true); d.Action != ActionAllow {
		t.Fatalf("expected landing allow, got %+v", d)
	}
}

func TestNewGateRejectsMalformedAllowList(t *testing.T) {
	for _, cfg := range []Config{
		{Public: []string{""}},
		{Public: []string{"login"}},
		{Public: []string{"/login"}, Landing: "welcome"},
		{Public: []string{"/login"}, Home: "home"},
	} {
		if _, err := NewGate(cfg); !errors.Is(err, ErrConfigInvalid) {
			t.Fatalf("NewGate(%+v): expected ErrConfigInvalid, got %v", cfg, err)
		}
	}
}

func TestNewGateRejectsEntriesMatchingEveryPath(t *testing.T) {
	// "/" and "//" normalize to "" and would then prefix-match every
	// rooted path, turning the whole site public for anonymous clients.
	for _, entry := range []string{"/", "//", "///"} {
		_, err := NewGate(Config{Public: []string{entry}})
		if !errors.Is(err, ErrConfigInvalid) {
			t.Fatalf("NewGate with entry %q: expected ErrConfigInvalid, got %v", entry, err)
		}
	}
}

func TestNilGateFailsClosed(t *testing.T) {
	var gate *Gate

	if d := gate.Decide("/dashboard", true); d.Action != ActionRedirect || d.Target != "/" {
		t.Fatalf("nil gate must redirect protected paths, got %+v", d)
	}
	if d := gate.Decide("/", false); d.Action != ActionAllow {
		t.Fatalf("nil gate should still serve the landing page, got %+v", d)
	}
}
