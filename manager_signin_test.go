package appcore

import (
	"context"
	"errors"
	"testing"
)

func TestSignInSuccessInstallsAndPersists(t *testing.T) {
	mr, client := newTestRedis(t)
	creds := newTestCredentials(t)
	cfg := managerTestConfig()

	if _, err := creds.SignUp(context.Background(), "user@example.com", "Password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := creds.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	m := newTestManager(t, cfg, creds, client, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	s, err := m.SignIn(context.Background(), "user@example.com", "Password1")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if s.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", s.Email)
	}
	if !m.Authenticated() {
		t.Error("Authenticated false after sign-in")
	}
	if !mr.Exists(cfg.Session.RedisPrefix + ":session:client-test") {
		t.Error("session not persisted")
	}
	if v := m.MetricsSnapshot().Counters[MetricSignInSuccess]; v != 1 {
		t.Errorf("MetricSignInSuccess = %d, want 1", v)
	}
}

func TestSignInRejectionLeavesStateUntouched(t *testing.T) {
	creds := newTestCredentials(t)
	if _, err := creds.SignUp(context.Background(), "user@example.com", "Password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := creds.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err := m.SignIn(context.Background(), "user@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	_, err = m.SignIn(context.Background(), "nobody@example.com", "Password1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v, want ErrInvalidCredentials", err)
	}

	if _, ok := m.Current(); ok {
		t.Error("rejected sign-in installed a session")
	}
	if v := m.MetricsSnapshot().Counters[MetricSignInFailure]; v != 2 {
		t.Errorf("MetricSignInFailure = %d, want 2", v)
	}
}

func TestSignInBackendFailureClassifiedUnavailable(t *testing.T) {
	creds := newTestCredentials(t)
	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	creds.FailNextWith(errors.New("dial tcp: i/o timeout"))
	_, err := m.SignIn(context.Background(), "user@example.com", "Password1")
	if !errors.Is(err, ErrCredentialUnavailable) {
		t.Fatalf("error = %v, want ErrCredentialUnavailable", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Error("transport failure must not read as rejected credentials")
	}
}

func TestSignUpDuplicateAccount(t *testing.T) {
	creds := newTestCredentials(t)
	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	first, err := m.SignUp(context.Background(), "new@example.com", "Password1")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	_, err = m.SignUp(context.Background(), "new@example.com", "Password1")
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("error = %v, want ErrDuplicateAccount", err)
	}

	got, ok := m.Current()
	if !ok || got.AccessToken != first.AccessToken {
		t.Error("failed sign-up disturbed the current session")
	}
	if v := m.MetricsSnapshot().Counters[MetricSignUpFailure]; v != 1 {
		t.Errorf("MetricSignUpFailure = %d, want 1", v)
	}
}
