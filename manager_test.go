package appcore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/perchapps/appcore/credential"
	"github.com/perchapps/appcore/routegate"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func managerTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Variant = "diary"
	cfg.Credential.Timeout = 2 * time.Second
	cfg.Routes = routegate.Config{
		Public: []string{"/login", "/signup", "/auth/reset-password"},
	}
	cfg.Reward.Display = 100 * time.Millisecond
	return cfg
}

func newTestCredentials(t *testing.T) *credential.Memory {
	t.Helper()

	creds := credential.NewMemory(credential.MemoryConfig{
		TokenTTL: time.Hour,
		Secret:   []byte("test-secret"),
	})
	t.Cleanup(creds.Close)
	return creds
}

func newTestManager(t *testing.T, cfg Config, creds credential.Store, client redis.UniversalClient, sink AuditSink) *Manager {
	t.Helper()

	builder := New().
		WithConfig(cfg).
		WithCredentialStore(creds).
		WithClientID("client-test")
	if client != nil {
		builder = builder.WithRedis(client)
	}
	if sink != nil {
		builder = builder.WithAuditSink(sink)
	}

	m, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

// signUpSettled registers an account through the Manager and waits for the
// credential store's SIGNED_IN echo to drain, so later assertions cannot
// race a pending notification.
func signUpSettled(t *testing.T, m *Manager, creds *credential.Memory, email, password string) {
	t.Helper()

	echoed := make(chan struct{}, 4)
	stop := creds.OnAuthStateChange(func(credential.Change) {
		echoed <- struct{}{}
	})
	defer stop()

	if _, err := m.SignUp(context.Background(), email, password); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	select {
	case <-echoed:
	case <-time.After(time.Second):
		t.Fatal("sign-in notification never delivered")
	}
	time.Sleep(20 * time.Millisecond)
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, within time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
