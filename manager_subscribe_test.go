package appcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/perchapps/appcore/session"
)

type sessionRecorder struct {
	mu   sync.Mutex
	seen []*session.Session
}

func (r *sessionRecorder) record(s *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *sessionRecorder) last() (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return nil, false
	}
	return r.seen[len(r.seen)-1], true
}

func TestSubscribeObservesTransitions(t *testing.T) {
	creds := newTestCredentials(t)
	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	rec := &sessionRecorder{}
	unsub := m.Subscribe(rec.record)
	defer unsub()

	signUpSettled(t, m, creds, "user@example.com", "Password1")
	waitUntil(t, time.Second, func() bool {
		s, ok := rec.last()
		return ok && s != nil && s.Email == "user@example.com"
	})

	m.SignOut(context.Background())
	waitUntil(t, time.Second, func() bool {
		s, ok := rec.last()
		return ok && s == nil
	})
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	creds := newTestCredentials(t)
	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	rec := &sessionRecorder{}
	unsub := m.Subscribe(rec.record)
	unsub()
	unsub() // second call is a no-op

	if _, err := m.SignUp(context.Background(), "user@example.com", "Password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	rec.mu.Lock()
	n := len(rec.seen)
	rec.mu.Unlock()
	if n != 0 {
		t.Errorf("unsubscribed recorder saw %d transitions", n)
	}
}

func TestTokenRefreshNotificationApplies(t *testing.T) {
	creds := newTestCredentials(t)
	m := newTestManager(t, managerTestConfig(), creds, nil, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := m.SignUp(context.Background(), "user@example.com", "Password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	before, _ := m.Current()

	creds.TriggerRefresh()

	waitUntil(t, time.Second, func() bool {
		now, ok := m.Current()
		return ok && now.AccessToken != before.AccessToken
	})
	waitUntil(t, time.Second, func() bool {
		return m.MetricsSnapshot().Counters[MetricTokenRefreshed] == 1
	})
}

func TestExternalSignOutClearsState(t *testing.T) {
	mr, client := newTestRedis(t)
	creds := newTestCredentials(t)
	cfg := managerTestConfig()

	m := newTestManager(t, cfg, creds, client, nil)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := m.SignUp(context.Background(), "user@example.com", "Password1"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	creds.TriggerExternalSignOut()

	waitUntil(t, time.Second, func() bool { return !m.Authenticated() })
	waitUntil(t, time.Second, func() bool {
		return !mr.Exists(cfg.Session.RedisPrefix + ":session:client-test")
	})
	waitUntil(t, time.Second, func() bool {
		return m.MetricsSnapshot().Counters[MetricExternalSignOut] == 1
	})
}
