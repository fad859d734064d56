package appcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/perchapps/appcore/reward"
)

func TestBuildRequiresCredentialStore(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected Build to fail without a credential store")
	}
}

func TestBuilderBuildsOnce(t *testing.T) {
	creds := newTestCredentials(t)
	b := New().WithConfig(managerTestConfig()).WithCredentialStore(creds)

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuildRejectsMalformedRouteConfig(t *testing.T) {
	creds := newTestCredentials(t)
	cfg := managerTestConfig()
	cfg.Routes.Public = []string{"login"}

	_, err := New().WithConfig(cfg).WithCredentialStore(creds).Build()
	if !errors.Is(err, ErrRouteConfigInvalid) {
		t.Fatalf("error = %v, want ErrRouteConfigInvalid", err)
	}
}

func TestRewardTransitionsFeedAuditAndMetrics(t *testing.T) {
	creds := newTestCredentials(t)
	cfg := managerTestConfig()
	cfg.Reward.Display = 80 * time.Millisecond
	cfg.Audit.Enabled = true
	sink := NewChannelSink(16)

	m := newTestManager(t, cfg, creds, nil, sink)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := m.Rewards().Show(reward.Event{XP: 10, Tickets: 1}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if err := m.Rewards().Show(reward.Event{XP: 25, Tickets: 0, LevelUp: true, NewLevel: 3}); err != nil {
		t.Fatalf("second Show failed: %v", err)
	}

	shown := waitForAuditEvent(t, sink, auditEventRewardShown)
	if shown.Metadata["xp"] != "10" {
		t.Errorf("shown xp = %q, want 10", shown.Metadata["xp"])
	}
	replaced := waitForAuditEvent(t, sink, auditEventRewardReplaced)
	if replaced.Metadata["xp"] != "10" {
		t.Errorf("replaced xp = %q, want the superseded event's 10", replaced.Metadata["xp"])
	}
	expired := waitForAuditEvent(t, sink, auditEventRewardExpired)
	if expired.Metadata["new_level"] != "3" {
		t.Errorf("expired new_level = %q, want 3", expired.Metadata["new_level"])
	}

	waitUntil(t, time.Second, func() bool {
		counters := m.MetricsSnapshot().Counters
		return counters[MetricRewardShown] == 2 &&
			counters[MetricRewardReplaced] == 1 &&
			counters[MetricRewardExpired] == 1
	})
}
