package appcore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/perchapps/appcore/credential"
	"github.com/perchapps/appcore/reward"
	"github.com/perchapps/appcore/routegate"
	"github.com/perchapps/appcore/session"
)

// Manager owns the process-wide session state for one client context. It is
// the single writer of the current session; every other component observes
// it through [Manager.Current], [Manager.Authenticated], or
// [Manager.Subscribe].
//
// State updates are serialized under one mutex, which makes "last write wins
// by completion order" structural: each completion — a sign-in result, a
// pushed notification, a restore — applies exactly the state it completed
// with, in the order completions reach the lock. An older in-flight call can
// only apply earlier, never overwrite later.
type Manager struct {
	cfg      Config
	clientID string
	creds    credential.Store
	persist  *session.Store
	gate     *routegate.Gate
	rewards  *reward.Store
	audit    *auditDispatcher
	metrics  *Metrics

	mu      sync.Mutex
	current *session.Session
	seq     uint64
	loading bool
	started bool
	subs    map[uint64]func(*session.Session)
	subSeq  uint64
	unsub   func()

	ready     chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once
}

// Start resolves the initial session state: restore from persistence if
// possible, otherwise ask the credential store, and subscribe to auth-state
// changes either way. Until Start returns successfully the session is
// indeterminate — [Manager.IsLoading] reports true and [Manager.Ready]
// stays open, so route decisions block rather than guess.
//
// A failed credential call is a failure, not "no session": Start returns a
// [ErrCredentialUnavailable]-wrapped error, leaves the state indeterminate,
// and may be called again.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.loading = true
	m.mu.Unlock()

	// Subscribe before the initial fetch so a transition arriving during
	// the fetch is not lost; it will simply apply after the fetch result.
	unsub := m.creds.OnAuthStateChange(m.handleChange)
	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	restored, fromPersist := m.restorePersisted(ctx)
	if restored == nil {
		s, err := m.creds.GetSession(ctx)
		if err != nil {
			m.abortStart()
			m.emitAudit(ctx, auditEventStartFailed, false, nil, err, nil)
			return fmt.Errorf("initial session fetch: %w", asUnavailable(err))
		}
		if s != nil && !s.IsExpired(time.Now()) {
			restored = s
			m.emitAudit(ctx, auditEventSessionFetched, true, s, nil, nil)
		}
	}

	if restored != nil {
		m.apply(restored)
		if fromPersist {
			m.metricInc(MetricSessionRestored)
			m.emitAudit(ctx, auditEventSessionRestored, true, restored, nil, nil)
		} else {
			m.persistCurrent(ctx, restored)
		}
	}

	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
	m.readyOnce.Do(func() { close(m.ready) })

	return nil
}

// abortStart rolls Start back to a restartable state after a failed initial
// fetch.
func (m *Manager) abortStart() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.started = false
	m.loading = false
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// restorePersisted loads the persisted session for this client context.
// Corrupt or expired records are cleared and ignored.
func (m *Manager) restorePersisted(ctx context.Context) (*session.Session, bool) {
	if m.persist == nil {
		return nil, false
	}

	s, err := m.persist.Load(ctx, m.clientID)
	if err != nil {
		if errors.Is(err, ErrSessionCorrupt) {
			m.emitAudit(ctx, auditEventSessionCorrupt, false, nil, err, nil)
		}
		return nil, false
	}
	if s == nil {
		return nil, false
	}
	if s.IsExpired(time.Now()) {
		_ = m.persist.Delete(ctx, m.clientID)
		return nil, false
	}
	return s, true
}

// Close releases the auth-state subscription, stops the reward store, and
// drains the audit pipeline.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.closeOnce.Do(func() {
		m.mu.Lock()
		unsub := m.unsub
		m.unsub = nil
		m.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		if m.rewards != nil {
			m.rewards.Close()
		}
		if m.audit != nil {
			m.audit.Close()
		}
	})
}

// Ready is closed once the initial session state has resolved.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// IsLoading reports whether the initial session fetch is still in flight.
// While true, the session is indeterminate: dependents must treat it as
// neither authenticated nor anonymous.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Current returns a copy of the live session, if any.
func (m *Manager) Current() (*session.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, false
	}
	return m.current.Clone(), true
}

// Authenticated reports whether a session is present and not expired. It
// satisfies routegate.SessionSource.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && !m.current.IsExpired(time.Now())
}

// Gate returns the route gate built from the configuration.
func (m *Manager) Gate() *routegate.Gate {
	return m.gate
}

// Rewards returns the reward notification store. Its transitions feed the
// Manager's audit and metrics pipelines.
func (m *Manager) Rewards() *reward.Store {
	return m.rewards
}

// Subscribe registers fn to run on every session transition, with the new
// session (nil on sign-out). Delivery is push-based; subscribers never need
// to poll. The returned function unsubscribes and is safe to call twice.
func (m *Manager) Subscribe(fn func(*session.Session)) func() {
	m.mu.Lock()
	m.subSeq++
	id := m.subSeq
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// AuditDropped reports audit events discarded by a full buffer.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot copies the current counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// apply installs s as the current session and fans the transition out to
// subscribers. This is the only writer of m.current.
func (m *Manager) apply(s *session.Session) {
	m.mu.Lock()
	m.seq++
	m.current = s
	notify := make([]func(*session.Session), 0, len(m.subs))
	for _, fn := range m.subs {
		notify = append(notify, fn)
	}
	m.mu.Unlock()

	for _, fn := range notify {
		fn(s.Clone())
	}
}

// handleChange applies auth-state notifications pushed by the credential
// store. Notifications that repeat the already-applied state (the SIGNED_IN
// echo of this Manager's own SignIn, say) are dropped.
func (m *Manager) handleChange(change credential.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Credential.Timeout)
	defer cancel()

	switch change.Event {
	case credential.EventSignedIn:
		if change.Session == nil || m.sameToken(change.Session) {
			return
		}
		m.apply(change.Session)
		m.persistCurrent(ctx, change.Session)

	case credential.EventTokenRefreshed:
		if change.Session == nil || m.sameToken(change.Session) {
			return
		}
		m.apply(change.Session)
		m.persistCurrent(ctx, change.Session)
		m.metricInc(MetricTokenRefreshed)
		m.emitAudit(ctx, auditEventTokenRefreshed, true, change.Session, nil, nil)

	case credential.EventSignedOut:
		m.mu.Lock()
		had := m.current != nil
		m.mu.Unlock()
		if !had {
			return
		}
		m.apply(nil)
		if m.persist != nil {
			_ = m.persist.Delete(ctx, m.clientID)
		}
		m.metricInc(MetricExternalSignOut)
		m.emitAudit(ctx, auditEventExternalSignOut, true, nil, nil, nil)
	}
}

func (m *Manager) sameToken(s *session.Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.AccessToken == s.AccessToken
}

// persistCurrent saves s for the next process start. Persistence is best
// effort; failures are audited, not surfaced.
func (m *Manager) persistCurrent(ctx context.Context, s *session.Session) {
	if m.persist == nil {
		return
	}
	if err := m.persist.Save(ctx, m.clientID, s); err != nil {
		m.emitAudit(ctx, auditEventSessionCorrupt, false, s, err, func() map[string]string {
			return map[string]string{"op": "persist"}
		})
	}
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	s *session.Session,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Variant:   m.cfg.Variant,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if s != nil {
		event.UserID = s.UserID
		event.SessionID = s.ID
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

// auditReward adapts a reward transition into the audit/metrics pipelines.
func (m *Manager) auditReward(eventType string, metric MetricID) func(reward.Event) {
	return func(e reward.Event) {
		m.metricInc(metric)
		m.emitAudit(context.Background(), eventType, true, nil, nil, func() map[string]string {
			meta := map[string]string{
				"xp":      strconv.Itoa(e.XP),
				"tickets": strconv.Itoa(e.Tickets),
			}
			if e.LevelUp {
				meta["new_level"] = strconv.Itoa(e.NewLevel)
			}
			return meta
		})
	}
}

// asUnavailable classifies raw transport failures from the credential store
// without re-wrapping errors that already carry a sentinel.
func asUnavailable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCredentialUnavailable) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDuplicateAccount) {
		return err
	}
	return errors.Join(ErrCredentialUnavailable, err)
}
