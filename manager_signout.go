package appcore

import (
	"context"
	"log"
)

// SignOut clears local session state and then requests server-side
// invalidation. Local state is guaranteed to be cleared even when the
// remote call fails: the failure is logged and audited, never surfaced,
// so the client is never left looking authenticated with a dead token.
func (m *Manager) SignOut(ctx context.Context) {
	if m == nil {
		return
	}

	m.apply(nil)
	m.metricInc(MetricSignOut)

	if m.persist != nil {
		if err := m.persist.Delete(ctx, m.clientID); err != nil {
			log.Printf("appcore: persisted session cleanup failed: %v", err)
		}
	}

	if err := m.creds.SignOut(ctx); err != nil {
		log.Printf("appcore: remote sign-out failed, local state cleared: %v", err)
		m.metricInc(MetricSignOutRemoteError)
		m.emitAudit(ctx, auditEventSignOutRemoteError, false, nil, asUnavailable(err), nil)
		return
	}

	m.emitAudit(ctx, auditEventSignOut, true, nil, nil, nil)
}
