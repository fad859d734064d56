package appcore

import (
	"context"
	"time"

	"github.com/perchapps/appcore/session"
)

// SignIn delegates to the credential store and, on success, installs and
// persists the returned session. On failure the current session is left
// untouched and the error is returned: [ErrInvalidCredentials] for rejected
// credentials, [ErrCredentialUnavailable] for transport failures.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	if m == nil || m.creds == nil {
		return nil, ErrManagerNotReady
	}

	start := time.Now()
	s, err := m.creds.SignInWithPassword(ctx, email, password)
	if err != nil {
		err = asUnavailable(err)
		m.metricInc(MetricSignInFailure)
		m.emitAudit(ctx, auditEventSignInFailure, false, nil, err, func() map[string]string {
			return map[string]string{"identifier": email}
		})
		return nil, err
	}
	m.observeLatency(MetricSignInLatency, time.Since(start))

	m.apply(s)
	m.persistCurrent(ctx, s)
	m.metricInc(MetricSignInSuccess)
	m.emitAudit(ctx, auditEventSignInSuccess, true, s, nil, nil)

	return s.Clone(), nil
}

// SignUp registers a new account and, like SignIn, installs the resulting
// session. A duplicate registration fails with [ErrDuplicateAccount] and
// leaves the current session untouched.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	if m == nil || m.creds == nil {
		return nil, ErrManagerNotReady
	}

	s, err := m.creds.SignUp(ctx, email, password)
	if err != nil {
		err = asUnavailable(err)
		m.metricInc(MetricSignUpFailure)
		m.emitAudit(ctx, auditEventSignUpFailure, false, nil, err, func() map[string]string {
			return map[string]string{"identifier": email}
		})
		return nil, err
	}

	m.apply(s)
	m.persistCurrent(ctx, s)
	m.metricInc(MetricSignUpSuccess)
	m.emitAudit(ctx, auditEventSignUpSuccess, true, s, nil, nil)

	return s.Clone(), nil
}

func (m *Manager) observeLatency(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}
