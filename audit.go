package appcore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

const (
	auditEventSignInSuccess      = "signin_success"
	auditEventSignInFailure      = "signin_failure"
	auditEventSignUpSuccess      = "signup_success"
	auditEventSignUpFailure      = "signup_failure"
	auditEventSignOut            = "signout"
	auditEventSignOutRemoteError = "signout_remote_error"
	auditEventSessionRestored    = "session_restored"
	auditEventSessionFetched     = "session_fetched"
	auditEventSessionCorrupt     = "session_corrupt"
	auditEventTokenRefreshed     = "token_refreshed"
	auditEventExternalSignOut    = "external_signout"
	auditEventStartFailed        = "start_failed"
	auditEventRewardShown        = "reward_shown"
	auditEventRewardReplaced     = "reward_replaced"
	auditEventRewardExpired      = "reward_expired"
)

// AuditErrorCode is the stable error vocabulary written to audit sinks.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrDuplicate          AuditErrorCode = "duplicate"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrSessionCorrupt     AuditErrorCode = "session_corrupt"
	auditErrInternal           AuditErrorCode = "internal_error"
)

// AuditEvent is one recorded session or reward transition.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Variant   string            `json:"variant,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements [AuditSink].
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a channel, mainly for tests.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit implements [AuditSink].
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a JSONWriterSink over w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit implements [AuditSink].
func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrDuplicateAccount):
		return auditErrDuplicate
	case errors.Is(err, ErrCredentialUnavailable):
		return auditErrUnavailable
	case errors.Is(err, ErrSessionCorrupt):
		return auditErrSessionCorrupt
	default:
		return auditErrInternal
	}
}
