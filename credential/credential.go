package credential

import (
	"context"
	"errors"

	"github.com/perchapps/appcore/session"
)

var (
	// ErrInvalidCredentials is returned for a wrong password or an unknown
	// email. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount is returned when signing up an email that is
	// already registered.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrUnavailable is returned when the provider cannot be reached or the
	// call timed out. It never means "no session".
	ErrUnavailable = errors.New("credential store unavailable")
)

// ChangeEvent names a kind of auth-state transition pushed by the provider.
type ChangeEvent string

const (
	// EventSignedIn is pushed after a successful sign-in or sign-up.
	EventSignedIn ChangeEvent = "SIGNED_IN"
	// EventSignedOut is pushed after a local or external sign-out.
	EventSignedOut ChangeEvent = "SIGNED_OUT"
	// EventTokenRefreshed is pushed when the provider rotates the access
	// token of the current session.
	EventTokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
)

// Change is one auth-state notification. Session is nil for
// [EventSignedOut].
type Change struct {
	Event   ChangeEvent
	Session *session.Session
}

// Store is the identity-provider surface consumed by the Manager.
//
// GetSession returns (nil, nil) when no session exists; an error always
// means the call itself failed. OnAuthStateChange handlers are invoked
// asynchronously, in notification order, and may interleave with in-flight
// Store calls; the returned function unsubscribes the handler and is safe to
// call more than once.
type Store interface {
	GetSession(ctx context.Context) (*session.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(handler func(Change)) (unsubscribe func())
}
