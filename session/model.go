package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid is returned when an access token cannot be read as a JWT
// or is missing the claims the session model requires.
var ErrTokenInvalid = errors.New("access token invalid")

// Session is the live authenticated identity for one client context. At most
// one Session is live per client context at any time; ownership of the
// current Session belongs to the Manager, every other component only reads
// derived state from it.
type Session struct {
	ID          string
	AccessToken string
	UserID      string
	Email       string

	CreatedAt int64
	ExpiresAt int64
}

// IsExpired reports whether the session's token lifetime has elapsed at now.
// A session with no recorded expiry is treated as expired (fail closed).
func (s *Session) IsExpired(now time.Time) bool {
	if s == nil || s.ExpiresAt == 0 {
		return true
	}
	return now.Unix() >= s.ExpiresAt
}

// Clone returns an independent copy so readers can hold a Session without
// racing the Manager's writes.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// FromAccessToken builds a Session from a credential-store access token.
// The token is parsed, not verified: the credential store already verified
// it, and the client only needs subject, email, and expiry bookkeeping.
// Tokens without an expiry claim are rejected.
func FromAccessToken(token string) (*Session, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	s := &Session{
		ID:          claims.ID,
		AccessToken: token,
		UserID:      claims.Subject,
		Email:       claims.Email,
		ExpiresAt:   claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		s.CreatedAt = claims.IssuedAt.Unix()
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	return s, nil
}
