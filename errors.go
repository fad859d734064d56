package appcore

import (
	"errors"

	"github.com/perchapps/appcore/credential"
	"github.com/perchapps/appcore/reward"
	"github.com/perchapps/appcore/routegate"
	"github.com/perchapps/appcore/session"
)

// Credential-store outcomes, re-exported so callers can depend on appcore
// alone.
var (
	// ErrInvalidCredentials is returned for a wrong password or an unknown
	// email; the two are deliberately indistinguishable.
	ErrInvalidCredentials = credential.ErrInvalidCredentials
	// ErrDuplicateAccount is returned when signing up an already registered
	// email.
	ErrDuplicateAccount = credential.ErrDuplicateAccount
	// ErrCredentialUnavailable is returned when a credential-store call
	// failed (network, timeout). It never means "session absent".
	ErrCredentialUnavailable = credential.ErrUnavailable

	// ErrSessionCorrupt is returned when a persisted session blob cannot be
	// decoded.
	ErrSessionCorrupt = session.ErrSessionCorrupt
	// ErrRedisUnavailable is returned when the persistence backend cannot
	// be reached.
	ErrRedisUnavailable = session.ErrRedisUnavailable
	// ErrRewardInvalid is returned for a reward event that fails
	// validation.
	ErrRewardInvalid = reward.ErrEventInvalid
	// ErrRouteConfigInvalid is returned when the route allow-list is
	// malformed.
	ErrRouteConfigInvalid = routegate.ErrConfigInvalid
)

var (
	// ErrManagerNotReady is returned when a Manager method needs a
	// dependency that Build did not receive.
	ErrManagerNotReady = errors.New("manager not ready")
	// ErrAlreadyStarted is returned by a second Start on the same Manager.
	ErrAlreadyStarted = errors.New("manager already started")
)
