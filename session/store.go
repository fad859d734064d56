package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when a Redis round-trip fails for reasons
// other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

const minPersistTTL = time.Second

// Store persists the current session for a client context so it can be
// restored on the next process start. One key per client context; the TTL
// never outlives the session's own expiry.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a session store using the given Redis client and key
// prefix.
func NewStore(client redis.UniversalClient, prefix string) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "appcore"
	}
	return &Store{client: client, prefix: prefix}, nil
}

func (st *Store) key(clientID string) string {
	return st.prefix + ":session:" + clientID
}

// Save writes the session for clientID. Expired sessions are not persisted;
// saving one deletes any previously stored record instead.
func (st *Store) Save(ctx context.Context, clientID string, s *Session) error {
	if clientID == "" {
		return errors.New("client id required")
	}
	if s == nil || s.IsExpired(time.Now()) {
		return st.Delete(ctx, clientID)
	}

	data, err := Encode(s)
	if err != nil {
		return err
	}

	ttl := time.Until(time.Unix(s.ExpiresAt, 0))
	if ttl < minPersistTTL {
		ttl = minPersistTTL
	}

	if err := st.client.Set(ctx, st.key(clientID), data, ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Load reads the persisted session for clientID. A missing key is not an
// error: Load returns (nil, nil) so callers can distinguish "no persisted
// session" from a real failure.
func (st *Store) Load(ctx context.Context, clientID string) (*Session, error) {
	if clientID == "" {
		return nil, errors.New("client id required")
	}

	data, err := st.client.Get(ctx, st.key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Join(ErrRedisUnavailable, err)
	}

	s, err := Decode(data)
	if err != nil {
		// A corrupt record is unrecoverable; drop it so the next start
		// does not trip over it again.
		_ = st.client.Del(ctx, st.key(clientID)).Err()
		return nil, err
	}

	return s, nil
}

// Delete removes the persisted session for clientID. Deleting a session that
// was never persisted is not an error.
func (st *Store) Delete(ctx context.Context, clientID string) error {
	if clientID == "" {
		return errors.New("client id required")
	}
	if err := st.client.Del(ctx, st.key(clientID)).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
