package appcore

import (
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/perchapps/appcore/credential"
	"github.com/perchapps/appcore/reward"
	"github.com/perchapps/appcore/routegate"
	"github.com/perchapps/appcore/session"
)

// Builder assembles a [Manager]. Construction is allocation-only; no I/O
// happens before [Manager.Start].
type Builder struct {
	config Config

	creds     credential.Store
	redis     redis.UniversalClient
	auditSink AuditSink
	clientID  string

	built bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithCredentialStore sets the external identity provider. Required.
func (b *Builder) WithCredentialStore(store credential.Store) *Builder {
	b.creds = store
	return b
}

// WithRedis enables session persistence across restarts. Optional; without
// it the Manager always starts from the credential store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the audit destination; only meaningful when auditing
// is enabled in the config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithClientID pins the client-context identifier used for persistence
// keys. Defaults to a random UUID per Manager.
func (b *Builder) WithClientID(id string) *Builder {
	b.clientID = id
	return b
}

// Build validates the configuration and assembles the Manager. A Builder
// builds at most once.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.creds == nil {
		return nil, errors.New("credential store required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	gate, err := routegate.NewGate(b.config.Routes)
	if err != nil {
		return nil, err
	}

	var persist *session.Store
	if b.redis != nil {
		persist, err = session.NewStore(b.redis, b.config.Session.RedisPrefix)
		if err != nil {
			return nil, err
		}
	}

	clientID := b.clientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	m := &Manager{
		cfg:      b.config,
		clientID: clientID,
		creds:    b.creds,
		persist:  persist,
		gate:     gate,
		audit:    newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:  NewMetrics(b.config.Metrics),
		subs:     make(map[uint64]func(*session.Session)),
		ready:    make(chan struct{}),
	}
	m.rewards = reward.NewStore(b.config.Reward, reward.Hooks{
		OnShow:    m.auditReward(auditEventRewardShown, MetricRewardShown),
		OnReplace: m.auditReward(auditEventRewardReplaced, MetricRewardReplaced),
		OnExpire:  m.auditReward(auditEventRewardExpired, MetricRewardExpired),
	})

	b.built = true
	return m, nil
}
