package appcore

import (
	"errors"
	"time"

	"github.com/perchapps/appcore/reward"
	"github.com/perchapps/appcore/routegate"
)

// Config collects everything a Manager needs. Configure it during
// initialization and treat it as immutable afterwards.
type Config struct {
	// Variant names the consuming presentation layer ("diary" or
	// "progress"). It tags audit events so the shared core stays
	// attributable.
	Variant string

	Credential CredentialConfig
	Session    SessionConfig
	Routes     routegate.Config
	Reward     reward.Config
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
CREDENTIAL CONFIG
====================================
*/

// CredentialConfig bounds calls to the external credential store.
type CredentialConfig struct {
	// Timeout bounds background credential and persistence calls made
	// outside a request context (refresh persistence, external sign-out
	// cleanup).
	Timeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session persistence.
type SessionConfig struct {
	// RedisPrefix namespaces the persisted-session keys.
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking producers when the
	// buffer is full. Dropped counts are observable via
	// [Manager.AuditDropped].
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 5s reward display, 10s
// background call timeout, audit off, metrics on.
func DefaultConfig() Config {
	return Config{
		Variant: "app",
		Credential: CredentialConfig{
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "appcore",
		},
		Reward: reward.Config{
			Display: reward.DefaultDisplay,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks the parts of the configuration the Manager enforces
// itself; route configuration is validated by routegate.NewGate.
func (c *Config) Validate() error {
	if c.Variant == "" {
		return errors.New("config: variant required")
	}
	if c.Credential.Timeout <= 0 {
		return errors.New("config: credential timeout must be positive")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("config: redis prefix required")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("config: audit buffer size must be positive")
	}
	return nil
}
