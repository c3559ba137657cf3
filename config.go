package authgate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultSessionCookieName is used when no cookie name is configured.
const DefaultSessionCookieName = "session_id"

// StrategyType selects which authentication strategy the builder wires.
type StrategyType string

const (
	// StrategyNone disables principal resolution entirely.
	StrategyNone StrategyType = "none"
	// StrategyBasic authenticates every request from the Authorization
	// header.
	StrategyBasic StrategyType = "basic"
	// StrategySession authenticates from a server-side session cookie
	// without expiry.
	StrategySession StrategyType = "session"
	// StrategySessionExp is session auth with a bounded lifetime.
	StrategySessionExp StrategyType = "session_exp"
	// StrategySessionDB is expiring session auth persisted in Redis.
	StrategySessionDB StrategyType = "session_db"
)

func (t StrategyType) valid() bool {
	switch t {
	case StrategyNone, StrategyBasic, StrategySession, StrategySessionExp, StrategySessionDB:
		return true
	}
	return false
}

// DurationSeconds is a whole-seconds duration read from the environment.
// Unparsable values read as zero rather than failing startup, matching the
// historical behavior of the SESSION_DURATION variable.
type DurationSeconds int

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (d *DurationSeconds) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		*d = 0
		return nil
	}
	*d = DurationSeconds(n)
	return nil
}

// Config is the full configuration surface of the authentication layer.
// Values are immutable once handed to the builder.
type Config struct {
	Strategy      StrategyType `env:"AUTH_STRATEGY" envDefault:"basic"`
	ExcludedPaths []string     `env:"AUTH_EXCLUDED_PATHS" envSeparator:","`

	Session  SessionConfig
	Password PasswordConfig
	Audit    AuditConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the session strategies and their store.
type SessionConfig struct {
	// Duration is the session lifetime in seconds; <= 0 disables expiry.
	Duration DurationSeconds `env:"SESSION_DURATION" envDefault:"0"`
	// CookieName is the cookie carrying the session id.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
	// RedisPrefix namespaces persisted session keys.
	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"ags"`
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig carries the argon2id parameters.
type PasswordConfig struct {
	MemoryKB    uint32 `env:"PASSWORD_MEMORY_KB" envDefault:"65536"`
	Time        uint32 `env:"PASSWORD_TIME" envDefault:"3"`
	Parallelism uint8  `env:"PASSWORD_PARALLELISM" envDefault:"2"`
	SaltLength  uint32 `env:"PASSWORD_SALT_LENGTH" envDefault:"16"`
	KeyLength   uint32 `env:"PASSWORD_KEY_LENGTH" envDefault:"32"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool `env:"AUDIT_ENABLED" envDefault:"true"`
	BufferSize int  `env:"AUDIT_BUFFER" envDefault:"256"`
	DropIfFull bool `env:"AUDIT_DROP_IF_FULL" envDefault:"true"`
}

// FromEnv loads configuration from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Strategy: StrategyBasic,
		Session: SessionConfig{
			CookieName:  DefaultSessionCookieName,
			RedisPrefix: "ags",
		},
		Password: PasswordConfig{
			MemoryKB:    64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if !cfg.Strategy.valid() {
		return fmt.Errorf("unknown auth strategy %q", cfg.Strategy)
	}
	if cfg.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	if cfg.Password.SaltLength < 16 {
		return errors.New("password salt length must be >= 16")
	}
	if cfg.Password.KeyLength < 16 {
		return errors.New("password key length must be >= 16")
	}
	return nil
}
