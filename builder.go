package authgate

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/authgate-dev/authgate/internal/audit"
	"github.com/authgate-dev/authgate/password"
	"github.com/authgate-dev/authgate/session"
)

// Builder assembles a [Service] from configuration and collaborators.
// A builder is single-use: Build succeeds at most once.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	directory UserDirectory
	hasher    PasswordHasher
	store     session.Store
	sink      AuditSink

	built bool
}

// New returns a builder seeded with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithDirectory sets the user directory. Required.
func (b *Builder) WithDirectory(dir UserDirectory) *Builder {
	b.directory = dir
	return b
}

// WithRedis sets the Redis client backing the persisted session strategy.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSessionStore overrides the session store the builder would otherwise
// derive from the configured strategy.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithPasswordHasher overrides the default argon2id hasher.
func (b *Builder) WithPasswordHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithAuditSink sets the sink receiving audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// Build validates the configuration, wires the session store and strategy
// for the configured variant, and returns the ready service.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.directory == nil {
		return nil, errors.New("user directory is required")
	}
	if b.config.Strategy == StrategySessionDB && b.redis == nil && b.store == nil {
		return nil, errors.New("session_db strategy requires a redis client")
	}

	hasher := b.hasher
	if hasher == nil {
		var err error
		hasher, err = password.NewArgon2(password.Params{
			MemoryKB:    b.config.Password.MemoryKB,
			Time:        b.config.Password.Time,
			Parallelism: b.config.Password.Parallelism,
			SaltLength:  b.config.Password.SaltLength,
			KeyLength:   b.config.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
	}

	store := b.store
	if store == nil {
		store = b.sessionStore()
	}

	excluded := NewExcludedPathSet(b.config.ExcludedPaths)

	var strategy Strategy
	switch b.config.Strategy {
	case StrategyNone:
		strategy = NewNoAuth(excluded)
	case StrategyBasic:
		strategy = NewBasicAuth(excluded, b.directory, hasher)
	case StrategySession, StrategySessionExp, StrategySessionDB:
		strategy = NewSessionAuth(excluded, store, b.directory, b.config.Session.CookieName)
	}

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.sink)

	b.built = true

	return &Service{
		config:    b.config,
		directory: b.directory,
		hasher:    hasher,
		sessions:  store,
		strategy:  strategy,
		audit:     dispatcher,
	}, nil
}

// sessionStore derives the store from the configured strategy: expiry only
// applies to the expiring variants, and persistence only to session_db.
func (b *Builder) sessionStore() session.Store {
	var ttl time.Duration
	switch b.config.Strategy {
	case StrategySessionExp, StrategySessionDB:
		if b.config.Session.Duration > 0 {
			ttl = time.Duration(b.config.Session.Duration) * time.Second
		}
	}

	if b.config.Strategy == StrategySessionDB {
		return session.NewRedisStore(b.redis, b.config.Session.RedisPrefix, ttl)
	}
	return session.NewMemoryStore(ttl)
}
