package authgate

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/mvickers07/authgate/credential"
	"github.com/mvickers07/authgate/lockout"
	"github.com/mvickers07/authgate/password"
	"github.com/mvickers07/authgate/session"
)

// Builder wires a [Service]. WithX calls are allocation-only; Build
// validates the configuration, migrates the credential schema when it owns
// the store, and precomputes the decoy hash.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	userDB *sql.DB
	users  credential.Store
	logger Logger

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the client backing the lockout tracker and session store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserDB backs the credential store with a database/sql handle. Build
// runs the schema migration. Mutually exclusive with WithUserStore.
func (b *Builder) WithUserDB(db *sql.DB) *Builder {
	b.userDB = db
	return b
}

// WithUserStore supplies a custom credential store implementation.
func (b *Builder) WithUserStore(store credential.Store) *Builder {
	b.users = store
	return b
}

// WithLogger sets the warning sink; defaults to the std log package.
func (b *Builder) WithLogger(logger Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration, constructs the stores, and returns a
// ready Service. A builder is single-use.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := b.config.validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.users == nil && b.userDB == nil {
		return nil, errors.New("a credential store or user database is required")
	}
	if b.users != nil && b.userDB != nil {
		return nil, errors.New("provide either a credential store or a user database, not both")
	}

	hasher, err := password.NewHasher(b.config.passwordConfig())
	if err != nil {
		return nil, err
	}

	tracker, err := lockout.NewTracker(b.redis, b.config.lockoutConfig())
	if err != nil {
		return nil, err
	}

	users := b.users
	if users == nil {
		sqlStore := credential.NewSQLStore(b.userDB)
		if err := sqlStore.Migrate(context.Background()); err != nil {
			return nil, err
		}
		users = sqlStore
	}

	logger := b.logger
	if logger == nil {
		logger = log.Default()
	}

	// One hash of a random throwaway password; login verifies unknown users
	// against it so both failure paths cost a full argon2 derivation.
	decoy, err := newDecoyHash(hasher)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:    b.config,
		users:     users,
		lockouts:  tracker,
		sessions:  session.NewStore(b.redis, b.config.Session.RedisPrefix, b.config.Session.TTL),
		hasher:    hasher,
		metrics:   newMetrics(b.config.Metrics.Enabled),
		logger:    logger,
		decoyHash: decoy,
	}, nil
}
