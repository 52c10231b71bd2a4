package authgate

import (
	"errors"
	"time"

	"github.com/mvickers07/authgate/lockout"
	"github.com/mvickers07/authgate/password"
)

// Config groups the per-concern settings consumed by [Builder.Build].
// The zero value is not usable; start from [DefaultConfig].
type Config struct {
	Password PasswordConfig
	Lockout  LockoutConfig
	Session  SessionConfig
	Username UsernameConfig
	Metrics  MetricsConfig
}

// PasswordConfig carries the argon2id cost parameters and the
// upgrade-on-login switch.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// LockoutConfig carries the brute-force policy. Duration 0 means locks are
// released only by ResetLockout.
type LockoutConfig struct {
	Threshold int
	Duration  time.Duration
}

// SessionConfig carries session storage settings. TTL 0 disables expiry.
type SessionConfig struct {
	RedisPrefix string
	TTL         time.Duration
}

// UsernameConfig bounds accepted usernames at registration. Usernames are
// always restricted to ASCII letters and digits.
type UsernameConfig struct {
	MinLength int
	MaxLength int
}

// MetricsConfig toggles the in-process counter registry.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the shipped defaults: argon2id at 64 MB/t=3/p=2,
// three-strike lockout with five-minute auto-unlock, 24-hour sessions,
// 3-20 character usernames, metrics on.
func DefaultConfig() Config {
	return Config{
		Password: PasswordConfig{
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			UpgradeOnLogin: true,
		},
		Lockout: LockoutConfig{
			Threshold: 3,
			Duration:  5 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix: "ags",
			TTL:         24 * time.Hour,
		},
		Username: UsernameConfig{
			MinLength: 3,
			MaxLength: 20,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func (c Config) validate() error {
	if c.Lockout.Threshold <= 0 {
		return errors.New("lockout threshold must be positive")
	}
	if c.Lockout.Duration < 0 {
		return errors.New("lockout duration must not be negative")
	}
	if c.Session.TTL < 0 {
		return errors.New("session ttl must not be negative")
	}
	if c.Username.MinLength < 1 || c.Username.MaxLength < c.Username.MinLength {
		return errors.New("invalid username length bounds")
	}
	return nil
}

func (c Config) passwordConfig() password.Config {
	return password.Config{
		Memory:      c.Password.Memory,
		Time:        c.Password.Time,
		Parallelism: c.Password.Parallelism,
		SaltLength:  c.Password.SaltLength,
		KeyLength:   c.Password.KeyLength,
	}
}

func (c Config) lockoutConfig() lockout.Config {
	return lockout.Config{
		Threshold: c.Lockout.Threshold,
		Duration:  c.Lockout.Duration,
	}
}
