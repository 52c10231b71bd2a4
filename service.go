package authgate

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/mvickers07/authgate/credential"
	"github.com/mvickers07/authgate/lockout"
	"github.com/mvickers07/authgate/password"
	"github.com/mvickers07/authgate/session"
)

// Service is the authentication core: it owns the credential store, the
// lockout tracker, and the session store, and is the only component other
// subsystems call. Configure through [Builder]; safe for concurrent use
// after Build.
type Service struct {
	config   Config
	users    credential.Store
	lockouts *lockout.Tracker
	sessions *session.Store
	hasher   *password.Hasher
	metrics  *Metrics
	logger   Logger

	// decoyHash equalizes the unknown-user and wrong-password login paths.
	decoyHash string
}

func newDecoyHash(hasher *password.Hasher) (string, error) {
	var buf [18]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hasher.Hash(base64.RawURLEncoding.EncodeToString(buf[:]))
}

// MetricsSnapshot returns a copy of the service counters.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	if s == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return s.metrics.Snapshot()
}

func (s *Service) ready() bool {
	return s != nil && s.users != nil && s.lockouts != nil &&
		s.sessions != nil && s.hasher != nil
}

func (s *Service) warnf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf("authgate: "+format, args...)
	}
}
