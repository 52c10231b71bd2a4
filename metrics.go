package authgate

import "sync/atomic"

// MetricID indexes a counter in the in-process metrics registry.
type MetricID uint16

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterDuplicate counts registrations rejected for a taken username.
	MetricRegisterDuplicate
	// MetricRegisterRejected counts registrations rejected by validation or policy.
	MetricRegisterRejected
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts credential failures.
	MetricLoginFailure
	// MetricLoginLocked counts attempts rejected by an engaged lock.
	MetricLoginLocked
	// MetricLockoutEngaged counts threshold trips.
	MetricLockoutEngaged
	// MetricLockoutReset counts administrative lockout resets.
	MetricLockoutReset
	// MetricSessionIssued counts issued session tokens.
	MetricSessionIssued
	// MetricSessionInvalidated counts logouts that removed a live session.
	MetricSessionInvalidated
	// MetricAuthorizeDenied counts authorize calls denied by role or session state.
	MetricAuthorizeDenied

	metricCount
)

var metricNames = [metricCount]string{
	MetricRegisterSuccess:    "register_success",
	MetricRegisterDuplicate:  "register_duplicate",
	MetricRegisterRejected:   "register_rejected",
	MetricLoginSuccess:       "login_success",
	MetricLoginFailure:       "login_failure",
	MetricLoginLocked:        "login_locked",
	MetricLockoutEngaged:     "lockout_engaged",
	MetricLockoutReset:       "lockout_reset",
	MetricSessionIssued:      "session_issued",
	MetricSessionInvalidated: "session_invalidated",
	MetricAuthorizeDenied:    "authorize_denied",
}

// Name returns the stable snake_case name for the metric.
func (id MetricID) Name() string {
	if id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// MetricIDs lists every registered counter in declaration order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// Metrics is a fixed-size atomic counter registry. A nil or disabled
// registry drops increments.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

func newMetrics(enabled bool) *Metrics {
	return &Metrics{enabled: enabled}
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values. Safe to call concurrently
// with increments.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for i := range m.counters {
		snap.Counters[MetricID(i)] = m.counters[i].Load()
	}
	return snap
}
