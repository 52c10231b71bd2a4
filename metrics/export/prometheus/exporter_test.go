package prometheus

import (
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mvickers07/authgate"
)

type fakeSource struct {
	snap authgate.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() authgate.MetricsSnapshot { return f.snap }

func TestCollectorExposesCounters(t *testing.T) {
	src := fakeSource{snap: authgate.MetricsSnapshot{Counters: map[authgate.MetricID]uint64{
		authgate.MetricLoginSuccess: 7,
		authgate.MetricLoginFailure: 2,
	}}}

	reg := prom.NewRegistry()
	if err := reg.Register(NewCollector(src)); err != nil {
		t.Fatalf("register: %v", err)
	}

	expected := strings.NewReader(`
# HELP authgate_login_failure_total Count of login_failure events.
# TYPE authgate_login_failure_total counter
authgate_login_failure_total 2
# HELP authgate_login_success_total Count of login_success events.
# TYPE authgate_login_success_total counter
authgate_login_success_total 7
`)
	err := testutil.GatherAndCompare(reg, expected,
		"authgate_login_success_total", "authgate_login_failure_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestCollectorCoversEveryMetric(t *testing.T) {
	reg := prom.NewRegistry()
	if err := reg.Register(NewCollector(fakeSource{snap: authgate.MetricsSnapshot{
		Counters: map[authgate.MetricID]uint64{},
	}})); err != nil {
		t.Fatalf("register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got, want := len(families), len(authgate.MetricIDs()); got != want {
		t.Fatalf("expected %d metric families, got %d", want, got)
	}
}
