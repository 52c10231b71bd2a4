package prometheus

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/mvickers07/authgate"
)

// Source is anything that can report a counter snapshot.
// *authgate.Service satisfies it.
type Source interface {
	MetricsSnapshot() authgate.MetricsSnapshot
}

// Collector exposes every service counter as a Prometheus counter named
// authgate_<name>_total. Values are read at scrape time, so a single
// Collector tracks the service for its whole lifetime.
type Collector struct {
	source Source
	descs  []*prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector wraps source. Register the result with a prom.Registerer
// to start exposing counters.
func NewCollector(source Source) *Collector {
	ids := authgate.MetricIDs()
	c := &Collector{source: source, descs: make([]*prom.Desc, len(ids))}
	for _, id := range ids {
		c.descs[id] = prom.NewDesc(
			"authgate_"+id.Name()+"_total",
			"Count of "+id.Name()+" events.",
			nil, nil,
		)
	}
	return c
}

// Describe implements prom.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prom.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	snap := c.source.MetricsSnapshot()
	for _, id := range authgate.MetricIDs() {
		ch <- prom.MustNewConstMetric(
			c.descs[id], prom.CounterValue, float64(snap.Counters[id]),
		)
	}
}
