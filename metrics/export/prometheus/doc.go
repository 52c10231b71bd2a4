// Package prometheus bridges authgate service counters to a Prometheus
// registry via a [prometheus.Collector]. Counter names are prefixed
// authgate_*_total and read at scrape time from a [Source] snapshot.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry — callers pick
//     the Registerer.
//   - Mutate service state.
package prometheus
