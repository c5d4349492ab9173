// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors live on a private registry owned by a Metrics value so tests can
// create as many as they like without duplicate-registration panics. Every
// Observe method is safe to call on a nil *Metrics, which lets components run
// without instrumentation.
package metrics
