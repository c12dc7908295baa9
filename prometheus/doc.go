// Package prometheus provides a Prometheus adapter for the ipfilter guard.
//
// The package exposes ipfilter options that install a Prometheus-backed
// Metrics implementation on a guard, using either the default registerer
// or a caller-provided registerer. Every evaluated request increments
// ip_access_decisions_total labeled by decision and reason.
package prometheus
