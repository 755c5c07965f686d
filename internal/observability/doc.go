// Package observability provides structured logging and delivery counters
// for the webhook relay.
//
// This package implements:
//   - zap logger construction from configuration (json or console)
//   - request ID propagation into log fields
//   - in-process counters for webhook outcomes, reported on /health
package observability
