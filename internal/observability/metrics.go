package observability

import "sync/atomic"

// ServiceName identifies the relay in logs and on the health endpoint.
const ServiceName = "Smartlead → Notion Webhook Handler"

// Outcome labels a finished webhook delivery.
type Outcome string

const (
	OutcomeInserted     Outcome = "inserted"
	OutcomeRejected     Outcome = "rejected"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeFailed       Outcome = "failed"
)

// Metrics collects webhook delivery counts.
type Metrics interface {
	RecordDelivery(outcome Outcome)
	RecordRetry()
	Snapshot() DeliveryStats
}

// DeliveryStats is a point-in-time copy of the counters.
type DeliveryStats struct {
	Inserted     int64 `json:"inserted"`
	Rejected     int64 `json:"rejected"`
	Unauthorized int64 `json:"unauthorized"`
	Invalid      int64 `json:"invalid"`
	Failed       int64 `json:"failed"`
	Retries      int64 `json:"retries"`
}

// Counters is a lock-free in-process Metrics implementation.
type Counters struct {
	inserted     atomic.Int64
	rejected     atomic.Int64
	unauthorized atomic.Int64
	invalid      atomic.Int64
	failed       atomic.Int64
	retries      atomic.Int64
}

// NewCounters creates zeroed counters
func NewCounters() *Counters {
	return &Counters{}
}

// RecordDelivery increments the counter for outcome. Unknown outcomes count as failed.
func (c *Counters) RecordDelivery(outcome Outcome) {
	switch outcome {
	case OutcomeInserted:
		c.inserted.Add(1)
	case OutcomeRejected:
		c.rejected.Add(1)
	case OutcomeUnauthorized:
		c.unauthorized.Add(1)
	case OutcomeInvalid:
		c.invalid.Add(1)
	default:
		c.failed.Add(1)
	}
}

// RecordRetry counts one backoff-and-retry cycle.
func (c *Counters) RecordRetry() {
	c.retries.Add(1)
}

// Snapshot returns the current counter values
func (c *Counters) Snapshot() DeliveryStats {
	return DeliveryStats{
		Inserted:     c.inserted.Load(),
		Rejected:     c.rejected.Load(),
		Unauthorized: c.unauthorized.Load(),
		Invalid:      c.invalid.Load(),
		Failed:       c.failed.Load(),
		Retries:      c.retries.Load(),
	}
}
