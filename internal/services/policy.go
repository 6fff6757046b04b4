package services

import "time"

// CancellationPolicy decides whether an order may still be reversed.
// It is a pure time comparison; the order service supplies both instants
// from the same clock.
type CancellationPolicy struct {
	Window time.Duration
}

func (p CancellationPolicy) Allowed(now, purchasedAt time.Time) bool {
	return now.Sub(purchasedAt) <= p.Window
}
