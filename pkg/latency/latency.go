// Package latency simulates network round-trip delay for the mock data layer.
package latency

import (
	"context"
	"time"
)

// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
// A non-positive d returns immediately, which is how tests opt out.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
