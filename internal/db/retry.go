package db

import "time"

const (
	writeRetryAttempts = 3
	writeRetryDelay    = 150 * time.Millisecond
)

// withWriteRetry re-runs a persistence call a bounded number of times. It is a
// hedge against transient sqlite busy errors, not a durability guarantee; the
// last error is returned unchanged so callers can still classify it.
func withWriteRetry(fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < writeRetryAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(writeRetryDelay * time.Duration(attempt))
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
