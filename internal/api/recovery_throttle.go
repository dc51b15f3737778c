package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// recoveryThrottle counts failed recovery-code attempts per client so the
// forgot-password flow cannot be used to guess codes.
type recoveryThrottle struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newRecoveryThrottle(limit int, window time.Duration) *recoveryThrottle {
	return &recoveryThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// blocked reports whether the client has already burned through its attempts
// inside the window.
func (throttle *recoveryThrottle) blocked(client string, now time.Time) bool {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	return len(throttle.recentLocked(client, now)) >= throttle.limit
}

func (throttle *recoveryThrottle) recordFailure(client string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	throttle.failures[client] = append(throttle.recentLocked(client, now), now)
}

// clear forgets a client's failures after a successful redemption.
func (throttle *recoveryThrottle) clear(client string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, client)
}

// recentLocked prunes failures older than the window and returns what is left.
func (throttle *recoveryThrottle) recentLocked(client string, now time.Time) []time.Time {
	stamps := throttle.failures[client]
	if len(stamps) == 0 {
		return nil
	}

	cutoff := now.Add(-throttle.window)
	recent := make([]time.Time, 0, len(stamps))
	for _, stamp := range stamps {
		if stamp.After(cutoff) {
			recent = append(recent, stamp)
		}
	}

	if len(recent) == 0 {
		delete(throttle.failures, client)
		return nil
	}
	throttle.failures[client] = recent
	return recent
}

func throttleClientKey(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.IP()); ip != "" {
		return ip
	}
	return "unknown"
}
