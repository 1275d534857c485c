package utils

import (
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns the delay before retry number attempt, doubling a
// base delay each attempt with up to 25% jitter. Attempt 0 waits nothing.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
