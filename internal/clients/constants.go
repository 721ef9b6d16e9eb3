package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "tubesense-client/1.0 (+https://github.com/spacesedan/tubesense)"
)

// NextBackoff doubles the delay, capped at MAX_BACKOFF.
func NextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > MAX_BACKOFF {
		return MAX_BACKOFF
	}
	return d
}
