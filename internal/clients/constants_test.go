package clients

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextBackoffDoublesUpToCap(t *testing.T) {
	delays := []time.Duration{INITIAL_BACKOFF}
	for i := 0; i < MAX_RETRIES; i++ {
		delays = append(delays, NextBackoff(delays[len(delays)-1]))
	}

	require.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		32 * time.Second,
	}, delays)

	// once capped, it stays capped
	require.Equal(t, MAX_BACKOFF, NextBackoff(MAX_BACKOFF))
}
