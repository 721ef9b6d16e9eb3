package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, KindQuotaExceeded, KindOf(QuotaExceeded()))
	require.Equal(t, KindVideoNotFound, KindOf(VideoNotFound("abc12345678")))
	require.Equal(t, KindCommentsDisabled, KindOf(CommentsDisabled("abc12345678")))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("analysis failed: %w", CommentsDisabled("abc12345678"))
	require.True(t, IsKind(err, KindCommentsDisabled))
	require.False(t, IsKind(err, KindQuotaExceeded))
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := ConnectionFailure(cause)
	require.ErrorIs(t, err, cause)
}

func TestErrorStringIncludesDetails(t *testing.T) {
	err := VideoNotFound("abc12345678")
	require.Contains(t, err.Error(), "abc12345678")
	require.Contains(t, err.Error(), "video not found")
}
