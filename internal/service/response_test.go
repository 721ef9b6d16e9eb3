package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

func TestBuildResponseNoData(t *testing.T) {
	resp := BuildResponse(nil, ErrNoComments)

	require.True(t, resp.Success)
	require.True(t, resp.NoData)
	require.Equal(t, "No comments found for this video", resp.Message)
	require.Empty(t, resp.ErrorKind)
}

func TestBuildResponseAppError(t *testing.T) {
	resp := BuildResponse(nil, apperrors.QuotaExceeded())

	require.False(t, resp.Success)
	require.Equal(t, string(apperrors.KindQuotaExceeded), resp.ErrorKind)
	require.NotEmpty(t, resp.Message)
}

func TestBuildResponseWrappedAppError(t *testing.T) {
	wrapped := apperrors.ConnectionFailure(errors.New("dial tcp: refused"))
	resp := BuildResponse(nil, wrapped)

	require.False(t, resp.Success)
	require.Equal(t, string(apperrors.KindConnectionFailure), resp.ErrorKind)
	// the response carries the taxonomy message, not the raw cause
	require.NotContains(t, resp.Message, "dial tcp")
}

func TestBuildResponseSuccess(t *testing.T) {
	snapshot := &models.AnalysisSnapshot{
		AnalysisID:         "a-1",
		VideoID:            "vid12345678",
		TotalComments:      4,
		PositiveCount:      2,
		NegativeCount:      1,
		NeutralCount:       1,
		PositivePercentage: 50.0,
		NegativePercentage: 25.0,
		NeutralPercentage:  25.0,
		TopNegative: []models.TopNegativeComment{
			{Author: "U2", Text: "Terrible", Confidence: 0.88},
		},
	}

	resp := BuildResponse(snapshot, nil)

	require.True(t, resp.Success)
	require.False(t, resp.NoData)
	require.Equal(t, "Analysis complete", resp.Message)
	require.Equal(t, "a-1", resp.AnalysisID)
	require.Equal(t, "vid12345678", resp.VideoID)
	require.Equal(t, 4, resp.TotalComments)
	require.Equal(t, 50.0, resp.PositivePercentage)
	require.Len(t, resp.TopNegative, 1)
}
