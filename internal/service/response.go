package service

import (
	"errors"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

// BuildResponse converts an analysis outcome into the caller-facing shape.
// Failures become inspectable values carrying the taxonomy kind instead of
// escaping as raw errors.
func BuildResponse(snapshot *models.AnalysisSnapshot, err error) models.AnalyzeResponse {
	if err != nil {
		if errors.Is(err, ErrNoComments) {
			return models.AnalyzeResponse{
				Success: true,
				NoData:  true,
				Message: "No comments found for this video",
			}
		}

		resp := models.AnalyzeResponse{
			Success:   false,
			Message:   err.Error(),
			ErrorKind: string(apperrors.KindOf(err)),
		}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			resp.Message = appErr.Message
		}
		return resp
	}

	return models.AnalyzeResponse{
		Success:            true,
		Message:            "Analysis complete",
		AnalysisID:         snapshot.AnalysisID,
		VideoID:            snapshot.VideoID,
		TotalComments:      snapshot.TotalComments,
		PositiveCount:      snapshot.PositiveCount,
		NegativeCount:      snapshot.NegativeCount,
		NeutralCount:       snapshot.NeutralCount,
		PositivePercentage: snapshot.PositivePercentage,
		NegativePercentage: snapshot.NegativePercentage,
		NeutralPercentage:  snapshot.NeutralPercentage,
		TopNegative:        snapshot.TopNegative,
	}
}
