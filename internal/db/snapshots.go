package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spacesedan/tubesense/internal/models"
)

// InsertSnapshot persists one completed analysis snapshot. The top-negative
// leaderboard is stored as JSONB alongside the counts.
func InsertSnapshot(ctx context.Context, snapshot *models.AnalysisSnapshot) error {
	topNegative, err := json.Marshal(snapshot.TopNegative)
	if err != nil {
		return fmt.Errorf("failed to marshal top negative comments: %w", err)
	}

	query := `
        INSERT INTO analyses (
            analysis_id, video_id, total_comments,
            positive_count, negative_count, neutral_count,
            positive_percentage, negative_percentage, neutral_percentage,
            top_negative, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	_, err = DB.Exec(ctx, query,
		snapshot.AnalysisID,
		snapshot.VideoID,
		snapshot.TotalComments,
		snapshot.PositiveCount,
		snapshot.NegativeCount,
		snapshot.NeutralCount,
		snapshot.PositivePercentage,
		snapshot.NegativePercentage,
		snapshot.NeutralPercentage,
		topNegative,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis snapshot: %w", err)
	}

	slog.Info("[DB] Analysis snapshot stored",
		slog.String("video_id", snapshot.VideoID),
		slog.String("analysis_id", snapshot.AnalysisID))
	return nil
}

// GetRecentSnapshot returns the newest snapshot for a video created within
// the freshness window, or nil when none qualifies.
func GetRecentSnapshot(ctx context.Context, videoID string, window time.Duration) (*models.AnalysisSnapshot, error) {
	query := `
        SELECT analysis_id, video_id, total_comments,
               positive_count, negative_count, neutral_count,
               positive_percentage, negative_percentage, neutral_percentage,
               top_negative, created_at
        FROM analyses
        WHERE video_id = $1 AND created_at > $2
        ORDER BY created_at DESC
        LIMIT 1
    `

	cutoff := time.Now().UTC().Add(-window)

	var snapshot models.AnalysisSnapshot
	var topNegative []byte
	err := DB.QueryRow(ctx, query, videoID, cutoff).Scan(
		&snapshot.AnalysisID,
		&snapshot.VideoID,
		&snapshot.TotalComments,
		&snapshot.PositiveCount,
		&snapshot.NegativeCount,
		&snapshot.NeutralCount,
		&snapshot.PositivePercentage,
		&snapshot.NegativePercentage,
		&snapshot.NeutralPercentage,
		&topNegative,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query recent snapshot: %w", err)
	}

	if len(topNegative) > 0 {
		if err := json.Unmarshal(topNegative, &snapshot.TopNegative); err != nil {
			slog.Warn("[DB] Failed to parse stored top negative comments",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
		}
	}

	return &snapshot, nil
}
