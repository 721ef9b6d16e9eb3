// Package service coordinates the comment-to-sentiment pipeline: cache check,
// fetch, classify, aggregate, persist.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spacesedan/tubesense/internal/models"
	"github.com/spacesedan/tubesense/internal/sentiment"
)

const (
	DEFAULT_CACHE_TTL          = 24 * time.Hour
	DEFAULT_TOP_NEGATIVE_LIMIT = 5
)

// ErrNoComments marks a fetch that returned zero comments. Distinct from a
// successful analysis that happens to have zero of some label.
var ErrNoComments = errors.New("no comments available for this video")

// CommentFetcher lists all comments of a video.
type CommentFetcher interface {
	FetchAll(ctx context.Context, videoID string) ([]models.RawComment, error)
}

// CommentStore is the working set the pipeline reads and writes during a pass.
type CommentStore interface {
	Add(comment *models.Comment)
	Get(id int64) (*models.Comment, error)
	Update(comment *models.Comment) error
	List() []*models.Comment
	Delete(id int64) error
}

// SnapshotCache is the fast-path result cache (Valkey in production).
type SnapshotCache interface {
	CacheSnapshot(ctx context.Context, snapshot *models.AnalysisSnapshot, ttl time.Duration) error
	GetCachedSnapshot(ctx context.Context, videoID string) (*models.AnalysisSnapshot, error)
	InvalidateSnapshot(ctx context.Context, videoID string) error
}

// SnapshotStore is the durable snapshot record (Postgres in production).
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snapshot *models.AnalysisSnapshot) error
	GetRecentSnapshot(ctx context.Context, videoID string, window time.Duration) (*models.AnalysisSnapshot, error)
}

// CommentArchive persists classified comments (DynamoDB in production).
type CommentArchive interface {
	BatchInsertComments(ctx context.Context, comments []*models.Comment) error
}

// SnapshotPublisher emits completed snapshots (Kafka in production).
type SnapshotPublisher interface {
	PublishSnapshot(snapshot *models.AnalysisSnapshot) error
}

// AnalysisService runs the pipeline. Only the fetcher, analyzer, and store
// are required; cache, durable stores, and publisher are optional and every
// persistence failure is logged rather than aborting the pass.
type AnalysisService struct {
	fetcher  CommentFetcher
	analyzer sentiment.Analyzer
	store    CommentStore

	cache     SnapshotCache
	snapshots SnapshotStore
	archive   CommentArchive
	publisher SnapshotPublisher

	cacheTTL         time.Duration
	batchSize        int
	topNegativeLimit int
}

type ServiceOption func(*AnalysisService)

func WithSnapshotCache(cache SnapshotCache) ServiceOption {
	return func(s *AnalysisService) { s.cache = cache }
}

func WithSnapshotStore(snapshots SnapshotStore) ServiceOption {
	return func(s *AnalysisService) { s.snapshots = snapshots }
}

func WithCommentArchive(archive CommentArchive) ServiceOption {
	return func(s *AnalysisService) { s.archive = archive }
}

func WithSnapshotPublisher(publisher SnapshotPublisher) ServiceOption {
	return func(s *AnalysisService) { s.publisher = publisher }
}

func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *AnalysisService) { s.cacheTTL = ttl }
}

func WithBatchSize(size int) ServiceOption {
	return func(s *AnalysisService) { s.batchSize = size }
}

func WithTopNegativeLimit(limit int) ServiceOption {
	return func(s *AnalysisService) { s.topNegativeLimit = limit }
}

func NewAnalysisService(fetcher CommentFetcher, analyzer sentiment.Analyzer, store CommentStore, opts ...ServiceOption) *AnalysisService {
	s := &AnalysisService{
		fetcher:          fetcher,
		analyzer:         analyzer,
		store:            store,
		cacheTTL:         DEFAULT_CACHE_TTL,
		batchSize:        sentiment.DEFAULT_BATCH_SIZE,
		topNegativeLimit: DEFAULT_TOP_NEGATIVE_LIMIT,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeVideo runs one analysis pass. With forceRefresh false, a snapshot
// created within the freshness window is returned unchanged without touching
// the provider or the model.
func (s *AnalysisService) AnalyzeVideo(ctx context.Context, videoID string, forceRefresh bool) (*models.AnalysisSnapshot, error) {
	if forceRefresh {
		// drop the stale entry up front so it cannot outlive a failing pass
		if s.cache != nil {
			if err := s.cache.InvalidateSnapshot(ctx, videoID); err != nil {
				slog.Warn("[AnalysisService] Failed to invalidate cached snapshot",
					slog.String("video_id", videoID),
					slog.String("error", err.Error()))
			}
		}
	} else if snapshot := s.lookupCached(ctx, videoID); snapshot != nil {
		slog.Info("[AnalysisService] Returning cached analysis",
			slog.String("video_id", videoID),
			slog.String("analysis_id", snapshot.AnalysisID))
		return snapshot, nil
	}

	raw, err := s.fetcher.FetchAll(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		slog.Info("[AnalysisService] No comments to analyze",
			slog.String("video_id", videoID))
		return nil, ErrNoComments
	}

	comments := make([]*models.Comment, 0, len(raw))
	texts := make([]string, 0, len(raw))
	for _, rc := range raw {
		comment := &models.Comment{
			VideoID: rc.VideoID,
			Author:  rc.Author,
			Text:    rc.Text,
		}
		s.store.Add(comment)
		comments = append(comments, comment)
		texts = append(texts, rc.Text)
	}

	sentiments, err := s.analyzer.AnalyzeBatch(ctx, texts, s.batchSize)
	if err != nil {
		return nil, err
	}

	for i, comment := range comments {
		sent := sentiments[i]
		comment.Sentiment = &sent
		if err := s.store.Update(comment); err != nil {
			return nil, err
		}
	}

	snapshot := s.buildSnapshot(videoID, comments)
	s.persist(ctx, snapshot, comments)

	return snapshot, nil
}

// TopNegative returns up to limit entries of the negative leaderboard,
// running a fresh analysis when no recent snapshot exists. The stored
// leaderboard is capped at the configured top-negative limit.
func (s *AnalysisService) TopNegative(ctx context.Context, videoID string, limit int) ([]models.TopNegativeComment, error) {
	if limit <= 0 {
		limit = s.topNegativeLimit
	}

	snapshot := s.lookupCached(ctx, videoID)
	if snapshot == nil {
		var err error
		snapshot, err = s.AnalyzeVideo(ctx, videoID, false)
		if err != nil {
			return nil, err
		}
	}

	if limit > len(snapshot.TopNegative) {
		limit = len(snapshot.TopNegative)
	}
	return snapshot.TopNegative[:limit], nil
}

// AnalyzeStoredComment reclassifies a single stored comment and writes the
// result back. Unknown ids surface COMMENT_NOT_FOUND.
func (s *AnalysisService) AnalyzeStoredComment(ctx context.Context, commentID int64) (models.Sentiment, error) {
	comment, err := s.store.Get(commentID)
	if err != nil {
		return models.Sentiment{}, err
	}

	sent, err := s.analyzer.AnalyzeOne(ctx, comment.Text)
	if err != nil {
		return models.Sentiment{}, err
	}

	comment.Sentiment = &sent
	if err := s.store.Update(comment); err != nil {
		return models.Sentiment{}, err
	}
	return sent, nil
}

// SentimentDistribution counts stored comments per label. Unclassified
// comments are excluded.
func (s *AnalysisService) SentimentDistribution() map[models.SentimentLabel]int {
	distribution := map[models.SentimentLabel]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	for _, comment := range s.store.List() {
		if comment.Sentiment != nil {
			distribution[comment.Sentiment.Label]++
		}
	}
	return distribution
}

// lookupCached checks Valkey and then the durable snapshot store. Read
// failures count as a miss so a degraded cache never blocks a fresh pass.
func (s *AnalysisService) lookupCached(ctx context.Context, videoID string) *models.AnalysisSnapshot {
	if s.cache != nil {
		snapshot, err := s.cache.GetCachedSnapshot(ctx, videoID)
		if err != nil {
			slog.Warn("[AnalysisService] Snapshot cache lookup failed",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
		} else if snapshot != nil {
			return snapshot
		}
	}

	if s.snapshots != nil {
		snapshot, err := s.snapshots.GetRecentSnapshot(ctx, videoID, s.cacheTTL)
		if err != nil {
			slog.Warn("[AnalysisService] Recent snapshot lookup failed",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
			return nil
		}
		if snapshot != nil {
			if s.cache != nil {
				age := time.Since(snapshot.CreatedAt)
				if remaining := s.cacheTTL - age; remaining > 0 {
					if err := s.cache.CacheSnapshot(ctx, snapshot, remaining); err != nil {
						slog.Warn("[AnalysisService] Failed to rewarm snapshot cache",
							slog.String("error", err.Error()))
					}
				}
			}
			return snapshot
		}
	}

	return nil
}

func (s *AnalysisService) buildSnapshot(videoID string, comments []*models.Comment) *models.AnalysisSnapshot {
	var positive, negative, neutral int
	for _, comment := range comments {
		if comment.Sentiment == nil {
			continue
		}
		switch comment.Sentiment.Label {
		case models.SentimentPositive:
			positive++
		case models.SentimentNegative:
			negative++
		case models.SentimentNeutral:
			neutral++
		}
	}

	total := positive + negative + neutral
	return &models.AnalysisSnapshot{
		AnalysisID:         uuid.NewString(),
		VideoID:            videoID,
		CreatedAt:          time.Now().UTC(),
		TotalComments:      total,
		PositiveCount:      positive,
		NegativeCount:      negative,
		NeutralCount:       neutral,
		PositivePercentage: percentage(positive, total),
		NegativePercentage: percentage(negative, total),
		NeutralPercentage:  percentage(neutral, total),
		TopNegative:        topNegative(comments, s.topNegativeLimit),
	}
}

// persist is the pipeline's only log-and-continue stage: the in-memory
// snapshot is returned to the caller even when every backend write fails.
func (s *AnalysisService) persist(ctx context.Context, snapshot *models.AnalysisSnapshot, comments []*models.Comment) {
	if s.archive != nil {
		if err := s.archive.BatchInsertComments(ctx, comments); err != nil {
			slog.Error("[AnalysisService] Failed to archive comments",
				slog.String("video_id", snapshot.VideoID),
				slog.String("error", err.Error()))
		}
	}

	if s.snapshots != nil {
		if err := s.snapshots.InsertSnapshot(ctx, snapshot); err != nil {
			slog.Error("[AnalysisService] Failed to store snapshot",
				slog.String("video_id", snapshot.VideoID),
				slog.String("error", err.Error()))
		}
	}

	if s.cache != nil {
		if err := s.cache.CacheSnapshot(ctx, snapshot, s.cacheTTL); err != nil {
			slog.Error("[AnalysisService] Failed to cache snapshot",
				slog.String("video_id", snapshot.VideoID),
				slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSnapshot(snapshot); err != nil {
			slog.Error("[AnalysisService] Failed to publish snapshot event",
				slog.String("video_id", snapshot.VideoID),
				slog.String("error", err.Error()))
		}
	}
}

// topNegative ranks NEGATIVE comments by confidence descending, ties broken
// by fetch order, capped at limit.
func topNegative(comments []*models.Comment, limit int) []models.TopNegativeComment {
	negatives := make([]*models.Comment, 0)
	for _, comment := range comments {
		if comment.Sentiment != nil && comment.Sentiment.IsNegative() {
			negatives = append(negatives, comment)
		}
	}

	sort.SliceStable(negatives, func(i, j int) bool {
		return negatives[i].Sentiment.Confidence > negatives[j].Sentiment.Confidence
	})

	if limit < len(negatives) {
		negatives = negatives[:limit]
	}

	out := make([]models.TopNegativeComment, 0, len(negatives))
	for _, comment := range negatives {
		out = append(out, models.TopNegativeComment{
			Author:     comment.Author,
			Text:       comment.Text,
			Confidence: comment.Sentiment.Confidence,
		})
	}
	return out
}

// percentage rounds to 2 decimals and never divides by zero.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
