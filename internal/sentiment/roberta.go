package sentiment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spacesedan/tubesense/internal/models"
	"github.com/spacesedan/tubesense/internal/utils"
)

// RobertaAnalyzer classifies text with the shared RoBERTa engine.
type RobertaAnalyzer struct {
	engine Inferencer
	// sequentialFallback retries items one at a time when a batch call fails.
	// Results computed before a failing item are preserved; the failing item
	// still surfaces a typed inference failure.
	sequentialFallback bool
}

type RobertaOption func(*RobertaAnalyzer)

func WithSequentialFallback(enabled bool) RobertaOption {
	return func(a *RobertaAnalyzer) { a.sequentialFallback = enabled }
}

func NewRobertaAnalyzer(engine Inferencer, opts ...RobertaOption) *RobertaAnalyzer {
	a := &RobertaAnalyzer{engine: engine}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *RobertaAnalyzer) AnalyzeOne(ctx context.Context, text string) (models.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		slog.Warn("[RobertaAnalyzer] Attempted to analyze empty text")
		return neutralSentiment(), nil
	}

	if err := ctx.Err(); err != nil {
		return models.Sentiment{}, err
	}

	results, err := a.engine.Infer([]string{truncateTokens(text)})
	if err != nil {
		return models.Sentiment{}, err
	}

	return models.Sentiment{
		Label:      MapLabel(results[0].Label),
		Confidence: results[0].Score,
	}, nil
}

// AnalyzeBatch classifies texts in chunks of batchSize. Empty entries are
// filtered out before inference and reinserted as NEUTRAL/0.0 placeholders,
// so len(output) == len(input) and order is preserved. When the sequential
// fallback is enabled and an individual item still fails, the returned slice
// carries every result computed before that item alongside the error.
func (a *RobertaAnalyzer) AnalyzeBatch(ctx context.Context, texts []string, batchSize int) ([]models.Sentiment, error) {
	if len(texts) == 0 {
		slog.Warn("[RobertaAnalyzer] Empty text list provided for batch analysis")
		return []models.Sentiment{}, nil
	}
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}

	slog.Info("[RobertaAnalyzer] Starting batch analysis",
		slog.Int("texts", len(texts)),
		slog.Int("batch_size", batchSize))

	validTexts := make([]string, 0, len(texts))
	validIndices := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) != "" {
			validTexts = append(validTexts, truncateTokens(text))
			validIndices = append(validIndices, i)
		}
	}

	results := make([]models.Sentiment, len(texts))
	for i := range results {
		results[i] = neutralSentiment()
	}

	if len(validTexts) == 0 {
		slog.Warn("[RobertaAnalyzer] No valid texts to analyze after filtering")
		return results, nil
	}

	analyzed := 0
	for _, chunk := range utils.Chunk(validTexts, batchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, inferErr := a.engine.Infer(chunk)
		if inferErr != nil {
			if !a.sequentialFallback {
				return nil, inferErr
			}
			slog.Warn("[RobertaAnalyzer] Batch inference failed, falling back to sequential",
				slog.String("error", inferErr.Error()))
			raw, inferErr = a.inferSequential(chunk)
		}

		for j, r := range raw {
			idx := validIndices[analyzed+j]
			results[idx] = models.Sentiment{
				Label:      MapLabel(r.Label),
				Confidence: r.Score,
			}
		}

		// the fallback classifies items one at a time; whatever it finished
		// before the failing item is already written into results, so the
		// partially filled slice goes back with the error
		if inferErr != nil {
			return results, inferErr
		}
		analyzed += len(chunk)
	}

	slog.Info("[RobertaAnalyzer] Batch analysis complete",
		slog.Int("analyzed", analyzed))
	return results, nil
}

// inferSequential retries a failed chunk one item at a time. On a failing
// item it returns the results collected so far together with that item's
// error.
func (a *RobertaAnalyzer) inferSequential(texts []string) ([]RawResult, error) {
	results := make([]RawResult, 0, len(texts))
	for _, text := range texts {
		r, err := a.engine.Infer([]string{text})
		if err != nil {
			return results, err
		}
		results = append(results, r[0])
	}
	return results, nil
}
