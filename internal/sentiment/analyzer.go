// Package sentiment classifies comment text into the canonical three-label
// set. The production path runs a RoBERTa ONNX model through hugot; a VADER
// lexicon analyzer is available where the model cannot be loaded.
package sentiment

import (
	"context"
	"strings"

	"github.com/spacesedan/tubesense/internal/models"
)

const (
	DEFAULT_BATCH_SIZE = 32
	MAX_TOKEN_LENGTH   = 128
)

// Analyzer is the classification contract the analysis service depends on.
type Analyzer interface {
	// AnalyzeOne classifies a single text. Empty or whitespace-only input
	// short-circuits to NEUTRAL/0.0 without touching the backing model.
	AnalyzeOne(ctx context.Context, text string) (models.Sentiment, error)
	// AnalyzeBatch classifies texts in batches of batchSize. The output is
	// aligned index-for-index with the input; empty entries come back as
	// NEUTRAL/0.0 placeholders.
	AnalyzeBatch(ctx context.Context, texts []string, batchSize int) ([]models.Sentiment, error)
}

// labelMapping translates raw RoBERTa output labels into the canonical set.
// Anything outside the table maps to NEUTRAL.
var labelMapping = map[string]models.SentimentLabel{
	"LABEL_0": models.SentimentNegative,
	"LABEL_1": models.SentimentNeutral,
	"LABEL_2": models.SentimentPositive,
}

// MapLabel resolves a raw model label, defaulting to NEUTRAL for anything
// the table does not know.
func MapLabel(raw string) models.SentimentLabel {
	if label, ok := labelMapping[raw]; ok {
		return label
	}
	return models.SentimentNeutral
}

func neutralSentiment() models.Sentiment {
	return models.Sentiment{Label: models.SentimentNeutral, Confidence: 0.0}
}

// truncateTokens caps text at MAX_TOKEN_LENGTH whitespace-delimited tokens
// before it reaches the model. The model truncates at the same limit anyway;
// cutting here keeps pathologically long comments out of the tokenizer.
func truncateTokens(text string) string {
	fields := strings.Fields(text)
	if len(fields) <= MAX_TOKEN_LENGTH {
		return text
	}
	return strings.Join(fields[:MAX_TOKEN_LENGTH], " ")
}
