package sentiment

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/tubesense/internal/models"
)

// Compound scores past this magnitude count as positive/negative.
const vaderThreshold = 0.20

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

// VaderAnalyzer is a lexicon-based alternative to the RoBERTa engine. It
// needs no model download, which makes it useful where ONNX runtime setup is
// not an option.
type VaderAnalyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

func (a *VaderAnalyzer) AnalyzeOne(ctx context.Context, text string) (models.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return neutralSentiment(), nil
	}

	if err := ctx.Err(); err != nil {
		return models.Sentiment{}, err
	}

	plainText := ConvertMarkdownToText(text)
	score := a.vader.PolarityScores(plainText).Compound

	label := models.SentimentNeutral
	if score >= vaderThreshold {
		label = models.SentimentPositive
	} else if score <= -vaderThreshold {
		label = models.SentimentNegative
	}

	confidence := math.Min(math.Abs(score), 1.0)
	return models.Sentiment{Label: label, Confidence: confidence}, nil
}

func (a *VaderAnalyzer) AnalyzeBatch(ctx context.Context, texts []string, batchSize int) ([]models.Sentiment, error) {
	results := make([]models.Sentiment, len(texts))
	for i, text := range texts {
		sentiment, err := a.AnalyzeOne(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = sentiment
	}
	return results, nil
}
