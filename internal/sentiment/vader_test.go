package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubesense/internal/models"
)

func TestVaderAnalyzeOne(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	positive, err := analyzer.AnalyzeOne(context.Background(), "I love this, absolutely amazing video!")
	require.NoError(t, err)
	require.Equal(t, models.SentimentPositive, positive.Label)
	require.Greater(t, positive.Confidence, 0.0)
	require.LessOrEqual(t, positive.Confidence, 1.0)

	negative, err := analyzer.AnalyzeOne(context.Background(), "This is terrible, what an awful waste of time.")
	require.NoError(t, err)
	require.Equal(t, models.SentimentNegative, negative.Label)

	empty, err := analyzer.AnalyzeOne(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, models.SentimentNeutral, empty.Label)
	require.Equal(t, 0.0, empty.Confidence)
}

func TestVaderBatchAlignment(t *testing.T) {
	analyzer := NewVaderAnalyzer()

	texts := []string{"I love it", "", "I hate it"}
	results, err := analyzer.AnalyzeBatch(context.Background(), texts, 2)
	require.NoError(t, err)
	require.Len(t, results, len(texts))
	require.Equal(t, models.SentimentPositive, results[0].Label)
	require.Equal(t, models.SentimentNeutral, results[1].Label)
	require.Equal(t, models.SentimentNegative, results[2].Label)
}

func TestRemoveLinks(t *testing.T) {
	require.Equal(t, "check this out", RemoveLinks("check this [out](https://example.com/x)"))
	require.Equal(t, "go to ", RemoveLinks("go to www.example.com/page"))
}

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**bold** and [link](https://example.com)")
	require.NotContains(t, got, "**")
	require.NotContains(t, got, "https://example.com")
}
