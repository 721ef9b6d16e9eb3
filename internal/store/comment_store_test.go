package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

func TestAddAssignsMonotonicIDs(t *testing.T) {
	s := NewCommentStore()

	first := &models.Comment{VideoID: "vid", Author: "U1", Text: "hello"}
	second := &models.Comment{VideoID: "vid", Author: "U2", Text: "world"}
	s.Add(first)
	s.Add(second)

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	require.NoError(t, s.Delete(second.ID))
	third := &models.Comment{VideoID: "vid", Author: "U3", Text: "again"}
	s.Add(third)
	// ids are never reused within a store's lifetime
	require.Equal(t, int64(3), third.ID)
}

func TestAddKeepsSuppliedID(t *testing.T) {
	s := NewCommentStore()

	s.Add(&models.Comment{ID: 7, VideoID: "vid", Author: "U1", Text: "a"})
	next := &models.Comment{VideoID: "vid", Author: "U2", Text: "b"}
	s.Add(next)

	require.Equal(t, int64(8), next.ID)
}

func TestGetAndUpdate(t *testing.T) {
	s := NewCommentStore()
	comment := &models.Comment{VideoID: "vid", Author: "U1", Text: "meh"}
	s.Add(comment)

	got, err := s.Get(comment.ID)
	require.NoError(t, err)
	require.Equal(t, "meh", got.Text)

	comment.Sentiment = &models.Sentiment{Label: models.SentimentNeutral, Confidence: 0.7}
	require.NoError(t, s.Update(comment))

	got, err = s.Get(comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Sentiment)
	require.Equal(t, models.SentimentNeutral, got.Sentiment.Label)
}

func TestUpdateUnknownIDFails(t *testing.T) {
	s := NewCommentStore()

	err := s.Update(&models.Comment{ID: 42, VideoID: "vid"})
	require.Error(t, err)
	require.True(t, apperrors.IsKind(err, apperrors.KindCommentNotFound))
}

func TestGetUnknownIDFails(t *testing.T) {
	s := NewCommentStore()

	_, err := s.Get(99)
	require.True(t, apperrors.IsKind(err, apperrors.KindCommentNotFound))
}

func TestDeleteUnknownIDFails(t *testing.T) {
	s := NewCommentStore()

	err := s.Delete(99)
	require.True(t, apperrors.IsKind(err, apperrors.KindCommentNotFound))
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := NewCommentStore()
	for _, text := range []string{"first", "second", "third"} {
		s.Add(&models.Comment{VideoID: "vid", Text: text})
	}

	listed := s.List()
	require.Len(t, listed, 3)
	require.Equal(t, 3, s.Len())
	require.Equal(t, "first", listed[0].Text)
	require.Equal(t, "second", listed[1].Text)
	require.Equal(t, "third", listed[2].Text)

	require.NoError(t, s.Delete(listed[1].ID))
	listed = s.List()
	require.Len(t, listed, 2)
	require.Equal(t, 2, s.Len())
	require.Equal(t, "first", listed[0].Text)
	require.Equal(t, "third", listed[1].Text)
}
