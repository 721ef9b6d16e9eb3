package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

func commentThread(author, text string) models.YouTubeCommentThread {
	return models.YouTubeCommentThread{
		Snippet: models.YouTubeThreadSnippet{
			TopLevelComment: models.YouTubeComment{
				Snippet: models.YouTubeCommentSnippet{
					AuthorDisplayName: author,
					TextDisplay:       text,
				},
			},
		},
	}
}

func TestFetchAllFollowsPagination(t *testing.T) {
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query().Get("pageToken"))
		require.Equal(t, "snippet", r.URL.Query().Get("part"))
		require.Equal(t, "vid12345678", r.URL.Query().Get("videoId"))
		require.Equal(t, "100", r.URL.Query().Get("maxResults"))

		var page models.YouTubeCommentThreadsResponse
		switch r.URL.Query().Get("pageToken") {
		case "":
			page = models.YouTubeCommentThreadsResponse{
				Items:         []models.YouTubeCommentThread{commentThread("U1", "first"), commentThread("U2", "second")},
				NextPageToken: "page2",
			}
		case "page2":
			page = models.YouTubeCommentThreadsResponse{
				Items: []models.YouTubeCommentThread{commentThread("U3", "third")},
			}
		default:
			t.Fatalf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer server.Close()

	client := NewYouTubeClient("token", WithEndpoint(server.URL))
	comments, err := client.FetchAll(context.Background(), "vid12345678")
	require.NoError(t, err)

	require.Equal(t, []string{"", "page2"}, requests)
	require.Len(t, comments, 3)
	require.Equal(t, models.RawComment{Author: "U1", Text: "first", VideoID: "vid12345678"}, comments[0])
	require.Equal(t, models.RawComment{Author: "U2", Text: "second", VideoID: "vid12345678"}, comments[1])
	require.Equal(t, models.RawComment{Author: "U3", Text: "third", VideoID: "vid12345678"}, comments[2])
}

func writeAPIError(t *testing.T, w http.ResponseWriter, status int, reason string) {
	t.Helper()
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(models.YouTubeErrorResponse{
		Error: models.YouTubeError{
			Code:    status,
			Message: reason,
			Errors:  []models.YouTubeErrorDetail{{Reason: reason}},
		},
	})
	require.NoError(t, err)
}

func TestFetchAllMapsProviderErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reason string
		kind   apperrors.Kind
	}{
		{"quota", http.StatusForbidden, "quotaExceeded", apperrors.KindQuotaExceeded},
		{"disabled", http.StatusForbidden, "commentsDisabled", apperrors.KindCommentsDisabled},
		{"not found", http.StatusNotFound, "videoNotFound", apperrors.KindVideoNotFound},
		{"server error", http.StatusInternalServerError, "backendError", apperrors.KindConnectionFailure},
		{"other forbidden", http.StatusForbidden, "forbidden", apperrors.KindConnectionFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(t, w, tc.status, tc.reason)
			}))
			defer server.Close()

			client := NewYouTubeClient("token", WithEndpoint(server.URL))
			_, err := client.FetchAll(context.Background(), "vid12345678")
			require.Error(t, err)
			require.True(t, apperrors.IsKind(err, tc.kind),
				"expected %s, got %s", tc.kind, apperrors.KindOf(err))
		})
	}
}

func TestFetchAllDiscardsPartialPagesOnFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			page := models.YouTubeCommentThreadsResponse{
				Items:         []models.YouTubeCommentThread{commentThread("U1", "first")},
				NextPageToken: "page2",
			}
			require.NoError(t, json.NewEncoder(w).Encode(page))
			return
		}
		writeAPIError(t, w, http.StatusForbidden, "quotaExceeded")
	}))
	defer server.Close()

	client := NewYouTubeClient("token", WithEndpoint(server.URL))
	comments, err := client.FetchAll(context.Background(), "vid12345678")
	require.Error(t, err)
	require.Nil(t, comments)
	require.Equal(t, 2, calls)
}

func TestFetchAllConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewYouTubeClient("token", WithEndpoint(server.URL))
	_, err := client.FetchAll(context.Background(), "vid12345678")
	require.True(t, apperrors.IsKind(err, apperrors.KindConnectionFailure))
}
