package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/spacesedan/tubesense/internal/apperrors"
	"github.com/spacesedan/tubesense/internal/models"
)

const (
	YOUTUBE_COMMENT_THREADS_ENDPOINT = "https://www.googleapis.com/youtube/v3/commentThreads"
	YOUTUBE_MAX_RESULTS              = 100
	YOUTUBE_REQUEST_TIMEOUT          = 10 * time.Second
)

// YouTubeClient lists the comment threads of a video. One client per OAuth
// access token; tokens are request-scoped, so this is not a shared singleton.
type YouTubeClient struct {
	Client   *http.Client
	endpoint string
}

type YouTubeOption func(*YouTubeClient)

// WithTimeout overrides the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) YouTubeOption {
	return func(c *YouTubeClient) { c.Client.Timeout = timeout }
}

// WithEndpoint points the client at a different base URL. Used by tests.
func WithEndpoint(endpoint string) YouTubeOption {
	return func(c *YouTubeClient) { c.endpoint = endpoint }
}

func NewYouTubeClient(accessToken string, opts ...YouTubeOption) *YouTubeClient {
	base := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	}))
	base.Timeout = YOUTUBE_REQUEST_TIMEOUT

	c := &YouTubeClient{
		Client:   base,
		endpoint: YOUTUBE_COMMENT_THREADS_ENDPOINT,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll drains every page of comments for the video, flattened in arrival
// order. It fails fast on the first unrecoverable error; pages fetched before
// the failure are discarded.
func (c *YouTubeClient) FetchAll(ctx context.Context, videoID string) ([]models.RawComment, error) {
	slog.Debug("[YouTubeClient] Starting comment fetch",
		slog.String("video_id", videoID))

	var comments []models.RawComment
	pageToken := ""

	for {
		page, err := c.fetchPage(ctx, videoID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			snippet := item.Snippet.TopLevelComment.Snippet
			comments = append(comments, models.RawComment{
				Author:  snippet.AuthorDisplayName,
				Text:    snippet.TextDisplay,
				VideoID: videoID,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	slog.Info("[YouTubeClient] Successfully fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return comments, nil
}

func (c *YouTubeClient) fetchPage(ctx context.Context, videoID, pageToken string) (*models.YouTubeCommentThreadsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(YOUTUBE_MAX_RESULTS))
	params.Set("textFormat", "plainText")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.ConnectionFailure(err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	res, err := c.Client.Do(req)
	if err != nil {
		slog.Error("[YouTubeClient] Request failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		return nil, apperrors.ConnectionFailure(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperrors.ConnectionFailure(err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, c.mapAPIError(videoID, res.StatusCode, body)
	}

	var page models.YouTubeCommentThreadsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, apperrors.ConnectionFailure(fmt.Errorf("failed to parse commentThreads response: %w", err))
	}

	slog.Debug("[YouTubeClient] Page fetched",
		slog.String("video_id", videoID),
		slog.Int("items", len(page.Items)))
	return &page, nil
}

// mapAPIError translates the provider error envelope into the typed taxonomy.
// Callers never see provider-native error shapes.
func (c *YouTubeClient) mapAPIError(videoID string, statusCode int, body []byte) error {
	var envelope models.YouTubeErrorResponse
	_ = json.Unmarshal(body, &envelope)

	reasons := make([]string, 0, len(envelope.Error.Errors))
	for _, detail := range envelope.Error.Errors {
		reasons = append(reasons, detail.Reason)
	}
	joined := strings.Join(reasons, ",")

	slog.Error("[YouTubeClient] API error",
		slog.String("video_id", videoID),
		slog.Int("status", statusCode),
		slog.String("reasons", joined))

	switch statusCode {
	case http.StatusForbidden:
		if strings.Contains(joined, "quotaExceeded") {
			return apperrors.QuotaExceeded()
		}
		if strings.Contains(joined, "commentsDisabled") {
			return apperrors.CommentsDisabled(videoID)
		}
	case http.StatusNotFound:
		return apperrors.VideoNotFound(videoID)
	}

	return apperrors.ConnectionFailure(fmt.Errorf("youtube api status %d: %s", statusCode, envelope.Error.Message))
}
