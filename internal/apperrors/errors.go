// Package apperrors defines the typed failure taxonomy shared by the YouTube
// client, the sentiment analyzers, the store, and the analysis service.
// Callers inspect failures with errors.As / KindOf instead of matching
// provider-native error shapes.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindQuotaExceeded     Kind = "QUOTA_EXCEEDED"
	KindVideoNotFound     Kind = "VIDEO_NOT_FOUND"
	KindCommentsDisabled  Kind = "COMMENTS_DISABLED"
	KindConnectionFailure Kind = "CONNECTION_FAILURE"
	KindModelLoadFailure  Kind = "MODEL_LOAD_FAILURE"
	KindInferenceFailure  Kind = "INFERENCE_FAILURE"
	KindCommentNotFound   Kind = "COMMENT_NOT_FOUND"
	KindInvalidURL        Kind = "INVALID_URL"
)

// Error carries the taxonomy kind, a human-readable message, optional detail
// values, and the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s | details: %v", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the taxonomy kind from an error chain, or "" if the chain
// holds no typed failure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func QuotaExceeded() *Error {
	return &Error{
		Kind:    KindQuotaExceeded,
		Message: "YouTube API quota exceeded for today",
		Details: map[string]any{
			"suggestion": "try again tomorrow or use a different API key",
		},
	}
}

func VideoNotFound(videoID string) *Error {
	return &Error{
		Kind:    KindVideoNotFound,
		Message: "video not found or is private",
		Details: map[string]any{"video_id": videoID},
	}
}

func CommentsDisabled(videoID string) *Error {
	return &Error{
		Kind:    KindCommentsDisabled,
		Message: "comments are disabled for this video",
		Details: map[string]any{"video_id": videoID},
	}
}

func ConnectionFailure(cause error) *Error {
	return &Error{
		Kind:    KindConnectionFailure,
		Message: "failed to reach the YouTube API",
		Err:     cause,
	}
}

func ModelLoadFailure(modelName string, cause error) *Error {
	return &Error{
		Kind:    KindModelLoadFailure,
		Message: "failed to load sentiment analysis model",
		Details: map[string]any{"model": modelName},
		Err:     cause,
	}
}

func InferenceFailure(cause error) *Error {
	return &Error{
		Kind:    KindInferenceFailure,
		Message: "sentiment inference failed",
		Err:     cause,
	}
}

func CommentNotFound(commentID int64) *Error {
	return &Error{
		Kind:    KindCommentNotFound,
		Message: "comment not found in store",
		Details: map[string]any{"comment_id": commentID},
	}
}

func InvalidURL(rawURL string) *Error {
	return &Error{
		Kind:    KindInvalidURL,
		Message: "not a recognizable YouTube video URL",
		Details: map[string]any{"input_url": rawURL},
	}
}
