package models

// Wire types for the YouTube Data API v3 commentThreads.list endpoint. Only
// the fields we read are mapped.

type YouTubeCommentThreadsResponse struct {
	Items         []YouTubeCommentThread `json:"items"`
	NextPageToken string                 `json:"nextPageToken,omitempty"`
}

type YouTubeCommentThread struct {
	Snippet YouTubeThreadSnippet `json:"snippet"`
}

type YouTubeThreadSnippet struct {
	TopLevelComment YouTubeComment `json:"topLevelComment"`
}

type YouTubeComment struct {
	Snippet YouTubeCommentSnippet `json:"snippet"`
}

type YouTubeCommentSnippet struct {
	AuthorDisplayName string `json:"authorDisplayName"`
	TextDisplay       string `json:"textDisplay"`
}

// YouTubeErrorResponse is the error envelope the API returns on failures.
// The reason strings ("quotaExceeded", "commentsDisabled", ...) drive the
// error mapping in the client.
type YouTubeErrorResponse struct {
	Error YouTubeError `json:"error"`
}

type YouTubeError struct {
	Code    int                  `json:"code"`
	Message string               `json:"message"`
	Errors  []YouTubeErrorDetail `json:"errors"`
}

type YouTubeErrorDetail struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}
