package models

import "time"

// TopNegativeComment is one entry in a snapshot's negative leaderboard.
type TopNegativeComment struct {
	Author     string  `json:"author"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// AnalysisSnapshot is the cached result of one completed analysis pass for a
// video. Percentages are derived from the counts and rounded to 2 decimals.
type AnalysisSnapshot struct {
	AnalysisID         string               `json:"analysis_id"`
	VideoID            string               `json:"video_id"`
	CreatedAt          time.Time            `json:"created_at"`
	TotalComments      int                  `json:"total_comments"`
	PositiveCount      int                  `json:"positive_count"`
	NegativeCount      int                  `json:"negative_count"`
	NeutralCount       int                  `json:"neutral_count"`
	PositivePercentage float64              `json:"positive_percentage"`
	NegativePercentage float64              `json:"negative_percentage"`
	NeutralPercentage  float64              `json:"neutral_percentage"`
	TopNegative        []TopNegativeComment `json:"top_negative"`
}

// AnalyzeResponse is the caller-facing result shape. Failures come back as a
// value with ErrorKind set, never as a bare error string dump.
type AnalyzeResponse struct {
	Success            bool                 `json:"success"`
	NoData             bool                 `json:"no_data,omitempty"`
	Message            string               `json:"message"`
	ErrorKind          string               `json:"error_kind,omitempty"`
	AnalysisID         string               `json:"analysis_id,omitempty"`
	VideoID            string               `json:"video_id,omitempty"`
	TotalComments      int                  `json:"total_comments"`
	PositiveCount      int                  `json:"positive_count"`
	NegativeCount      int                  `json:"negative_count"`
	NeutralCount       int                  `json:"neutral_count"`
	PositivePercentage float64              `json:"positive_percentage"`
	NegativePercentage float64              `json:"negative_percentage"`
	NeutralPercentage  float64              `json:"neutral_percentage"`
	TopNegative        []TopNegativeComment `json:"top_negative,omitempty"`
}
