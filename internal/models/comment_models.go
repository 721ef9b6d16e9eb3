package models

// SentimentLabel is the canonical three-value label set. Raw model labels are
// translated into this set before they leave the sentiment package.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// Sentiment is a single classification result. Treated as immutable once built.
type Sentiment struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

func (s Sentiment) IsPositive() bool { return s.Label == SentimentPositive }

func (s Sentiment) IsNegative() bool { return s.Label == SentimentNegative }

func (s Sentiment) IsNeutral() bool { return s.Label == SentimentNeutral }

// RawComment is a comment as it arrives from the provider, before it gets an id.
type RawComment struct {
	Author  string `json:"author"`
	Text    string `json:"text"`
	VideoID string `json:"video_id"`
}

// Comment is a stored comment. ID is assigned by the store on first Add,
// Sentiment stays nil until an analysis pass classifies it.
type Comment struct {
	ID        int64      `json:"comment_id" dynamodbav:"comment_id"`
	VideoID   string     `json:"video_id" dynamodbav:"video_id"`
	Author    string     `json:"author" dynamodbav:"author"`
	Text      string     `json:"text" dynamodbav:"text"`
	Sentiment *Sentiment `json:"sentiment,omitempty" dynamodbav:"sentiment,omitempty"`
}
