package viewmodel

import (
	"encoding/json"
	"strings"
)

// Sentiment is the display class of a free-text AI sentiment label.
type Sentiment int

const (
	SentimentUnknown Sentiment = iota
	SentimentPositive
	SentimentNegative
	SentimentNeutral
)

// ClassifySentiment maps a sentiment label to a Sentiment by case-insensitive
// substring match: "positive"/"bullish" is positive, "negative"/"bearish" is
// negative, other text is neutral and nil is unknown. Positive wins when both
// match.
func ClassifySentiment(label *string) Sentiment {
	if label == nil {
		return SentimentUnknown
	}
	s := strings.ToLower(*label)
	switch {
	case strings.Contains(s, "positive"), strings.Contains(s, "bullish"):
		return SentimentPositive
	case strings.Contains(s, "negative"), strings.Contains(s, "bearish"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func (s Sentiment) String() string {
	switch s {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	case SentimentNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Color is the badge colour for the sentiment.
func (s Sentiment) Color() string {
	switch s {
	case SentimentPositive:
		return "green"
	case SentimentNegative:
		return "red"
	case SentimentNeutral:
		return "yellow"
	default:
		return "gray"
	}
}

// Icon names the trend icon for the sentiment.
func (s Sentiment) Icon() string {
	switch s {
	case SentimentPositive:
		return "trending-up"
	case SentimentNegative:
		return "trending-down"
	default:
		return "activity"
	}
}

// MarshalJSON encodes the sentiment as its name.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
