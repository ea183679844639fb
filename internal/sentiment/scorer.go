// Package sentiment provides deterministic, lexicon-based sentiment
// scoring for news text. No network calls, no LLM.
package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/stockbrief/stockbrief/pkg/models"
)

// wordScore holds the polarity and subjectivity contribution of a
// single lexicon entry.
type wordScore struct {
	polarity     float64 // -1.0 .. +1.0
	subjectivity float64 // 0.0 .. 1.0
}

// Lexicon of sentiment-bearing words (lowercase). Weights reflect how
// strongly each word shifts tone in financial headlines.
var lexicon = map[string]wordScore{
	// positive
	"bullish": {0.7, 0.9}, "rally": {0.6, 0.6}, "surge": {0.7, 0.6},
	"soar": {0.7, 0.6}, "upbeat": {0.5, 0.8}, "positive": {0.4, 0.7},
	"growth": {0.4, 0.4}, "upgrade": {0.6, 0.5}, "outperform": {0.6, 0.6},
	"strong": {0.4, 0.6}, "recovery": {0.5, 0.5}, "breakout": {0.6, 0.6},
	"beat": {0.5, 0.5}, "beats": {0.5, 0.5}, "exceeds": {0.5, 0.5},
	"record": {0.5, 0.5}, "profit": {0.3, 0.3}, "gain": {0.4, 0.4},
	"gains": {0.4, 0.4}, "dividend": {0.3, 0.2}, "win": {0.5, 0.6},
	"success": {0.6, 0.7}, "optimistic": {0.5, 0.9}, "boost": {0.5, 0.5},
	"jumped": {0.5, 0.5}, "climbs": {0.5, 0.5}, "expansion": {0.4, 0.4},
	"good": {0.5, 0.6}, "great": {0.8, 0.8}, "excellent": {0.9, 0.9},

	// negative
	"bearish": {-0.7, 0.9}, "crash": {-0.8, 0.7}, "plunge": {-0.7, 0.6},
	"slump": {-0.6, 0.6}, "negative": {-0.4, 0.7}, "downgrade": {-0.6, 0.5},
	"underperform": {-0.6, 0.6}, "weak": {-0.4, 0.6}, "decline": {-0.5, 0.4},
	"loss": {-0.4, 0.4}, "losses": {-0.4, 0.4}, "selloff": {-0.7, 0.6},
	"fall": {-0.4, 0.4}, "falls": {-0.4, 0.4}, "fell": {-0.4, 0.4},
	"correction": {-0.5, 0.5}, "default": {-0.7, 0.5}, "fraud": {-0.8, 0.8},
	"scam": {-0.8, 0.9}, "investigation": {-0.5, 0.4}, "miss": {-0.5, 0.5},
	"misses": {-0.5, 0.5}, "warning": {-0.5, 0.6}, "concern": {-0.3, 0.6},
	"concerns": {-0.3, 0.6}, "lawsuit": {-0.5, 0.4}, "recall": {-0.5, 0.4},
	"layoffs": {-0.6, 0.5}, "bankruptcy": {-0.8, 0.6}, "tumble": {-0.6, 0.6},
	"bad": {-0.6, 0.7}, "terrible": {-0.9, 0.9}, "poor": {-0.5, 0.6},
	"risk": {-0.3, 0.5}, "fears": {-0.5, 0.7}, "worries": {-0.4, 0.7},
}

// Words that invert the polarity of the word that follows them.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"hardly": true, "barely": true,
}

// Words that amplify the word that follows them.
var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "really": 1.2,
	"sharply": 1.3, "significantly": 1.3, "slightly": 0.7, "somewhat": 0.8,
}

// Score analyzes a text fragment and returns its sentiment.
// Polarity is averaged over matched lexicon words, clamped to
// [-1, 1] and rounded to four decimal places. Empty or signal-free
// text scores neutral with zero polarity and subjectivity.
func Score(text string) models.Sentiment {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return models.Sentiment{Label: models.SentimentNeutral}
	}

	polaritySum := 0.0
	subjectivitySum := 0.0
	matches := 0

	for i, tok := range tokens {
		ws, ok := lexicon[tok]
		if !ok {
			continue
		}

		pol := ws.polarity
		if i > 0 {
			prev := tokens[i-1]
			if negators[prev] {
				pol = -pol
			} else if mult, ok := intensifiers[prev]; ok {
				pol *= mult
			}
		}

		polaritySum += pol
		subjectivitySum += ws.subjectivity
		matches++
	}

	if matches == 0 {
		return models.Sentiment{Label: models.SentimentNeutral}
	}

	polarity := clamp(polaritySum/float64(matches), -1, 1)
	polarity = models.Round(polarity, 4)
	subjectivity := clamp(subjectivitySum/float64(matches), 0, 1)
	subjectivity = models.Round(subjectivity, 4)

	return models.Sentiment{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        Classify(polarity),
	}
}

// Classify maps a polarity value to its label. Values within
// [-0.1, 0.1] inclusive are neutral.
func Classify(polarity float64) models.SentimentLabel {
	switch {
	case polarity > 0.1:
		return models.SentimentPositive
	case polarity < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Summarize aggregates per-item sentiments into label counts and an
// average polarity rounded to four decimal places. An empty input
// yields zero counts and a 0.0 average, not an error.
func Summarize(items []models.NewsItem) models.SentimentSummary {
	summary := models.SentimentSummary{Count: len(items)}
	if len(items) == 0 {
		return summary
	}

	sum := 0.0
	for _, item := range items {
		sum += item.Sentiment.Polarity
		switch item.Sentiment.Label {
		case models.SentimentPositive:
			summary.Positive++
		case models.SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	summary.AvgPolarity = models.Round(sum/float64(len(items)), 4)
	return summary
}

// tokenize lowercases the text and splits it into word tokens,
// stripping punctuation.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-'
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
