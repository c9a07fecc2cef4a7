package local

import (
	"strings"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
)

// Sentiment word lists for keyword-based classification
var (
	positiveWords = []string{
		"good", "great", "excellent", "happy", "satisfied", "love", "amazing",
	}

	negativeWords = []string{
		"bad", "terrible", "frustrated", "angry", "disappointed",
		"problem", "issue", "cannot", "unable",
	}
)

// ClassifySentiment determines sentiment from fixed word lists.
// A list word counts once when present anywhere in the text; the larger
// count wins and ties (including zero matches) are neutral.
func ClassifySentiment(text string) models.Sentiment {
	textLower := strings.ToLower(text)

	positiveCount := countKeywordMatches(textLower, positiveWords)
	negativeCount := countKeywordMatches(textLower, negativeWords)

	switch {
	case negativeCount > positiveCount:
		return models.SentimentNegative
	case positiveCount > negativeCount:
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}

// SentimentCounts returns the raw positive/negative match counts
func SentimentCounts(text string) (positive, negative int) {
	textLower := strings.ToLower(text)
	return countKeywordMatches(textLower, positiveWords), countKeywordMatches(textLower, negativeWords)
}

// countKeywordMatches counts how many keywords appear in the text
func countKeywordMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
