package local

import (
	"strings"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
)

// Urgent priority keywords
var urgentKeywords = []string{
	"urgent", "critical", "immediate", "emergency", "asap",
	"cannot access", "down", "blocked", "failed", "error",
}

// ClassifyPriority determines email priority from the urgent keyword set.
// Any match over the combined subject and body makes the email urgent;
// otherwise it is normal. Deterministic, no external call.
func ClassifyPriority(subject, body string) models.Priority {
	text := strings.ToLower(subject + " " + body)
	for _, keyword := range urgentKeywords {
		if strings.Contains(text, keyword) {
			return models.PriorityUrgent
		}
	}
	return models.PriorityNormal
}

// IsSupportRelevant reports whether the combined subject and body contains
// at least one of the configured support keywords
func IsSupportRelevant(subject, body string, keywords []string) bool {
	text := strings.ToLower(subject + " " + body)
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
