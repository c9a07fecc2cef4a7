package local

import (
	"fmt"
	"strings"
	"time"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
)

// CaseNumberPrefix is prepended to the timestamp of every generated case number
const CaseNumberPrefix = "CS"

// CaseNumber builds a case identifier with second precision, e.g. CS20240115093042
func CaseNumber(now time.Time) string {
	return CaseNumberPrefix + now.Format("20060102150405")
}

// DisplayName derives a greeting name from a sender address: the part
// before the first "@" with angle brackets stripped
func DisplayName(sender string) string {
	name := sender
	if idx := strings.Index(name, "@"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, "<", "")
	name = strings.ReplaceAll(name, ">", "")
	return name
}

// FallbackResponse generates a deterministic templated reply, used when the
// generative drafting call fails for any reason
func FallbackResponse(sender string, sentiment models.Sentiment, priority models.Priority, now time.Time) string {
	senderName := DisplayName(sender)
	caseNumber := CaseNumber(now)

	if priority == models.PriorityUrgent && sentiment == models.SentimentNegative {
		return fmt.Sprintf(`Dear %s,

Thank you for reaching out, and I sincerely apologize for the inconvenience you're experiencing. I understand how critical this situation is for you.

I've escalated your case as urgent and our priority support team is now handling your request. We're treating this as a high-priority issue and will work to resolve it as quickly as possible.

You can expect an update within the next 2 hours with a resolution or detailed action plan.

Case Number: %s

Best regards,
AI Support Assistant`, senderName, caseNumber)
	}

	timeline := "24 hours"
	urgencyClause := ""
	if priority == models.PriorityUrgent {
		timeline = "2 hours"
		urgencyClause = "Given the urgent nature of your request, "
	}

	return fmt.Sprintf(`Dear %s,

Thank you for contacting our support team. I've received your inquiry and our team is reviewing your request.

%sWe'll provide you with a comprehensive response within %s.

Case Number: %s

Best regards,
AI Support Assistant`, senderName, urgencyClause, timeline, caseNumber)
}
