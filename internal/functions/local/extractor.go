package local

import (
	"regexp"
	"strings"
)

// Extraction patterns
var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// requestCategories is the ordered category table; the first entry whose
// keyword matches wins, so precedence is positional.
var requestCategories = []struct {
	keywords []string
	label    string
}{
	{[]string{"billing", "payment"}, "Billing Issue"},
	{[]string{"login", "account"}, "Account Access"},
	{[]string{"integration", "api"}, "Technical Integration"},
	{[]string{"refund"}, "Refund Request"},
	{[]string{"pricing"}, "Pricing Inquiry"},
}

// GeneralSupportCategory is the catch-all request type
const GeneralSupportCategory = "General Support"

// Extract pulls structured signals from the combined subject and body.
// The returned lines preserve first-seen match order and always end with
// exactly one "Request Type:" entry, so the result is never empty.
func Extract(subject, body string) []string {
	var info []string
	text := subject + " " + body

	if emails := emailPattern.FindAllString(text, -1); len(emails) > 0 {
		info = append(info, "Contact: "+strings.Join(emails, ", "))
	}

	if phones := phonePattern.FindAllString(text, -1); len(phones) > 0 {
		info = append(info, "Phone: "+strings.Join(phones, ", "))
	}

	info = append(info, "Request Type: "+CategorizeRequest(text))

	return info
}

// CategorizeRequest resolves the request category by fixed precedence
func CategorizeRequest(text string) string {
	textLower := strings.ToLower(text)
	for _, category := range requestCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(textLower, keyword) {
				return category.label
			}
		}
	}
	return GeneralSupportCategory
}
