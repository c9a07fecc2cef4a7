package local

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
)

func TestProperty_PriorityClassification(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	// Digit-only prefixes cannot collide with any keyword
	prefixGen := gen.SliceOfN(30, gen.NumChar()).Map(func(chars []rune) string {
		return string(chars)
	})

	// Priority is always one of the two valid values
	properties.Property("priority_always_valid", prop.ForAll(
		func(subject, body string) bool {
			return ClassifyPriority(subject, body).IsValid()
		},
		prefixGen,
		prefixGen,
	))

	// An urgent keyword anywhere in the subject makes the email urgent
	properties.Property("urgent_keyword_in_subject", prop.ForAll(
		func(subject, body string) bool {
			return ClassifyPriority(subject+" asap", body) == models.PriorityUrgent
		},
		prefixGen,
		prefixGen,
	))

	// An urgent keyword anywhere in the body makes the email urgent
	properties.Property("urgent_keyword_in_body", prop.ForAll(
		func(subject, body string) bool {
			return ClassifyPriority(subject, body+" the system is DOWN") == models.PriorityUrgent
		},
		prefixGen,
		prefixGen,
	))

	// Keyword-free text is always normal
	properties.Property("no_keywords_normal", prop.ForAll(
		func(subject, body string) bool {
			return ClassifyPriority(subject, body) == models.PriorityNormal
		},
		prefixGen,
		prefixGen,
	))

	properties.TestingRun(t)
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    models.Priority
	}{
		{
			name:    "urgent keyword in subject",
			subject: "URGENT: server outage",
			body:    "please look into this",
			want:    models.PriorityUrgent,
		},
		{
			name:    "multi word phrase",
			subject: "Support request",
			body:    "I cannot access my dashboard since this morning",
			want:    models.PriorityUrgent,
		},
		{
			name:    "no urgent keywords",
			subject: "Question about pricing",
			body:    "What plans do you offer for small teams?",
			want:    models.PriorityNormal,
		},
		{
			name:    "empty email",
			subject: "",
			body:    "",
			want:    models.PriorityNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyPriority(tt.subject, tt.body); got != tt.want {
				t.Errorf("ClassifyPriority(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}

func TestIsSupportRelevant(t *testing.T) {
	keywords := []string{"support", "query", "request", "help", "issue", "problem"}

	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{"keyword in subject", "Support needed", "my account is locked", true},
		{"keyword in body", "Hello", "I have a query about my invoice", true},
		{"case insensitive", "HELP!", "", true},
		{"no keywords", "Team lunch on Friday", "See you at noon", false},
		{"empty email", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSupportRelevant(tt.subject, tt.body, keywords); got != tt.want {
				t.Errorf("IsSupportRelevant(%q, %q) = %v, want %v", tt.subject, tt.body, got, tt.want)
			}
		})
	}
}
