package local

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
)

func TestProperty_SentimentClassificationValidity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	// Generator for arbitrary email text
	textGen := gen.SliceOfN(100, gen.AlphaChar()).Map(func(chars []rune) string {
		return string(chars)
	})

	// Sentiment is always one of the three valid values
	properties.Property("sentiment_always_valid", prop.ForAll(
		func(text string) bool {
			sentiment := ClassifySentiment(text)
			return sentiment.IsValid()
		},
		textGen,
	))

	// Same input produces same output
	properties.Property("sentiment_deterministic", prop.ForAll(
		func(text string) bool {
			return ClassifySentiment(text) == ClassifySentiment(text)
		},
		textGen,
	))

	// Appending more negative than positive words always yields negative
	properties.Property("negative_majority_wins", prop.ForAll(
		func(text string) bool {
			loaded := text + " terrible frustrated angry disappointed unable"
			return ClassifySentiment(loaded) == models.SentimentNegative
		},
		// Keep the prefix free of sentiment words so the suffix dominates
		gen.SliceOfN(20, gen.NumChar()).Map(func(chars []rune) string {
			return string(chars)
		}),
	))

	// Classification ignores letter case
	properties.Property("sentiment_case_insensitive", prop.ForAll(
		func(text string) bool {
			upper := "GREAT EXCELLENT " + text
			lower := "great excellent " + text
			return ClassifySentiment(upper) == ClassifySentiment(lower)
		},
		gen.SliceOfN(20, gen.NumChar()).Map(func(chars []rune) string {
			return string(chars)
		}),
	))

	properties.TestingRun(t)
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Sentiment
	}{
		{
			name: "positive words only",
			text: "This product is great and I am happy with it",
			want: models.SentimentPositive,
		},
		{
			name: "negative words only",
			text: "I am frustrated and angry about this terrible experience",
			want: models.SentimentNegative,
		},
		{
			name: "no sentiment words",
			text: "Please update my shipping address for order 12345",
			want: models.SentimentNeutral,
		},
		{
			name: "equal counts tie to neutral",
			text: "The product is good but I have a problem",
			want: models.SentimentNeutral,
		},
		{
			name: "repeated word counts once",
			text: "problem problem problem but good great",
			want: models.SentimentPositive,
		},
		{
			name: "empty text",
			text: "",
			want: models.SentimentNeutral,
		},
		{
			name: "word matched as substring",
			text: "I am unhappy", // contains "happy"
			want: models.SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifySentiment(tt.text); got != tt.want {
				t.Errorf("ClassifySentiment(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentimentCounts(t *testing.T) {
	positive, negative := SentimentCounts("good great terrible")
	if positive != 2 {
		t.Errorf("positive count = %d, want 2", positive)
	}
	if negative != 1 {
		t.Errorf("negative count = %d, want 1", negative)
	}
}
