package functions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions/local"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/metrics"
)

// InboundMessage represents a raw email handed over by the mail gateway
type InboundMessage struct {
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	SentDate string `json:"sent_date"`
}

// TriageResult represents a fully triaged email
type TriageResult struct {
	InboundMessage
	Sentiment     models.Sentiment `json:"sentiment"`
	Priority      models.Priority  `json:"priority"`
	ExtractedInfo []string         `json:"extracted_info"`
	AIResponse    string           `json:"ai_response"`
	Status        models.Status    `json:"status"`
}

// GenerativeText is the external classification/drafting capability.
// Both calls may fail or time out; the pipeline recovers locally.
type GenerativeText interface {
	Classify(ctx context.Context, text string, labels []string) (string, error)
	Complete(ctx context.Context, instruction string) (string, error)
}

// RecordStore persists triage results
type RecordStore interface {
	Insert(result *TriageResult) error
}

// PipelineConfig holds the configuration for the triage pipeline
type PipelineConfig struct {
	SupportKeywords []string
	MaxConcurrent   int
	CallTimeout     time.Duration
}

// Default pipeline limits
const (
	DefaultMaxConcurrent = 4
	DefaultCallTimeout   = 20 * time.Second
)

var sentimentLabels = []string{
	string(models.SentimentPositive),
	string(models.SentimentNegative),
	string(models.SentimentNeutral),
}

// Pipeline orchestrates classification, extraction, drafting and
// persistence over a batch of inbound messages
type Pipeline struct {
	gen   GenerativeText
	store RecordStore
	cfg   PipelineConfig
	now   func() time.Time
}

// NewPipeline creates a new Pipeline instance
func NewPipeline(gen GenerativeText, store RecordStore, cfg PipelineConfig) *Pipeline {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Pipeline{
		gen:   gen,
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Process triages a batch of inbound messages. Non-support messages are
// dropped, each remaining message is classified, mined for structured info
// and answered, every result is persisted, and the batch is returned with
// urgent messages first, ordered by sent date within each tier.
func (p *Pipeline) Process(ctx context.Context, messages []InboundMessage) []TriageResult {
	relevant := make([]InboundMessage, 0, len(messages))
	for _, msg := range messages {
		if local.IsSupportRelevant(msg.Subject, msg.Body, p.cfg.SupportKeywords) {
			relevant = append(relevant, msg)
		} else {
			metrics.EmailsFiltered.Inc()
		}
	}

	if len(relevant) == 0 {
		return []TriageResult{}
	}

	// Each message is an independent unit; run them through a bounded
	// worker pool and keep results index-aligned with the fetch order.
	results := make([]TriageResult, len(relevant))
	sem := make(chan struct{}, p.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, msg := range relevant {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, msg InboundMessage) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.triageOne(ctx, msg)
		}(i, msg)
	}
	wg.Wait()

	// Serialize persistence behind a single writer; a failed insert must
	// not take down the rest of the batch.
	for i := range results {
		if err := p.store.Insert(&results[i]); err != nil {
			metrics.RecordWriteFailures.Inc()
		}
	}

	// Two-key sort: urgent tier first, then ascending sent date compared
	// as a raw string. SliceStable keeps fetch order as the tie-break.
	sort.SliceStable(results, func(a, b int) bool {
		aUrgent := results[a].Priority == models.PriorityUrgent
		bUrgent := results[b].Priority == models.PriorityUrgent
		if aUrgent != bUrgent {
			return aUrgent
		}
		return results[a].SentDate < results[b].SentDate
	})

	return results
}

// triageOne runs the full classify-extract-draft sequence for one message
func (p *Pipeline) triageOne(ctx context.Context, msg InboundMessage) TriageResult {
	sentiment := p.classifySentiment(ctx, msg.Subject+" "+msg.Body)
	priority := local.ClassifyPriority(msg.Subject, msg.Body)
	info := local.Extract(msg.Subject, msg.Body)
	response := p.draftResponse(ctx, msg, sentiment, priority)

	metrics.IncrementTriaged(string(sentiment), string(priority))

	return TriageResult{
		InboundMessage: msg,
		Sentiment:      sentiment,
		Priority:       priority,
		ExtractedInfo:  info,
		AIResponse:     response,
		Status:         models.StatusPending,
	}
}

// classifySentiment asks the generative service for a label and falls back
// to the keyword classifier on any failure or unrecognized answer
func (p *Pipeline) classifySentiment(ctx context.Context, text string) models.Sentiment {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	label, err := p.gen.Classify(callCtx, text, sentimentLabels)
	metrics.RecordAICall("classify", err, time.Since(start))
	if err == nil {
		return models.Sentiment(label)
	}

	metrics.IncrementFallback("sentiment")
	return local.ClassifySentiment(text)
}

// draftResponse asks the generative service for a reply and falls back to
// the deterministic template on any failure
func (p *Pipeline) draftResponse(ctx context.Context, msg InboundMessage, sentiment models.Sentiment, priority models.Priority) string {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout)
	defer cancel()

	start := time.Now()
	response, err := p.gen.Complete(callCtx, buildDraftInstruction(msg, sentiment, priority))
	metrics.RecordAICall("complete", err, time.Since(start))
	if err == nil && response != "" {
		return response
	}

	metrics.IncrementFallback("draft")
	return local.FallbackResponse(msg.Sender, sentiment, priority, p.now())
}

// buildDraftInstruction builds the drafting instruction for one message
func buildDraftInstruction(msg InboundMessage, sentiment models.Sentiment, priority models.Priority) string {
	return fmt.Sprintf(`Generate a professional customer support email response for the following:

Customer Email:
From: %s
Subject: %s
Content: %s

Context:
- Sentiment: %s
- Priority: %s

Guidelines:
- Be professional and empathetic
- Address the customer's concern directly
- If sentiment is negative, acknowledge frustration
- If priority is urgent, emphasize immediate action
- Include next steps and timeline
- Add a case number

Generate only the email response:`,
		msg.Sender, msg.Subject, msg.Body, sentiment, priority)
}
