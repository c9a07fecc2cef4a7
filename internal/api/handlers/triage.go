package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/metrics"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/services"
)

// MaxFetchDays caps the fetch lookback window
const MaxFetchDays = 30

// MailGateway fetches inbound messages and delivers replies
type MailGateway interface {
	FetchSince(days int) ([]functions.InboundMessage, error)
	Send(to, subject, body string) bool
}

// TriageRunner triages a batch of inbound messages
type TriageRunner interface {
	Process(ctx context.Context, messages []functions.InboundMessage) []functions.TriageResult
}

// RecordFinalizer flips stored records to sent after a confirmed reply
type RecordFinalizer interface {
	MarkSent(sender, subject string) (int64, error)
}

// TriageHandler handles email fetching, triage and reply delivery
type TriageHandler struct {
	mail       MailGateway
	runner     TriageRunner
	records    RecordFinalizer
	logService *services.LogService
}

// NewTriageHandler creates a new TriageHandler instance
func NewTriageHandler(mail MailGateway, runner TriageRunner, records RecordFinalizer, logService *services.LogService) *TriageHandler {
	return &TriageHandler{
		mail:       mail,
		runner:     runner,
		records:    records,
		logService: logService,
	}
}

// batchStats summarises one triaged batch
type batchStats struct {
	Total    int `json:"total"`
	Urgent   int `json:"urgent"`
	Normal   int `json:"normal"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func buildBatchStats(results []functions.TriageResult) batchStats {
	stats := batchStats{Total: len(results)}
	for _, r := range results {
		switch r.Priority {
		case models.PriorityUrgent:
			stats.Urgent++
		case models.PriorityNormal:
			stats.Normal++
		}
		switch r.Sentiment {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		case models.SentimentNeutral:
			stats.Neutral++
		}
	}
	return stats
}

// FetchEmails fetches the lookback window and runs it through the triage
// pipeline. A mailbox failure degrades to an empty batch rather than an
// error response.
// GET /api/fetch-emails?days=N
func (h *TriageHandler) FetchEmails(c *gin.Context) {
	days := 1
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > MaxFetchDays {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PARAMETER",
					"message": "days must be an integer between 1 and 30",
				},
			})
			return
		}
		days = parsed
	}

	messages, err := h.mail.FetchSince(days)
	if err != nil {
		h.logService.LogWarn(models.LogModuleAPI, "fetch_emails", "Mailbox fetch failed, returning empty batch", map[string]interface{}{
			"days":  days,
			"error": err.Error(),
		})
		messages = []functions.InboundMessage{}
	}

	results := h.runner.Process(c.Request.Context(), messages)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"emails": results,
			"stats":  buildBatchStats(results),
		},
	})
}

// SendResponseRequest represents a reply delivery request
type SendResponseRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Response  string `json:"response" binding:"required"`
}

// SendResponse delivers one reply and, on success, marks the matching
// stored records as sent
// POST /api/send-response
func (h *TriageHandler) SendResponse(c *gin.Context) {
	var req SendResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "recipient, subject and response are required",
			},
		})
		return
	}

	ok := h.mail.Send(req.Recipient, req.Subject, req.Response)
	metrics.IncrementReplySent(ok)

	if ok {
		if _, err := h.records.MarkSent(req.Recipient, req.Subject); err != nil {
			h.logService.LogWarn(models.LogModuleAPI, "send_response", "Reply sent but status update failed", map[string]interface{}{
				"recipient": req.Recipient,
				"subject":   req.Subject,
				"error":     err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": ok,
	})
}
