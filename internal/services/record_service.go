package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
	"gorm.io/gorm"
)

var (
	// ErrRecordInsertFailed indicates a triage record could not be saved
	ErrRecordInsertFailed = errors.New("triage record insert failed")
)

// AnalyticsWindowDays is the trailing window for analytics snapshots
const AnalyticsWindowDays = 7

// RecordService handles durable storage of triage results
type RecordService struct {
	db         *gorm.DB
	logService *LogService
}

// NewRecordService creates a new RecordService instance
func NewRecordService(db *gorm.DB, logService *LogService) *RecordService {
	return &RecordService{
		db:         db,
		logService: logService,
	}
}

// Insert persists one triage result as a pending record
func (s *RecordService) Insert(result *functions.TriageResult) error {
	infoJSON, err := json.Marshal(result.ExtractedInfo)
	if err != nil {
		infoJSON = []byte("[]")
	}

	record := &models.Email{
		Sender:        result.Sender,
		Subject:       result.Subject,
		Body:          result.Body,
		SentDate:      result.SentDate,
		Sentiment:     string(result.Sentiment),
		Priority:      string(result.Priority),
		ExtractedInfo: string(infoJSON),
		AIResponse:    result.AIResponse,
		Status:        string(models.StatusPending),
	}

	if err := s.db.Create(record).Error; err != nil {
		s.logService.LogError(models.LogModuleRecords, "insert", "Failed to save triage record", map[string]interface{}{
			"sender":  result.Sender,
			"subject": result.Subject,
			"error":   err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrRecordInsertFailed, err)
	}

	return nil
}

// MarkSent flips matching pending records to sent after a confirmed reply.
// The reply recipient is matched against the stored sender column.
func (s *RecordService) MarkSent(sender, subject string) (int64, error) {
	result := s.db.Model(&models.Email{}).
		Where("sender = ? AND subject = ?", sender, subject).
		Update("status", string(models.StatusSent))
	if result.Error != nil {
		return 0, result.Error
	}

	s.logService.LogInfo(models.LogModuleRecords, "mark_sent", "Records marked as sent", map[string]interface{}{
		"sender":  sender,
		"subject": subject,
		"updated": result.RowsAffected,
	})

	return result.RowsAffected, nil
}

// QuerySince returns records created within the trailing number of days
func (s *RecordService) QuerySince(days int) ([]models.Email, error) {
	since := time.Now().AddDate(0, 0, -days)
	var records []models.Email
	if err := s.db.Where("created_at >= ?", since).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SentimentDistribution counts records per sentiment
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// PriorityDistribution counts records per priority
type PriorityDistribution struct {
	Urgent int `json:"urgent"`
	Normal int `json:"normal"`
}

// StatusDistribution counts records per reply status
type StatusDistribution struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
}

// AnalyticsSnapshot aggregates the trailing analytics window
type AnalyticsSnapshot struct {
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	PriorityDistribution  PriorityDistribution  `json:"priority_distribution"`
	StatusDistribution    StatusDistribution    `json:"status_distribution"`
}

// BuildAnalytics aggregates stored records over the trailing window
func (s *RecordService) BuildAnalytics() (*AnalyticsSnapshot, error) {
	records, err := s.QuerySince(AnalyticsWindowDays)
	if err != nil {
		return nil, err
	}

	snapshot := &AnalyticsSnapshot{}
	for _, record := range records {
		switch models.Sentiment(record.Sentiment) {
		case models.SentimentPositive:
			snapshot.SentimentDistribution.Positive++
		case models.SentimentNegative:
			snapshot.SentimentDistribution.Negative++
		case models.SentimentNeutral:
			snapshot.SentimentDistribution.Neutral++
		}

		switch models.Priority(record.Priority) {
		case models.PriorityUrgent:
			snapshot.PriorityDistribution.Urgent++
		case models.PriorityNormal:
			snapshot.PriorityDistribution.Normal++
		}

		switch models.Status(record.Status) {
		case models.StatusPending:
			snapshot.StatusDistribution.Pending++
		case models.StatusSent:
			snapshot.StatusDistribution.Sent++
		}
	}

	return snapshot, nil
}
