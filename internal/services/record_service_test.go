package services

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRecordTestDB(t *testing.T) (*gorm.DB, func()) {
	tmpFile, err := os.CreateTemp("", "record_test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()

	db, err := gorm.Open(sqlite.Open(tmpFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&models.Email{}, &models.Log{}); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("Failed to migrate: %v", err)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func newTestRecordService(db *gorm.DB) *RecordService {
	return NewRecordService(db, NewLogService(db))
}

func sampleResult(sender, subject string, priority models.Priority, sentiment models.Sentiment) *functions.TriageResult {
	return &functions.TriageResult{
		InboundMessage: functions.InboundMessage{
			Sender:   sender,
			Subject:  subject,
			Body:     "test body",
			SentDate: "2024-01-01T09:00:00Z",
		},
		Sentiment:     sentiment,
		Priority:      priority,
		ExtractedInfo: []string{"Request Type: General Support"},
		AIResponse:    "Dear customer, thank you.",
		Status:        models.StatusPending,
	}
}

func TestRecordInsert(t *testing.T) {
	db, cleanup := setupRecordTestDB(t)
	defer cleanup()

	service := newTestRecordService(db)

	result := sampleResult("a@example.com", "help me", models.PriorityUrgent, models.SentimentNegative)
	if err := service.Insert(result); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	var stored models.Email
	if err := db.First(&stored, "sender = ?", "a@example.com").Error; err != nil {
		t.Fatalf("record not found: %v", err)
	}

	if stored.Status != string(models.StatusPending) {
		t.Errorf("Status = %q, want pending", stored.Status)
	}
	if stored.Priority != string(models.PriorityUrgent) {
		t.Errorf("Priority = %q, want urgent", stored.Priority)
	}

	var info []string
	if err := json.Unmarshal([]byte(stored.ExtractedInfo), &info); err != nil {
		t.Fatalf("ExtractedInfo is not valid JSON: %v", err)
	}
	if len(info) != 1 || info[0] != "Request Type: General Support" {
		t.Errorf("ExtractedInfo = %v", info)
	}
}

func TestMarkSent(t *testing.T) {
	db, cleanup := setupRecordTestDB(t)
	defer cleanup()

	service := newTestRecordService(db)

	if err := service.Insert(sampleResult("a@example.com", "login trouble", models.PriorityNormal, models.SentimentNeutral)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := service.Insert(sampleResult("b@example.com", "other subject", models.PriorityNormal, models.SentimentNeutral)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	updated, err := service.MarkSent("a@example.com", "login trouble")
	if err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("MarkSent() updated = %d, want 1", updated)
	}

	var sent models.Email
	db.First(&sent, "sender = ?", "a@example.com")
	if sent.Status != string(models.StatusSent) {
		t.Errorf("Status = %q, want sent", sent.Status)
	}

	var untouched models.Email
	db.First(&untouched, "sender = ?", "b@example.com")
	if untouched.Status != string(models.StatusPending) {
		t.Errorf("unrelated record Status = %q, want pending", untouched.Status)
	}
}

func TestMarkSentNoMatch(t *testing.T) {
	db, cleanup := setupRecordTestDB(t)
	defer cleanup()

	service := newTestRecordService(db)

	updated, err := service.MarkSent("missing@example.com", "nothing")
	if err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	if updated != 0 {
		t.Errorf("MarkSent() updated = %d, want 0", updated)
	}
}

func TestBuildAnalytics(t *testing.T) {
	db, cleanup := setupRecordTestDB(t)
	defer cleanup()

	service := newTestRecordService(db)

	fixtures := []*functions.TriageResult{
		sampleResult("a@example.com", "s1", models.PriorityUrgent, models.SentimentNegative),
		sampleResult("b@example.com", "s2", models.PriorityNormal, models.SentimentPositive),
		sampleResult("c@example.com", "s3", models.PriorityNormal, models.SentimentNeutral),
	}
	for _, f := range fixtures {
		if err := service.Insert(f); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if _, err := service.MarkSent("b@example.com", "s2"); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}

	snapshot, err := service.BuildAnalytics()
	if err != nil {
		t.Fatalf("BuildAnalytics() error = %v", err)
	}

	if snapshot.SentimentDistribution.Negative != 1 ||
		snapshot.SentimentDistribution.Positive != 1 ||
		snapshot.SentimentDistribution.Neutral != 1 {
		t.Errorf("sentiment distribution = %+v", snapshot.SentimentDistribution)
	}
	if snapshot.PriorityDistribution.Urgent != 1 || snapshot.PriorityDistribution.Normal != 2 {
		t.Errorf("priority distribution = %+v", snapshot.PriorityDistribution)
	}
	if snapshot.StatusDistribution.Pending != 2 || snapshot.StatusDistribution.Sent != 1 {
		t.Errorf("status distribution = %+v", snapshot.StatusDistribution)
	}
}

func TestBuildAnalyticsEmpty(t *testing.T) {
	db, cleanup := setupRecordTestDB(t)
	defer cleanup()

	service := newTestRecordService(db)

	snapshot, err := service.BuildAnalytics()
	if err != nil {
		t.Fatalf("BuildAnalytics() error = %v", err)
	}
	if snapshot.SentimentDistribution != (SentimentDistribution{}) ||
		snapshot.PriorityDistribution != (PriorityDistribution{}) ||
		snapshot.StatusDistribution != (StatusDistribution{}) {
		t.Errorf("empty window snapshot = %+v", snapshot)
	}
}
