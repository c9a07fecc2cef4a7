package models

import (
	"time"
)

// Email represents a triaged support email
type Email struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Sender        string    `gorm:"size:255;index" json:"sender"`
	Subject       string    `gorm:"size:500;index" json:"subject"`
	Body          string    `gorm:"type:text" json:"body"`
	SentDate      string    `gorm:"size:100" json:"sent_date"`
	Sentiment     string    `gorm:"size:20" json:"sentiment"` // positive, negative, neutral
	Priority      string    `gorm:"size:20" json:"priority"`  // urgent, normal
	ExtractedInfo string    `gorm:"type:text" json:"extracted_info"` // JSON array stored as string
	AIResponse    string    `gorm:"type:text" json:"ai_response"`
	Status        string    `gorm:"size:20;default:'pending'" json:"status"` // pending, sent
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

// Sentiment represents the sentiment of an email
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// IsValid checks if the sentiment is valid
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Priority represents the priority of an email
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
)

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityNormal:
		return true
	}
	return false
}

// Status represents the reply status of an email
type Status string

const (
	// StatusPending indicates no reply has been sent yet
	StatusPending Status = "pending"
	// StatusSent indicates a reply was sent successfully
	StatusSent Status = "sent"
)
