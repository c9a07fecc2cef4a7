package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
)

// TriageScheduler runs the fetch-and-triage cycle on a fixed interval
type TriageScheduler struct {
	mailService *MailService
	pipeline    *functions.Pipeline
	logService  *LogService
	interval    time.Duration
	lookback    int
	stopChan    chan struct{}
	running     bool
	mu          sync.Mutex
	triaging    sync.Mutex // prevents overlapping triage cycles
}

// NewTriageScheduler creates a new triage scheduler
func NewTriageScheduler(mailService *MailService, pipeline *functions.Pipeline, logService *LogService, interval time.Duration, lookbackDays int) *TriageScheduler {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return &TriageScheduler{
		mailService: mailService,
		pipeline:    pipeline,
		logService:  logService,
		interval:    interval,
		lookback:    lookbackDays,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the automatic triage process
func (s *TriageScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[TriageScheduler] Starting with interval: %v", s.interval)

	go func() {
		// Wait 10 seconds after startup before the first cycle so the
		// service is fully ready
		select {
		case <-time.After(10 * time.Second):
			log.Println("[TriageScheduler] Running first triage cycle...")
			s.runCycle()
		case <-s.stopChan:
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				log.Println("[TriageScheduler] Running scheduled triage cycle...")
				s.runCycle()
			case <-s.stopChan:
				log.Println("[TriageScheduler] Stopping")
				return
			}
		}
	}()
}

// Stop stops the automatic triage process
func (s *TriageScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopChan)
	s.running = false
}

// TryLock reserves the triage cycle for a manual run. Returns false when a
// cycle is already in flight.
func (s *TriageScheduler) TryLock() bool {
	return s.triaging.TryLock()
}

// Unlock releases a manually reserved cycle
func (s *TriageScheduler) Unlock() {
	s.triaging.Unlock()
}

// runCycle fetches the lookback window and triages it, with retry on fetch
func (s *TriageScheduler) runCycle() {
	// Skip this cycle if the previous one has not finished yet
	if !s.triaging.TryLock() {
		log.Println("[TriageScheduler] Previous cycle still running, skipping")
		return
	}
	defer s.triaging.Unlock()

	messages, err := s.fetchWithRetry()
	if err != nil {
		log.Printf("[TriageScheduler] Fetch failed, skipping cycle: %v", err)
		return
	}

	if len(messages) == 0 {
		log.Println("[TriageScheduler] No messages in lookback window")
		return
	}

	results := s.pipeline.Process(context.Background(), messages)
	log.Printf("[TriageScheduler] Cycle completed: %d fetched, %d triaged", len(messages), len(results))

	s.logService.LogInfo(models.LogModuleSchedule, "auto_triage", "Scheduled triage completed", map[string]interface{}{
		"fetched": len(messages),
		"triaged": len(results),
	})
}

// fetchWithRetry fetches the lookback window with exponential backoff
func (s *TriageScheduler) fetchWithRetry() ([]functions.InboundMessage, error) {
	const maxRetries = 2
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[TriageScheduler] Fetch retry %d/%d after %v", attempt, maxRetries, backoff)

			select {
			case <-time.After(backoff):
			case <-s.stopChan:
				return nil, lastErr
			}
		}

		messages, err := s.mailService.FetchSince(s.lookback)
		if err == nil {
			return messages, nil
		}
		lastErr = err
		log.Printf("[TriageScheduler] Fetch attempt %d failed: %v", attempt+1, err)
	}

	s.logService.LogWarn(models.LogModuleSchedule, "auto_triage", "Scheduled fetch failed", map[string]interface{}{
		"error":   lastErr.Error(),
		"retries": maxRetries,
	})
	return nil, lastErr
}
