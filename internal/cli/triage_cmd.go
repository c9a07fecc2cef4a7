package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions/ai"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/services"
	"github.com/spf13/cobra"
)

var processDays int

// processCmd fetches and triages the support mailbox once
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Fetch and triage the support mailbox once",
	Long:  `Fetch messages from the configured mailbox for the lookback window, run them through the triage pipeline and persist the results.`,
	Run: func(cmd *cobra.Command, args []string) {
		if processDays < 1 || processDays > 30 {
			fmt.Fprintln(os.Stderr, "Error: --days must be between 1 and 30")
			os.Exit(1)
		}

		logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
		recordService := services.NewRecordService(db, logService)
		mailService := services.NewMailService(cfg, logService)

		aiClient := ai.NewClient(ai.Config{
			Provider: cfg.AIProvider,
			APIKey:   cfg.AIAPIKey,
			Model:    cfg.AIModel,
			BaseURL:  cfg.AIBaseURL,
		})

		pipeline := functions.NewPipeline(aiClient, recordService, functions.PipelineConfig{
			SupportKeywords: cfg.SupportKeywords,
			MaxConcurrent:   cfg.MaxConcurrent,
			CallTimeout:     time.Duration(cfg.CallTimeoutSeconds) * time.Second,
		})

		fmt.Printf("Fetching messages from the last %d day(s)...\n", processDays)
		messages, err := mailService.FetchSince(processDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: mailbox fetch failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Fetched %d message(s), triaging...\n", len(messages))
		results := pipeline.Process(context.Background(), messages)

		fmt.Printf("Triaged %d support email(s):\n", len(results))
		for _, r := range results {
			fmt.Printf("  [%s/%s] %s — %s\n", r.Priority, r.Sentiment, r.Sender, r.Subject)
		}
	},
}

// analyticsCmd prints the trailing-window analytics snapshot
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the trailing-window analytics snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
		recordService := services.NewRecordService(db, logService)

		snapshot, err := recordService.BuildAnalytics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to build analytics: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Analytics (last %d days):\n", services.AnalyticsWindowDays)
		fmt.Println("  Sentiment:")
		fmt.Printf("    positive: %d\n", snapshot.SentimentDistribution.Positive)
		fmt.Printf("    negative: %d\n", snapshot.SentimentDistribution.Negative)
		fmt.Printf("    neutral:  %d\n", snapshot.SentimentDistribution.Neutral)
		fmt.Println("  Priority:")
		fmt.Printf("    urgent: %d\n", snapshot.PriorityDistribution.Urgent)
		fmt.Printf("    normal: %d\n", snapshot.PriorityDistribution.Normal)
		fmt.Println("  Status:")
		fmt.Printf("    pending: %d\n", snapshot.StatusDistribution.Pending)
		fmt.Printf("    sent:    %d\n", snapshot.StatusDistribution.Sent)
	},
}

func init() {
	processCmd.Flags().IntVar(&processDays, "days", 1, "lookback window in days (1-30)")
}
