package cli

import (
	"fmt"
	"os"

	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/api/middleware"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/config"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	cfg           *config.Config
	apiKeyManager *middleware.APIKeyManager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "communication-assistant",
	Short: "AI-powered support email triage service",
	Long: `AI-powered communication assistant for support mailboxes.

The command line tool provides:
  - Triage: fetch and triage the support mailbox once
  - Analytics: print the trailing-window analytics snapshot
  - Key management: show and reset the API key

Examples:
  communication-assistant process --days 3   # triage the last 3 days
  communication-assistant analytics          # print analytics snapshot
  communication-assistant key show           # show current API key
  communication-assistant key reset          # reset the API key`,
}

// Execute runs the CLI with the provided database and config
func Execute(database *gorm.DB, config *config.Config) {
	db = database
	cfg = config

	var err error
	apiKeyManager, err = middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize API key manager: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(analyticsCmd)
}
