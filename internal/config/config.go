package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the application configuration
type Config struct {
	DatabasePath string `json:"database_path"`
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	CORSOrigins  string `json:"cors_origins"` // comma separated, * for all

	JWTSecret        string `json:"jwt_secret"`
	OperatorPassword string `json:"operator_password"` // empty disables the send-response JWT gate

	// Mail transport
	IMAPHost  string `json:"imap_host"`
	IMAPPort  int    `json:"imap_port"`
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	EmailUser string `json:"email_user"`
	EmailPass string `json:"email_pass"`

	// Generative text service
	AIProvider string `json:"ai_provider"`
	AIAPIKey   string `json:"ai_api_key"`
	AIModel    string `json:"ai_model"`
	AIBaseURL  string `json:"ai_base_url"`

	// Triage behaviour
	SupportKeywords       []string `json:"support_keywords"`
	MaxConcurrent         int      `json:"max_concurrent"`
	CallTimeoutSeconds    int      `json:"call_timeout_seconds"`
	TriageIntervalMinutes int      `json:"triage_interval_minutes"` // 0 disables the scheduler
	TriageLookbackDays    int      `json:"triage_lookback_days"`
}

// Default configuration values
const (
	DefaultDatabasePath       = "data/assistant.db"
	DefaultAPIPort            = "8080"
	DefaultLogLevel           = "INFO"
	DefaultDataDir            = "data"
	DefaultCORSOrigins        = "*"
	DefaultJWTSecret          = "assistant-default-secret-change-in-production"
	DefaultIMAPHost           = "imap.gmail.com"
	DefaultIMAPPort           = 993
	DefaultSMTPHost           = "smtp.gmail.com"
	DefaultSMTPPort           = 587
	DefaultAIProvider         = "openai"
	DefaultMaxConcurrent      = 4
	DefaultCallTimeoutSeconds = 20
	DefaultTriageLookbackDays = 1
)

// DefaultSupportKeywords returns the default support-relevance keyword set
func DefaultSupportKeywords() []string {
	return []string{"support", "query", "request", "help", "issue", "problem"}
}

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:       DefaultDatabasePath,
		APIPort:            DefaultAPIPort,
		LogLevel:           DefaultLogLevel,
		DataDir:            DefaultDataDir,
		CORSOrigins:        DefaultCORSOrigins,
		JWTSecret:          DefaultJWTSecret,
		IMAPHost:           DefaultIMAPHost,
		IMAPPort:           DefaultIMAPPort,
		SMTPHost:           DefaultSMTPHost,
		SMTPPort:           DefaultSMTPPort,
		AIProvider:         DefaultAIProvider,
		SupportKeywords:    DefaultSupportKeywords(),
		MaxConcurrent:      DefaultMaxConcurrent,
		CallTimeoutSeconds: DefaultCallTimeoutSeconds,
		TriageLookbackDays: DefaultTriageLookbackDays,
	}

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil {
		return nil, err
	}

	// Override with environment variables
	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	// Look for config file in current directory and data directory
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("ASSISTANT_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("ASSISTANT_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("ASSISTANT_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("ASSISTANT_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("ASSISTANT_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = val
	}
	if val := os.Getenv("ASSISTANT_JWT_SECRET"); val != "" {
		c.JWTSecret = val
	}
	if val := os.Getenv("ASSISTANT_OPERATOR_PASSWORD"); val != "" {
		c.OperatorPassword = val
	}
	if val := os.Getenv("ASSISTANT_IMAP_HOST"); val != "" {
		c.IMAPHost = val
	}
	if val := os.Getenv("ASSISTANT_IMAP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.IMAPPort = port
		}
	}
	if val := os.Getenv("ASSISTANT_SMTP_HOST"); val != "" {
		c.SMTPHost = val
	}
	if val := os.Getenv("ASSISTANT_SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = port
		}
	}
	if val := os.Getenv("EMAIL_USER"); val != "" {
		c.EmailUser = val
	}
	if val := os.Getenv("EMAIL_PASS"); val != "" {
		c.EmailPass = val
	}
	if val := os.Getenv("ASSISTANT_AI_PROVIDER"); val != "" {
		c.AIProvider = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.AIAPIKey = val
	}
	if val := os.Getenv("ASSISTANT_AI_API_KEY"); val != "" {
		c.AIAPIKey = val
	}
	if val := os.Getenv("ASSISTANT_AI_MODEL"); val != "" {
		c.AIModel = val
	}
	if val := os.Getenv("ASSISTANT_AI_BASE_URL"); val != "" {
		c.AIBaseURL = val
	}
	if val := os.Getenv("ASSISTANT_SUPPORT_KEYWORDS"); val != "" {
		var keywords []string
		for _, kw := range strings.Split(val, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) > 0 {
			c.SupportKeywords = keywords
		}
	}
	if val := os.Getenv("ASSISTANT_MAX_CONCURRENT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.MaxConcurrent = n
		}
	}
	if val := os.Getenv("ASSISTANT_CALL_TIMEOUT_SECONDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.CallTimeoutSeconds = n
		}
	}
	if val := os.Getenv("ASSISTANT_TRIAGE_INTERVAL_MINUTES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.TriageIntervalMinutes = n
		}
	}
	if val := os.Getenv("ASSISTANT_TRIAGE_LOOKBACK_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.TriageLookbackDays = n
		}
	}
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
