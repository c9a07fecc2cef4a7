package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/api/handlers"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/api/middleware"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/config"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions/ai"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/services"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *middleware.APIKeyManager, error) {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(cfg.CORSOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	apiKeyManager, err := middleware.NewAPIKeyManager(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	jwtManager := middleware.NewJWTManager(cfg.JWTSecret, middleware.DefaultTokenExpiry)

	// Initialize services
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

	// Background triage when an interval is configured
	if cfg.TriageIntervalMinutes > 0 {
		scheduler := services.NewTriageScheduler(mailService, pipeline, logService,
			time.Duration(cfg.TriageIntervalMinutes)*time.Minute, cfg.TriageLookbackDays)
		scheduler.Start()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtManager, cfg.OperatorPassword)
	triageHandler := handlers.NewTriageHandler(mailService, pipeline, recordService, logService)
	analyticsHandler := handlers.NewAnalyticsHandler(recordService)

	// Health check endpoint (no auth required)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiGroup := router.Group("/api")
	{
		apiGroup.Use(middleware.APIKeyMiddleware(apiKeyManager))

		// Auth routes (API key required, but no JWT required)
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		apiGroup.GET("/fetch-emails", triageHandler.FetchEmails)
		apiGroup.GET("/analytics", analyticsHandler.Analytics)

		// Reply delivery is JWT-gated only when an operator password is set
		if cfg.OperatorPassword != "" {
			protected := apiGroup.Group("")
			protected.Use(middleware.JWTMiddleware(jwtManager))
			protected.POST("/send-response", triageHandler.SendResponse)
		} else {
			apiGroup.POST("/send-response", triageHandler.SendResponse)
		}
	}

	return router, apiKeyManager, nil
}

// corsOrigins splits the configured comma-separated origin list
func corsOrigins(raw string) []string {
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
