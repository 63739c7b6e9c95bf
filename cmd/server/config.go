package main

import (
	"fmt"
	"log/slog"

	"github.com/gradaid/gradaid-api/internal/config"
)

// loadAppConfig loads and validates the configuration. Secrets are only
// reported as present, never logged.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_model", cfg.LLM.ModelName,
		"credits_default_total", cfg.Credits.DefaultTotal,
		"credits_reset_schedule", cfg.Credits.ResetSchedule)
	slog.Debug("secrets configured",
		"database_url", cfg.Database.URL != "",
		"jwt_secret", cfg.Auth.JWTSecret != "",
		"admin_token_hash", cfg.Auth.AdminTokenHash != "",
		"gemini_api_key", cfg.LLM.GeminiAPIKey != "")

	return cfg, nil
}
