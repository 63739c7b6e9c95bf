package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Credits  CreditsConfig  `mapstructure:"credits" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
	// AdminTokenHash is the bcrypt hash of the token accepted on /internal routes.
	AdminTokenHash string `mapstructure:"admin_token_hash" validate:"required"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// MaxRetries bounds retries of transient Gemini failures.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// CreditsConfig contains the AI credit ledger settings.
type CreditsConfig struct {
	// DefaultTotal is the balance given to new and reset accounts.
	DefaultTotal int `mapstructure:"default_total" validate:"gt=0"`
	// ResetWindow is how far after a reset (or account creation) the next reset falls.
	ResetWindow time.Duration `mapstructure:"reset_window" validate:"gt=0"`
	// ResetSchedule is the cron spec on which due accounts are reset.
	ResetSchedule string `mapstructure:"reset_schedule" validate:"required"`
	// ResetBatchSize caps how many due accounts one sweep resets.
	ResetBatchSize int `mapstructure:"reset_batch_size" validate:"gt=0"`
	// ResetWorkers is the number of concurrent resets per sweep.
	ResetWorkers int `mapstructure:"reset_workers" validate:"gt=0,lte=32"`
	// GenerationCost is the number of credits debited per generated document.
	GenerationCost int `mapstructure:"generation_cost" validate:"gt=0"`
}
