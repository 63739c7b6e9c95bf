package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. GRADAID_SERVER_PORT.
const EnvPrefix = "GRADAID"

var defaults = map[string]any{
	"server.port":                8080,
	"server.log_level":           "info",
	"server.read_timeout":        "15s",
	"server.write_timeout":       "60s",
	"server.shutdown_timeout":    "10s",
	"database.url":               "",
	"database.max_open_conns":    25,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "5m",
	"auth.jwt_secret":            "",
	"auth.token_lifetime":        "24h",
	"auth.admin_token_hash":      "",
	"llm.gemini_api_key":         "",
	"llm.model_name":             "gemini-2.0-flash",
	"llm.max_retries":            3,
	"llm.retry_delay_seconds":    2,
	"credits.default_total":      500,
	"credits.reset_window":       "720h",
	"credits.reset_schedule":     "@hourly",
	"credits.reset_batch_size":   200,
	"credits.reset_workers":      2,
	"credits.generation_cost":    10,
}

// Load configuration from defaults, an optional config.yaml in the working
// directory, and environment variables. Environment variables take precedence
// over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile loads configuration from the given file, then applies environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Every key needs a default so AutomaticEnv can bind it during Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
