package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables take precedence over values from the
// config file, which takes precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("opus.base_url", "https://operator.opus.com")
	v.SetDefault("opus.poll_interval_seconds", 5)
	v.SetDefault("opus.max_wait_seconds", 300)

	// Empty defaults register the remaining keys with viper so that
	// Unmarshal sees their environment values; validation below still
	// rejects the empty string.
	v.SetDefault("database.url", "")
	v.SetDefault("opus.service_key", "")
	v.SetDefault("opus.generation_workflow_id", "")
	v.SetDefault("opus.grading_workflow_id", "")

	// Optional config file: ./config.yaml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine; env vars and defaults apply.
	}

	// Environment variables: MINDCRAFTR_SERVER_PORT, MINDCRAFTR_OPUS_SERVICE_KEY, ...
	v.SetEnvPrefix("MINDCRAFTR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
