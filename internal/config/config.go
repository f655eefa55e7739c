package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Opus     OpusConfig     `mapstructure:"opus"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// OpusConfig contains settings for the Opus workflow service client.
// GenerationWorkflowID and GradingWorkflowID identify the two workflows
// this application uses; PollIntervalSeconds and MaxWaitSeconds bound the
// synchronous polling loop.
type OpusConfig struct {
	BaseURL              string `mapstructure:"base_url"               validate:"required,url"`
	ServiceKey           string `mapstructure:"service_key"            validate:"required"`
	GenerationWorkflowID string `mapstructure:"generation_workflow_id" validate:"required"`
	GradingWorkflowID    string `mapstructure:"grading_workflow_id"    validate:"required"`
	PollIntervalSeconds  int    `mapstructure:"poll_interval_seconds"  validate:"gte=1"`
	MaxWaitSeconds       int    `mapstructure:"max_wait_seconds"       validate:"gte=1"`
}
