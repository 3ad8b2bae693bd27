// Package config loads application configuration from environment variables.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/planandbill.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error

	Push  PushConfig
	Email EmailConfig
}

// PushConfig configures the push delivery collaborator.
type PushConfig struct {
	URL       string `envconfig:"PUSH_API_URL" default:"https://fcm.googleapis.com/fcm/send"`
	ServerKey string `envconfig:"PUSH_SERVER_KEY"`
}

// EmailConfig configures the email delivery collaborator.
// Credentials are sourced here explicitly rather than read from the
// environment at send time.
type EmailConfig struct {
	URL    string `envconfig:"EMAIL_API_URL"`
	APIKey string `envconfig:"EMAIL_API_KEY"`
	From   string `envconfig:"EMAIL_FROM" default:"PlanAndBill <noreply@planandbill.com>"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
