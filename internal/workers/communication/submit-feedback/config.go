package submitfeedback

import (
	"fmt"
	"time"

	"sme-predictor/internal/common/config"
)

const FeedbackPath = "/feedback"

type Config struct {
	LocalURL         string
	DeployedURL      string
	HealthPath       string
	HealthTimeout    time.Duration
	RequestTimeout   time.Duration
	MaxMessageLength int
}

func DefaultConfig() *Config {
	return &Config{
		LocalURL:         config.DefaultLocalURL,
		DeployedURL:      config.DefaultDeployedURL,
		HealthPath:       "/health",
		HealthTimeout:    time.Second,
		RequestTimeout:   15 * time.Second,
		MaxMessageLength: 1000,
	}
}

func createConfigFromAppConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if appConfig.API.LocalURL != "" {
		cfg.LocalURL = appConfig.API.LocalURL
	}
	if appConfig.API.DeployedURL != "" {
		cfg.DeployedURL = appConfig.API.DeployedURL
	}
	if appConfig.API.HealthTimeout > 0 {
		cfg.HealthTimeout = config.GetDuration(appConfig.API.HealthTimeout)
	}

	fb := appConfig.Feedback
	if fb.HealthPath != "" {
		cfg.HealthPath = fb.HealthPath
	}
	if fb.RequestTimeout > 0 {
		cfg.RequestTimeout = config.GetDuration(fb.RequestTimeout)
	}
	if fb.MaxMessageLength > 0 {
		cfg.MaxMessageLength = fb.MaxMessageLength
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.LocalURL == "" || c.DeployedURL == "" {
		return fmt.Errorf("local and deployed URLs are required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max message length must be positive")
	}
	return nil
}
