package refreshdashboard

import (
	"fmt"
	"strings"
	"time"

	"sme-predictor/internal/common/config"
)

type Config struct {
	BaseURL          string
	RefreshInterval  time.Duration
	RequestTimeout   time.Duration
	PredictionsLimit int
	RecentLimit      int
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:          config.DefaultDeployedURL,
		RefreshInterval:  60 * time.Second,
		RequestTimeout:   15 * time.Second,
		PredictionsLimit: 100,
		RecentLimit:      5,
	}
}

func createConfigFromAppConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	d := appConfig.Dashboard
	if d.BaseURL != "" {
		cfg.BaseURL = d.BaseURL
	}
	if d.RefreshInterval > 0 {
		cfg.RefreshInterval = config.GetDuration(d.RefreshInterval)
	}
	if d.RequestTimeout > 0 {
		cfg.RequestTimeout = config.GetDuration(d.RequestTimeout)
	}
	if d.PredictionsLimit > 0 {
		cfg.PredictionsLimit = d.PredictionsLimit
	}
	if d.RecentLimit > 0 {
		cfg.RecentLimit = d.RecentLimit
	}
	return cfg
}

func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		return fmt.Errorf("dashboard base URL is required")
	}
	if c.RefreshInterval <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("refresh interval and request timeout must be positive")
	}
	if c.PredictionsLimit <= 0 {
		return fmt.Errorf("predictions limit must be positive")
	}
	return nil
}
