package submitprediction

import (
	"fmt"
	"time"

	"sme-predictor/internal/common/config"
	"sme-predictor/internal/models"
)

type Config struct {
	Variant         models.Variant
	Path            string
	LocalURL        string
	DeployedURL     string
	HealthPath      string
	HealthTimeout   time.Duration
	PrimaryTimeout  time.Duration
	FallbackTimeout time.Duration
}

// PathFor returns the prediction endpoint of a variant.
func PathFor(variant models.Variant) string {
	if variant == models.VariantExistingBusiness {
		return "/predict-existing-business"
	}
	return "/predict"
}

func DefaultConfig(variant models.Variant) *Config {
	return &Config{
		Variant:         variant,
		Path:            PathFor(variant),
		LocalURL:        config.DefaultLocalURL,
		DeployedURL:     config.DefaultDeployedURL,
		HealthPath:      "/docs",
		HealthTimeout:   time.Second,
		PrimaryTimeout:  15 * time.Second,
		FallbackTimeout: 30 * time.Second,
	}
}

func createConfigFromAppConfig(appConfig *config.Config, variant models.Variant) *Config {
	cfg := DefaultConfig(variant)
	if appConfig == nil {
		return cfg
	}

	api := appConfig.API
	if api.LocalURL != "" {
		cfg.LocalURL = api.LocalURL
	}
	if api.DeployedURL != "" {
		cfg.DeployedURL = api.DeployedURL
	}
	if api.HealthPath != "" {
		cfg.HealthPath = api.HealthPath
	}
	if api.HealthTimeout > 0 {
		cfg.HealthTimeout = config.GetDuration(api.HealthTimeout)
	}
	if api.RequestTimeout > 0 {
		cfg.PrimaryTimeout = config.GetDuration(api.RequestTimeout)
	}
	if api.FallbackTimeout > 0 {
		cfg.FallbackTimeout = config.GetDuration(api.FallbackTimeout)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Variant != models.VariantPreInvestment && c.Variant != models.VariantExistingBusiness {
		return fmt.Errorf("unsupported variant %q", c.Variant)
	}
	if c.LocalURL == "" || c.DeployedURL == "" {
		return fmt.Errorf("local and deployed URLs are required")
	}
	if c.HealthTimeout <= 0 || c.PrimaryTimeout <= 0 || c.FallbackTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
