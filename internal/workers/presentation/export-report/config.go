package exportreport

import (
	"fmt"

	"sme-predictor/internal/common/config"
	"sme-predictor/internal/models"
)

type Config struct {
	PreInvestmentPrefix    string
	ExistingBusinessPrefix string
	Author                 string
	// Compress deflates page streams. Tests turn it off to inspect text.
	Compress bool
}

func DefaultConfig() *Config {
	return &Config{
		PreInvestmentPrefix:    "SME-PreInvestment-Report",
		ExistingBusinessPrefix: "SME-ExistingBusiness-Report",
		Author:                 "SME Predictor v1.0",
		Compress:               true,
	}
}

func createConfigFromAppConfig(appConfig *config.Config) *Config {
	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}
	r := appConfig.Report
	if r.PreInvestmentPrefix != "" {
		cfg.PreInvestmentPrefix = r.PreInvestmentPrefix
	}
	if r.ExistingBusinessPrefix != "" {
		cfg.ExistingBusinessPrefix = r.ExistingBusinessPrefix
	}
	if r.Author != "" {
		cfg.Author = r.Author
	}
	return cfg
}

func (c *Config) Prefix(variant models.Variant) string {
	if variant == models.VariantExistingBusiness {
		return c.ExistingBusinessPrefix
	}
	return c.PreInvestmentPrefix
}

func (c *Config) Validate() error {
	if c.PreInvestmentPrefix == "" || c.ExistingBusinessPrefix == "" {
		return fmt.Errorf("report filename prefixes are required")
	}
	return nil
}
