// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultLocalURL    = "http://localhost:8000"
	DefaultDeployedURL = "https://smes-predictor-final.onrender.com"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and applies environment overrides (api.local_url -> API_LOCAL_URL).
func Load() (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	cfg, err := finalize(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := finalize(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up towards the project root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults registers defaults so every key is also reachable through
// AutomaticEnv.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sme-predictor")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("api.local_url", DefaultLocalURL)
	v.SetDefault("api.deployed_url", DefaultDeployedURL)
	v.SetDefault("api.health_path", "/docs")
	v.SetDefault("api.health_timeout", 1000)
	v.SetDefault("api.request_timeout", 15000)
	v.SetDefault("api.fallback_timeout", 30000)

	v.SetDefault("dashboard.base_url", DefaultDeployedURL)
	v.SetDefault("dashboard.refresh_interval", 60000)
	v.SetDefault("dashboard.request_timeout", 15000)
	v.SetDefault("dashboard.predictions_limit", 100)
	v.SetDefault("dashboard.recent_limit", 5)

	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.pre_investment_prefix", "SME-PreInvestment-Report")
	v.SetDefault("report.existing_business_prefix", "SME-ExistingBusiness-Report")
	v.SetDefault("report.author", "SME Predictor v1.0")

	v.SetDefault("feedback.health_path", "/health")
	v.SetDefault("feedback.request_timeout", 15000)
	v.SetDefault("feedback.max_message_length", 1000)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 60000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.key_prefix", "sme-predictor")
	v.SetDefault("cache.ttl", 3600)

	v.SetDefault("observability.service_name", "sme-predictor")
	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.sample_ratio", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}

// overrideEmptyConfig fills values from well-known environment variables that
// do not follow the key naming scheme.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Cache.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Cache.Password = val
		}
	}
	if cfg.Observability.JaegerEndpoint == "" {
		if val := os.Getenv("JAEGER_ENDPOINT"); val != "" {
			cfg.Observability.JaegerEndpoint = val
		}
	}
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDRESS") == "" {
		cfg.Server.Address = ":" + port
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	for name, raw := range map[string]string{
		"api.local_url":      cfg.API.LocalURL,
		"api.deployed_url":   cfg.API.DeployedURL,
		"dashboard.base_url": cfg.Dashboard.BaseURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if cfg.API.HealthTimeout <= 0 || cfg.API.RequestTimeout <= 0 || cfg.API.FallbackTimeout <= 0 {
		return fmt.Errorf("api timeouts must be positive")
	}
	if cfg.API.FallbackTimeout < cfg.API.RequestTimeout {
		return fmt.Errorf("api.fallback_timeout must not be shorter than api.request_timeout")
	}
	if cfg.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard.refresh_interval must be positive")
	}
	if cfg.Feedback.MaxMessageLength <= 0 {
		return fmt.Errorf("feedback.max_message_length must be positive")
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when cache is enabled")
	}
	if cfg.Observability.TracingEnabled && cfg.Observability.JaegerEndpoint == "" {
		return fmt.Errorf("observability.jaeger_endpoint is required when tracing is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
