// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	API           APIConfig           `mapstructure:"api"`
	Dashboard     DashboardConfig     `mapstructure:"dashboard"`
	Report        ReportConfig        `mapstructure:"report"`
	Feedback      FeedbackConfig      `mapstructure:"feedback"`
	Server        ServerConfig        `mapstructure:"server"`
	Cache         RedisConfig         `mapstructure:"cache"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string `mapstructure:"-"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig describes the prediction API and the local/deployed fallback.
type APIConfig struct {
	LocalURL        string `mapstructure:"local_url"`
	DeployedURL     string `mapstructure:"deployed_url"`
	HealthPath      string `mapstructure:"health_path"`
	HealthTimeout   int    `mapstructure:"health_timeout"`   // milliseconds
	RequestTimeout  int    `mapstructure:"request_timeout"`  // milliseconds
	FallbackTimeout int    `mapstructure:"fallback_timeout"` // milliseconds
}

type DashboardConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	RefreshInterval  int    `mapstructure:"refresh_interval"` // milliseconds
	RequestTimeout   int    `mapstructure:"request_timeout"`  // milliseconds
	PredictionsLimit int    `mapstructure:"predictions_limit"`
	RecentLimit      int    `mapstructure:"recent_limit"`
}

type ReportConfig struct {
	OutputDir              string `mapstructure:"output_dir"`
	PreInvestmentPrefix    string `mapstructure:"pre_investment_prefix"`
	ExistingBusinessPrefix string `mapstructure:"existing_business_prefix"`
	Author                 string `mapstructure:"author"`
}

type FeedbackConfig struct {
	HealthPath       string `mapstructure:"health_path"`
	RequestTimeout   int    `mapstructure:"request_timeout"` // milliseconds
	MaxMessageLength int    `mapstructure:"max_message_length"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // seconds
}

// GetKey namespaces a cache key.
func (r RedisConfig) GetKey(name string) string {
	return fmt.Sprintf("%s:%s", r.KeyPrefix, name)
}

type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
