package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIKeyEnv is the credential variable for the default Gemini
// provider; it must be set when no configuration file exists
const DefaultAPIKeyEnv = "GEMINI_API_KEY"

// Supported providers
var supportedProviders = map[string]bool{
	"gemini":   true,
	"openai":   true,
	"deepseek": true,
	"grok":     true,
	"ollama":   true,
}

// SupportedProviders returns a list of supported providers
func SupportedProviders() []string {
	providers := make([]string, 0, len(supportedProviders))
	for p := range supportedProviders {
		providers = append(providers, p)
	}
	return providers
}

// Config represents the application configuration
type Config struct {
	DefaultModel string                 `yaml:"default_model" mapstructure:"default_model"`
	Models       map[string]ModelConfig `yaml:"models" mapstructure:"models"`
	Retry        *RetryConfig           `yaml:"retry" mapstructure:"retry"`
	Analysis     *AnalysisConfig        `yaml:"analysis" mapstructure:"analysis"`
}

// ModelConfig represents a single model configuration
type ModelConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// Validate validates the model configuration
func (m *ModelConfig) Validate() error {
	if m.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !supportedProviders[m.Provider] {
		return fmt.Errorf("unsupported provider: %s", m.Provider)
	}
	if m.Model == "" {
		return fmt.Errorf("model is required")
	}
	// API key is required for all providers except ollama
	if m.Provider != "ollama" && m.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %s", m.Provider)
	}
	return nil
}

// RetryConfig represents the retry configuration for analysis runs
type RetryConfig struct {
	MaxRetries int     `yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelay  float64 `yaml:"base_delay" mapstructure:"base_delay"`   // in seconds
	BackoffMax float64 `yaml:"backoff_max" mapstructure:"backoff_max"` // in seconds
}

// DefaultRetryConfig returns the default retry configuration: three
// retries with 4s, 8s, 16s waits
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  4.0,
		BackoffMax: 60.0,
	}
}

// Validate validates the retry configuration
func (r *RetryConfig) Validate() error {
	if r.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if r.BaseDelay < 0 {
		return fmt.Errorf("base_delay must be non-negative")
	}
	if r.BackoffMax != 0 && r.BackoffMax < r.BaseDelay {
		return fmt.Errorf("backoff_max must be greater than or equal to base_delay")
	}
	return nil
}

// AnalysisConfig represents the analysis run configuration
type AnalysisConfig struct {
	MaxSteps    int    `yaml:"max_steps" mapstructure:"max_steps"`
	DefaultTask string `yaml:"default_task" mapstructure:"default_task"`
	PythonBin   string `yaml:"python_bin" mapstructure:"python_bin"`
}

// DefaultAnalysisConfig returns the default analysis configuration
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		MaxSteps:    20,
		DefaultTask: "Perform comprehensive exploratory data analysis",
		PythonBin:   "python3",
	}
}

// Validate validates the analysis configuration
func (a *AnalysisConfig) Validate() error {
	if a.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}
	return nil
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}

	if c.DefaultModel != "" {
		if _, ok := c.Models[c.DefaultModel]; !ok {
			return fmt.Errorf("default model '%s' not found in models configuration", c.DefaultModel)
		}
	}

	for name, model := range c.Models {
		if err := model.Validate(); err != nil {
			return fmt.Errorf("invalid model '%s': %w", name, err)
		}
	}

	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return fmt.Errorf("invalid retry configuration: %w", err)
		}
	}

	if c.Analysis != nil {
		if err := c.Analysis.Validate(); err != nil {
			return fmt.Errorf("invalid analysis configuration: %w", err)
		}
	}

	return nil
}

// GetModel returns the model configuration by name
// Priority: parameter > env variable (DATABUDDY_MODEL) > default_model
func (c *Config) GetModel(modelName string) (*ModelConfig, error) {
	if modelName == "" {
		modelName = os.Getenv("DATABUDDY_MODEL")
	}
	if modelName == "" {
		modelName = c.DefaultModel
	}
	if modelName == "" {
		return nil, fmt.Errorf("no model specified and no default model configured")
	}

	model, ok := c.Models[modelName]
	if !ok {
		return nil, fmt.Errorf("model '%s' not found in configuration", modelName)
	}

	// Expand environment variables in API key
	model.APIKey = expandEnv(model.APIKey)

	return &model, nil
}

// GetRetryConfig returns the retry configuration with defaults applied
func (c *Config) GetRetryConfig() *RetryConfig {
	if c.Retry == nil {
		return DefaultRetryConfig()
	}
	defaults := DefaultRetryConfig()
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = defaults.MaxRetries
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = defaults.BaseDelay
	}
	if c.Retry.BackoffMax <= 0 {
		c.Retry.BackoffMax = defaults.BackoffMax
	}
	return c.Retry
}

// GetAnalysisConfig returns the analysis configuration with defaults
// applied
func (c *Config) GetAnalysisConfig() *AnalysisConfig {
	if c.Analysis == nil {
		return DefaultAnalysisConfig()
	}
	defaults := DefaultAnalysisConfig()
	if c.Analysis.MaxSteps <= 0 {
		c.Analysis.MaxSteps = defaults.MaxSteps
	}
	if c.Analysis.DefaultTask == "" {
		c.Analysis.DefaultTask = defaults.DefaultTask
	}
	if c.Analysis.PythonBin == "" {
		c.Analysis.PythonBin = defaults.PythonBin
	}
	return c.Analysis
}

// expandEnv expands environment variables in the format ${VAR} or $VAR
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// LoadFromFile loads configuration from a file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DefaultFromEnv synthesizes a single-model Gemini configuration from the
// GEMINI_API_KEY environment variable so the tool works without a config
// file. Absence of the key is a hard startup error.
func DefaultFromEnv() (*Config, error) {
	if os.Getenv(DefaultAPIKeyEnv) == "" {
		return nil, fmt.Errorf(
			"%s not found: set the environment variable or run 'databuddy init' to create a configuration file",
			DefaultAPIKeyEnv)
	}

	return &Config{
		DefaultModel: "gemini",
		Models: map[string]ModelConfig{
			"gemini": {
				Provider: "gemini",
				APIKey:   "${" + DefaultAPIKeyEnv + "}",
				Model:    "gemini-2.0-flash-exp",
			},
		},
	}, nil
}

// Load loads configuration with the following priority:
// 1. Custom path if provided
// 2. Current directory .databuddy.yaml
// 3. Home directory ~/.databuddy.yaml
// 4. Default configuration built from GEMINI_API_KEY
func Load(customPath string) (*Config, error) {
	if customPath != "" {
		return LoadFromFile(customPath)
	}

	if cfg, err := LoadFromFile(".databuddy.yaml"); err == nil {
		return cfg, nil
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		if cfg, err := LoadFromFile(filepath.Join(homeDir, ".databuddy.yaml")); err == nil {
			return cfg, nil
		}
	}

	return DefaultFromEnv()
}
