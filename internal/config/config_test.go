package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ModelConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid gemini config",
			config: ModelConfig{
				Provider: "gemini",
				APIKey:   "test-key",
				Model:    "gemini-2.0-flash-exp",
			},
			wantErr: false,
		},
		{
			name: "valid ollama config without api key",
			config: ModelConfig{
				Provider: "ollama",
				Model:    "llama3.2",
				BaseURL:  "http://localhost:11434/v1",
			},
			wantErr: false,
		},
		{
			name: "missing provider",
			config: ModelConfig{
				APIKey: "test-key",
				Model:  "gemini-2.0-flash-exp",
			},
			wantErr: true,
			errMsg:  "provider is required",
		},
		{
			name: "invalid provider",
			config: ModelConfig{
				Provider: "invalid",
				APIKey:   "test-key",
				Model:    "some-model",
			},
			wantErr: true,
			errMsg:  "unsupported provider",
		},
		{
			name: "missing model",
			config: ModelConfig{
				Provider: "gemini",
				APIKey:   "test-key",
			},
			wantErr: true,
			errMsg:  "model is required",
		},
		{
			name: "missing api key for gemini",
			config: ModelConfig{
				Provider: "gemini",
				Model:    "gemini-2.0-flash-exp",
			},
			wantErr: true,
			errMsg:  "api_key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_GetModel(t *testing.T) {
	cfg := &Config{
		DefaultModel: "gemini",
		Models: map[string]ModelConfig{
			"gemini": {Provider: "gemini", APIKey: "key-a", Model: "gemini-2.0-flash-exp"},
			"backup": {Provider: "openai", APIKey: "key-b", Model: "gpt-4o"},
		},
	}

	t.Run("explicit name", func(t *testing.T) {
		model, err := cfg.GetModel("backup")
		require.NoError(t, err)
		assert.Equal(t, "openai", model.Provider)
	})

	t.Run("falls back to default", func(t *testing.T) {
		model, err := cfg.GetModel("")
		require.NoError(t, err)
		assert.Equal(t, "gemini", model.Provider)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := cfg.GetModel("missing")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestConfig_GetModelWithEnvOverride(t *testing.T) {
	cfg := &Config{
		DefaultModel: "gemini",
		Models: map[string]ModelConfig{
			"gemini": {Provider: "gemini", APIKey: "key-a", Model: "gemini-2.0-flash-exp"},
			"backup": {Provider: "openai", APIKey: "key-b", Model: "gpt-4o"},
		},
	}

	t.Setenv("DATABUDDY_MODEL", "backup")

	model, err := cfg.GetModel("")
	require.NoError(t, err)
	assert.Equal(t, "openai", model.Provider)

	// Explicit parameter still wins over the env variable
	model, err = cfg.GetModel("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", model.Provider)
}

func TestConfig_ExpandEnvInAPIKey(t *testing.T) {
	t.Setenv("TEST_DATABUDDY_KEY", "secret-value")

	cfg := &Config{
		DefaultModel: "gemini",
		Models: map[string]ModelConfig{
			"gemini": {Provider: "gemini", APIKey: "${TEST_DATABUDDY_KEY}", Model: "gemini-2.0-flash-exp"},
		},
	}

	model, err := cfg.GetModel("gemini")
	require.NoError(t, err)
	assert.Equal(t, "secret-value", model.APIKey)
}

func TestConfig_GetRetryConfig(t *testing.T) {
	t.Run("nil uses defaults", func(t *testing.T) {
		cfg := &Config{}
		retry := cfg.GetRetryConfig()

		assert.Equal(t, 3, retry.MaxRetries)
		assert.Equal(t, 4.0, retry.BaseDelay)
		assert.Equal(t, 60.0, retry.BackoffMax)
	})

	t.Run("partial config filled in", func(t *testing.T) {
		cfg := &Config{Retry: &RetryConfig{MaxRetries: 5}}
		retry := cfg.GetRetryConfig()

		assert.Equal(t, 5, retry.MaxRetries)
		assert.Equal(t, 4.0, retry.BaseDelay)
	})
}

func TestConfig_GetAnalysisConfig(t *testing.T) {
	t.Run("nil uses defaults", func(t *testing.T) {
		cfg := &Config{}
		analysis := cfg.GetAnalysisConfig()

		assert.Equal(t, 20, analysis.MaxSteps)
		assert.Equal(t, "python3", analysis.PythonBin)
		assert.NotEmpty(t, analysis.DefaultTask)
	})

	t.Run("partial config filled in", func(t *testing.T) {
		cfg := &Config{Analysis: &AnalysisConfig{MaxSteps: 10}}
		analysis := cfg.GetAnalysisConfig()

		assert.Equal(t, 10, analysis.MaxSteps)
		assert.Equal(t, "python3", analysis.PythonBin)
	})
}

func TestLoadFromFile(t *testing.T) {
	content := `default_model: gemini
models:
  gemini:
    provider: gemini
    api_key: test-key
    model: gemini-2.0-flash-exp
retry:
  max_retries: 2
  base_delay: 1.5
analysis:
  max_steps: 12
  python_bin: python3.12
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.DefaultModel)
	assert.Equal(t, "test-key", cfg.Models["gemini"].APIKey)
	require.NotNil(t, cfg.Retry)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.Equal(t, 1.5, cfg.Retry.BaseDelay)
	require.NotNil(t, cfg.Analysis)
	assert.Equal(t, 12, cfg.Analysis.MaxSteps)
	assert.Equal(t, "python3.12", cfg.Analysis.PythonBin)
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestDefaultFromEnv(t *testing.T) {
	t.Run("missing key is a hard error", func(t *testing.T) {
		t.Setenv(DefaultAPIKeyEnv, "")

		_, err := DefaultFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), DefaultAPIKeyEnv)
		assert.Contains(t, err.Error(), "databuddy init")
	})

	t.Run("key present yields gemini config", func(t *testing.T) {
		t.Setenv(DefaultAPIKeyEnv, "env-secret")

		cfg, err := DefaultFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.DefaultModel)

		model, err := cfg.GetModel("")
		require.NoError(t, err)
		assert.Equal(t, "env-secret", model.APIKey)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("no models", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("default model missing from models", func(t *testing.T) {
		cfg := &Config{
			DefaultModel: "gone",
			Models: map[string]ModelConfig{
				"gemini": {Provider: "gemini", APIKey: "k", Model: "m"},
			},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone")
	})

	t.Run("valid configuration", func(t *testing.T) {
		cfg := &Config{
			DefaultModel: "gemini",
			Models: map[string]ModelConfig{
				"gemini": {Provider: "gemini", APIKey: "k", Model: "m"},
			},
			Retry:    DefaultRetryConfig(),
			Analysis: DefaultAnalysisConfig(),
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestSupportedProviders(t *testing.T) {
	providers := SupportedProviders()
	assert.Len(t, providers, 5)
	assert.Contains(t, providers, "gemini")
	assert.Contains(t, providers, "ollama")
}
