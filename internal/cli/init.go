package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `# DataBuddy Configuration File

# Default model to use (must match a key in the models section)
default_model: gemini

# LLM Model configurations
models:
  # Google Gemini (recommended)
  gemini:
    provider: gemini
    api_key: ${GEMINI_API_KEY}
    model: gemini-2.0-flash-exp

  # OpenAI
  # openai:
  #   provider: openai
  #   api_key: ${OPENAI_API_KEY}
  #   model: gpt-4o
  #   base_url: https://api.openai.com/v1

  # Deepseek
  # deepseek:
  #   provider: deepseek
  #   api_key: ${DEEPSEEK_API_KEY}
  #   model: deepseek-chat

  # Ollama (local)
  # ollama:
  #   provider: ollama
  #   model: llama3.2
  #   base_url: http://localhost:11434

  # xAI Grok
  # grok:
  #   provider: grok
  #   api_key: ${XAI_API_KEY}
  #   model: grok-beta

# Retry behavior for transient model overload
retry:
  max_retries: 3
  base_delay: 4.0
  backoff_max: 60.0

# Analysis run settings
analysis:
  max_steps: 20
  python_bin: python3
  # default_task: Perform comprehensive exploratory data analysis
`

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize DataBuddy configuration",
	Long: `Create a default configuration file (~/.databuddy.yaml).

This command creates a template configuration file with example settings
for various LLM providers. Edit the file to add your API keys and customize settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		configPath := filepath.Join(homeDir, ".databuddy.yaml")

		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
		}

		err = os.WriteFile(configPath, []byte(defaultConfigTemplate), 0600)
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Printf("✅ Configuration file created: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit the config file and add your API keys")
		fmt.Println("  2. Set environment variables for sensitive keys (recommended)")
		fmt.Println("  3. Run 'databuddy run data.csv' to analyze a CSV file")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
