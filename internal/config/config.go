// Package config handles configuration loading and management for Maestro.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for Maestro.
type Config struct {
	Anthropic       AnthropicConfig            `mapstructure:"anthropic"`
	Recognizer      RecognizerConfig           `mapstructure:"recognizer"`
	Skills          SkillsConfig               `mapstructure:"skills"`
	Responses       ResponsesConfig            `mapstructure:"responses"`
	State           StateConfig                `mapstructure:"state"`
	DefaultLocale   string                     `mapstructure:"default_locale"`
	CognitiveModels map[string]CognitiveModels `mapstructure:"cognitive_models"`
}

// AnthropicConfig holds Anthropic API settings for the Claude recognizer.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// UseAWSBedrock routes recognizer calls through AWS Bedrock.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// RecognizerConfig selects and configures the recognizer backends.
type RecognizerConfig struct {
	// Backend is one of "keyword" or "claude".
	Backend string `mapstructure:"backend"`
	// KeywordModelPath points at a YAML intent model for the keyword backend.
	KeywordModelPath string `mapstructure:"keyword_model_path"`
	// Threshold is the minimum confidence for acting on a general intent.
	Threshold float64 `mapstructure:"threshold"`
}

// SkillsConfig locates the connected-skills file.
type SkillsConfig struct {
	// File is the path to the connected-skills JSON file.
	File string `mapstructure:"file"`
	// Watch reloads the skills file when it changes (console mode).
	Watch bool `mapstructure:"watch"`
}

// ResponsesConfig locates locale template resources.
type ResponsesConfig struct {
	// Dir overrides the embedded template resources when set.
	Dir string `mapstructure:"dir"`
}

// StateConfig locates the conversation/user state database.
type StateConfig struct {
	// Path is the SQLite database path; empty selects the project default.
	Path string `mapstructure:"path"`
}

// ServiceRef identifies an external cognitive service binding.
type ServiceRef struct {
	// ID names the service; routing fails loudly when a referenced id is empty.
	ID       string `mapstructure:"id"`
	Endpoint string `mapstructure:"endpoint"`
	Key      string `mapstructure:"key"`
	// Threshold is the service-side answer threshold for QnA services.
	Threshold float64 `mapstructure:"threshold"`
}

// CognitiveModels binds one locale to its dispatch, LUIS-style, and QnA
// services.
type CognitiveModels struct {
	Dispatch ServiceRef            `mapstructure:"dispatch"`
	Luis     map[string]ServiceRef `mapstructure:"luis"`
	QnA      map[string]ServiceRef `mapstructure:"qna"`
}

// CognitiveModel resolves the model set for a locale: exact locale, then
// primary language subtag, then the default locale.
func (c *Config) CognitiveModel(locale string) (CognitiveModels, bool) {
	keys := []string{}
	if locale != "" {
		lower := strings.ToLower(locale)
		keys = append(keys, lower)
		if lang, _, found := strings.Cut(lower, "-"); found {
			keys = append(keys, lang)
		}
	}
	keys = append(keys, c.DefaultLocale)

	for _, key := range keys {
		if models, ok := c.CognitiveModels[key]; ok {
			return models, true
		}
	}
	return CognitiveModels{}, false
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (MAESTRO_*, ANTHROPIC_API_KEY)
// 2. Project config (.maestro.yaml in current directory or parent)
// 3. User config (~/.config/maestro/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.SetEnvPrefix("MAESTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("recognizer.backend", cfg.Recognizer.Backend)
	v.Set("recognizer.keyword_model_path", cfg.Recognizer.KeywordModelPath)
	v.Set("recognizer.threshold", cfg.Recognizer.Threshold)
	v.Set("skills.file", cfg.Skills.File)
	v.Set("skills.watch", cfg.Skills.Watch)
	v.Set("responses.dir", cfg.Responses.Dir)
	v.Set("state.path", cfg.State.Path)
	v.Set("default_locale", cfg.DefaultLocale)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)

	v.SetDefault("recognizer.backend", "keyword")
	v.SetDefault("recognizer.threshold", 0.5)

	v.SetDefault("skills.file", "skills.json")
	v.SetDefault("skills.watch", true)

	v.SetDefault("default_locale", "en-us")
}

// getUserConfigDir returns the XDG config directory for Maestro.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maestro")
	}

	// Fall back to ~/.config/maestro
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maestro")
	}
	return filepath.Join(home, ".config", "maestro")
}

// findProjectConfig searches for .maestro.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maestro.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Recognizer: RecognizerConfig{
			Backend:   "keyword",
			Threshold: 0.5,
		},
		Skills: SkillsConfig{
			File:  "skills.json",
			Watch: true,
		},
		DefaultLocale: "en-us",
		CognitiveModels: map[string]CognitiveModels{
			"en-us": {
				Dispatch: ServiceRef{ID: "dispatch"},
				Luis: map[string]ServiceRef{
					"general": {ID: "general"},
				},
				QnA: map[string]ServiceRef{},
			},
		},
	}
}
