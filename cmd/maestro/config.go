package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maestrokit/maestro/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Maestro configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/maestro/config.yaml
Project-specific overrides can be placed in .maestro.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s (source: %s)\n", config.MaskAPIKey(cfg.Anthropic.APIKey), config.GetAPIKeySource(cfg))
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("recognizer.backend: %s\n", cfg.Recognizer.Backend)
	fmt.Printf("recognizer.keyword_model_path: %s\n", cfg.Recognizer.KeywordModelPath)
	fmt.Printf("recognizer.threshold: %s\n", strconv.FormatFloat(cfg.Recognizer.Threshold, 'g', -1, 64))
	fmt.Printf("skills.file: %s\n", cfg.Skills.File)
	fmt.Printf("skills.watch: %t\n", cfg.Skills.Watch)
	fmt.Printf("responses.dir: %s\n", cfg.Responses.Dir)
	fmt.Printf("state.path: %s\n", cfg.State.Path)
	fmt.Printf("default_locale: %s\n", cfg.DefaultLocale)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "recognizer.backend":
		return cfg.Recognizer.Backend, nil
	case "recognizer.keyword_model_path":
		return cfg.Recognizer.KeywordModelPath, nil
	case "recognizer.threshold":
		return strconv.FormatFloat(cfg.Recognizer.Threshold, 'g', -1, 64), nil
	case "skills.file":
		return cfg.Skills.File, nil
	case "skills.watch":
		return strconv.FormatBool(cfg.Skills.Watch), nil
	case "responses.dir":
		return cfg.Responses.Dir, nil
	case "state.path":
		return cfg.State.Path, nil
	case "default_locale":
		return cfg.DefaultLocale, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_aws_bedrock: %w", err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "recognizer.backend":
		if value != "keyword" && value != "claude" {
			return fmt.Errorf("invalid recognizer backend %q: must be \"keyword\" or \"claude\"", value)
		}
		cfg.Recognizer.Backend = value
	case "recognizer.keyword_model_path":
		cfg.Recognizer.KeywordModelPath = value
	case "recognizer.threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for threshold: %w", err)
		}
		if f < 0 || f > 1 {
			return fmt.Errorf("threshold must be between 0 and 1")
		}
		cfg.Recognizer.Threshold = f
	case "skills.file":
		cfg.Skills.File = value
	case "skills.watch":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for skills.watch: %w", err)
		}
		cfg.Skills.Watch = b
	case "responses.dir":
		cfg.Responses.Dir = value
	case "state.path":
		cfg.State.Path = value
	case "default_locale":
		cfg.DefaultLocale = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
