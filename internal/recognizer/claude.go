package recognizer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/maestrokit/maestro/pkg/models"
)

// claudeScore is the confidence assigned to a label the model committed to.
// The classification is single-label, so there is no graded score to report.
const claudeScore = 0.95

// ClaudeConfig contains configuration for creating a ClaudeRecognizer.
type ClaudeConfig struct {
	// Model is the Claude model to use.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
	// Intents are the labels the recognizer may return, with a short
	// description each used in the classification prompt.
	Intents map[string]string
}

// ClaudeRecognizer classifies utterances with a Claude model constrained to
// a declared intent list. Anything the model returns outside the list maps
// to the None intent.
type ClaudeRecognizer struct {
	inner   anthropic.Client
	model   anthropic.Model
	intents map[string]string
}

// NewClaudeRecognizer creates a Claude-backed recognizer.
func NewClaudeRecognizer(cfg ClaudeConfig) (*ClaudeRecognizer, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		// AWS Bedrock path
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		// Traditional API key path
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	inner := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}

	// Translate model name for Bedrock
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &ClaudeRecognizer{
		inner:   inner,
		model:   model,
		intents: cfg.Intents,
	}, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock inference profile format.
// Bedrock uses cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaudeOpus4_5_20251101:   "us.anthropic.claude-opus-4-5-20251101-v1:0",
		anthropic.ModelClaude3_7Sonnet20250219:  "us.anthropic.claude-3-7-sonnet-20250219-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}

	// If not in map, return as-is (might already be Bedrock format or a custom model)
	return model
}

// Recognize classifies the utterance against the declared intent list.
func (r *ClaudeRecognizer) Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error) {
	resp, err := r.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 16,
		System: []anthropic.TextBlockParam{
			{Text: classifierPrompt(r.intents)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(utterance)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classify utterance: %w", err)
	}

	var completion string
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			completion += text.Text
		}
	}

	return parseIntentLabel(completion, r.intents), nil
}

// classifierPrompt builds the system prompt constraining the model to one
// label from the intent list.
func classifierPrompt(intents map[string]string) string {
	var b strings.Builder
	b.WriteString("You are an intent classifier for a virtual assistant. ")
	b.WriteString("Classify the user's message into exactly one of these intents:\n")
	for name, desc := range intents {
		b.WriteString("- ")
		b.WriteString(name)
		if desc != "" {
			b.WriteString(": ")
			b.WriteString(desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("- None: none of the above\n")
	b.WriteString("Reply with the intent name only, nothing else.")
	return b.String()
}

// parseIntentLabel maps a model completion to a recognizer result. Labels
// outside the declared list fold into None.
func parseIntentLabel(completion string, intents map[string]string) *models.RecognizerResult {
	label := strings.TrimSpace(completion)
	label = strings.Trim(label, "\"'`.")

	result := &models.RecognizerResult{
		TopIntent: models.IntentNone,
		Intents:   make(map[string]float64),
	}

	for name := range intents {
		if strings.EqualFold(label, name) {
			result.TopIntent = name
			result.Score = claudeScore
			result.Intents[name] = claudeScore
			return result
		}
	}
	return result
}
