package recognizer

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/maestrokit/maestro/pkg/models"
)

func TestTranslateModelForBedrock(t *testing.T) {
	tests := []struct {
		name  string
		model anthropic.Model
		want  anthropic.Model
	}{
		{
			"known model translated",
			anthropic.ModelClaudeSonnet4_20250514,
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
		},
		{
			"already bedrock format passes through",
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
		},
		{
			"custom model passes through",
			"my-custom-model",
			"my-custom-model",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := translateModelForBedrock(tc.model); got != tc.want {
				t.Errorf("translateModelForBedrock(%q) = %q, want %q", tc.model, got, tc.want)
			}
		})
	}
}

func TestClassifierPrompt(t *testing.T) {
	prompt := classifierPrompt(map[string]string{
		"Cancel": "abandon the current task",
		"Help":   "",
	})

	for _, want := range []string{"Cancel", "abandon the current task", "Help", "None"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestParseIntentLabel(t *testing.T) {
	intents := map[string]string{"Cancel": "", "Help": ""}

	tests := []struct {
		name       string
		completion string
		wantIntent string
		wantScore  float64
	}{
		{"clean label", "Cancel", "Cancel", claudeScore},
		{"whitespace trimmed", "  Help\n", "Help", claudeScore},
		{"quoted label", `"Cancel"`, "Cancel", claudeScore},
		{"case insensitive", "cancel", "Cancel", claudeScore},
		{"undeclared label folds to None", "BookFlight", models.IntentNone, 0},
		{"explicit None", "None", models.IntentNone, 0},
		{"empty completion", "", models.IntentNone, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := parseIntentLabel(tc.completion, intents)
			if result.TopIntent != tc.wantIntent {
				t.Errorf("TopIntent = %q, want %q", result.TopIntent, tc.wantIntent)
			}
			if result.Score != tc.wantScore {
				t.Errorf("Score = %v, want %v", result.Score, tc.wantScore)
			}
		})
	}
}

func TestNewClaudeRecognizer_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := NewClaudeRecognizer(ClaudeConfig{}); err == nil {
		t.Error("expected error when no API key is available")
	}
}
