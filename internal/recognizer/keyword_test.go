package recognizer

import (
	"context"
	"testing"

	"github.com/maestrokit/maestro/pkg/models"
)

const testModel = `
intents:
  Cancel:
    phrases:
      - cancel
      - never mind
  Help:
    phrases:
      - help
    patterns:
      - "what can you do"
  Escalate:
    phrases:
      - talk to a human
`

func newTestRecognizer(t *testing.T) *KeywordRecognizer {
	t.Helper()
	r, err := ParseKeywordModel([]byte(testModel))
	if err != nil {
		t.Fatalf("ParseKeywordModel failed: %v", err)
	}
	return r
}

func TestKeywordRecognizer_Recognize(t *testing.T) {
	r := newTestRecognizer(t)

	tests := []struct {
		name       string
		utterance  string
		wantIntent string
		wantScore  float64
	}{
		{"exact phrase", "cancel", "Cancel", scoreExact},
		{"exact with case and space", "  CANCEL ", "Cancel", scoreExact},
		{"multi-word exact", "never mind", "Cancel", scoreExact},
		{"pattern match", "hey, what can you do for me?", "Help", scorePattern},
		{"contained phrase", "please cancel that meeting", "Cancel", scoreContain},
		{"word boundary respected", "cancellation policy", models.IntentNone, 0},
		{"no match", "book me a flight", models.IntentNone, 0},
		{"empty utterance", "", models.IntentNone, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := r.Recognize(context.Background(), tc.utterance)
			if err != nil {
				t.Fatalf("Recognize failed: %v", err)
			}
			if result.TopIntent != tc.wantIntent {
				t.Errorf("TopIntent = %q, want %q", result.TopIntent, tc.wantIntent)
			}
			if result.Score != tc.wantScore {
				t.Errorf("Score = %v, want %v", result.Score, tc.wantScore)
			}
		})
	}
}

func TestKeywordRecognizer_Deterministic(t *testing.T) {
	r := newTestRecognizer(t)

	first, err := r.Recognize(context.Background(), "please cancel and help")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := r.Recognize(context.Background(), "please cancel and help")
		if err != nil {
			t.Fatalf("Recognize failed: %v", err)
		}
		if again.TopIntent != first.TopIntent || again.Score != first.Score {
			t.Fatalf("run %d diverged: %q/%v vs %q/%v",
				i, again.TopIntent, again.Score, first.TopIntent, first.Score)
		}
	}
}

func TestKeywordRecognizer_TieBreaksLexically(t *testing.T) {
	r, err := ParseKeywordModel([]byte(`
intents:
  Zeta:
    phrases: ["thing"]
  Alpha:
    phrases: ["thing"]
`))
	if err != nil {
		t.Fatalf("ParseKeywordModel failed: %v", err)
	}

	result, err := r.Recognize(context.Background(), "thing")
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.TopIntent != "Alpha" {
		t.Errorf("TopIntent = %q, want Alpha", result.TopIntent)
	}
}

func TestKeywordRecognizer_CanceledContext(t *testing.T) {
	r := newTestRecognizer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Recognize(ctx, "cancel"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestParseKeywordModel_BadPattern(t *testing.T) {
	_, err := ParseKeywordModel([]byte(`
intents:
  Broken:
    patterns: ["[unclosed"]
`))
	if err == nil {
		t.Error("expected error for invalid regex pattern")
	}
}

func TestParseKeywordModel_BadYAML(t *testing.T) {
	if _, err := ParseKeywordModel([]byte("intents: [not a map")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
