package recognizer

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/maestrokit/maestro/pkg/models"
)

// Match confidence levels for the keyword backend. Exact phrase matches
// outrank pattern matches, which outrank substring hits.
const (
	scoreExact   = 1.0
	scorePattern = 0.9
	scoreContain = 0.7
)

// intentModel is the YAML shape of a keyword intent model file.
type intentModel struct {
	Intents map[string]intentDef `yaml:"intents"`
}

// intentDef declares the trigger phrases and optional regex patterns of one
// intent.
type intentDef struct {
	Phrases  []string `yaml:"phrases"`
	Patterns []string `yaml:"patterns"`
}

// compiledIntent is an intent with its patterns compiled.
type compiledIntent struct {
	name     string
	phrases  []string
	patterns []*regexp.Regexp
}

// KeywordRecognizer classifies utterances by phrase and pattern matching
// against a YAML intent model. Scoring is deterministic: the same utterance
// always yields the same result.
type KeywordRecognizer struct {
	intents []compiledIntent
}

// NewKeywordRecognizer builds a recognizer from an already-decoded model.
// Intent iteration order is made deterministic by sorting on first use of
// the model map; ties between intents resolve to the lexically smaller name.
func NewKeywordRecognizer(model map[string]struct {
	Phrases  []string
	Patterns []string
}) (*KeywordRecognizer, error) {
	r := &KeywordRecognizer{}
	for name, def := range model {
		ci := compiledIntent{name: name}
		for _, p := range def.Phrases {
			ci.phrases = append(ci.phrases, strings.ToLower(strings.TrimSpace(p)))
		}
		for _, pat := range def.Patterns {
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for intent %s: %w", pat, name, err)
			}
			ci.patterns = append(ci.patterns, re)
		}
		r.intents = append(r.intents, ci)
	}
	return r, nil
}

// LoadKeywordModel reads a YAML intent model file and builds a recognizer.
func LoadKeywordModel(path string) (*KeywordRecognizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent model %s: %w", path, err)
	}
	return ParseKeywordModel(data)
}

// ParseKeywordModel builds a recognizer from YAML intent model bytes.
func ParseKeywordModel(data []byte) (*KeywordRecognizer, error) {
	var model intentModel
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode intent model: %w", err)
	}

	converted := make(map[string]struct {
		Phrases  []string
		Patterns []string
	}, len(model.Intents))
	for name, def := range model.Intents {
		converted[name] = struct {
			Phrases  []string
			Patterns []string
		}{Phrases: def.Phrases, Patterns: def.Patterns}
	}
	return NewKeywordRecognizer(converted)
}

// Recognize scores the utterance against every intent and returns the top
// match, or the None intent when nothing matches.
func (r *KeywordRecognizer) Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(utterance))

	result := &models.RecognizerResult{
		TopIntent: models.IntentNone,
		Intents:   make(map[string]float64),
	}

	for _, intent := range r.intents {
		score := intent.score(normalized)
		if score == 0 {
			continue
		}
		result.Intents[intent.name] = score
		if score > result.Score || (score == result.Score && intent.name < result.TopIntent) {
			result.TopIntent = intent.name
			result.Score = score
		}
	}

	return result, nil
}

// score returns the intent's confidence for a normalized utterance.
func (ci compiledIntent) score(normalized string) float64 {
	best := 0.0
	for _, phrase := range ci.phrases {
		if phrase == "" {
			continue
		}
		if normalized == phrase {
			return scoreExact
		}
		if best < scoreContain && containsPhrase(normalized, phrase) {
			best = scoreContain
		}
	}
	for _, re := range ci.patterns {
		if best < scorePattern && re.MatchString(normalized) {
			best = scorePattern
		}
	}
	return best
}

// containsPhrase reports whether the phrase occurs in the utterance on word
// boundaries, so "top" does not trigger on "stop".
func containsPhrase(utterance, phrase string) bool {
	idx := strings.Index(utterance, phrase)
	for idx >= 0 {
		beforeOK := idx == 0 || !isWordByte(utterance[idx-1])
		end := idx + len(phrase)
		afterOK := end == len(utterance) || !isWordByte(utterance[end])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(utterance[idx+1:], phrase)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
