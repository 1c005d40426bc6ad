package models

// IntentNone is the catch-all intent returned when a recognizer has no
// confident match.
const IntentNone = "None"

// RecognizerResult is the outcome of running an utterance through an intent
// recognizer. Results are produced fresh per turn and never persisted.
type RecognizerResult struct {
	// TopIntent is the highest scoring intent label.
	TopIntent string `json:"topIntent"`
	// Score is the confidence of the top intent, in [0, 1].
	Score float64 `json:"score"`
	// Intents maps every scored intent label to its confidence.
	Intents map[string]float64 `json:"intents,omitempty"`
	// Entities holds extracted entity values keyed by entity name.
	Entities map[string]string `json:"entities,omitempty"`
}

// TopScoringIntent returns the top intent and its score, or IntentNone with
// a zero score when the result is empty.
func (r *RecognizerResult) TopScoringIntent() (string, float64) {
	if r == nil || r.TopIntent == "" {
		return IntentNone, 0
	}
	return r.TopIntent, r.Score
}
