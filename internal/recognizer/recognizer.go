// Package recognizer provides intent recognition and question answering
// backends for routing user utterances.
package recognizer

import (
	"context"

	"github.com/maestrokit/maestro/pkg/models"
)

// Recognizer classifies an utterance into one of a model's intents.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error)
}

// Answer is one candidate answer from a QnA service.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
}

// QnA answers free-form questions from a knowledge base.
type QnA interface {
	Answers(ctx context.Context, question string) ([]Answer, error)
}
