// Package dialog provides the turn-handling composition layer: a per-turn
// driver with handler hooks, a minimal dialog stack, and the auth dialog.
package dialog

import (
	"context"

	"github.com/maestrokit/maestro/pkg/models"
)

// Status describes where a dialog left the turn.
type Status int

const (
	// StatusEmpty means no dialog is in progress.
	StatusEmpty Status = iota
	// StatusWaiting means the dialog is waiting for the next user input.
	StatusWaiting
	// StatusComplete means the dialog finished this turn.
	StatusComplete
	// StatusCancelled means the dialog was cancelled before completing.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusWaiting:
		return "waiting"
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one dialog step.
type Result struct {
	Status Status
	// Value carries the dialog's return value when Status is StatusComplete.
	Value any
}

// Dialog is one resumable conversation flow.
type Dialog interface {
	// ID uniquely identifies the dialog within a registry.
	ID() string
	// Begin starts the dialog. Options carry dialog-specific input.
	Begin(ctx context.Context, t *Turn, options any) (Result, error)
	// Continue resumes the dialog with the turn's incoming activity.
	Continue(ctx context.Context, t *Turn) (Result, error)
}

// Turn bundles everything a handler needs for one incoming activity. Replies
// are collected on the turn and flushed by the caller after the turn ends.
type Turn struct {
	// Activity is the incoming activity.
	Activity *models.Activity
	// Stack is the conversation's dialog stack.
	Stack *Stack

	responses []models.Activity
}

// NewTurn builds a turn for an incoming activity over the given stack.
func NewTurn(activity *models.Activity, stack *Stack) *Turn {
	if stack == nil {
		stack = NewStack()
	}
	return &Turn{Activity: activity, Stack: stack}
}

// Send queues an outgoing activity.
func (t *Turn) Send(a models.Activity) {
	t.responses = append(t.responses, a)
}

// SendText queues a plain message reply to the incoming activity.
func (t *Turn) SendText(text string) {
	reply := t.Activity.CreateReply(text)
	reply.Speak = text
	t.Send(reply)
}

// Responses returns the queued outgoing activities in send order.
func (t *Turn) Responses() []models.Activity {
	return t.responses
}

// ConversationID returns the incoming activity's conversation id.
func (t *Turn) ConversationID() string {
	return t.Activity.ConversationID
}

// UserID returns the id of the activity sender.
func (t *Turn) UserID() string {
	return t.Activity.From
}

// Locale returns the incoming activity's locale.
func (t *Turn) Locale() string {
	return t.Activity.Locale
}
