package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies the kind of activity on the wire.
type ActivityType string

const (
	// ActivityMessage is a user-visible message.
	ActivityMessage ActivityType = "message"
	// ActivityEvent is a named, machine-readable event.
	ActivityEvent ActivityType = "event"
	// ActivityEndOfConversation signals a skill has finished its conversation.
	ActivityEndOfConversation ActivityType = "endOfConversation"
	// ActivityTrace carries diagnostic text that channels may hide from users.
	ActivityTrace ActivityType = "trace"
	// ActivityConversationUpdate signals membership changes in a conversation.
	ActivityConversationUpdate ActivityType = "conversationUpdate"
)

// Valid returns true if the type is a known value.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityMessage, ActivityEvent, ActivityEndOfConversation, ActivityTrace, ActivityConversationUpdate:
		return true
	default:
		return false
	}
}

// InputHint tells the channel whether the bot is expecting input.
type InputHint string

const (
	InputHintAcceptingInput InputHint = "acceptingInput"
	InputHintExpectingInput InputHint = "expectingInput"
	InputHintIgnoringInput  InputHint = "ignoringInput"
)

// Activity is the wire unit exchanged between the user, the assistant and
// its skills.
type Activity struct {
	// Type is the kind of activity.
	Type ActivityType `json:"type"`
	// ID is the unique identifier for this activity.
	ID string `json:"id,omitempty"`
	// ReplyToID is the ID of the activity this one responds to.
	ReplyToID string `json:"replyToId,omitempty"`
	// ConversationID partitions activities into conversations.
	ConversationID string `json:"conversationId"`
	// From identifies the sender.
	From string `json:"from,omitempty"`
	// Recipient identifies the receiver.
	Recipient string `json:"recipient,omitempty"`
	// Locale is the BCP-47 locale of the sender, e.g. "en-us".
	Locale string `json:"locale,omitempty"`
	// Text is the message body for message activities.
	Text string `json:"text,omitempty"`
	// Speak is the spoken rendering of Text, if different.
	Speak string `json:"speak,omitempty"`
	// InputHint tells the channel whether input is expected after this activity.
	InputHint InputHint `json:"inputHint,omitempty"`
	// SuggestedActions are quick-reply options offered to the user.
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	// Name is the event name for event activities.
	Name string `json:"name,omitempty"`
	// Value carries the event payload.
	Value map[string]any `json:"value,omitempty"`
	// Timestamp is when the activity was created.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewMessage creates a message activity for the given conversation.
func NewMessage(conversationID, text string) Activity {
	return Activity{
		Type:           ActivityMessage,
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		Timestamp:      time.Now().UTC(),
	}
}

// NewEvent creates a named event activity for the given conversation.
func NewEvent(conversationID, name string, value map[string]any) Activity {
	return Activity{
		Type:           ActivityEvent,
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Name:           name,
		Value:          value,
		Timestamp:      time.Now().UTC(),
	}
}

// CreateReply builds a reply to this activity. Sender and recipient are
// swapped and the conversation, locale, and reply-to linkage are preserved.
func (a Activity) CreateReply(text string) Activity {
	return Activity{
		Type:           ActivityMessage,
		ID:             uuid.NewString(),
		ReplyToID:      a.ID,
		ConversationID: a.ConversationID,
		From:           a.Recipient,
		Recipient:      a.From,
		Locale:         a.Locale,
		Text:           text,
		Timestamp:      time.Now().UTC(),
	}
}

// CreateTrace builds a trace reply carrying diagnostic text.
func (a Activity) CreateTrace(text string) Activity {
	reply := a.CreateReply(text)
	reply.Type = ActivityTrace
	return reply
}

// IsMessageWithText reports whether the activity is a message carrying
// non-whitespace text.
func (a Activity) IsMessageWithText() bool {
	if a.Type != ActivityMessage {
		return false
	}
	for _, r := range a.Text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
