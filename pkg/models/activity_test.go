package models

import "testing"

func TestActivityType_Valid(t *testing.T) {
	tests := []struct {
		name string
		typ  ActivityType
		want bool
	}{
		{"message is valid", ActivityMessage, true},
		{"event is valid", ActivityEvent, true},
		{"endOfConversation is valid", ActivityEndOfConversation, true},
		{"trace is valid", ActivityTrace, true},
		{"conversationUpdate is valid", ActivityConversationUpdate, true},
		{"empty string is invalid", ActivityType(""), false},
		{"unknown type is invalid", ActivityType("typing"), false},
		{"uppercase is invalid", ActivityType("Message"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Valid(); got != tt.want {
				t.Errorf("ActivityType(%q).Valid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestCreateReply(t *testing.T) {
	original := Activity{
		Type:           ActivityMessage,
		ID:             "act-1",
		ConversationID: "conv-1",
		From:           "user",
		Recipient:      "bot",
		Locale:         "en-us",
		Text:           "hello",
	}

	reply := original.CreateReply("hi there")

	if reply.Type != ActivityMessage {
		t.Errorf("reply.Type = %q, want %q", reply.Type, ActivityMessage)
	}
	if reply.ConversationID != "conv-1" {
		t.Errorf("reply.ConversationID = %q, want conv-1", reply.ConversationID)
	}
	if reply.ReplyToID != "act-1" {
		t.Errorf("reply.ReplyToID = %q, want act-1", reply.ReplyToID)
	}
	if reply.From != "bot" || reply.Recipient != "user" {
		t.Errorf("reply sender/recipient = %q/%q, want bot/user", reply.From, reply.Recipient)
	}
	if reply.Locale != "en-us" {
		t.Errorf("reply.Locale = %q, want en-us", reply.Locale)
	}
	if reply.Text != "hi there" {
		t.Errorf("reply.Text = %q, want %q", reply.Text, "hi there")
	}
	if reply.ID == "" || reply.ID == original.ID {
		t.Errorf("reply.ID = %q, want a fresh id", reply.ID)
	}
}

func TestCreateTrace(t *testing.T) {
	original := NewMessage("conv-1", "hello")
	trace := original.CreateTrace("diagnostic")

	if trace.Type != ActivityTrace {
		t.Errorf("trace.Type = %q, want %q", trace.Type, ActivityTrace)
	}
	if trace.Text != "diagnostic" {
		t.Errorf("trace.Text = %q, want diagnostic", trace.Text)
	}
}

func TestIsMessageWithText(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		want     bool
	}{
		{"message with text", Activity{Type: ActivityMessage, Text: "hello"}, true},
		{"message with empty text", Activity{Type: ActivityMessage, Text: ""}, false},
		{"message with whitespace only", Activity{Type: ActivityMessage, Text: " \t\n"}, false},
		{"event with text", Activity{Type: ActivityEvent, Text: "hello"}, false},
		{"message with leading whitespace", Activity{Type: ActivityMessage, Text: "  hi"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.activity.IsMessageWithText(); got != tt.want {
				t.Errorf("IsMessageWithText() = %v, want %v", got, tt.want)
			}
		})
	}
}
