// Package state provides SQLite-based state management for Maestro.
package state

import (
	"io"

	"github.com/maestrokit/maestro/pkg/models"
)

// ConversationStore handles conversation-related persistence operations.
type ConversationStore interface {
	GetConversation(id string) (*Conversation, error)
	SaveConversation(c *Conversation) error
	DeleteConversation(id string) error
	ActiveSkill(conversationID string) (string, error)
	SetActiveSkill(conversationID, skillID string) error
	ClearActiveSkill(conversationID string) error
	SetPreviousResponses(conversationID string, responses []models.Activity) error
	PreviousResponses(conversationID string) ([]models.Activity, error)
}

// UserStore handles user-related persistence operations.
type UserStore interface {
	GetUser(id string) (*User, error)
	SaveUser(u *User) error
	DeleteUser(id string) error
	UserSkillContext(userID string) (*SkillContext, error)
	SetSkillContextValue(userID, key string, value any) error
	Profile(userID string) (name string, onboarded bool, err error)
	SetProfile(userID, name string) error
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for state persistence.
// This interface allows the orchestrator to work with any state backend
// without depending on the concrete SQLite implementation.
// It composes focused sub-interfaces for better modularity.
type Store interface {
	io.Closer
	Migrator
	ConversationStore
	UserStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store             = (*DB)(nil)
	_ Migrator          = (*DB)(nil)
	_ ConversationStore = (*DB)(nil)
	_ UserStore         = (*DB)(nil)
)
