package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maestrokit/maestro/pkg/models"
)

// Conversation holds per-conversation orchestration state.
type Conversation struct {
	ID string `json:"id"`
	// ActiveSkill is the manifest id of the skill currently holding the
	// conversation, or empty when the assistant itself is in control.
	ActiveSkill string `json:"active_skill"`
	// PreviousResponses are the assistant's replies from the last turn,
	// kept so the user can ask for them to be repeated.
	PreviousResponses []models.Activity `json:"previous_responses"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// GetConversation retrieves conversation state by id. It returns nil when no
// state has been stored for the conversation yet.
func (db *DB) GetConversation(id string) (*Conversation, error) {
	row := db.QueryRow(`
		SELECT id, active_skill, previous_responses, updated_at
		FROM conversations WHERE id = ?
	`, id)

	var c Conversation
	var activeSkill, previous sql.NullString
	var updatedAt string
	err := row.Scan(&c.ID, &activeSkill, &previous, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	if activeSkill.Valid {
		c.ActiveSkill = activeSkill.String
	}
	if previous.Valid && previous.String != "" {
		if err := json.Unmarshal([]byte(previous.String), &c.PreviousResponses); err != nil {
			return nil, fmt.Errorf("decode previous responses: %w", err)
		}
	}
	c.UpdatedAt, _ = parseTime(updatedAt)
	return &c, nil
}

// SaveConversation inserts or replaces conversation state.
func (db *DB) SaveConversation(c *Conversation) error {
	previous, err := json.Marshal(c.PreviousResponses)
	if err != nil {
		return fmt.Errorf("encode previous responses: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO conversations (id, active_skill, previous_responses, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active_skill = excluded.active_skill,
			previous_responses = excluded.previous_responses,
			updated_at = excluded.updated_at
	`, c.ID, c.ActiveSkill, string(previous), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes all state for a conversation.
func (db *DB) DeleteConversation(id string) error {
	_, err := db.Exec("DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// ActiveSkill returns the manifest id of the skill holding the conversation,
// or empty when none does.
func (db *DB) ActiveSkill(conversationID string) (string, error) {
	c, err := db.GetConversation(conversationID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.ActiveSkill, nil
}

// SetActiveSkill records that a skill now holds the conversation.
func (db *DB) SetActiveSkill(conversationID, skillID string) error {
	c, err := db.GetConversation(conversationID)
	if err != nil {
		return err
	}
	if c == nil {
		c = &Conversation{ID: conversationID}
	}
	c.ActiveSkill = skillID
	return db.SaveConversation(c)
}

// ClearActiveSkill returns control of the conversation to the assistant.
func (db *DB) ClearActiveSkill(conversationID string) error {
	return db.SetActiveSkill(conversationID, "")
}

// SetPreviousResponses replaces the stored replies from the last turn.
func (db *DB) SetPreviousResponses(conversationID string, responses []models.Activity) error {
	c, err := db.GetConversation(conversationID)
	if err != nil {
		return err
	}
	if c == nil {
		c = &Conversation{ID: conversationID}
	}
	c.PreviousResponses = responses
	return db.SaveConversation(c)
}

// PreviousResponses returns the stored replies from the last turn.
func (db *DB) PreviousResponses(conversationID string) ([]models.Activity, error) {
	c, err := db.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return c.PreviousResponses, nil
}
