package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// User holds per-user profile and skill context state.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Onboarded is set once the user has completed the first-run greeting.
	Onboarded bool          `json:"onboarded"`
	Context   *SkillContext `json:"context"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// GetUser retrieves user state by id. It returns a fresh record when the
// user has not been seen before.
func (db *DB) GetUser(id string) (*User, error) {
	row := db.QueryRow(`
		SELECT id, name, onboarded, skill_context, updated_at
		FROM users WHERE id = ?
	`, id)

	var u User
	var onboarded int
	var context sql.NullString
	var updatedAt string
	err := row.Scan(&u.ID, &u.Name, &onboarded, &context, &updatedAt)
	if err == sql.ErrNoRows {
		return &User{ID: id, Context: NewSkillContext()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	u.Onboarded = onboarded != 0
	u.Context = NewSkillContext()
	if context.Valid && context.String != "" {
		if err := json.Unmarshal([]byte(context.String), u.Context); err != nil {
			return nil, fmt.Errorf("decode skill context: %w", err)
		}
	}
	u.UpdatedAt, _ = parseTime(updatedAt)
	return &u, nil
}

// SaveUser inserts or replaces user state.
func (db *DB) SaveUser(u *User) error {
	if u.Context == nil {
		u.Context = NewSkillContext()
	}
	context, err := json.Marshal(u.Context)
	if err != nil {
		return fmt.Errorf("encode skill context: %w", err)
	}

	onboarded := 0
	if u.Onboarded {
		onboarded = 1
	}

	_, err = db.Exec(`
		INSERT INTO users (id, name, onboarded, skill_context, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			onboarded = excluded.onboarded,
			skill_context = excluded.skill_context,
			updated_at = excluded.updated_at
	`, u.ID, u.Name, onboarded, string(context), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UserSkillContext returns the user's slot bag.
func (db *DB) UserSkillContext(userID string) (*SkillContext, error) {
	u, err := db.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return u.Context, nil
}

// SetSkillContextValue stores one slot value for a user.
func (db *DB) SetSkillContextValue(userID, key string, value any) error {
	u, err := db.GetUser(userID)
	if err != nil {
		return err
	}
	u.Context.Set(key, value)
	return db.SaveUser(u)
}

// Profile returns the user's display name and onboarded flag.
func (db *DB) Profile(userID string) (name string, onboarded bool, err error) {
	u, err := db.GetUser(userID)
	if err != nil {
		return "", false, err
	}
	return u.Name, u.Onboarded, nil
}

// SetProfile updates the user's display name and marks them onboarded.
func (db *DB) SetProfile(userID, name string) error {
	u, err := db.GetUser(userID)
	if err != nil {
		return err
	}
	u.Name = name
	u.Onboarded = true
	return db.SaveUser(u)
}

// DeleteUser removes all state for a user.
func (db *DB) DeleteUser(id string) error {
	_, err := db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
