package models

import "regexp"

// Slot is a named parameter of a skill action that can be pre-filled from
// shared context to avoid re-prompting the user.
type Slot struct {
	// Name is the slot identifier, matched exactly against context keys.
	Name string `json:"name"`
	// Types lists the value types the slot accepts.
	Types []string `json:"types,omitempty"`
}

// ActionDefinition describes what an action does and which slots it accepts.
type ActionDefinition struct {
	// Description is human-readable documentation for the action.
	Description string `json:"description,omitempty"`
	// Slots are the parameters the action can be pre-filled with.
	Slots []Slot `json:"slots,omitempty"`
}

// Action is a named operation a skill exposes, e.g. "calendarSkill/createEvent".
type Action struct {
	// ID is the fully qualified action identifier.
	ID string `json:"id"`
	// Name is the display name of the action.
	Name string `json:"name,omitempty"`
	// Definition holds the action's description and slot declarations.
	Definition ActionDefinition `json:"definition"`
}

// SkillManifest describes a skill: identity, endpoint, and the actions the
// skill supports. Manifests are immutable once loaded; registration order is
// the order they appear in the connected-skills file.
type SkillManifest struct {
	// ID is the unique skill identifier; letters, numbers and underscores,
	// not starting with a number.
	ID string `json:"id"`
	// Name is the display name of the skill.
	Name string `json:"name"`
	// Description summarizes the skill's capabilities.
	Description string `json:"description,omitempty"`
	// Endpoint is the URI the skill is reachable at.
	Endpoint string `json:"endpoint"`
	// DispatchIntent is the dispatcher intent label bound to this skill.
	// Defaults to the skill ID when empty.
	DispatchIntent string `json:"dispatchIntent,omitempty"`
	// Actions lists the operations the skill supports.
	Actions []Action `json:"actions"`
}

// invalidIDPattern matches ids that start with a digit or contain
// characters outside [A-Za-z0-9_].
var invalidIDPattern = regexp.MustCompile(`^\d|[^\w]`)

// ManifestProblems validates the manifest shape and returns one message per
// problem, using the fixed templates the skill CLI reports. An empty slice
// means the manifest is valid.
func (m SkillManifest) ManifestProblems() []string {
	var problems []string
	if m.Name == "" {
		problems = append(problems, "Missing property 'name' of the manifest")
	}
	if m.ID == "" {
		problems = append(problems, "Missing property 'id' of the manifest")
	} else if invalidIDPattern.MatchString(m.ID) {
		problems = append(problems, "The 'id' of the manifest contains some characters not allowed. Make sure the 'id' contains only letters, numbers and underscores, but doesn't start with number.")
	}
	if m.Endpoint == "" {
		problems = append(problems, "Missing property 'endpoint' of the manifest")
	}
	if len(m.Actions) == 0 {
		problems = append(problems, "Missing property 'actions' of the manifest")
	}
	return problems
}

// SupportsAction reports whether the manifest declares the given action id.
// Matching is exact and case-sensitive.
func (m SkillManifest) SupportsAction(actionID string) bool {
	for _, a := range m.Actions {
		if a.ID == actionID {
			return true
		}
	}
	return false
}

// FindAction returns the declared action with the given id.
func (m SkillManifest) FindAction(actionID string) (Action, bool) {
	for _, a := range m.Actions {
		if a.ID == actionID {
			return a, true
		}
	}
	return Action{}, false
}

// Intent returns the dispatch intent bound to the skill, falling back to the
// skill id when the manifest does not declare one.
func (m SkillManifest) Intent() string {
	if m.DispatchIntent != "" {
		return m.DispatchIntent
	}
	return m.ID
}
