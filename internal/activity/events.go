// Package activity defines the event vocabulary shared between the
// assistant and its skills. Event names on the wire are mapped to an
// enumerated kind once, at the edge, instead of being string-switched
// throughout the codebase.
package activity

import "fmt"

// EventKind enumerates the events the assistant understands.
type EventKind int

const (
	// EventUnknown is returned for wire names outside the table.
	EventUnknown EventKind = iota
	// EventSkillBegin starts a skill conversation and carries slot values.
	EventSkillBegin
	// EventTokenRequest is emitted by a skill that needs a user token.
	EventTokenRequest
	// EventTokenResponse carries a provider token back to a waiting skill.
	EventTokenResponse
	// EventLocation updates the user's stored location.
	EventLocation
	// EventTimezone updates the user's stored timezone.
	EventTimezone
	// EventStartConversation opens a conversation proactively.
	EventStartConversation
)

// Wire names for each event kind.
const (
	SkillBeginName        = "skillBegin"
	TokenRequestName      = "tokens/request"
	TokenResponseName     = "tokens/response"
	LocationName          = "VA.Location"
	TimezoneName          = "VA.Timezone"
	StartConversationName = "startConversation"
)

// wireNames maps each known kind to its wire name. KindOf derives the
// reverse lookup from this table so the two can never drift apart.
var wireNames = map[EventKind]string{
	EventSkillBegin:        SkillBeginName,
	EventTokenRequest:      TokenRequestName,
	EventTokenResponse:     TokenResponseName,
	EventLocation:          LocationName,
	EventTimezone:          TimezoneName,
	EventStartConversation: StartConversationName,
}

var kindsByName = func() map[string]EventKind {
	m := make(map[string]EventKind, len(wireNames))
	for kind, name := range wireNames {
		m[name] = kind
	}
	return m
}()

// KindOf maps a wire event name to its kind. The second return value is
// false for names outside the table.
func KindOf(name string) (EventKind, bool) {
	kind, ok := kindsByName[name]
	return kind, ok
}

// WireName returns the wire name for a kind, or the empty string for
// EventUnknown.
func (k EventKind) WireName() string {
	return wireNames[k]
}

// String implements fmt.Stringer for diagnostics.
func (k EventKind) String() string {
	if name, ok := wireNames[k]; ok {
		return name
	}
	return "unknown"
}

// ValidateEventTable checks the kind/name mapping is bijective. Called once
// at startup; a failure indicates a programming error in this package.
func ValidateEventTable() error {
	if len(wireNames) != len(kindsByName) {
		return fmt.Errorf("event table is not bijective: %d kinds map to %d names", len(wireNames), len(kindsByName))
	}
	for kind, name := range wireNames {
		if name == "" {
			return fmt.Errorf("event kind %d has an empty wire name", kind)
		}
		back, ok := kindsByName[name]
		if !ok || back != kind {
			return fmt.Errorf("event name %q does not round-trip to kind %d", name, kind)
		}
	}
	return nil
}
