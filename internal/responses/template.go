// Package responses renders locale-aware response templates into outgoing
// activities. Template collections are JSON files loaded once at startup;
// a manager is constructed explicitly and injected where needed.
package responses

import "regexp"

// Reply is one possible rendering of a response template.
type Reply struct {
	// Text is the display text, with {token} placeholders.
	Text string `json:"text"`
	// Speak is the spoken rendering, with {token} placeholders.
	Speak string `json:"speak,omitempty"`
}

// Template is a named response with one or more candidate replies.
type Template struct {
	// Replies are the candidate renderings; one is chosen per response.
	Replies []Reply `json:"replies"`
	// SuggestedActions are quick-reply options attached to the response.
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	// InputHint tells the channel whether input is expected.
	InputHint string `json:"inputHint,omitempty"`
}

// tokenPattern matches {name} placeholders with word-character names.
var tokenPattern = regexp.MustCompile(`\{(\w+)\}`)

// Format substitutes {name} placeholders in a single left-to-right scan.
// Placeholders without a matching token are left untouched, so formatting a
// string with no placeholders returns it unchanged.
func Format(template string, tokens map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		if value, ok := tokens[key]; ok {
			return value
		}
		return match
	})
}
