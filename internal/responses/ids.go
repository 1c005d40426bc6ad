package responses

import (
	"embed"
	"io/fs"
)

// MainResponses is the template collection used by the root assistant.
const MainResponses = "MainResponses"

// Template ids in the MainResponses collection.
const (
	NewUserIntro     = "newUserIntro"
	ReturningIntro   = "returningUserIntro"
	Help             = "help"
	Cancelled        = "cancelled"
	CancelConfirm    = "cancelConfirm"
	CancelDenied     = "cancelDenied"
	NothingToCancel  = "nothingToCancel"
	Completed        = "completed"
	Confused         = "confused"
	Escalate         = "escalate"
	Logout           = "logout"
	StartOver        = "startOver"
	SkillSwitch      = "skillSwitchPrompt"
	SkillError       = "skillError"
	AuthPrompt       = "authPrompt"
	NamePrompt       = "namePrompt"
	HaveNameMessage  = "haveName"
	SignOutUnsupport = "signOutUnsupported"
)

//go:embed resources
var resourceFS embed.FS

// DefaultLocales are the locale buckets shipped with the assistant.
var DefaultLocales = []string{"en-us", "de-de", "es-es"}

// Default builds a manager over the embedded MainResponses collection.
func Default() (*Manager, error) {
	fsys, err := fs.Sub(resourceFS, "resources")
	if err != nil {
		return nil, err
	}
	return New(fsys, DefaultLocales, MainResponses)
}
