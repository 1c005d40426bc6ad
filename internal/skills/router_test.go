package skills

import (
	"testing"

	"github.com/maestrokit/maestro/pkg/models"
)

func manifest(id, intent string, actionIDs ...string) models.SkillManifest {
	m := models.SkillManifest{
		ID:             id,
		Name:           id,
		Endpoint:       "http://localhost/" + id,
		DispatchIntent: intent,
	}
	for _, a := range actionIDs {
		m.Actions = append(m.Actions, models.Action{ID: a})
	}
	return m
}

func TestRouter_IsSkill(t *testing.T) {
	router := NewRouter([]models.SkillManifest{
		manifest("calendarSkill", "", "calendarSkill/createEvent", "calendarSkill/showNext"),
		manifest("todoSkill", "", "todoSkill/addTask"),
	})

	tests := []struct {
		name     string
		actionID string
		wantID   string
		wantOK   bool
	}{
		{"first skill action", "calendarSkill/createEvent", "calendarSkill", true},
		{"second skill action", "todoSkill/addTask", "todoSkill", true},
		{"unknown action", "emailSkill/send", "", false},
		{"case sensitive", "CalendarSkill/createEvent", "", false},
		{"empty action id", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := router.IsSkill(tc.actionID)
			if ok != tc.wantOK {
				t.Fatalf("IsSkill(%q) ok = %v, want %v", tc.actionID, ok, tc.wantOK)
			}
			if ok && m.ID != tc.wantID {
				t.Errorf("IsSkill(%q) matched %q, want %q", tc.actionID, m.ID, tc.wantID)
			}
		})
	}
}

func TestRouter_IsSkill_DuplicateActionIDs(t *testing.T) {
	// Two skills declaring the same action id: the first registered wins.
	router := NewRouter([]models.SkillManifest{
		manifest("first", "", "shared/action"),
		manifest("second", "", "shared/action"),
	})

	m, ok := router.IsSkill("shared/action")
	if !ok {
		t.Fatal("expected a match for shared/action")
	}
	if m.ID != "first" {
		t.Errorf("matched %q, want %q", m.ID, "first")
	}
}

func TestRouter_IdentifyRegisteredSkill(t *testing.T) {
	router := NewRouter([]models.SkillManifest{
		manifest("calendarSkill", "l_calendar", "calendarSkill/createEvent"),
		manifest("todoSkill", "", "todoSkill/addTask"),
	})

	tests := []struct {
		name   string
		intent string
		wantID string
		wantOK bool
	}{
		{"by dispatch intent", "l_calendar", "calendarSkill", true},
		{"by skill id when no intent declared", "todoSkill", "todoSkill", true},
		{"unknown intent", "l_email", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := router.IdentifyRegisteredSkill(tc.intent)
			if ok != tc.wantOK {
				t.Fatalf("IdentifyRegisteredSkill(%q) ok = %v, want %v", tc.intent, ok, tc.wantOK)
			}
			if ok && m.ID != tc.wantID {
				t.Errorf("IdentifyRegisteredSkill(%q) matched %q, want %q", tc.intent, m.ID, tc.wantID)
			}
		})
	}
}

func TestRouter_IdentifyRegisteredSkill_IDFallback(t *testing.T) {
	// A skill whose dispatch intent differs from its id must still be
	// resolvable by id.
	router := NewRouter([]models.SkillManifest{
		manifest("calendarSkill", "l_calendar", "calendarSkill/createEvent"),
	})

	m, ok := router.IdentifyRegisteredSkill("calendarSkill")
	if !ok {
		t.Fatal("expected id fallback match")
	}
	if m.ID != "calendarSkill" {
		t.Errorf("matched %q, want calendarSkill", m.ID)
	}
}

func TestRouter_CopiesInput(t *testing.T) {
	manifests := []models.SkillManifest{manifest("a", "", "a/x")}
	router := NewRouter(manifests)

	manifests[0].ID = "mutated"
	if m, ok := router.IsSkill("a/x"); !ok || m.ID != "a" {
		t.Error("router must not observe mutation of the input slice")
	}
}
