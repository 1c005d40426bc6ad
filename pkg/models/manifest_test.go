package models

import "testing"

func validManifest() SkillManifest {
	return SkillManifest{
		ID:       "testSkill",
		Name:     "Test Skill",
		Endpoint: "https://example.com/api/skill",
		Actions: []Action{
			{ID: "testSkill/testAction", Name: "Test Action"},
		},
	}
}

func TestManifestProblems_Valid(t *testing.T) {
	if problems := validManifest().ManifestProblems(); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestManifestProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SkillManifest)
		want   string
	}{
		{
			"missing name",
			func(m *SkillManifest) { m.Name = "" },
			"Missing property 'name' of the manifest",
		},
		{
			"missing id",
			func(m *SkillManifest) { m.ID = "" },
			"Missing property 'id' of the manifest",
		},
		{
			"id starting with digit",
			func(m *SkillManifest) { m.ID = "1skill" },
			"The 'id' of the manifest contains some characters not allowed. Make sure the 'id' contains only letters, numbers and underscores, but doesn't start with number.",
		},
		{
			"id with hyphen",
			func(m *SkillManifest) { m.ID = "test-skill" },
			"The 'id' of the manifest contains some characters not allowed. Make sure the 'id' contains only letters, numbers and underscores, but doesn't start with number.",
		},
		{
			"missing endpoint",
			func(m *SkillManifest) { m.Endpoint = "" },
			"Missing property 'endpoint' of the manifest",
		},
		{
			"missing actions",
			func(m *SkillManifest) { m.Actions = nil },
			"Missing property 'actions' of the manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(&m)
			problems := m.ManifestProblems()
			if len(problems) != 1 {
				t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
			}
			if problems[0] != tt.want {
				t.Errorf("problem = %q, want %q", problems[0], tt.want)
			}
		})
	}
}

func TestSupportsAction(t *testing.T) {
	m := validManifest()

	if !m.SupportsAction("testSkill/testAction") {
		t.Error("expected manifest to support testSkill/testAction")
	}
	if m.SupportsAction("testSkill/TESTACTION") {
		t.Error("action matching should be case-sensitive")
	}
	if m.SupportsAction("otherSkill/testAction") {
		t.Error("expected manifest not to support otherSkill/testAction")
	}
}

func TestIntent(t *testing.T) {
	m := validManifest()
	if got := m.Intent(); got != "testSkill" {
		t.Errorf("Intent() = %q, want testSkill", got)
	}

	m.DispatchIntent = "l_test"
	if got := m.Intent(); got != "l_test" {
		t.Errorf("Intent() = %q, want l_test", got)
	}
}

func TestTopScoringIntent(t *testing.T) {
	var nilResult *RecognizerResult
	intent, score := nilResult.TopScoringIntent()
	if intent != IntentNone || score != 0 {
		t.Errorf("nil result = (%q, %v), want (None, 0)", intent, score)
	}

	r := &RecognizerResult{TopIntent: "Cancel", Score: 0.92}
	intent, score = r.TopScoringIntent()
	if intent != "Cancel" || score != 0.92 {
		t.Errorf("result = (%q, %v), want (Cancel, 0.92)", intent, score)
	}
}
