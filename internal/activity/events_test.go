package activity

import "testing"

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		wireName string
		want     EventKind
		wantOK   bool
	}{
		{"skill begin", "skillBegin", EventSkillBegin, true},
		{"token request", "tokens/request", EventTokenRequest, true},
		{"token response", "tokens/response", EventTokenResponse, true},
		{"location", "VA.Location", EventLocation, true},
		{"timezone", "VA.Timezone", EventTimezone, true},
		{"start conversation", "startConversation", EventStartConversation, true},
		{"unknown name", "VA.ActiveRoute", EventUnknown, false},
		{"empty name", "", EventUnknown, false},
		{"case sensitive", "skillbegin", EventUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.wireName)
			if ok != tt.wantOK {
				t.Fatalf("KindOf(%q) ok = %v, want %v", tt.wireName, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.wireName, got, tt.want)
			}
		})
	}
}

func TestWireNameRoundTrip(t *testing.T) {
	kinds := []EventKind{
		EventSkillBegin,
		EventTokenRequest,
		EventTokenResponse,
		EventLocation,
		EventTimezone,
		EventStartConversation,
	}

	for _, kind := range kinds {
		name := kind.WireName()
		if name == "" {
			t.Errorf("kind %v has empty wire name", kind)
			continue
		}
		back, ok := KindOf(name)
		if !ok || back != kind {
			t.Errorf("KindOf(%q) = (%v, %v), want (%v, true)", name, back, ok, kind)
		}
	}
}

func TestValidateEventTable(t *testing.T) {
	if err := ValidateEventTable(); err != nil {
		t.Fatalf("ValidateEventTable() = %v, want nil", err)
	}
}
