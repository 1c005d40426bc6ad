package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Recognizer.Backend != "keyword" {
		t.Errorf("expected default backend 'keyword', got %q", cfg.Recognizer.Backend)
	}

	if cfg.Recognizer.Threshold != 0.5 {
		t.Errorf("expected default threshold 0.5, got %v", cfg.Recognizer.Threshold)
	}

	if cfg.Skills.File != "skills.json" {
		t.Errorf("expected default skills file 'skills.json', got %q", cfg.Skills.File)
	}

	if !cfg.Skills.Watch {
		t.Error("expected skills.watch to be true")
	}

	if cfg.DefaultLocale != "en-us" {
		t.Errorf("expected default locale 'en-us', got %q", cfg.DefaultLocale)
	}

	if _, ok := cfg.CognitiveModels["en-us"]; !ok {
		t.Error("expected default cognitive models for en-us")
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
recognizer:
  backend: claude
  threshold: 0.6
skills:
  file: /var/lib/maestro/skills.json
  watch: false
default_locale: de-de
cognitive_models:
  en-us:
    dispatch:
      id: dispatch-en
    luis:
      general:
        id: general-en
    qna:
      faq:
        id: faq-en
        threshold: 0.3
  de-de:
    dispatch:
      id: dispatch-de
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Recognizer.Backend != "claude" {
		t.Errorf("expected backend 'claude', got %q", cfg.Recognizer.Backend)
	}

	if cfg.Recognizer.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", cfg.Recognizer.Threshold)
	}

	if cfg.Skills.File != "/var/lib/maestro/skills.json" {
		t.Errorf("unexpected skills file %q", cfg.Skills.File)
	}

	if cfg.Skills.Watch {
		t.Error("expected skills.watch to be false")
	}

	if cfg.DefaultLocale != "de-de" {
		t.Errorf("expected default locale 'de-de', got %q", cfg.DefaultLocale)
	}

	models, ok := cfg.CognitiveModels["en-us"]
	if !ok {
		t.Fatal("expected cognitive models for en-us")
	}
	if models.Dispatch.ID != "dispatch-en" {
		t.Errorf("expected dispatch id 'dispatch-en', got %q", models.Dispatch.ID)
	}
	if models.Luis["general"].ID != "general-en" {
		t.Errorf("expected luis general id 'general-en', got %q", models.Luis["general"].ID)
	}
	if models.QnA["faq"].Threshold != 0.3 {
		t.Errorf("expected faq threshold 0.3, got %v", models.QnA["faq"].Threshold)
	}
}

func TestCognitiveModel(t *testing.T) {
	cfg := &Config{
		DefaultLocale: "en-us",
		CognitiveModels: map[string]CognitiveModels{
			"en-us": {Dispatch: ServiceRef{ID: "dispatch-en-us"}},
			"de":    {Dispatch: ServiceRef{ID: "dispatch-de"}},
		},
	}

	tests := []struct {
		name   string
		locale string
		wantID string
		wantOK bool
	}{
		{"exact match", "en-us", "dispatch-en-us", true},
		{"exact match mixed case", "EN-US", "dispatch-en-us", true},
		{"language subtag fallback", "de-de", "dispatch-de", true},
		{"unknown falls back to default", "fr-fr", "dispatch-en-us", true},
		{"empty locale uses default", "", "dispatch-en-us", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			models, ok := cfg.CognitiveModel(tc.locale)
			if ok != tc.wantOK {
				t.Fatalf("CognitiveModel(%q) ok = %v, want %v", tc.locale, ok, tc.wantOK)
			}
			if models.Dispatch.ID != tc.wantID {
				t.Errorf("CognitiveModel(%q) dispatch id = %q, want %q", tc.locale, models.Dispatch.ID, tc.wantID)
			}
		})
	}

	empty := &Config{DefaultLocale: "en-us"}
	if _, ok := empty.CognitiveModel("en-us"); ok {
		t.Error("expected no models for empty config")
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/maestro"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
