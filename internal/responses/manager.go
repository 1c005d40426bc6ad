package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"strings"
	"time"

	"github.com/maestrokit/maestro/pkg/models"
)

// defaultLocaleKey is the bucket holding templates from collection files
// without a locale suffix.
const defaultLocaleKey = "default"

// ErrTemplateNotFound is returned when a template id is absent from every
// bucket the locale resolution order visits.
var ErrTemplateNotFound = errors.New("template not found")

// Manager resolves template ids against locale buckets and renders them
// into activities. It is read-only after construction.
type Manager struct {
	// buckets maps locale key -> template id -> template.
	buckets map[string]map[string]Template
	rng     *rand.Rand
}

// New loads the given collections from fsys for each locale. For every
// collection, "<collection>.json" fills the default bucket and
// "<collection>.<locale>.json" fills that locale's bucket when the file
// exists. A collection with no default file is an error.
func New(fsys fs.FS, locales []string, collections ...string) (*Manager, error) {
	m := &Manager{
		buckets: make(map[string]map[string]Template),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, collection := range collections {
		if err := m.load(fsys, collection, defaultLocaleKey, fmt.Sprintf("%s.json", collection)); err != nil {
			return nil, err
		}
		for _, locale := range locales {
			name := fmt.Sprintf("%s.%s.json", collection, strings.ToLower(locale))
			if err := m.load(fsys, collection, strings.ToLower(locale), name); err != nil {
				// Missing locale files fall back to the default bucket.
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, err
			}
		}
	}

	return m, nil
}

// Seed reseeds the reply picker so multi-reply selection is reproducible.
func (m *Manager) Seed(seed int64) {
	m.rng = rand.New(rand.NewSource(seed))
}

func (m *Manager) load(fsys fs.FS, collection, localeKey, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read collection %s: %w", collection, err)
	}

	templates := make(map[string]Template)
	if err := json.Unmarshal(data, &templates); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	bucket := m.buckets[localeKey]
	if bucket == nil {
		bucket = make(map[string]Template)
		m.buckets[localeKey] = bucket
	}
	for id, template := range templates {
		bucket[id] = template
	}
	return nil
}

// Template resolves a template id for a locale. Resolution order is exact
// locale, then the primary language subtag, then the default bucket; a miss
// in all three returns ErrTemplateNotFound wrapped with the id.
func (m *Manager) Template(templateID, locale string) (Template, error) {
	keys := []string{defaultLocaleKey}
	if locale != "" {
		lower := strings.ToLower(locale)
		if lang, _, found := strings.Cut(lower, "-"); found {
			keys = []string{lower, lang, defaultLocaleKey}
		} else {
			keys = []string{lower, defaultLocaleKey}
		}
	}

	for _, key := range keys {
		if bucket, ok := m.buckets[key]; ok {
			if template, ok := bucket[templateID]; ok {
				return template, nil
			}
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
}

// Response renders a template into a message activity, substituting tokens
// into the chosen reply's text and speak fields.
func (m *Manager) Response(templateID, locale string, tokens map[string]string) (models.Activity, error) {
	template, err := m.Template(templateID, locale)
	if err != nil {
		return models.Activity{}, err
	}
	if len(template.Replies) == 0 {
		return models.Activity{}, fmt.Errorf("template %s has no replies", templateID)
	}

	reply := template.Replies[m.rng.Intn(len(template.Replies))]

	act := models.Activity{
		Type:             models.ActivityMessage,
		Locale:           locale,
		Text:             Format(reply.Text, tokens),
		Speak:            Format(reply.Speak, tokens),
		InputHint:        models.InputHint(template.InputHint),
		SuggestedActions: template.SuggestedActions,
	}
	if act.InputHint == "" {
		act.InputHint = models.InputHintAcceptingInput
	}
	return act, nil
}

// ResponseText renders a template and returns only the text.
func (m *Manager) ResponseText(templateID, locale string, tokens map[string]string) (string, error) {
	act, err := m.Response(templateID, locale, tokens)
	if err != nil {
		return "", err
	}
	return act.Text, nil
}
