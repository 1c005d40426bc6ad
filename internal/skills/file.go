package skills

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maestrokit/maestro/pkg/models"
)

// File is the on-disk connected-skills document.
type File struct {
	Skills []models.SkillManifest `json:"skills"`
}

// ReadFile loads the connected-skills file. A missing file yields an empty
// document so a fresh assistant starts with zero skills.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read skills file %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode skills file %s: %w", path, err)
	}
	return &f, nil
}

// WriteFile persists the connected-skills document.
func WriteFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode skills file: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write skills file %s: %w", path, err)
	}
	return nil
}

// Find returns the manifest with the given skill id.
func (f *File) Find(id string) (*models.SkillManifest, bool) {
	for i := range f.Skills {
		if f.Skills[i].ID == id {
			return &f.Skills[i], true
		}
	}
	return nil, false
}

// Add appends a manifest to the document.
func (f *File) Add(m models.SkillManifest) {
	f.Skills = append(f.Skills, m)
}

// Remove deletes the manifest with the given id, reporting whether it was
// present.
func (f *File) Remove(id string) bool {
	for i := range f.Skills {
		if f.Skills[i].ID == id {
			f.Skills = append(f.Skills[:i], f.Skills[i+1:]...)
			return true
		}
	}
	return false
}

// LoadRouter reads the connected-skills file and builds a router over it.
func LoadRouter(path string) (*Router, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewRouter(f.Skills), nil
}
