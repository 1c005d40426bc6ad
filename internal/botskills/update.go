package botskills

import (
	"context"
	"strings"

	"github.com/maestrokit/maestro/internal/skills"
	"github.com/maestrokit/maestro/pkg/models"
)

// Update re-reads one or more manifests and replaces the connected copies.
// Each manifest is processed independently: a validation failure on one
// skill is logged and the rest still update.
type Update struct {
	Logger *Logger
	Runner Runner
	// SkillsFile is the connected-skills document to rewrite.
	SkillsFile string
	// Manifests are local paths or remote URLs, one per skill to update.
	Manifests []string
	NoRefresh bool
}

// Execute updates every resolvable skill. It reports true only when all
// manifests updated cleanly.
func (u *Update) Execute(ctx context.Context) bool {
	file, err := skills.ReadFile(u.SkillsFile)
	if err != nil {
		u.Logger.Error("There was an error while updating the Skills of the Assistant:\n%v", err)
		return false
	}

	clean := true
	changed := false
	for _, source := range u.Manifests {
		if u.updateOne(ctx, file, source) {
			changed = true
		} else {
			clean = false
		}
	}

	if changed {
		if err := skills.WriteFile(u.SkillsFile, file); err != nil {
			u.Logger.Error("There was an error while updating the Skills of the Assistant:\n%v", err)
			return false
		}
		if !u.NoRefresh {
			r := &Refresh{Logger: u.Logger, Runner: u.Runner, SkillsFile: u.SkillsFile}
			if !r.Execute(ctx) {
				return false
			}
		}
	}
	return clean
}

// updateOne loads, validates and swaps a single manifest in the document.
// Failures are logged; they never abort the batch.
func (u *Update) updateOne(ctx context.Context, file *skills.File, source string) bool {
	var (
		manifest *models.SkillManifest
		err      error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		manifest, err = skills.FetchManifest(ctx, source)
	} else {
		manifest, err = skills.LoadManifest(source)
	}
	if err != nil {
		u.Logger.Error("There was an error while updating the Skill from %s:\n%v", source, err)
		return false
	}

	if problems := manifest.ManifestProblems(); len(problems) > 0 {
		for _, problem := range problems {
			u.Logger.Error("%s", problem)
		}
		return false
	}

	if _, present := file.Find(manifest.ID); !present {
		u.Logger.Warning("The skill '%s' is not present in the assistant Skills configuration file.", manifest.ID)
		return false
	}

	file.Remove(manifest.ID)
	file.Add(*manifest)
	u.Logger.Success("Successfully updated '%s' skill in your assistant's skills configuration file.", manifest.Name)
	return true
}
