package botskills

import (
	"context"
	"os"

	"github.com/maestrokit/maestro/internal/skills"
)

// Disconnect removes a skill from the assistant by id.
type Disconnect struct {
	Logger     *Logger
	Runner     Runner
	SkillsFile string
	SkillID    string
	NoRefresh  bool
}

// Execute disconnects the skill and reports whether it succeeded.
func (d *Disconnect) Execute(ctx context.Context) bool {
	if _, err := os.Stat(d.SkillsFile); err != nil {
		d.Logger.Error("The 'skillsFile' argument is absent or leads to a non-existing file.")
		return false
	}

	file, err := skills.ReadFile(d.SkillsFile)
	if err != nil {
		d.Logger.Error("There was an error while disconnecting the Skill %s from the Assistant:\n%v", d.SkillID, err)
		return false
	}

	if !file.Remove(d.SkillID) {
		d.Logger.Warning("The skill '%s' is not present in the assistant Skills configuration file.", d.SkillID)
		return false
	}

	if err := skills.WriteFile(d.SkillsFile, file); err != nil {
		d.Logger.Error("There was an error while disconnecting the Skill %s from the Assistant:\n%v", d.SkillID, err)
		return false
	}

	if !d.NoRefresh {
		r := &Refresh{Logger: d.Logger, Runner: d.Runner, SkillsFile: d.SkillsFile}
		if !r.Execute(ctx) {
			return false
		}
	}

	d.Logger.Success("Successfully removed '%s' skill from your assistant's skills configuration file.", d.SkillID)
	return true
}
