package botskills

import (
	"context"

	"github.com/maestrokit/maestro/internal/skills"
	"github.com/maestrokit/maestro/pkg/models"
)

// Connect registers a skill manifest with the assistant.
type Connect struct {
	Logger *Logger
	Runner Runner
	// SkillsFile is the connected-skills document to append to.
	SkillsFile string
	// LocalManifest and RemoteManifest are mutually exclusive sources;
	// exactly one must be set.
	LocalManifest  string
	RemoteManifest string
	// NoRefresh skips the dispatch-model regeneration.
	NoRefresh bool
}

// Execute connects the skill and reports whether it succeeded.
func (c *Connect) Execute(ctx context.Context) bool {
	manifest, ok := c.loadManifest(ctx)
	if !ok {
		return false
	}

	for _, problem := range manifest.ManifestProblems() {
		c.Logger.Error("%s", problem)
	}
	if c.Logger.IsError() {
		return false
	}

	file, err := skills.ReadFile(c.SkillsFile)
	if err != nil {
		c.Logger.Error("There was an error while connecting the Skill to the Assistant:\n%v", err)
		return false
	}
	if _, exists := file.Find(manifest.ID); exists {
		c.Logger.Warning("The skill '%s' is already registered.", manifest.Name)
		return false
	}

	file.Add(*manifest)
	if err := skills.WriteFile(c.SkillsFile, file); err != nil {
		c.Logger.Error("There was an error while connecting the Skill to the Assistant:\n%v", err)
		return false
	}

	if !c.refresh(ctx) {
		return false
	}

	c.Logger.Success("Successfully connected '%s' skill to your assistant's skills configuration file.", manifest.Name)
	return true
}

func (c *Connect) loadManifest(ctx context.Context) (*models.SkillManifest, bool) {
	switch {
	case c.LocalManifest == "" && c.RemoteManifest == "":
		c.Logger.Error("Either the 'localManifest' or 'remoteManifest' argument should be passed.")
		return nil, false
	case c.LocalManifest != "":
		manifest, err := skills.LoadManifest(c.LocalManifest)
		if err != nil {
			c.Logger.Error("The 'localManifest' argument leads to a non-existing file. Please make sure to provide a valid path to your Skill manifest.")
			return nil, false
		}
		return manifest, true
	default:
		manifest, err := skills.FetchManifest(ctx, c.RemoteManifest)
		if err != nil {
			c.Logger.Error("There was a problem while getting the remote manifest:\n%v", err)
			return nil, false
		}
		return manifest, true
	}
}

func (c *Connect) refresh(ctx context.Context) bool {
	if c.NoRefresh {
		c.Logger.Warning("Run 'botskills refresh' when you are ready to refresh the Dispatch model.")
		return true
	}
	r := &Refresh{Logger: c.Logger, Runner: c.Runner, SkillsFile: c.SkillsFile}
	return r.Execute(ctx)
}
