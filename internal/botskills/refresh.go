package botskills

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes the external dispatch-model tooling. Tests substitute a
// mock; the CLI uses ExecRunner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner shells out through os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Refresh regenerates the dispatch model from the connected-skills file.
type Refresh struct {
	Logger     *Logger
	Runner     Runner
	SkillsFile string
}

// Execute runs the refresh and reports whether it succeeded.
func (r *Refresh) Execute(ctx context.Context) bool {
	r.Logger.Message("Running dispatch refresh...")
	out, err := r.Runner.Run(ctx, "dispatch", "refresh", "--skillsFile", r.SkillsFile)
	if err != nil {
		r.Logger.Error("There was an error while refreshing the Dispatch model:\n%v", err)
		return false
	}
	if out != "" {
		r.Logger.Message("%s", out)
	}
	r.Logger.Success("Successfully refreshed Dispatch model")
	return true
}
