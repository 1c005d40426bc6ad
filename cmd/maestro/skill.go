package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maestrokit/maestro/internal/botskills"
	"github.com/maestrokit/maestro/internal/config"
)

var skillSkillsFile string
var skillLocalManifest string
var skillRemoteManifest string
var skillID string
var skillNoRefresh bool

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage connected skills",
	Long: `Connect, disconnect, update, refresh, and list the skills registered
in the assistant's connected-skills configuration file.`,
}

// resolveSkillsFile prefers the --skills-file flag, then the configured path.
func resolveSkillsFile() string {
	if skillSkillsFile != "" {
		return skillSkillsFile
	}
	cfg, err := config.Load()
	if err == nil && cfg.Skills.File != "" {
		return cfg.Skills.File
	}
	return "skills.json"
}

var skillConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a skill to the assistant",
	Run: func(cmd *cobra.Command, args []string) {
		op := &botskills.Connect{
			Logger:         botskills.NewLogger(os.Stdout),
			Runner:         botskills.ExecRunner{},
			SkillsFile:     resolveSkillsFile(),
			LocalManifest:  skillLocalManifest,
			RemoteManifest: skillRemoteManifest,
			NoRefresh:      skillNoRefresh,
		}
		if !op.Execute(cmd.Context()) {
			os.Exit(1)
		}
	},
}

var skillDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect a skill from the assistant",
	Run: func(cmd *cobra.Command, args []string) {
		op := &botskills.Disconnect{
			Logger:     botskills.NewLogger(os.Stdout),
			Runner:     botskills.ExecRunner{},
			SkillsFile: resolveSkillsFile(),
			SkillID:    skillID,
			NoRefresh:  skillNoRefresh,
		}
		if !op.Execute(cmd.Context()) {
			os.Exit(1)
		}
	},
}

var skillUpdateCmd = &cobra.Command{
	Use:   "update [manifest...]",
	Short: "Update connected skills from their manifests",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		op := &botskills.Update{
			Logger:     botskills.NewLogger(os.Stdout),
			Runner:     botskills.ExecRunner{},
			SkillsFile: resolveSkillsFile(),
			Manifests:  args,
			NoRefresh:  skillNoRefresh,
		}
		if !op.Execute(cmd.Context()) {
			os.Exit(1)
		}
	},
}

var skillRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Regenerate the dispatch model",
	Run: func(cmd *cobra.Command, args []string) {
		op := &botskills.Refresh{
			Logger:     botskills.NewLogger(os.Stdout),
			Runner:     botskills.ExecRunner{},
			SkillsFile: resolveSkillsFile(),
		}
		if !op.Execute(cmd.Context()) {
			os.Exit(1)
		}
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected skills",
	Run: func(cmd *cobra.Command, args []string) {
		op := &botskills.List{
			Logger:     botskills.NewLogger(os.Stdout),
			SkillsFile: resolveSkillsFile(),
		}
		if !op.Execute() {
			os.Exit(1)
		}
	},
}

func init() {
	skillCmd.PersistentFlags().StringVar(&skillSkillsFile, "skills-file", "", "Path to the connected-skills file (defaults to config)")

	skillConnectCmd.Flags().StringVar(&skillLocalManifest, "local-manifest", "", "Path to a local skill manifest")
	skillConnectCmd.Flags().StringVar(&skillRemoteManifest, "remote-manifest", "", "URL of a remote skill manifest")
	skillConnectCmd.Flags().BoolVar(&skillNoRefresh, "no-refresh", false, "Skip the dispatch model refresh")

	skillDisconnectCmd.Flags().StringVar(&skillID, "id", "", "Id of the skill to disconnect")
	skillDisconnectCmd.Flags().BoolVar(&skillNoRefresh, "no-refresh", false, "Skip the dispatch model refresh")
	_ = skillDisconnectCmd.MarkFlagRequired("id")

	skillUpdateCmd.Flags().BoolVar(&skillNoRefresh, "no-refresh", false, "Skip the dispatch model refresh")

	skillCmd.AddCommand(skillConnectCmd)
	skillCmd.AddCommand(skillDisconnectCmd)
	skillCmd.AddCommand(skillUpdateCmd)
	skillCmd.AddCommand(skillRefreshCmd)
	skillCmd.AddCommand(skillListCmd)
}
