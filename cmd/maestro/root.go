package main

import (
	"os"

	"github.com/spf13/cobra"
)

var consoleUserID string
var consoleLocale string

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Virtual assistant orchestrator",
	Long: `Maestro routes conversations across connected skills, local intent
models, and QnA knowledge bases.

With no arguments, launches an interactive console where you can talk to
the assistant, watch it dispatch utterances, and interrupt active skills.

Core capabilities:
- Dispatches each utterance to a skill action, local model, or QnA service
- Forwards multi-turn conversations to skills and relays their replies
- Handles cross-cutting interruptions (cancel, help, repeat, start over)
- Persists user profiles, shared skill context, and conversation markers
- Manages the connected-skills file via the skill subcommands`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&consoleUserID, "user", "console-user", "User id for the console conversation")
	rootCmd.Flags().StringVar(&consoleLocale, "locale", "", "Locale for the console conversation (defaults to config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(skillCmd)
}
