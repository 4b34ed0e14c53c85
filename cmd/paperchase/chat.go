package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/paperchase/paperchase/internal/tui"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive search session",
	Long: `Open an interactive terminal session over the local corpus. Type a
question, press Enter, and browse annotated results with the arrow keys.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger()
	defer logger.Sync()

	pipe, closeIndex := buildSearchPipeline(cfg, logger)
	defer closeIndex()

	program := tea.NewProgram(tui.New(pipe), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		exitWithError(ExitError, "chat session: %v", err)
	}
	return nil
}
