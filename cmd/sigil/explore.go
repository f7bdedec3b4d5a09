package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/explore"
)

var exploreDatabase string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively explore scan results",
	Long: `Launch an interactive TUI to browse findings from a scan database.

Features:
  - Findings table with sort and signature filter
  - Hex-dump view of each match with surrounding context
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDatabase, "db", "sigil.db", "Path to scan database")
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(exploreDatabase)
	if err != nil {
		return fmt.Errorf("loading database: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}
