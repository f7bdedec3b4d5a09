package main

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "sigil",
	Short: "Sigil - binary signature scanner",
	Long: `Sigil locates known byte sequences inside binary files: file-format
magics, code idioms, cryptographic constants, or any pattern you declare.

Patterns mix exact bytes, wildcards, bit-masked bytes, and a cursor that
anchors the reported offset: "E8 ^ ? ? ? ?" finds a call instruction and
reports the offset of its operand.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(sigsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mergeCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
