package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/pattern"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	findStep   int
	findAll    bool
	findFormat string
)

var findCmd = &cobra.Command{
	Use:   "find <pattern> <file>",
	Short: "Locate one pattern in one file",
	Long: `Compile a pattern and report where it occurs in a file.

The pattern language: two hex digits per exact byte ("55 8B EC"), "?" for
a wildcard byte, "VV&MM" for a byte compared under a bit mask, and "^" to
anchor the reported offset inside the match. Whitespace is optional.

Exit status is 0 when the pattern is found and 2 when it is not, so find
works in shell conditionals.`,
	Args: cobra.ExactArgs(2),
	RunE: runFind,
}

func init() {
	findCmd.Flags().IntVar(&findStep, "step", 1, "Scan stride; windows start at multiples of this offset")
	findCmd.Flags().BoolVar(&findAll, "all", false, "Report every occurrence, not just the first")
	findCmd.Flags().StringVar(&findFormat, "format", "human", "Output format: human, json")
}

// findResult is the JSON shape of one find invocation.
type findResult struct {
	Pattern string `json:"pattern"`
	File    string `json:"file"`
	Found   bool   `json:"found"`
	Offsets []int  `json:"offsets"`
}

func runFind(cmd *cobra.Command, args []string) error {
	patternText, target := args[0], args[1]

	p, err := pattern.Parse(patternText)
	if err != nil {
		return fmt.Errorf("compiling pattern: %w", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	max := 1
	if findAll {
		max = 0
	}
	offsets, err := p.FindAllStep(data, findStep, max)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	if findFormat == "json" {
		result := findResult{
			Pattern: p.String(),
			File:    target,
			Found:   len(offsets) > 0,
			Offsets: offsets,
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		if len(offsets) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "not found\n")
		}
		for _, off := range offsets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", types.FormatOffset(int64(off)), off)
		}
	}

	if len(offsets) == 0 {
		// Distinguish "scanned cleanly, no hit" from real failures.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errNotFound
	}
	return nil
}

// errNotFound maps a clean miss to exit status 2.
var errNotFound = errors.New("pattern not found")
