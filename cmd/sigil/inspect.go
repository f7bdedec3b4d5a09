package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/matcher"
	"github.com/sigil-dev/sigil/pkg/scanner"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	inspectWindow    int
	inspectThreshold float64
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarize one file: signatures and entropy profile",
	Long: `Scan a single file with the builtin catalog and print what was
recognized alongside a windowed entropy profile. High-entropy regions in
otherwise structured data usually mean compression or encryption, which
is exactly where signature scanning goes blind.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectWindow, "window", scanner.DefaultEntropyWindow, "Entropy window size in bytes")
	inspectCmd.Flags().Float64Var(&inspectThreshold, "threshold", 7.0, "Entropy (bits/byte) above which a window is flagged")
}

func runInspect(cmd *cobra.Command, args []string) error {
	target := args[0]
	out := cmd.OutOrStdout()

	content, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("reading %s: %w", target, err)
	}

	sigs, err := scanner.GetBuiltinSignatures()
	if err != nil {
		return fmt.Errorf("loading builtin signatures: %w", err)
	}

	m, err := matcher.New(matcher.Config{Signatures: sigs})
	if err != nil {
		return fmt.Errorf("creating matcher: %w", err)
	}
	defer m.Close()

	matches, err := m.Match(content)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	fmt.Fprintf(out, "File: %s (%s)\n", target, humanize.Bytes(uint64(len(content))))
	fmt.Fprintf(out, "Blob: %s\n\n", types.ComputeBlobID(content).Hex())

	if len(matches) == 0 {
		fmt.Fprintf(out, "No signatures recognized.\n")
	} else {
		fmt.Fprintf(out, "Signatures (%d):\n", len(matches))
		for _, match := range matches {
			fmt.Fprintf(out, "  %s  %s\n", types.FormatOffset(match.Location.Anchor), match.SignatureName)
		}
	}

	profile := scanner.ComputeEntropyProfile(content, inspectWindow)
	fmt.Fprintf(out, "\nEntropy (window %d bytes):\n", profile.WindowSize)
	fmt.Fprintf(out, "  mean %.2f, stddev %.2f, max %.2f at %s\n",
		profile.Mean, profile.StdDev, profile.Max, types.FormatOffset(profile.MaxOffset))

	flagged := 0
	for _, p := range profile.Points {
		if p.Entropy >= inspectThreshold {
			flagged++
			if verbose {
				fmt.Fprintf(out, "  %s  %.2f\n", types.FormatOffset(p.Offset), p.Entropy)
			}
		}
	}
	if flagged > 0 {
		fmt.Fprintf(out, "  %d/%d windows above %.1f bits/byte (likely compressed or encrypted)\n",
			flagged, len(profile.Points), inspectThreshold)
	}

	return nil
}
