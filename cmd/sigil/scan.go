package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/scanner"
	"github.com/sigil-dev/sigil/pkg/signature"
	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	scanSigsPath      string
	scanSigsInclude   string
	scanSigsExclude   string
	scanOutputPath    string
	scanOutputFormat  string
	scanStep          int
	scanExcerptBytes  int
	scanMaxPerSig     int
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanPayloads      bool
	scanIncremental   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan a file or directory for signatures",
	Long: `Scan a file or directory tree against a signature catalog and store
every match in a database for reporting and exploration.

With --payloads, blobs that open with a container magic (gzip, zstd, zip,
and friends) are decompressed and their contents scanned too, with the
chain of origin recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanSigsPath, "sigs", "", "Path to custom signature YAML file")
	scanCmd.Flags().StringVar(&scanSigsInclude, "sigs-include", "", "Include signatures matching regex pattern (comma-separated)")
	scanCmd.Flags().StringVar(&scanSigsExclude, "sigs-exclude", "", "Exclude signatures matching regex pattern (comma-separated)")
	scanCmd.Flags().StringVar(&scanOutputPath, "output", "sigil.db", "Output database path (\":memory:\" to skip persistence)")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "human", "Output format: human, json")
	scanCmd.Flags().IntVar(&scanStep, "step", 1, "Scan stride; 1 is exhaustive, larger trades completeness for speed")
	scanCmd.Flags().IntVar(&scanExcerptBytes, "excerpt-bytes", 16, "Context bytes captured on each side of a match (0 to disable)")
	scanCmd.Flags().IntVar(&scanMaxPerSig, "max-matches-per-sig", 0, "Limit matches per signature per blob (0 = unlimited)")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 64*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().BoolVar(&scanPayloads, "payloads", false, "Recurse into compressed and archived blobs")
	scanCmd.Flags().BoolVar(&scanIncremental, "incremental", false, "Skip blobs already present in the output database")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	sigs, err := loadSignatures(scanSigsPath, scanSigsInclude, scanSigsExclude)
	if err != nil {
		return fmt.Errorf("loading signatures: %w", err)
	}

	s, err := store.New(store.Config{Path: scanOutputPath})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	core, err := scanner.NewCore(scanner.Config{
		Signatures:             sigs,
		Store:                  s,
		Step:                   scanStep,
		ExcerptBytes:           scanExcerptBytes,
		MaxMatchesPerSignature: scanMaxPerSig,
		Payloads:               scanPayloads,
		Incremental:            scanIncremental,
		Logger:                 cmdLogger(cmd),
	})
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}
	defer core.Close()

	var batch *scanner.BatchScanResult
	if info.IsDir() {
		enum := scanner.NewFilesystemEnumerator(scanner.SourceConfig{
			Root:          target,
			IncludeHidden: scanIncludeHidden,
			MaxFileSize:   scanMaxFileSize,
		})
		batch, err = core.ScanSource(context.Background(), enum)
	} else {
		var content []byte
		content, err = os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("reading %s: %w", target, err)
		}
		var result *scanner.ScanResult
		result, err = core.Scan(content, types.FileProvenance{FilePath: target})
		if result != nil {
			batch = &scanner.BatchScanResult{
				Results: []*scanner.ScanResult{result},
				Total:   result.TotalMatches(),
			}
		}
	}
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	return outputScanResults(cmd, batch)
}

// cmdLogger adapts --verbose to the scanner's debug hook.
type verboseLogger struct{ cmd *cobra.Command }

func (l verboseLogger) Log(format string, args ...interface{}) {
	fmt.Fprintf(l.cmd.ErrOrStderr(), format+"\n", args...)
}

func cmdLogger(cmd *cobra.Command) scanner.DebugLogger {
	if verbose && !quiet {
		return verboseLogger{cmd: cmd}
	}
	return nil
}

func outputScanResults(cmd *cobra.Command, batch *scanner.BatchScanResult) error {
	if scanOutputFormat == "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scan complete: %d matches across %d blobs\n", batch.Total, len(batch.Results))
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(batch)
	}

	out := cmd.OutOrStdout()
	skipped := 0
	for _, r := range batch.Results {
		if r.Skipped {
			skipped++
		}
		printScanResult(out, r, 0)
	}

	if skipped > 0 {
		fmt.Fprintf(out, "\nScan complete: %d matches across %d blobs (%d skipped)\n", batch.Total, len(batch.Results), skipped)
	} else {
		fmt.Fprintf(out, "\nScan complete: %d matches across %d blobs\n", batch.Total, len(batch.Results))
	}
	if scanOutputPath != ":memory:" {
		fmt.Fprintf(out, "Results stored in: %s\n", scanOutputPath)
	}
	return nil
}

func printScanResult(out io.Writer, r *scanner.ScanResult, depth int) {
	if quiet || len(r.Matches) == 0 && len(r.Payloads) == 0 {
		return
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for _, m := range r.Matches {
		fmt.Fprintf(out, "%s%s  %s  %s\n", indent, types.FormatOffset(m.Location.Anchor), m.SignatureName, r.Source)
	}
	for _, p := range r.Payloads {
		printScanResult(out, p, depth+1)
	}
}

// loadSignatures loads the catalog (builtin or custom) and applies
// include/exclude ID filters.
func loadSignatures(path, include, exclude string) ([]*types.Signature, error) {
	loader := signature.NewLoader()

	var sigs []*types.Signature
	var err error

	if path != "" {
		sigs, err = loader.LoadSignatureFile(path)
	} else {
		sigs, err = loader.LoadBuiltin()
	}
	if err != nil {
		return nil, err
	}

	if include != "" || exclude != "" {
		config := signature.FilterConfig{
			Include: signature.ParsePatterns(include),
			Exclude: signature.ParsePatterns(exclude),
		}
		sigs, err = signature.Filter(sigs, config)
		if err != nil {
			return nil, fmt.Errorf("filtering signatures: %w", err)
		}
	}

	return sigs, nil
}
