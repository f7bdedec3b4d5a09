package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sigil-dev/sigil/pkg/store"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	reportDatabase string
	reportFormat   string
	reportColor    string
	reportMax      int
)

// styles holds color formatters for human report output.
type styles struct {
	findingHeading *color.Color
	id             *color.Color
	sigName        *color.Color
	heading        *color.Color
	match          *color.Color
	metadata       *color.Color
}

// newStyles creates color formatters; enabled=false disables every one.
func newStyles(enabled bool) *styles {
	s := &styles{
		findingHeading: color.New(color.Bold, color.FgHiWhite),
		id:             color.New(color.FgHiGreen),
		sigName:        color.New(color.Bold, color.FgHiBlue),
		heading:        color.New(color.Bold),
		match:          color.New(color.FgYellow),
		metadata:       color.New(color.FgHiBlue),
	}

	if !enabled {
		s.findingHeading.DisableColor()
		s.id.DisableColor()
		s.sigName.DisableColor()
		s.heading.DisableColor()
		s.match.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from scan results",
	Long:  "Read findings from a scan database and output a summary report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatabase, "db", "sigil.db", "Path to scan database")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().IntVar(&reportMax, "max-matches", 3, "Matches shown per finding in human output")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatabase == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}

	info, err := os.Stat(reportDatabase)
	if err != nil {
		return fmt.Errorf("database not found: %s", reportDatabase)
	}

	s, err := store.New(store.Config{Path: reportDatabase})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	findings, err := s.GetFindings()
	if err != nil {
		return fmt.Errorf("retrieving findings: %w", err)
	}

	matches, err := s.GetAllMatches()
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	byFinding := make(map[string][]*types.Match)
	for _, m := range matches {
		byFinding[m.FindingID] = append(byFinding[m.FindingID], m)
	}
	for _, f := range findings {
		f.Matches = byFinding[f.ID]
	}

	switch reportFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(findings)
	case "human":
		return outputReportHuman(cmd, s, findings, info.Size())
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportHuman(cmd *cobra.Command, s store.Store, findings []*types.Finding, dbSize int64) error {
	out := cmd.OutOrStdout()

	switch reportColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}
	st := newStyles(!color.NoColor)

	fmt.Fprintf(out, "%s (%s)\n\n",
		st.heading.Sprintf("Report from %s", reportDatabase),
		humanize.Bytes(uint64(dbSize)))

	if len(findings) == 0 {
		fmt.Fprintf(out, "No findings.\n")
		return nil
	}

	// Provenance lookups repeat per blob; cache them.
	pathCache := make(map[types.BlobID]string)
	blobPath := func(id types.BlobID) string {
		if p, ok := pathCache[id]; ok {
			return p
		}
		p := id.Hex()
		if provs, err := s.GetProvenance(id); err == nil && len(provs) > 0 {
			paths := make([]string, len(provs))
			for i, prov := range provs {
				paths[i] = prov.Path()
			}
			p = strings.Join(paths, ", ")
		}
		pathCache[id] = p
		return p
	}

	for i, f := range findings {
		fmt.Fprintf(out, "%s (%s %s)\n",
			st.findingHeading.Sprintf("Finding %d/%d", i+1, len(findings)),
			st.heading.Sprint("id"),
			st.id.Sprint(f.ID))

		name := f.SignatureID
		if len(f.Matches) > 0 && f.Matches[0].SignatureName != "" {
			name = f.Matches[0].SignatureName
		}
		fmt.Fprintf(out, "%s %s\n", st.heading.Sprint("Signature:"), st.sigName.Sprint(name))
		fmt.Fprintf(out, "%s %s (%s)\n",
			st.heading.Sprint("Bytes:"),
			st.match.Sprint(hexBytes(f.Matched)),
			humanize.Bytes(uint64(len(f.Matched))))

		shown := f.Matches
		if reportMax > 0 && len(shown) > reportMax {
			fmt.Fprintf(out, "Showing %d/%d matches:\n", reportMax, len(shown))
			shown = shown[:reportMax]
		}

		for k, m := range shown {
			fmt.Fprintf(out, "\n    %s (%s %s)\n",
				st.heading.Sprintf("Match %d/%d", k+1, len(f.Matches)),
				st.heading.Sprint("id"),
				st.id.Sprint(m.StructuralID))

			fmt.Fprintf(out, "    %s %s\n",
				st.heading.Sprint("File:"),
				st.metadata.Sprint(blobPath(m.BlobID)))

			fmt.Fprintf(out, "    %s %s\n",
				st.heading.Sprint("Blob:"),
				st.metadata.Sprint(m.BlobID.Hex()))

			fmt.Fprintf(out, "    %s %s–%s (anchor %s)\n",
				st.heading.Sprint("Offset:"),
				types.FormatOffset(m.Location.Offset.Start),
				types.FormatOffset(m.Location.Offset.End),
				types.FormatOffset(m.Location.Anchor))

			if len(m.Excerpt.Matching) > 0 {
				fmt.Fprintf(out, "\n        %s%s%s\n",
					hexBytes(m.Excerpt.Before),
					st.match.Sprint(" "+hexBytes(m.Excerpt.Matching)+" "),
					hexBytes(m.Excerpt.After))
				fmt.Fprintf(out, "        %s\n",
					types.PrintableASCII(append(append(append([]byte{}, m.Excerpt.Before...), m.Excerpt.Matching...), m.Excerpt.After...)))
			}
		}

		fmt.Fprintf(out, "\n\n")
	}

	return nil
}

// hexBytes renders data as uppercase spaced hex pairs.
func hexBytes(data []byte) string {
	var b strings.Builder
	for i, v := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}
