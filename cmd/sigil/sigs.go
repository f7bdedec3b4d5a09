package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/sigil/pkg/signature"
	"github.com/sigil-dev/sigil/pkg/types"
)

var (
	sigsPath   string
	sigsFormat string
)

var sigsCmd = &cobra.Command{
	Use:   "sigs",
	Short: "Manage signatures",
	Long:  "Commands for listing and validating signature catalogs",
}

var sigsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available signatures",
	Long:  "Display all available signatures with their IDs, names, and patterns",
	RunE:  runSigsList,
}

var sigsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate signatures",
	Long: `Validate a signature catalog: every pattern must compile and cover at
least one byte, declared examples must match, and negative examples must
not. Without --sigs this checks the builtin catalog.`,
	RunE: runSigsCheck,
}

func init() {
	sigsCmd.AddCommand(sigsListCmd)
	sigsCmd.AddCommand(sigsCheckCmd)
	sigsCmd.PersistentFlags().StringVar(&sigsPath, "sigs", "", "Path to custom signature YAML file")
	sigsListCmd.Flags().StringVar(&sigsFormat, "format", "table", "Output format: table, json")
}

func runSigsList(cmd *cobra.Command, args []string) error {
	sigs, err := loadSigsArg()
	if err != nil {
		return err
	}

	switch sigsFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(sigs)
	case "table":
		return outputSigsTable(cmd, sigs)
	default:
		return fmt.Errorf("unknown output format: %s", sigsFormat)
	}
}

func runSigsCheck(cmd *cobra.Command, args []string) error {
	sigs, err := loadSigsArg()
	if err != nil {
		return err
	}

	failures := 0
	for _, sig := range sigs {
		if err := signature.ValidateSignature(sig); err != nil {
			failures++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", sig.ID, err)
		} else if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", sig.ID)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d signatures failed validation", failures, len(sigs))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All %d signatures valid.\n", len(sigs))
	return nil
}

func loadSigsArg() ([]*types.Signature, error) {
	loader := signature.NewLoader()
	if sigsPath != "" {
		sigs, err := loader.LoadSignatureFile(sigsPath)
		if err != nil {
			return nil, fmt.Errorf("loading signatures from %s: %w", sigsPath, err)
		}
		return sigs, nil
	}
	sigs, err := loader.LoadBuiltin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin signatures: %w", err)
	}
	return sigs, nil
}

func outputSigsTable(cmd *cobra.Command, sigs []*types.Signature) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tPattern\tCategories\n")
	fmt.Fprintf(w, "--\t----\t-------\t----------\n")

	for _, s := range sigs {
		categories := ""
		if len(s.Categories) > 0 {
			categories = s.Categories[0]
			if len(s.Categories) > 1 {
				categories += fmt.Sprintf(" (+%d)", len(s.Categories)-1)
			}
		}
		p := s.Pattern
		if len(p) > 40 {
			p = p[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, p, categories)
	}

	return nil
}
