package main

import (
	"fmt"

	"github.com/matsen/bibconv/internal/bib"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Report problems in a bibliography without converting it",
	Long: `Parse, sort and deduplicate a bibliography in the selected dialect and
report what would be printed and which problems were found.

Exits with code 3 when problems exist and strict mode is on.

Examples:
  bibconv check refs.bib
  bibconv check --dialect bibtex --strict refs.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	l, diags := mustLoadEntries(args[0])

	_, fdiags, err := convert(l, s.Dialect, false, nil)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	diags = append(diags, fdiags...)

	resp := checkResult(l, diags)
	if humanOutput {
		fmt.Printf("Entries: %d\n", resp.Entries)
		fmt.Printf("Kept:    %d\n", resp.Kept)
		if len(resp.Diagnostics) == 0 {
			fmt.Println("No problems found")
		}
		for _, d := range resp.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	} else {
		outputJSON(resp)
	}
	stdoutReserved = true

	if s.Strict && len(diags) > 0 {
		exitWithError(ExitDataError, "%d problem(s) found in strict mode", len(diags))
	}
	return nil
}

// checkResult summarizes a parsed list and the diagnostics of printing it.
func checkResult(l *bib.List, diags bib.Diagnostics) CheckResponse {
	if diags == nil {
		diags = bib.Diagnostics{}
	}
	return CheckResponse{
		Entries:     l.Len(),
		Kept:        l.Len() - diags.Count(bib.DuplicateKey),
		Diagnostics: diags,
	}
}
