// Package main provides the bibconv CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/matsen/bibconv/internal/bib"
	"github.com/matsen/bibconv/internal/config"
	"github.com/matsen/bibconv/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// Flags shared by commands that resolve settings.
var (
	dialectFlag string
	strictFlag  bool
	dbFlag      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibconv [flags] FILE",
	Short: "Convert bibliographies between biblatex and BibTeX",
	Long: `bibconv reads a bibliography, canonicalizes every entry and prints it
in the biblatex dialect (default) or the legacy BibTeX dialect.

Entries are sorted by key, ignoring case; entries whose key repeats the
previous one are skipped with a warning on stderr.

Examples:
  bibconv refs.bib
  bibconv --bibtex refs.bib > legacy.bib
  bibconv -b -o legacy.bib --append new.bib
  bibconv --json refs.bib > refs.jsonl`,
	Args:          cobra.ExactArgs(1),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dialectFlag, "dialect", "", "Output dialect: biblatex or bibtex")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Treat recoverable problems as errors")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the entry store")
	rootCmd.Version = Version
}

// mustResolveSettings merges flags, environment and global config, exits on error.
func mustResolveSettings(cmd *cobra.Command) *config.Settings {
	o := config.Overrides{
		Dialect: dialectFlag,
		DBPath:  dbFlag,
	}
	if cmd.Flags().Changed("strict") {
		o.Strict = &strictFlag
	}

	s, err := config.Resolve(o)
	if err != nil {
		if errors.Is(err, config.ErrInvalidSetting) {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		}
		exitWithError(ExitConfigError, "resolving settings: %v", err)
	}
	return s
}

// mustOpenStore opens the entry store, creating its directory if needed.
func mustOpenStore(s *config.Settings) *storage.DB {
	if err := os.MkdirAll(filepath.Dir(s.DBPath), 0755); err != nil {
		exitWithError(ExitError, "creating database directory: %v", err)
	}
	db, err := storage.OpenDB(s.DBPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadEntries reads a bibliography or JSONL file into a sorted list, exits on error.
func mustLoadEntries(path string) (*bib.List, bib.Diagnostics) {
	l, diags, err := loadEntries(path)
	if err != nil {
		var pe *parseError
		if errors.As(err, &pe) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return l, diags
}

// enforceStrict reports diagnostics and exits when strict mode forbids them.
func enforceStrict(s *config.Settings, diags bib.Diagnostics) {
	printDiagnostics(diags)
	if s.Strict && len(diags) > 0 {
		exitWithError(ExitDataError, "%d problem(s) found in strict mode", len(diags))
	}
}
