package main

import (
	"fmt"

	"github.com/matsen/bibconv/internal/bib"
	"github.com/matsen/bibconv/internal/export"
	"github.com/spf13/cobra"
)

var (
	storeExportBibtex bool
	storeListType     string
)

func init() {
	storeExportCmd.Flags().BoolVarP(&storeExportBibtex, "bibtex", "b", false, "Export in the legacy BibTeX dialect")
	storeListCmd.Flags().StringVar(&storeListType, "type", "", "Only list entries of this canonical type")

	storeCmd.AddCommand(storeImportCmd, storeExportCmd, storeGetCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep canonical entries in a local database",
	Long: `Keep canonical entries in a SQLite database.

The database path comes from --db, BIBCONV_DB, db_path in the global
config, or defaults to ~/.local/share/bibconv/entries.db.`,
}

var storeImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import the distinct entries of a bibliography or JSONL file",
	Long: `Import the distinct entries of FILE, replacing stored entries with the
same key. Files ending in .jsonl are read as canonical JSONL.

Examples:
  bibconv store import refs.bib
  bibconv store import refs.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runStoreImport,
}

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print every stored entry",
	Long: `Print every stored entry in the selected dialect.

Examples:
  bibconv store export > refs.bib
  bibconv store export --bibtex > legacy.bib`,
	Args: cobra.NoArgs,
	RunE: runStoreExport,
}

var storeGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one stored entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entries",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeDeleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Remove a stored entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreDelete,
}

func runStoreImport(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	l, diags := mustLoadEntries(args[0])

	entries, skipped := l.Distinct()
	enforceStrict(s, append(diags, skipped...))

	db := mustOpenStore(s)
	defer db.Close()

	n, err := db.Import(entries)
	if err != nil {
		exitWithError(ExitError, "importing entries: %v", err)
	}
	total, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting entries: %v", err)
	}

	if humanOutput {
		fmt.Printf("Imported %d entries (%d skipped, %d stored)\n", n, len(skipped), total)
	} else {
		outputJSON(ImportResponse{Imported: n, Skipped: len(skipped), Total: total})
	}
	return nil
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	stdoutReserved = true

	s := mustResolveSettings(cmd)
	if storeExportBibtex {
		s.Dialect = bib.BibTeX
	}

	db := mustOpenStore(s)
	defer db.Close()

	entries, err := db.ListAll("")
	if err != nil {
		exitWithError(ExitError, "listing entries: %v", err)
	}

	// Entry text is always plain, never JSON
	text, diags := export.Format(bib.NewList(entries...), s.Dialect)
	enforceStrict(s, diags)
	fmt.Println(text)
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	db := mustOpenStore(s)
	defer db.Close()

	e, err := db.GetByKey(args[0])
	if err != nil {
		exitWithError(ExitError, "getting entry: %v", err)
	}
	if e == nil {
		exitWithError(ExitError, "entry not found: %s", args[0])
	}

	if !humanOutput {
		outputJSON(e)
		return nil
	}
	text, diags := export.FormatEntry(e, s.Dialect)
	printDiagnostics(diags)
	fmt.Println(text)
	return nil
}

func runStoreList(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	db := mustOpenStore(s)
	defer db.Close()

	entries, err := db.ListAll(storeListType)
	if err != nil {
		exitWithError(ExitError, "listing entries: %v", err)
	}
	items := summarize(entries)

	if !humanOutput {
		outputJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("No entries stored")
		return nil
	}

	keyWidth, typeWidth := len("KEY"), len("TYPE")
	for _, it := range items {
		keyWidth = max(keyWidth, len(it.Key))
		typeWidth = max(typeWidth, len(it.Type))
	}
	fmt.Printf("%s  %s  %s\n", padRight("KEY", keyWidth), padRight("TYPE", typeWidth), "TITLE")
	for _, it := range items {
		fmt.Printf("%s  %s  %s\n",
			padRight(it.Key, keyWidth),
			padRight(it.Type, typeWidth),
			truncateString(it.Title, ListTitleMaxLen))
	}
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	db := mustOpenStore(s)
	defer db.Close()

	deleted, err := db.Delete(args[0])
	if err != nil {
		exitWithError(ExitError, "deleting entry: %v", err)
	}
	if !deleted {
		exitWithError(ExitError, "entry not found: %s", args[0])
	}

	if humanOutput {
		fmt.Printf("Deleted %s\n", args[0])
	} else {
		outputJSON(DeleteResponse{Key: args[0], Deleted: true})
	}
	return nil
}
