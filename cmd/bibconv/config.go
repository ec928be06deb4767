package main

import (
	"fmt"

	"github.com/matsen/bibconv/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Long: `Show the settings bibconv would use, after applying flags, environment
variables (BIBCONV_DIALECT, BIBCONV_STRICT, BIBCONV_DB, also read from
.env) and the global config file.

Example config.yml:
  dialect: bibtex
  strict: true
  db_path: ~/refs/entries.db`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	s := mustResolveSettings(cmd)
	resp := ConfigResponse{
		Dialect:    s.Dialect.String(),
		Strict:     s.Strict,
		DBPath:     s.DBPath,
		ConfigPath: config.GlobalConfigPath(),
	}

	if humanOutput {
		fmt.Printf("dialect:     %s\n", resp.Dialect)
		fmt.Printf("strict:      %t\n", resp.Strict)
		fmt.Printf("db-path:     %s\n", resp.DBPath)
		fmt.Printf("config-file: %s\n", resp.ConfigPath)
	} else {
		outputJSON(resp)
	}
	return nil
}
