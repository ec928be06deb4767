package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/matsen/bibconv/internal/bib"
)

// Environment variables consulted by Resolve.
const (
	EnvDialect = "BIBCONV_DIALECT"
	EnvStrict  = "BIBCONV_STRICT"
	EnvDB      = "BIBCONV_DB"
)

// ErrInvalidSetting is returned when a flag, variable or config value
// cannot be interpreted.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings are the effective options of a run.
type Settings struct {
	Dialect bib.Dialect
	Strict  bool
	DBPath  string
}

// Overrides holds values given on the command line. Zero values mean
// "not given".
type Overrides struct {
	Dialect string
	Strict  *bool
	DBPath  string
}

// Resolve merges command-line overrides, environment variables, the global
// config file and defaults, in that order of precedence.
func Resolve(o Overrides) (*Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}

	dialect, err := bib.ParseDialect(firstNonEmpty(o.Dialect, os.Getenv(EnvDialect), cfg.Dialect))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	strict := cfg.Strict
	if v := os.Getenv(EnvStrict); v != "" {
		strict, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSetting, EnvStrict, v)
		}
	}
	if o.Strict != nil {
		strict = *o.Strict
	}

	dbPath := firstNonEmpty(o.DBPath, os.Getenv(EnvDB), cfg.DBPath, DefaultDBPath())

	return &Settings{
		Dialect: dialect,
		Strict:  strict,
		DBPath:  ExpandPath(dbPath),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
