package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/engine"
	"github.com/muhamm-ad/rpasign/internal/ingest"
)

// MemoryDatabase selects a throwaway in-memory database.
const MemoryDatabase = ":memory:"

// Viper keys.
const (
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyDatabasePath   = "database.path"
	KeyFragmentPolicy = "parser.fragment_policy"
	KeyImportWorkers  = "import.workers"
	KeyImportDelim    = "import.delimiter"
)

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyFragmentPolicy, string(engine.FragmentPolicySkip))
	v.SetDefault(KeyImportWorkers, ingest.DefaultCompileOptions().Workers)
	v.SetDefault(KeyImportDelim, ",")
}

// ImportConfig holds settings for the import command.
type ImportConfig struct {
	Delimiter rune
	Workers   int
}

// LoadParserConfig builds the engine configuration from v.
func LoadParserConfig(v *viper.Viper) (engine.Config, error) {
	policy, err := engine.ParseFragmentPolicy(v.GetString(KeyFragmentPolicy))
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", KeyFragmentPolicy, err)
	}

	config := engine.DefaultConfig()
	config.FragmentPolicy = policy
	return config, nil
}

// LoadImportConfig builds and validates the import settings from v.
func LoadImportConfig(v *viper.Viper) (ImportConfig, error) {
	delim, err := ingest.ParseDelimiter(v.GetString(KeyImportDelim))
	if err != nil {
		return ImportConfig{}, fmt.Errorf("%s: %w", KeyImportDelim, err)
	}

	workers := v.GetInt(KeyImportWorkers)
	if workers < 1 {
		return ImportConfig{}, fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyImportWorkers, workers)
	}

	return ImportConfig{Delimiter: delim, Workers: workers}, nil
}

// DatabasePath returns the expanded database path from v.
func DatabasePath(v *viper.Viper) (string, error) {
	path := ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath)))
	if path == "" {
		return "", fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	return path, nil
}
