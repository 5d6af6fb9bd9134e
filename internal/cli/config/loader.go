package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/samplegate/pkg/corpus"
	"github.com/leapstack-labs/samplegate/pkg/policy"
)

// loggerKey is used to store logger in context.
// This key is shared with root.go via both using the same type.
type loggerKey struct{}

// EnvPrefix prefixes every environment variable read as configuration.
const EnvPrefix = "SAMPLEGATE_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"samplegate.yaml", "samplegate.yml"}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are command-local and never reach the config.
var flagKeys = map[string]string{
	"output":      "output",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"edition":     "edition",
	"source-type": "source_type",
	"id-mode":     "id_mode",
	"workers":     "workers",
	"report":      "report",
	"summary":     "summary",
	"top":         "top_rules",
	"include":     "files",
	"exclude":     "exclude",
	"disable":     "lint.disabled",
	"severity":    "lint.severity",
}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"files":                  true,
	"exclude":                true,
	"lint.disabled":          true,
	"policy.denied_imports":  true,
	"policy.allowed_globals": true,
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// findConfigFile finds the config file to use.
// Priority: explicit path > samplegate.yaml > samplegate.yml, searching
// upward from the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigUpward(cwd)
}

// findConfigUpward searches upward from startDir for a samplegate config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// defaults returns the lowest-precedence configuration layer.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"files":                  corpus.DefaultInclude,
		"exclude":                corpus.DefaultExclude,
		"edition":                DefaultEdition,
		"source_type":            DefaultSourceType,
		"id_mode":                DefaultIDMode,
		"workers":                0,
		"output":                 DefaultOutput,
		"top_rules":              DefaultTopRules,
		"log_level":              DefaultLogLevel,
		"log_format":             DefaultLogFormat,
		"policy.denied_imports":  policy.DefaultDeniedImports,
		"policy.allowed_globals": policy.DefaultAllowedGlobals,
	}
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SAMPLEGATE_ prefix)
	// Transform: SAMPLEGATE_POLICY__DENIED_IMPORTS -> policy.denied_imports
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			// rule=level pairs merge into the severity map from lower layers
			if f.Name == "severity" {
				pairs, err := flags.GetStringToString(f.Name)
				if err != nil {
					return "", nil
				}
				m := make(map[string]interface{}, len(pairs))
				for id, level := range pairs {
					m[id] = level
				}
				return key, m
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		if configFileUsed != "" {
			return nil, fmt.Errorf("%s: %w", configFileUsed, err)
		}
		return nil, err
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// envKey maps SAMPLEGATE_LINT__DISABLED=a,b to lint.disabled = [a b].
func envKey(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if !listKeys[key] {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// FlagKey returns the config key a command-line flag sets.
func FlagKey(flag string) (string, bool) {
	key, ok := flagKeys[flag]
	return key, ok
}

// EnvVar returns the environment variable that sets a config key.
// It is the inverse of the mapping LoadConfig applies.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// IsListKey reports whether key takes a comma-separated list from the environment.
func IsListKey(key string) bool {
	return listKeys[key]
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
