package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/corpus"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// Validate checks if the configuration is valid. Every problem found is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	if _, err := jsast.ParseEdition(c.Edition); err != nil {
		errs = append(errs, fmt.Errorf("edition: %w", err))
	}
	if _, err := jsast.ParseSourceType(c.SourceType); err != nil {
		errs = append(errs, fmt.Errorf("source_type: %w", err))
	}
	if _, err := corpus.ParseIDMode(c.IDMode); err != nil {
		errs = append(errs, fmt.Errorf("id_mode: %w", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.TopRules < 0 {
		errs = append(errs, fmt.Errorf("top_rules must be >= 0, got %d", c.TopRules))
	}
	if isStdout(c.Summary) && c.Summary != "" && isStdout(c.Report) {
		errs = append(errs, errors.New("summary: cannot write to stdout while the report does; set report to a file"))
	}
	if !output.ValidMode(c.Output) {
		errs = append(errs, fmt.Errorf("output: unknown mode %q (want auto, text, markdown or json)", c.Output))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown format %q (want text or json)", c.LogFormat))
	}

	for _, p := range c.Files {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("files: pattern %q: %w", p, err))
		}
	}
	for _, p := range c.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("exclude: pattern %q: %w", p, err))
		}
	}
	for _, p := range c.Policy.DeniedImports {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("policy.denied_imports: pattern %q: %w", p, err))
		}
	}

	for id, level := range c.Lint.Severity {
		if strings.EqualFold(strings.TrimSpace(level), "off") {
			continue
		}
		if _, ok := core.ParseSeverity(level); !ok {
			errs = append(errs, fmt.Errorf("lint.severity.%s: invalid severity %q (want error, warning or off)", id, level))
		}
	}

	return errors.Join(errs...)
}

// isStdout reports whether an output path names stdout.
func isStdout(path string) bool {
	return path == "" || path == "-"
}

// ParseLogLevel converts a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level: unknown level %q (want debug, info, warn or error)", s)
	}
}
