package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds the CLI logger. Logs go to w, normally stderr, so they
// never mix with the JSONL report on stdout.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log_format: unknown format %q (want text or json)", format)
	}
}
