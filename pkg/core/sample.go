package core

import (
	"fmt"
	"strings"
)

// Sample is one candidate source file under validation.
// It is created by the loader and never mutated afterwards.
type Sample struct {
	ID      string // corpus-relative path or sha256 content hash
	Path    string // where the sample was read from, for logs
	Source  []byte
	Edition string // javascript, jsx, typescript, tsx

	// LoadErr is set when the loader could not produce the source.
	// The sample still yields a result so reports keep one entry per input.
	LoadErr error
}

// =============================================================================
// Verdict
// =============================================================================

// Verdict is the binary outcome for a sample.
type Verdict int

// Verdicts.
const (
	VerdictAccept Verdict = iota
	VerdictReject
)

// String returns "accept" or "reject".
func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "accept"
	case VerdictReject:
		return "reject"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "accept":
		*v = VerdictAccept
	case "reject":
		*v = VerdictReject
	default:
		return fmt.Errorf("invalid verdict %q", text)
	}
	return nil
}
