package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates whether a diagnostic blocks acceptance.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError blocks acceptance of the sample.
	SeverityError Severity = iota
	// SeverityWarning is informational and never blocks acceptance.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("invalid severity %q", text)
	}
	*s = v
	return nil
}

// =============================================================================
// Category
// =============================================================================

// Category groups rules by the kind of problem they detect.
type Category int

// Rule categories.
const (
	CategorySafety Category = iota
	CategoryCorrectness
	CategoryStyle
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategorySafety:
		return "safety"
	case CategoryCorrectness:
		return "correctness"
	case CategoryStyle:
		return "style"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "safety":
		*c = CategorySafety
	case "correctness":
		*c = CategoryCorrectness
	case "style":
		*c = CategoryStyle
	default:
		return fmt.Errorf("invalid category %q", text)
	}
	return nil
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a lint rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	Strategy        string   `json:"strategy"`
	ConfigKeys      []string `json:"config_keys,omitempty"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty"`
}
