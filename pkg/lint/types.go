package lint

import (
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint/scope"
	"github.com/leapstack-labs/samplegate/pkg/token"
)

// Diagnostic represents a lint issue found in a sample.
type Diagnostic struct {
	RuleID   string         `json:"rule_id"`
	Category core.Category  `json:"category"`
	Severity core.Severity  `json:"severity"`
	Message  string         `json:"message"`
	Pos      token.Position `json:"location"`
}

// At creates a diagnostic located at n. The Analyzer fills in the rule
// identity, category, and severity.
func At(n *jsast.Node, message string) Diagnostic {
	d := Diagnostic{Message: message}
	if n != nil {
		d.Pos = n.Pos
	}
	return d
}

// WholeFile creates a diagnostic that is not tied to a node.
func WholeFile(message string) Diagnostic {
	return Diagnostic{Message: message}
}

// Strategy is the tag selecting which check function a rule provides.
type Strategy int

// Check strategies.
const (
	StrategyPattern Strategy = iota
	StrategyImport
	StrategyBinding
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPattern:
		return "pattern"
	case StrategyImport:
		return "import"
	case StrategyBinding:
		return "binding"
	default:
		return "unknown"
	}
}

// Context is the read-only view of one sample that rules receive.
type Context struct {
	File  *jsast.File
	Scope *scope.Analysis

	// Globals are host-environment names that count as declared.
	Globals map[string]bool
}

// IsGlobalRef reports whether n is an identifier that names the global
// binding (nothing in the file declares it).
func (c *Context) IsGlobalRef(n *jsast.Node, name string) bool {
	if n == nil || n.Kind != "identifier" || n.Text != name {
		return false
	}
	return c.Scope.IsGlobal(n)
}

// IsKnownGlobal reports whether name is an ECMAScript builtin or an allowed host global.
func (c *Context) IsKnownGlobal(name string) bool {
	return scope.IsBuiltin(name) || c.Globals[name]
}

// ImportKind classifies where a module specifier appeared.
type ImportKind int

// Import kinds.
const (
	ImportStatic   ImportKind = iota // import ... from "m"
	ImportReexport                   // export ... from "m"
	ImportDynamic                    // import("m")
	ImportRequire                    // require("m")
)

// ImportRef is a module specifier found in the file.
type ImportRef struct {
	Kind      ImportKind
	Specifier string
	Node      *jsast.Node // the specifier literal
}

// MatchFunc checks one node of a kind the rule registered for.
type MatchFunc func(n *jsast.Node, ctx *Context, opts map[string]any) []Diagnostic

// ImportFunc checks one module specifier.
type ImportFunc func(imp ImportRef, ctx *Context, opts map[string]any) []Diagnostic

// BindingFunc checks the whole file using its scope analysis.
type BindingFunc func(ctx *Context, opts map[string]any) []Diagnostic

// RuleDef defines a lint rule. Exactly one of Match, Imports, or Bindings is
// set, matching Strategy.
type RuleDef struct {
	ID          string
	Name        string
	Category    core.Category
	Description string
	Severity    core.Severity
	ConfigKeys  []string

	Strategy Strategy
	Kinds    []string // node kinds for StrategyPattern
	Match    MatchFunc
	Imports  ImportFunc
	Bindings BindingFunc

	// Documentation fields
	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// Info returns the rule's metadata as a DTO.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Category:        r.Category,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Strategy:        r.Strategy.String(),
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}
