package correctness

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	"github.com/leapstack-labs/samplegate/pkg/lint/scope"
)

func init() {
	lint.Register(NoUnusedVars)
}

// NoUnusedVars reports bindings that are declared but never read.
var NoUnusedVars = lint.RuleDef{
	ID:          "no-unused-vars",
	Name:        "correctness.no-unused-vars",
	Category:    core.CategoryCorrectness,
	Description: "Disallow variables that are declared but never read.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"vars", "ignore_pattern"},
	Strategy:    lint.StrategyBinding,
	Bindings:    checkNoUnusedVars,

	Rationale:   "Unused declarations are usually leftovers or typos for a name that is used.",
	BadExample:  `function f() { const unused = 1; return 2; }`,
	GoodExample: `function f() { return 2; }`,
	Fix:         "Remove the declaration, or prefix it to match ignore_pattern.",
}

const (
	varsLocal = "local" // script top-level bindings may be used by other scripts
	varsAll   = "all"
)

var patternCache sync.Map // string -> *regexp.Regexp, nil when invalid

func ignorePattern(opts map[string]any) *regexp.Regexp {
	src := lint.GetStringOption(opts, "ignore_pattern", "")
	if src == "" {
		return nil
	}
	if re, ok := patternCache.Load(src); ok {
		r, _ := re.(*regexp.Regexp)
		return r
	}
	re, err := regexp.Compile(src)
	if err != nil {
		patternCache.Store(src, (*regexp.Regexp)(nil))
		return nil
	}
	patternCache.Store(src, re)
	return re
}

func checkNoUnusedVars(ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	vars := lint.GetStringOption(opts, "vars", varsLocal)
	ignore := ignorePattern(opts)

	var diagnostics []lint.Diagnostic
	for _, b := range ctx.Scope.Bindings {
		if b.Reads > 0 || exempt(b) || b.Node == nil {
			continue
		}
		if vars != varsAll && !ctx.File.Module && b.Scope == ctx.Scope.Root {
			continue
		}
		if b.Scope.InDynamic() {
			// eval in scope may read it
			continue
		}
		if ignore != nil && ignore.MatchString(b.Name) {
			continue
		}

		msg := fmt.Sprintf("'%s' is defined but never used.", b.Name)
		if b.Initialized || b.Writes > 0 {
			msg = fmt.Sprintf("'%s' is assigned a value but never used.", b.Name)
		}
		diagnostics = append(diagnostics, lint.At(b.Node, msg))
	}
	return diagnostics
}

func exempt(b *scope.Binding) bool {
	if b.Exported || b.RestSibling {
		return true
	}
	switch b.Kind {
	case scope.BindingParam, scope.BindingCatch, scope.BindingExprName, scope.BindingImplicit:
		return true
	}
	return false
}
