package safety

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(NoRestrictedImports)
}

// NoRestrictedImports reports module specifiers matching the modules option.
// It does nothing until modules is configured.
var NoRestrictedImports = lint.RuleDef{
	ID:          "no-restricted-imports",
	Name:        "safety.no-restricted-imports",
	Category:    core.CategorySafety,
	Description: "Disallow imports of configured modules.",
	Severity:    core.SeverityError,
	ConfigKeys:  []string{"modules", "message"},
	Strategy:    lint.StrategyImport,
	Imports:     checkRestrictedImport,

	Rationale:   "Project-specific restrictions on top of the capability policy, for example banning a heavy library in samples.",
	BadExample:  `import _ from "lodash"; // modules: ["lodash"]`,
	GoodExample: `const pick = (o, k) => o[k];`,
	Fix:         "Remove the import or implement the functionality locally.",
}

// globCache holds compiled patterns; nil marks a pattern that failed to compile.
var globCache sync.Map // string -> glob.Glob

func compiled(pattern string) glob.Glob {
	if g, ok := globCache.Load(pattern); ok {
		gg, _ := g.(glob.Glob)
		return gg
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		globCache.Store(pattern, nil)
		return nil
	}
	globCache.Store(pattern, g)
	return g
}

func checkRestrictedImport(imp lint.ImportRef, _ *lint.Context, opts map[string]any) []lint.Diagnostic {
	modules := lint.GetStringSliceOption(opts, "modules", nil)
	if len(modules) == 0 {
		return nil
	}
	spec := imp.Specifier
	bare := strings.TrimPrefix(spec, "node:")
	for _, pattern := range modules {
		g := compiled(pattern)
		if g == nil {
			continue
		}
		if g.Match(spec) || g.Match(bare) {
			msg := lint.GetStringOption(opts, "message", "")
			if msg == "" {
				msg = fmt.Sprintf("'%s' import is restricted from being used.", spec)
			}
			return []lint.Diagnostic{lint.At(imp.Node, msg)}
		}
	}
	return nil
}
