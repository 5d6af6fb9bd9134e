// Package policy enforces the capability policy: which modules a sample may
// load and which host globals it may assume.
//
// The policy walks the syntax tree itself and does not depend on the lint
// rule set, so disabling or reconfiguring rules cannot weaken it.
package policy

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

// RuleID identifies policy diagnostics.
const RuleID = "denied-import"

// DefaultDeniedImports are the Node builtin modules that grant file, network,
// process, or crypto access.
var DefaultDeniedImports = []string{
	"child_process",
	"cluster",
	"crypto",
	"dgram",
	"dns",
	"fs",
	"http",
	"https",
	"net",
	"os",
	"path",
	"perf_hooks",
	"process",
	"stream",
	"tls",
	"url",
	"vm",
	"worker_threads",
}

// DefaultAllowedGlobals describe the browser host the samples target.
var DefaultAllowedGlobals = []string{
	"alert",
	"Audio",
	"cancelAnimationFrame",
	"clearInterval",
	"clearTimeout",
	"console",
	"CustomEvent",
	"document",
	"Event",
	"fetch",
	"HTMLCanvasElement",
	"Image",
	"KeyboardEvent",
	"localStorage",
	"location",
	"MouseEvent",
	"navigator",
	"performance",
	"Phaser",
	"queueMicrotask",
	"requestAnimationFrame",
	"sessionStorage",
	"setInterval",
	"setTimeout",
	"structuredClone",
	"window",
}

type pattern struct {
	text string
	g    glob.Glob
}

// Policy is a compiled capability policy. It is read-only after New and
// safe for concurrent use.
type Policy struct {
	denied  []pattern
	globals []string
}

// New compiles cfg. Invalid glob patterns are an error.
func New(cfg core.PolicyConfig) (*Policy, error) {
	p := &Policy{globals: append([]string(nil), cfg.AllowedGlobals...)}
	for _, text := range cfg.DeniedImports {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		g, err := glob.Compile(text, '/')
		if err != nil {
			return nil, fmt.Errorf("denied import pattern %q: %w", text, err)
		}
		p.denied = append(p.denied, pattern{text: text, g: g})
	}
	return p, nil
}

// Default returns the policy built from the default lists.
func Default() *Policy {
	p, err := New(core.PolicyConfig{DeniedImports: DefaultDeniedImports, AllowedGlobals: DefaultAllowedGlobals})
	if err != nil {
		panic(err)
	}
	return p
}

// Env returns the lint environment the policy allows.
func (p *Policy) Env() lint.Env {
	return lint.NewEnv(p.globals)
}

// Denied returns the first pattern the specifier matches, if any. Both the
// normalized package name and the full specifier are tried.
func (p *Policy) Denied(specifier string) (string, bool) {
	root := Normalize(specifier)
	for _, pat := range p.denied {
		if pat.g.Match(root) || pat.g.Match(strings.TrimPrefix(specifier, "node:")) {
			return pat.text, true
		}
	}
	return "", false
}

// Check reports every module load in f that the policy denies.
func (p *Policy) Check(f *jsast.File) []lint.Diagnostic {
	if len(p.denied) == 0 {
		return nil
	}
	var diagnostics []lint.Diagnostic
	for _, imp := range Specifiers(f) {
		if _, denied := p.Denied(imp.Specifier); !denied {
			continue
		}
		d := lint.At(imp.Node, fmt.Sprintf("import of %q is not allowed", imp.Specifier))
		d.RuleID = RuleID
		d.Category = core.CategorySafety
		d.Severity = core.SeverityError
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}

// Normalize reduces a module specifier to its package name: the node:
// prefix is dropped and subpaths are cut, so "node:fs/promises" becomes
// "fs" and "@scope/pkg/x" becomes "@scope/pkg". Relative and absolute
// paths are returned unchanged.
func Normalize(specifier string) string {
	s := strings.TrimPrefix(strings.TrimSpace(specifier), "node:")
	if s == "" || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "/") {
		return s
	}
	parts := strings.SplitN(s, "/", 3)
	if strings.HasPrefix(s, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
