package lint

import (
	"fmt"

	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint/scope"
)

// Env describes the host environment samples run in.
type Env struct {
	// Globals are names the host defines in addition to ECMAScript builtins.
	Globals map[string]bool
}

// NewEnv builds an Env from a list of global names.
func NewEnv(globals []string) Env {
	m := make(map[string]bool, len(globals))
	for _, g := range globals {
		m[g] = true
	}
	return Env{Globals: m}
}

// RuleError is the failure of a single rule on a single file.
type RuleError struct {
	RuleID string
	Value  any // recovered panic value
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed: %v", e.RuleID, e.Value)
}

// RuleResult is the outcome of one rule on one file: its diagnostics, or
// the error that stopped it.
type RuleResult struct {
	RuleID      string
	Diagnostics []Diagnostic
	Err         error
}

// Analyzer runs the enabled lint rules against parsed files. It is safe for
// concurrent use once constructed.
type Analyzer struct {
	config *Config
	env    Env
	rules  []RuleDef // enabled, sorted by ID

	byKind map[string][]int // node kind -> indexes into rules
}

// NewAnalyzer creates an analyzer over the rules registered at call time.
func NewAnalyzer(config *Config, env Env) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{config: config, env: env, byKind: make(map[string][]int)}
	for _, rule := range GetAll() {
		if config.IsDisabled(rule.ID) {
			continue
		}
		a.rules = append(a.rules, rule)
	}
	for i, rule := range a.rules {
		if rule.Strategy != StrategyPattern {
			continue
		}
		for _, k := range rule.Kinds {
			a.byKind[k] = append(a.byKind[k], i)
		}
	}
	return a
}

// Rules returns the enabled rules.
func (a *Analyzer) Rules() []RuleDef {
	return a.rules
}

// Run executes every enabled rule and returns one result per rule, in rule
// ID order. A rule that panics gets Err set and is not called again for
// this file; its partial diagnostics are dropped.
func (a *Analyzer) Run(f *jsast.File) []RuleResult {
	ctx := &Context{File: f, Scope: scope.Analyze(f), Globals: a.env.Globals}

	results := make([]RuleResult, len(a.rules))
	for i, rule := range a.rules {
		results[i].RuleID = rule.ID
	}
	record := func(i int, fn func() []Diagnostic) {
		if results[i].Err != nil {
			return
		}
		diags, err := invoke(a.rules[i].ID, fn)
		if err != nil {
			results[i].Diagnostics = nil
			results[i].Err = err
			return
		}
		results[i].Diagnostics = append(results[i].Diagnostics, diags...)
	}

	if len(a.byKind) > 0 {
		jsast.Walk(f.Root, func(n *jsast.Node) bool {
			for _, i := range a.byKind[n.Kind] {
				rule := a.rules[i]
				opts := a.config.GetRuleOptions(rule.ID)
				record(i, func() []Diagnostic { return rule.Match(n, ctx, opts) })
			}
			return true
		})
	}

	var imports []ImportRef
	collected := false
	for i, rule := range a.rules {
		opts := a.config.GetRuleOptions(rule.ID)
		switch rule.Strategy {
		case StrategyImport:
			if !collected {
				imports = CollectImports(ctx)
				collected = true
			}
			for _, imp := range imports {
				record(i, func() []Diagnostic { return rule.Imports(imp, ctx, opts) })
			}
		case StrategyBinding:
			record(i, func() []Diagnostic { return rule.Bindings(ctx, opts) })
		}
	}
	return results
}

// Analyze runs every enabled rule and returns the diagnostics with rule
// identity and effective severity applied. Rule failures become whole-file
// diagnostics owned by the failing rule.
func (a *Analyzer) Analyze(f *jsast.File) []Diagnostic {
	var diagnostics []Diagnostic
	for i, res := range a.Run(f) {
		rule := a.rules[i]
		severity := a.config.GetSeverity(rule.ID, rule.Severity)
		if res.Err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				RuleID:   rule.ID,
				Category: rule.Category,
				Severity: severity,
				Message:  res.Err.Error(),
			})
			continue
		}
		for _, d := range res.Diagnostics {
			d.RuleID = rule.ID
			d.Category = rule.Category
			d.Severity = severity
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics
}

func invoke(ruleID string, fn func() []Diagnostic) (diags []Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			diags = nil
			err = &RuleError{RuleID: ruleID, Value: r}
		}
	}()
	return fn(), nil
}
