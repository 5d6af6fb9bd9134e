package lint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/samplegate/pkg/core"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages. It panics on a
// malformed definition, since that is a programming error.
func Register(rule RuleDef) {
	if err := validateRule(rule); err != nil {
		panic(err)
	}

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, dup := globalRegistry.rules[rule.ID]; dup {
		panic(fmt.Sprintf("lint: rule %q registered twice", rule.ID))
	}
	globalRegistry.rules[rule.ID] = rule
}

func validateRule(rule RuleDef) error {
	if rule.ID == "" {
		return fmt.Errorf("lint: rule without ID")
	}
	set := 0
	for _, ok := range []bool{rule.Match != nil, rule.Imports != nil, rule.Bindings != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("lint: rule %q must define exactly one check function, has %d", rule.ID, set)
	}

	switch rule.Strategy {
	case StrategyPattern:
		if rule.Match == nil {
			return fmt.Errorf("lint: pattern rule %q has no Match", rule.ID)
		}
		if len(rule.Kinds) == 0 {
			return fmt.Errorf("lint: pattern rule %q lists no node kinds", rule.ID)
		}
	case StrategyImport:
		if rule.Imports == nil {
			return fmt.Errorf("lint: import rule %q has no Imports", rule.ID)
		}
	case StrategyBinding:
		if rule.Bindings == nil {
			return fmt.Errorf("lint: binding rule %q has no Bindings", rule.ID)
		}
	default:
		return fmt.Errorf("lint: rule %q has unknown strategy %d", rule.ID, rule.Strategy)
	}
	return nil
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByCategory returns all rules in a category, sorted by ID.
func GetByCategory(category core.Category) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.Category == category {
			rules = append(rules, rule)
		}
	}
	return rules
}

// AllRules returns metadata for every registered rule, sorted by ID.
func AllRules() []core.RuleInfo {
	all := GetAll()
	infos := make([]core.RuleInfo, 0, len(all))
	for _, r := range all {
		infos = append(infos, r.Info())
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
