package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/samplegate/pkg/core"
)

// SeverityOff disables a rule when used as a severity override.
const SeverityOff = "off"

// Config controls which rules are enabled, their severity, and their options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds per-rule option maps
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// NewConfigFromLintConfig converts the file-level lint section into an
// engine Config. Unknown rule IDs are rejected so typos surface early.
func NewConfigFromLintConfig(lc *core.LintConfig) (*Config, error) {
	cfg := NewConfig()
	if lc == nil {
		return cfg, nil
	}

	var unknown []string
	check := func(id string) {
		if _, ok := GetByID(id); !ok {
			unknown = append(unknown, id)
		}
	}

	for _, id := range lc.Disabled {
		check(id)
		cfg.Disable(id)
	}
	for id, level := range lc.Severity {
		check(id)
		if strings.EqualFold(strings.TrimSpace(level), SeverityOff) {
			cfg.Disable(id)
			continue
		}
		sev, ok := core.ParseSeverity(level)
		if !ok {
			return nil, fmt.Errorf("rule %s: invalid severity %q (want error, warning or off)", id, level)
		}
		cfg.SetSeverity(id, sev)
	}
	for id, opts := range lc.Rules {
		check(id)
		cfg.SetRuleOptions(id, opts)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown lint rules: %s", strings.Join(unknown, ", "))
	}
	return cfg, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions replaces the options for a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}
