package core

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty"`

	// Severity maps rule ID to severity override (error, warning, off)
	Severity map[string]string `koanf:"severity" yaml:"severity,omitempty"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules" yaml:"rules,omitempty"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// PolicyConfig holds the capability policy applied to every sample.
type PolicyConfig struct {
	// DeniedImports are glob patterns matched against module specifiers.
	DeniedImports []string `koanf:"denied_imports" yaml:"denied_imports"`

	// AllowedGlobals are host-environment identifiers that count as declared.
	AllowedGlobals []string `koanf:"allowed_globals" yaml:"allowed_globals"`
}
