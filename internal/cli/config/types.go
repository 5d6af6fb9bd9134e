// Package config loads samplegate CLI configuration.
//
// Settings are layered from defaults, a samplegate.yaml file, SAMPLEGATE_
// environment variables and command-line flags, in increasing precedence.
// The lint and policy sections reuse the shared types in pkg/core.
package config

import (
	"github.com/leapstack-labs/samplegate/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// PolicyConfig is an alias for the shared capability policy configuration.
type PolicyConfig = core.PolicyConfig

// Defaults for values not set anywhere else.
const (
	DefaultOutput     = "auto"
	DefaultEdition    = "auto"
	DefaultSourceType = "unambiguous"
	DefaultIDMode     = "path"
	DefaultTopRules   = 5
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Files are glob patterns selecting sample files inside a corpus directory.
	Files []string `koanf:"files" yaml:"files"`
	// Exclude are glob patterns for paths to skip.
	Exclude []string `koanf:"exclude" yaml:"exclude"`

	Edition    string `koanf:"edition" yaml:"edition"`
	SourceType string `koanf:"source_type" yaml:"source_type"`
	IDMode     string `koanf:"id_mode" yaml:"id_mode"`

	// Workers bounds validation parallelism. Zero means one per CPU.
	Workers int `koanf:"workers" yaml:"workers"`

	Output   string `koanf:"output" yaml:"output"`
	Report   string `koanf:"report" yaml:"report,omitempty"`
	Summary  string `koanf:"summary" yaml:"summary,omitempty"`
	TopRules int    `koanf:"top_rules" yaml:"top_rules"`

	LogLevel  string `koanf:"log_level" yaml:"log_level"`
	LogFormat string `koanf:"log_format" yaml:"log_format"`

	Policy PolicyConfig `koanf:"policy" yaml:"policy"`
	Lint   LintConfig   `koanf:"lint" yaml:"lint"`
}
