// Package core defines the shared language of the samplegate pipeline.
//
// This package contains:
//   - Classification enums (Severity, Category, Verdict)
//   - The Sample entity handed from the loader to the validator
//   - Rule metadata DTOs (RuleInfo)
//   - Configuration types shared by the CLI and the engine (LintConfig, PolicyConfig)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
