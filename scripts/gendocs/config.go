package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/samplegate/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema returns the configuration schema definition.
// This follows internal/cli/config/types.go.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "files", Type: "[]string", Default: "*.js, *.mjs, *.cjs, *.jsx, *.ts, *.tsx", Description: "Glob patterns selecting sample files in a corpus directory"},
		{Name: "exclude", Type: "[]string", Default: "node_modules/**", Description: "Glob patterns for paths to skip"},
		{Name: "edition", Type: "string", Default: config.DefaultEdition, Description: "Language edition: auto, javascript, jsx, typescript, tsx"},
		{Name: "source_type", Type: "string", Default: config.DefaultSourceType, Description: "Source type: unambiguous, module, script"},
		{Name: "id_mode", Type: "string", Default: config.DefaultIDMode, Description: "Sample IDs: path (relative path) or hash (sha256 of the source)"},
		{Name: "workers", Type: "int", Default: "0", Description: "Validation parallelism; 0 means one per CPU"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Summary format: auto, text, markdown, json"},
		{Name: "report", Type: "string", Description: "File for the JSONL report; stdout when empty"},
		{Name: "summary", Type: "string", Description: "File for the JSON summary"},
		{Name: "top_rules", Type: "int", Default: strconv.Itoa(config.DefaultTopRules), Description: "Number of most frequent rules listed in the summary"},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error"},
		{Name: "log_format", Type: "string", Default: config.DefaultLogFormat, Description: "Log format: text, json"},
		{Name: "policy.denied_imports", Type: "[]string", Default: "Node builtins", Description: "Module specifier patterns that reject a sample"},
		{Name: "policy.allowed_globals", Type: "[]string", Default: "browser host", Description: "Host identifiers that count as declared"},
		{Name: "lint.disabled", Type: "[]string", Description: "Rule IDs to disable"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Severity overrides: error, warning, off"},
		{Name: "lint.rules", Type: "map[string]map", Description: "Rule-specific options keyed by rule ID"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "samplegate configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("samplegate reads `samplegate.yaml` from the working directory or the nearest parent directory. " +
		"Use `--config` to name a file explicitly.")

	w.Header(2, "Fields")
	var rows [][]string
	for _, f := range getConfigSchema() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)

	// The example is the resolved default configuration.
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	w.Header(2, "Default Configuration")
	w.Paragraph("The output of `samplegate validate --print-config` with no file, environment or flags:")
	w.CodeBlock("yaml", strings.TrimSpace(string(data)))

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Built-in defaults",
		"`samplegate.yaml`",
		"`SAMPLEGATE_` environment variables",
		"Command-line flags",
	})

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
