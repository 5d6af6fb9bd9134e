package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/samplegate/internal/cli"
	"github.com/leapstack-labs/samplegate/internal/cli/config"
	"github.com/leapstack-labs/samplegate/pkg/batch"
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// reportSamples are validated to produce the report and summary examples,
// so the documented shape is always what the binary writes.
var reportSamples = []core.Sample{
	{ID: "ok.js", Source: []byte("export const add = (a, b) => a + b;\n")},
	{ID: "notes.js", Source: []byte("export function f() {\n  const unused = 1;\n  return 2;\n}\n")},
	{ID: "evil.js", Source: []byte("import fs from \"fs\";\neval(fs.readFileSync(\"x\", \"utf8\"));\n")},
}

// exitCodes is the process contract shared by validate and check.
var exitCodes = [][]string{
	{InlineCode("0"), "Every sample was accepted, possibly with warnings"},
	{InlineCode("1"), "At least one sample was rejected, or the run failed; stderr says which"},
}

// generateCLIDocs writes the CLI overview, one page per command, and the
// report format page.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	pages := map[string]func() ([]byte, error){
		"index.md":  func() ([]byte, error) { return cliIndex(root), nil },
		"report.md": reportPage,
	}
	for _, cmd := range visibleCommands(root) {
		pages[cmd.Name()+".md"] = func() ([]byte, error) { return commandPage(cmd), nil }
	}

	for name, render := range pages {
		content, err := render()
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return err
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "__complete" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(root *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for samplegate")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("samplegate reads a corpus of untrusted JavaScript samples, decides accept or reject for each one, and reports why. A corpus is a directory of source files or a JSONL file of records.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/samplegate/cmd/samplegate@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)
	w.Paragraph("The per-sample report written by " + InlineCode("validate") + " is described in [Report Format](/cli/report).")

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Each configuration key reads from " + InlineCode(config.EnvPrefix) + " plus the upper-cased key, with a double underscore for nesting. Flags override the environment, which overrides " + InlineCode("samplegate.yaml") + ".")
	writeEnvTable(w)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, exitCodes)

	return w.Bytes()
}

// writeEnvTable lists one variable per scalar or list config key. Map keys
// such as lint.severity only come from the config file or flags.
func writeEnvTable(w *MarkdownWriter) {
	var rows [][]string
	for _, f := range getConfigSchema() {
		if strings.HasPrefix(f.Type, "map[") {
			continue
		}
		desc := f.Description
		if config.IsListKey(f.Name) {
			desc += " (comma separated)"
		}
		rows = append(rows, []string{InlineCode(config.EnvVar(f.Name)), InlineCode(f.Name), desc})
	}
	w.Table([]string{"Variable", "Key", "Description"}, rows)
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	useLine := cmd.UseLine()
	if !strings.HasPrefix(useLine, "samplegate") {
		useLine = "samplegate " + useLine
	}
	w.CodeBlock("bash", useLine)

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}

	switch cmd.Name() {
	case "validate":
		w.Header(2, "Output")
		w.Paragraph("The JSONL report goes to " + InlineCode("--report") + ", or stdout when unset. The JSON summary goes to " + InlineCode("--summary") + " and may use stdout only when the report is written to a file. The human summary is rendered on stderr unless " + InlineCode("--quiet") + " is set.")
		w.Paragraph("See [Report Format](/cli/report) for both schemas.")
		w.Header(2, "Exit Codes")
		w.Table([]string{"Code", "Meaning"}, exitCodes)
	case "check":
		w.Header(2, "Output")
		w.Paragraph("Diagnostics are printed to stdout grouped by sample, formatted by " + InlineCode("--format") + ". " + InlineCode("--errors-only") + " hides warnings but never changes the verdict.")
		w.Header(2, "Exit Codes")
		w.Table([]string{"Code", "Meaning"}, exitCodes)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}

	return w.Bytes()
}

// writeFlagsTable also names the config key and environment variable behind
// each flag that feeds the config.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = "-" + f.Shorthand
		}
		defVal := f.DefValue
		if f.Value.Type() == "string" && defVal != "" {
			defVal = InlineCode(defVal)
		}
		key, env := "", ""
		if k, ok := config.FlagKey(f.Name); ok {
			key = InlineCode(k)
			if !strings.HasPrefix(f.Value.Type(), "stringToString") {
				env = InlineCode(config.EnvVar(k))
			}
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, defVal, key, env, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Option", "Short", "Default", "Config key", "Environment", "Description"}, rows)
}

// reportPage documents the report and summary by running the validator over
// reportSamples.
func reportPage() ([]byte, error) {
	runner := batch.NewRunner(validate.New(validate.Options{}), batch.Options{Workers: 1})
	report, err := runner.Run(context.Background(), reportSamples)
	if err != nil {
		return nil, err
	}
	var jsonl, summary bytes.Buffer
	if err := batch.WriteJSONL(&jsonl, report.Results); err != nil {
		return nil, err
	}
	if err := batch.WriteSummary(&summary, report.Summary(config.DefaultTopRules)); err != nil {
		return nil, err
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Report Format", "JSONL report and JSON summary written by samplegate validate")
	w.GeneratedMarker()

	w.Header(1, "Report Format")
	w.Paragraph(InlineCode("samplegate validate") + " writes one JSON object per input sample, in input order. Samples that could not be loaded still get a line, rejected with a " + InlineCode("load-error") + " diagnostic.")

	w.Header(2, "Record")
	w.Table([]string{"Field", "Type", "Description"}, [][]string{
		{InlineCode("id"), "string", "Relative path, JSONL record id, or sha256 of the source in hash mode"},
		{InlineCode("verdict"), "string", InlineCode(core.VerdictAccept.String()) + " or " + InlineCode(core.VerdictReject.String())},
		{InlineCode("diagnostics"), "array", "Every finding, sorted by position then rule ID; empty when clean"},
	})

	w.Header(2, "Diagnostic")
	w.Table([]string{"Field", "Type", "Description"}, [][]string{
		{InlineCode("rule_id"), "string", "Rule that fired, or " + InlineCode("parse-error") + " and " + InlineCode("load-error")},
		{InlineCode("category"), "string", "safety, correctness or style"},
		{InlineCode("severity"), "string", InlineCode("error") + " rejects the sample; " + InlineCode("warning") + " is a note"},
		{InlineCode("message"), "string", "Human-readable explanation"},
		{InlineCode("location"), "object or string", InlineCode(`{"line":N,"column":N}`) + ", 1-based, or " + InlineCode(`"whole-file"`)},
	})

	w.Header(2, "Example")
	w.Paragraph("Produced from these samples:")
	for _, s := range reportSamples {
		w.Line(Bold(s.ID))
		w.CodeBlock("javascript", strings.TrimSpace(string(s.Source)))
	}
	w.CodeBlock("json", strings.TrimSpace(jsonl.String()))

	w.Header(2, "Summary")
	w.Paragraph("With " + InlineCode("--summary") + " the corpus statistics are written as one indented JSON object. " + InlineCode("pass_rate") + " is accepted over total, and " + InlineCode("issue_distribution") + " counts samples per rule.")
	w.CodeBlock("json", strings.TrimSpace(summary.String()))

	return w.Bytes(), nil
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := len(line) - len(strings.TrimLeft(line, " \t")); indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
