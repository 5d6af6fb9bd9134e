// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/internal/testutil"
)

// Scenario samples with known verdicts.
var Scenarios = map[string]string{
	"eval.js":    `const x = eval("1+1");`,
	"fs.js":      `import fs from "fs"; fs.readFileSync("x");`,
	"clean.js":   `function f(a) { return 1; }`,
	"undef.js":   `let y = 2; console.log(z);`,
	"unused.js":  "function f() { let unused = 1; }\nf();\n",
	"broken.js":  "function (\n",
	"readme.txt": "not a sample",
}

// SetupCorpus writes the scenario samples to a temporary directory.
func SetupCorpus(t *testing.T) string {
	t.Helper()
	return testutil.WriteCorpus(t, Scenarios)
}

// SetupCleanCorpus writes a corpus in which every sample is accepted.
func SetupCleanCorpus(t *testing.T) string {
	t.Helper()
	return testutil.WriteCorpus(t, map[string]string{
		"a.js":     `function f(a) { return 1; }`,
		"b/b.mjs":  "export const b = Math.max(1, 2);\n",
		"c/c.ts":   "const n: number = 1; export default n;\n",
		"d/d.jsx":  "export const d = <div>{document.title}</div>;\n",
		"skip.txt": "ignored",
	})
}

// Line is one decoded record of a JSONL report.
type Line struct {
	ID          string `json:"id"`
	Verdict     string `json:"verdict"`
	Diagnostics []struct {
		RuleID   string `json:"rule_id"`
		Category string `json:"category"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
		Location any    `json:"location"`
	} `json:"diagnostics"`
}

// ParseJSONL decodes a JSONL report keyed by sample ID.
func ParseJSONL(t *testing.T, s string) map[string]Line {
	t.Helper()
	out := make(map[string]Line)
	for i, raw := range strings.Split(strings.TrimSpace(s), "\n") {
		if raw == "" {
			continue
		}
		var l Line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			t.Fatalf("line %d: %v: %q", i+1, err, raw)
		}
		out[l.ID] = l
	}
	return out
}

// RuleIDs returns the rule IDs of a line's diagnostics in order.
func (l Line) RuleIDs() []string {
	ids := make([]string, 0, len(l.Diagnostics))
	for _, d := range l.Diagnostics {
		ids = append(ids, d.RuleID)
	}
	return ids
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
