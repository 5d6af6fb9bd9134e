package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/policy"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

func TestGenerators(t *testing.T) {
	tests := []struct {
		gen      string
		file     string
		contains []string
	}{
		{
			gen:  "cli",
			file: "index.md",
			contains: []string{
				"[`validate`](/cli/validate)",
				"[Report Format](/cli/report)",
				"`SAMPLEGATE_LOG_LEVEL`",
				"`SAMPLEGATE_POLICY__DENIED_IMPORTS` | `policy.denied_imports` |",
				"(comma separated)",
				"At least one sample was rejected",
			},
		},
		{
			gen:  "cli",
			file: "validate.md",
			contains: []string{
				"samplegate validate <corpus>",
				"| `--top` |",
				"`top_rules`",
				"`SAMPLEGATE_TOP_RULES`",
				"may use stdout only when the report is written to a file",
				"## Exit Codes",
			},
		},
		{
			gen:      "cli",
			file:     "check.md",
			contains: []string{"`--errors-only` hides warnings", "## Exit Codes"},
		},
		{
			gen:      "cli",
			file:     "report.md",
			contains: []string{"`rule_id`", "`load-error`", `"verdict":"reject"`, `"pass_rate"`},
		},
		{
			gen:      "config",
			file:     "configuration.md",
			contains: []string{"`top_rules`", "## Default Configuration"},
		},
		{
			gen:      "rules",
			file:     "index.md",
			contains: []string{"no-eval"},
		},
		{
			gen:      "policy",
			file:     "policy.md",
			contains: []string{"## Reference", "`child_process`"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.gen+"/"+tt.file, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, generatorFor(t, tt.gen)(dir))

			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			require.NoError(t, err)
			content := string(data)
			assert.Contains(t, content, generatedHeader)
			for _, want := range tt.contains {
				assert.Contains(t, content, want)
			}
		})
	}
}

func TestGenerateCLIDocs_SkipsHelp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	for _, name := range []string{"validate.md", "check.md", "rules.md", "watch.md", "report.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "help.md"))
}

func TestReportPage_ExampleMatchesSamples(t *testing.T) {
	page, err := reportPage()
	require.NoError(t, err)

	// The first json block is the JSONL report.
	start := bytes.Index(page, []byte("```json\n"))
	require.GreaterOrEqual(t, start, 0)
	block := page[start+len("```json\n"):]
	block = block[:bytes.Index(block, []byte("```"))]

	var results []validate.Result
	sc := bufio.NewScanner(bytes.NewReader(block))
	for sc.Scan() {
		var res validate.Result
		require.NoError(t, json.Unmarshal(sc.Bytes(), &res), sc.Text())
		results = append(results, res)
	}
	require.Len(t, results, len(reportSamples))

	verdicts := map[string]core.Verdict{}
	rules := map[string][]string{}
	for _, res := range results {
		verdicts[res.ID] = res.Verdict
		for _, d := range res.Diagnostics {
			rules[res.ID] = append(rules[res.ID], d.RuleID)
		}
	}
	assert.Equal(t, core.VerdictAccept, verdicts["ok.js"])
	assert.Empty(t, rules["ok.js"])
	assert.Equal(t, core.VerdictAccept, verdicts["notes.js"])
	assert.Contains(t, rules["notes.js"], "no-unused-vars")
	assert.Equal(t, core.VerdictReject, verdicts["evil.js"])
	assert.Contains(t, rules["evil.js"], "no-eval")
	assert.Contains(t, rules["evil.js"], policy.RuleID)
}

func TestGeneratePolicyDocs_KeepsIntroduction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.md")
	require.NoError(t, os.WriteFile(path, []byte("# Import Policy\n\nHand-written intro.\n\n## Reference\n\nstale\n"), 0600))

	require.NoError(t, generatePolicyDocs(dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Hand-written intro.")
	assert.NotContains(t, content, "stale")
	assert.Contains(t, content, "### Denied Imports")
}

func TestCleanExample(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"shared indent", "  # a\n  samplegate x\n\n  samplegate y", "# a\nsamplegate x\n\nsamplegate y"},
		{"no indent", "samplegate x", "samplegate x"},
		{"uneven", "  a\n    b", "a\n  b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanExample(tt.in))
		})
	}
}

func generatorFor(t *testing.T, name string) func(string) error {
	t.Helper()
	for _, g := range generators {
		if g.name == name {
			return g.fn
		}
	}
	t.Fatalf("no generator %q", name)
	return nil
}
