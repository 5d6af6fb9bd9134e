package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/internal/cli/testutil"
	"github.com/leapstack-labs/samplegate/pkg/batch"
)

func TestValidateCommand_Scenarios(t *testing.T) {
	dir := testutil.SetupCorpus(t)

	out, errOut, err := execute(t, NewValidateCommand(), dir, "--workers", "4")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "4 of 6")

	lines := testutil.ParseJSONL(t, out)
	require.Len(t, lines, 6, "readme.txt is not a sample")

	tests := []struct {
		id      string
		verdict string
		rules   []string
	}{
		{"broken.js", "reject", []string{"parse-error"}},
		{"clean.js", "accept", []string{}},
		{"eval.js", "reject", []string{"no-eval"}},
		{"fs.js", "reject", []string{"denied-import"}},
		{"undef.js", "reject", []string{"no-undef"}},
		{"unused.js", "accept", []string{"no-unused-vars"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			line, ok := lines[tt.id]
			require.True(t, ok)
			assert.Equal(t, tt.verdict, line.Verdict)
			assert.Equal(t, tt.rules, line.RuleIDs())
		})
	}

	// report lines follow sorted path order
	var ids []string
	for _, raw := range strings.Split(strings.TrimSpace(out), "\n") {
		var l testutil.Line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"broken.js", "clean.js", "eval.js", "fs.js", "undef.js", "unused.js"}, ids)

	assert.Contains(t, errOut, "Validation Summary")
	assert.Contains(t, errOut, "- **Rejected:** 4")
	testutil.AssertNoANSI(t, errOut)
}

func TestValidateCommand_AllAccepted(t *testing.T) {
	dir := testutil.SetupCleanCorpus(t)

	out, _, err := execute(t, NewValidateCommand(), dir, "--quiet")
	require.NoError(t, err)

	lines := testutil.ParseJSONL(t, out)
	require.Len(t, lines, 4)
	for id, line := range lines {
		assert.Equal(t, "accept", line.Verdict, id)
	}
}

func TestValidateCommand_Deterministic(t *testing.T) {
	dir := testutil.SetupCorpus(t)

	first, _, _ := execute(t, NewValidateCommand(), dir, "--workers", "1", "--quiet")
	second, _, _ := execute(t, NewValidateCommand(), dir, "--workers", "8", "--quiet")
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestValidateCommand_ReportAndSummaryFiles(t *testing.T) {
	dir := testutil.SetupCorpus(t)
	outDir := t.TempDir()
	report := filepath.Join(outDir, "report.jsonl")
	summary := filepath.Join(outDir, "summary.json")

	out, errOut, err := execute(t, NewValidateCommand(), dir,
		"--report", report, "--summary", summary, "--top", "2", "--quiet")
	require.ErrorIs(t, err, ErrRejected)
	assert.Empty(t, out)
	assert.Empty(t, errOut)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Len(t, testutil.ParseJSONL(t, string(data)), 6)

	data, err = os.ReadFile(summary)
	require.NoError(t, err)
	var s batch.Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Accepted)
	assert.Equal(t, 1, s.AcceptedWithNotes)
	assert.Equal(t, 4, s.Rejected)
	assert.Equal(t, 1, s.ParseFailures)
	assert.Len(t, s.TopRules, 2)
}

func TestValidateCommand_SummaryOnStdout(t *testing.T) {
	dir := testutil.SetupCorpus(t)

	out, _, err := execute(t, NewValidateCommand(), dir, "--summary", "-", "--quiet")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "summary: cannot write to stdout")
	assert.Empty(t, out)

	report := filepath.Join(t.TempDir(), "report.jsonl")
	out, _, err = execute(t, NewValidateCommand(), dir, "--summary", "-", "--report", report, "--quiet")
	require.ErrorIs(t, err, ErrRejected)

	var s batch.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 6, s.Total)
}

func TestValidateCommand_SeverityAndDisable(t *testing.T) {
	dir := testutil.SetupCorpus(t)

	out, _, err := execute(t, NewValidateCommand(), dir,
		"--severity", "no-unused-vars=error", "--disable", "no-eval", "--quiet")
	require.ErrorIs(t, err, ErrRejected)

	lines := testutil.ParseJSONL(t, out)
	assert.Equal(t, "reject", lines["unused.js"].Verdict)
	assert.Equal(t, "error", lines["unused.js"].Diagnostics[0].Severity)

	// eval is a builtin, so nothing else fires once no-eval is off
	assert.Equal(t, "accept", lines["eval.js"].Verdict)
	assert.Empty(t, lines["eval.js"].Diagnostics)

	// policy is independent of lint configuration
	assert.Equal(t, "reject", lines["fs.js"].Verdict)
}

func TestValidateCommand_ConfigFile(t *testing.T) {
	dir := testutil.SetupCorpus(t)
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "samplegate.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`files: ["clean.js", "fs.js"]
policy:
  denied_imports: ["child_process"]
`), 0o600))

	out, _, err := execute(t, NewValidateCommand(), dir, "--config", cfgPath, "--quiet")
	require.NoError(t, err)

	lines := testutil.ParseJSONL(t, out)
	require.Len(t, lines, 2)
	assert.Equal(t, "accept", lines["fs.js"].Verdict)
}

func TestValidateCommand_JSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"id":"a","code":"const x = eval(\"1+1\");"}`+"\n"+
			`{"id":"b","code":"function f(a) { return 1; }"}`+"\n"+
			"not json\n"+
			`{"id":"d","text":"eval(1)"}`+"\n",
	), 0o600))

	out, _, err := execute(t, NewValidateCommand(), path, "--quiet")
	require.ErrorIs(t, err, ErrRejected)

	lines := testutil.ParseJSONL(t, out)
	require.Len(t, lines, 4)
	assert.Equal(t, "reject", lines["a"].Verdict)
	assert.Equal(t, "accept", lines["b"].Verdict)
	assert.Equal(t, []string{"load-error"}, lines["candidates.jsonl:3"].RuleIDs())
	assert.Equal(t, "reject", lines["d"].Verdict)
	assert.Equal(t, []string{"load-error"}, lines["d"].RuleIDs())
}

func TestValidateCommand_JSONSummary(t *testing.T) {
	dir := testutil.SetupCleanCorpus(t)

	_, errOut, err := execute(t, NewValidateCommand(), dir, "-j", "2", "--edition", "auto")
	require.NoError(t, err)
	testutil.AssertNoANSI(t, errOut)
	assert.Contains(t, errOut, "Validation Summary")

	dir = testutil.SetupCleanCorpus(t)
	t.Setenv("SAMPLEGATE_OUTPUT", "json")
	_, errOut, err = execute(t, NewValidateCommand(), dir)
	require.NoError(t, err)
	var s batch.Summary
	require.NoError(t, json.Unmarshal([]byte(errOut), &s))
	assert.Equal(t, 4, s.Total)
	assert.InDelta(t, 1.0, s.PassRate, 1e-9)
}

func TestValidateCommand_Errors(t *testing.T) {
	_, _, err := execute(t, NewValidateCommand(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)

	dir := testutil.SetupCleanCorpus(t)
	_, _, err = execute(t, NewValidateCommand(), dir, "--severity", "no-such-rule=error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lint rules: no-such-rule")

	_, _, err = execute(t, NewValidateCommand(), dir, "--edition", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edition")
}

func TestValidateCommand_PrintConfig(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(), "--print-config", "--workers", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "workers: 3\n")
	assert.Contains(t, out, "edition: auto\n")
	assert.Contains(t, out, "denied_imports:\n")
	assert.Contains(t, out, "- child_process\n")
}
