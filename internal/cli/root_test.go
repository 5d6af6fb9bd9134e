package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/internal/cli/config"
	"github.com/leapstack-labs/samplegate/internal/cli/testutil"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"version", "validate", "check", "rules", "watch", "completion"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("output"))
}

func TestRoot_Version(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "samplegate v"+Version)
}

func TestRoot_ValidateRejects(t *testing.T) {
	dir := testutil.SetupCorpus(t)

	out, errOut, err := run(t, "validate", dir, "-o", "markdown")
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	lines := testutil.ParseJSONL(t, out)
	assert.Len(t, lines, 6)
	assert.Equal(t, "reject", lines["eval.js"].Verdict)
	assert.Equal(t, "accept", lines["clean.js"].Verdict)
	assert.Contains(t, errOut, "## Validation Summary")
}

func TestRoot_ValidateAccepts(t *testing.T) {
	dir := testutil.SetupCleanCorpus(t)

	_, _, err := run(t, "validate", dir, "--quiet")
	assert.NoError(t, err)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	dir := testutil.SetupCleanCorpus(t)

	_, _, err := run(t, "validate", dir, "--log-level", "loud")
	require.Error(t, err)
	assert.False(t, IsRejected(err))
	assert.Contains(t, err.Error(), "log_level")
}

func TestRoot_Completion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "samplegate")
}

func TestGetConfig_Default(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultEdition, cfg.Edition)
	assert.Equal(t, config.DefaultTopRules, cfg.TopRules)
}
