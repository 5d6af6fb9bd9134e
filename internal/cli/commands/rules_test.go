package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/internal/cli/testutil"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"category", "verbose", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)

	// a buffer is not a terminal, so auto mode renders markdown
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# Lint Rules")
	assert.Contains(t, out, "## Safety")
	assert.Contains(t, out, "## Correctness")
	assert.Contains(t, out, "## Style")
	assert.Contains(t, out, "**no-eval**")
	assert.Contains(t, out, "**no-unused-vars**")
}

func TestRulesCommand_FilterByCategory(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), "--category", "correctness")
	require.NoError(t, err)

	assert.Contains(t, out, "## Correctness")
	assert.Contains(t, out, "**no-undef**")
	assert.NotContains(t, out, "## Safety")
	assert.NotContains(t, out, "no-eval")

	_, _, err = execute(t, NewRulesCommand(), "--category", "performance")
	assert.Error(t, err)
}

func TestRulesCommand_JSON(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), "--format", "json")
	require.NoError(t, err)

	var got RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 5, got.Count.Safety)
	assert.Equal(t, 2, got.Count.Correctness)
	assert.Equal(t, 1, got.Count.Style)
	assert.Equal(t, 8, got.Count.Total)
	require.Len(t, got.Rules, 8)
	assert.Equal(t, "no-eval", got.Rules[0].ID)
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), "no-undef")
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# no-undef")
	assert.Contains(t, out, "**Category:** correctness")
	assert.Contains(t, out, "`error`")
}

func TestRulesCommand_ShowText(t *testing.T) {
	out, _, err := execute(t, NewRulesCommand(), "no-unused-vars", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "no-unused-vars")
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "Options:")
}

func TestRulesCommand_UnknownRule(t *testing.T) {
	_, _, err := execute(t, NewRulesCommand(), "no-such-rule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "no-such-rule" not found`)

	_, _, err = execute(t, NewRulesCommand(), "denied-import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import policy")
}
