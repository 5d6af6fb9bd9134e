package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/pkg/core"
)

func TestRegister(t *testing.T) {
	useRules(t)

	Register(unresolvedRule)
	Register(callRule)

	assert.Equal(t, 2, Count())
	all := GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "test-call", all[0].ID)
	assert.Equal(t, "test-unresolved", all[1].ID)

	got, ok := GetByID("test-call")
	require.True(t, ok)
	assert.Equal(t, core.CategoryStyle, got.Category)

	_, ok = GetByID("missing")
	assert.False(t, ok)

	style := GetByCategory(core.CategoryStyle)
	require.Len(t, style, 1)
	assert.Equal(t, "test-call", style[0].ID)

	infos := AllRules()
	require.Len(t, infos, 2)
	assert.Equal(t, "pattern", infos[0].Strategy)
	assert.Equal(t, "binding", infos[1].Strategy)

	Clear()
	assert.Zero(t, Count())
}

func TestRegister_Duplicate(t *testing.T) {
	useRules(t, callRule)
	assert.Panics(t, func() { Register(callRule) })
}

func TestRegister_Invalid(t *testing.T) {
	match := callRule.Match
	tests := []struct {
		name string
		rule RuleDef
	}{
		{"no id", RuleDef{Strategy: StrategyPattern, Kinds: []string{"x"}, Match: match}},
		{"no check", RuleDef{ID: "a", Strategy: StrategyBinding}},
		{"two checks", RuleDef{ID: "a", Strategy: StrategyBinding, Bindings: unresolvedRule.Bindings, Match: match}},
		{"wrong strategy", RuleDef{ID: "a", Strategy: StrategyImport, Match: match, Kinds: []string{"x"}}},
		{"pattern without kinds", RuleDef{ID: "a", Strategy: StrategyPattern, Match: match}},
		{"unknown strategy", RuleDef{ID: "a", Strategy: Strategy(9), Match: match}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateRule(tt.rule))
		})
	}
	assert.NoError(t, validateRule(callRule))
}
