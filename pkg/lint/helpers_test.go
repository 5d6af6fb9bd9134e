package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

// useRules replaces the global registry with rules for the duration of t.
func useRules(t *testing.T, rules ...RuleDef) {
	t.Helper()
	globalRegistry.mu.Lock()
	saved := globalRegistry.rules
	globalRegistry.rules = make(map[string]RuleDef, len(rules))
	for _, r := range rules {
		globalRegistry.rules[r.ID] = r
	}
	globalRegistry.mu.Unlock()

	t.Cleanup(func() {
		globalRegistry.mu.Lock()
		globalRegistry.rules = saved
		globalRegistry.mu.Unlock()
	})
}

func parseJS(t *testing.T, src string) *jsast.File {
	t.Helper()
	f, err := jsast.NewParser(jsast.Options{}).Parse(context.Background(), "sample.js", []byte(src), jsast.EditionJavaScript)
	require.NoError(t, err)
	return f
}
