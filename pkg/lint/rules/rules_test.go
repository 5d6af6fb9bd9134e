package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	_ "github.com/leapstack-labs/samplegate/pkg/lint/rules"
)

func TestBuiltinRules(t *testing.T) {
	want := map[string]struct {
		category core.Category
		severity core.Severity
	}{
		"no-eval":               {core.CategorySafety, core.SeverityError},
		"no-implied-eval":       {core.CategorySafety, core.SeverityError},
		"no-new-func":           {core.CategorySafety, core.SeverityError},
		"no-with":               {core.CategorySafety, core.SeverityError},
		"no-restricted-imports": {core.CategorySafety, core.SeverityError},
		"no-undef":              {core.CategoryCorrectness, core.SeverityError},
		"no-unused-vars":        {core.CategoryCorrectness, core.SeverityWarning},
		"sample-min-length":     {core.CategoryStyle, core.SeverityWarning},
	}

	assert.Equal(t, len(want), lint.Count())
	for _, rule := range lint.GetAll() {
		w, ok := want[rule.ID]
		if !assert.True(t, ok, "unexpected rule %s", rule.ID) {
			continue
		}
		assert.Equal(t, w.category, rule.Category, rule.ID)
		assert.Equal(t, w.severity, rule.Severity, rule.ID)
		assert.NotEmpty(t, rule.Description, rule.ID)
		assert.NotEmpty(t, rule.Rationale, rule.ID)
	}
}
