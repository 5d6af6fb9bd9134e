package style_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	_ "github.com/leapstack-labs/samplegate/pkg/lint/rules/style" // register rules
)

func TestSampleMinLength(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts map[string]any
		want []string
	}{
		{
			name: "inert by default",
			src:  "x();",
		},
		{
			name: "too short",
			src:  "  x();\n\n",
			opts: map[string]any{"min_chars": 10},
			want: []string{"sample is 4 characters long, minimum is 10"},
		},
		{
			name: "long enough",
			src:  "function update(dt) { return dt; }",
			opts: map[string]any{"min_chars": 10},
		},
		{
			name: "counts characters not bytes",
			src:  `"héé";`,
			opts: map[string]any{"min_chars": 7},
			want: []string{"sample is 6 characters long, minimum is 7"},
		},
		{
			name: "option from environment string",
			src:  "x();",
			opts: map[string]any{"min_chars": "5"},
			want: []string{"sample is 4 characters long, minimum is 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := jsast.NewParser(jsast.Options{}).Parse(context.Background(), "s.js", []byte(tt.src), jsast.EditionJavaScript)
			require.NoError(t, err)

			cfg := lint.NewConfig()
			if tt.opts != nil {
				cfg.SetRuleOptions("sample-min-length", tt.opts)
			}

			var got []string
			for _, d := range lint.NewAnalyzer(cfg, lint.NewEnv(nil)).Analyze(f) {
				if d.RuleID != "sample-min-length" {
					continue
				}
				assert.False(t, d.Pos.IsValid(), "whole-file diagnostic")
				got = append(got, d.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
