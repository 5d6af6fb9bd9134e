package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
)

func parse(t *testing.T, src string) *jsast.File {
	t.Helper()
	f, err := jsast.NewParser(jsast.Options{}).Parse(context.Background(), "sample.js", []byte(src), jsast.EditionJavaScript)
	require.NoError(t, err)
	return f
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fs", "fs"},
		{"node:fs", "fs"},
		{"fs/promises", "fs"},
		{"node:fs/promises", "fs"},
		{"@scope/pkg", "@scope/pkg"},
		{"@scope/pkg/deep/x", "@scope/pkg"},
		{"@scope", "@scope"},
		{"./local.js", "./local.js"},
		{"/abs/path.js", "/abs/path.js"},
		{" os ", "os"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestPolicy_Denied(t *testing.T) {
	p, err := New(core.PolicyConfig{DeniedImports: []string{"fs", "child_*", "@evil/*", "lodash/fp/*", " "}})
	require.NoError(t, err)

	tests := []struct {
		spec    string
		want    string
		blocked bool
	}{
		{"fs", "fs", true},
		{"node:fs/promises", "fs", true},
		{"child_process", "child_*", true},
		{"@evil/pkg/sub", "@evil/*", true},
		{"lodash/fp/map", "lodash/fp/*", true},
		{"lodash", "", false},
		{"fsevents", "", false},
		{"./fs", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, blocked := p.Denied(tt.spec)
			assert.Equal(t, tt.blocked, blocked)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(core.PolicyConfig{DeniedImports: []string{"[fs"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"[fs"`)
}

func TestPolicy_Check(t *testing.T) {
	p := Default()

	tests := []struct {
		name  string
		src   string
		specs []string
	}{
		{
			name:  "static import",
			src:   `import fs from "fs"; fs.readFileSync("x");`,
			specs: []string{"fs"},
		},
		{
			name:  "node prefix and subpath",
			src:   `import { readFile } from "node:fs/promises";`,
			specs: []string{"node:fs/promises"},
		},
		{
			name:  "require",
			src:   `const cp = require("child_process"); const u = require('url');`,
			specs: []string{"child_process", "url"},
		},
		{
			name:  "shadowed require still counts",
			src:   `function require(m) { return m; } require("os");`,
			specs: []string{"os"},
		},
		{
			name:  "dynamic import with concatenation",
			src:   `import("n" + "et");`,
			specs: []string{"net"},
		},
		{
			name:  "re-export",
			src:   `export * from "vm";`,
			specs: []string{"vm"},
		},
		{
			name: "non-literal is ambiguous",
			src:  `const m = "fs"; require(m);`,
		},
		{
			name: "allowed module",
			src:  `import Phaser from "phaser";`,
		},
		{
			name: "string that is not a load",
			src:  `console.log("fs");`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := p.Check(parse(t, tt.src))
			require.Len(t, diags, len(tt.specs))
			for i, d := range diags {
				assert.Equal(t, RuleID, d.RuleID)
				assert.Equal(t, core.CategorySafety, d.Category)
				assert.Equal(t, core.SeverityError, d.Severity)
				assert.Contains(t, d.Message, `"`+tt.specs[i]+`"`)
				assert.True(t, d.Pos.IsValid())
			}
		})
	}
}

func TestPolicy_EmptyDenylist(t *testing.T) {
	p, err := New(core.PolicyConfig{})
	require.NoError(t, err)
	assert.Empty(t, p.Check(parse(t, `import fs from "fs";`)))
}

func TestPolicy_Env(t *testing.T) {
	env := Default().Env()
	assert.True(t, env.Globals["window"])
	assert.True(t, env.Globals["Phaser"])
	assert.False(t, env.Globals["require"])
}
