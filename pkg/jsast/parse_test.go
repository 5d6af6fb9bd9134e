package jsast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *File {
	t.Helper()
	f, err := NewParser(Options{}).Parse(context.Background(), "sample.js", []byte(src), EditionJavaScript)
	require.NoError(t, err)
	return f
}

func kinds(root *Node) map[string]int {
	out := make(map[string]int)
	Walk(root, func(n *Node) bool {
		out[n.Kind]++
		return true
	})
	return out
}

func TestParse_Tree(t *testing.T) {
	f := parse(t, `const x = eval("1+1");`)

	assert.Equal(t, "program", f.Root.Kind)
	assert.False(t, f.Module)

	call := Find(f.Root, func(n *Node) bool { return n.Kind == "call_expression" })
	require.NotNil(t, call)
	callee := call.Child("function")
	require.NotNil(t, callee)
	assert.Equal(t, "identifier", callee.Kind)
	assert.Equal(t, "eval", callee.Text)
	assert.Equal(t, 1, callee.Pos.Line)
	assert.Equal(t, 11, callee.Pos.Column)
	assert.Same(t, call, callee.Parent)

	args := call.Child("arguments")
	require.NotNil(t, args)
	s, ok := f.ConstString(args.FirstNamed())
	require.True(t, ok)
	assert.Equal(t, "1+1", s)
}

func TestParse_ModuleDetection(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		sourceType SourceType
		wantModule bool
		wantErr    bool
	}{
		{name: "script", src: `var a = 1;`, sourceType: SourceUnambiguous},
		{name: "import makes module", src: `import fs from "fs";`, sourceType: SourceUnambiguous, wantModule: true},
		{name: "export makes module", src: `export const a = 1;`, sourceType: SourceUnambiguous, wantModule: true},
		{name: "forced module", src: `var a = 1;`, sourceType: SourceModule, wantModule: true},
		{name: "import in script", src: `import x from "y";`, sourceType: SourceScript, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewParser(Options{SourceType: tt.sourceType}).
				Parse(context.Background(), "a.js", []byte(tt.src), EditionJavaScript)
			if tt.wantErr {
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, 1, perr.Pos.Line)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModule, f.Module)
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{name: "unterminated call", src: "let a = 1;\nfoo(;\n", wantLine: 2},
		{name: "broken block", src: "if (x {", wantLine: 1},
		{name: "dangling operator", src: "let a = 1;\nlet b = ;\n", wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(Options{}).Parse(context.Background(), "bad.js", []byte(tt.src), EditionJavaScript)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "want ParseError, got %v", err)
			assert.Equal(t, tt.wantLine, perr.Pos.Line)
			assert.NotEmpty(t, perr.Message)
		})
	}
}

func TestParse_JSX(t *testing.T) {
	f, err := NewParser(Options{}).Parse(context.Background(), "app.jsx",
		[]byte(`const el = <Button label="go" />;`), EditionAuto)
	require.NoError(t, err)
	assert.Equal(t, EditionJSX, f.Edition)
	assert.Positive(t, kinds(f.Root)["jsx_self_closing_element"])
}

func TestParse_TypeScriptLowering(t *testing.T) {
	src := "import fs from \"fs\";\nconst n: number = 1;\ninterface P { x: number }\n"

	f, err := NewParser(Options{}).Parse(context.Background(), "scene.ts", []byte(src), EditionAuto)
	require.NoError(t, err)
	assert.Equal(t, EditionTypeScript, f.Edition)
	assert.True(t, f.Module, "imports must survive lowering")
	assert.NotContains(t, string(f.Source), "interface")

	k := kinds(f.Root)
	assert.Equal(t, 1, k["import_statement"])
}

func TestParse_TypeScriptError(t *testing.T) {
	_, err := NewParser(Options{}).Parse(context.Background(), "bad.ts", []byte("const x: = 1;\n"), EditionAuto)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1, perr.Pos.Line)
}

func TestParseEdition(t *testing.T) {
	for in, want := range map[string]Edition{
		"":           EditionAuto,
		"auto":       EditionAuto,
		"JavaScript": EditionJavaScript,
		"ts":         EditionTypeScript,
		"tsx":        EditionTSX,
	} {
		got, err := ParseEdition(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEdition("coffeescript")
	assert.Error(t, err)
}

func TestEditionForPath(t *testing.T) {
	assert.Equal(t, EditionTypeScript, EditionForPath("a/b.ts", EditionAuto))
	assert.Equal(t, EditionTSX, EditionForPath("b.TSX", EditionAuto))
	assert.Equal(t, EditionJavaScript, EditionForPath("c.mjs", EditionAuto))
	assert.Equal(t, EditionJSX, EditionForPath("c.ts", EditionJSX))
}
