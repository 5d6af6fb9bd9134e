package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/samplegate/internal/testutil"
	"github.com/leapstack-labs/samplegate/pkg/core"
)

func ids(samples []core.Sample) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.ID)
	}
	return out
}

func newLoader(t *testing.T, opts Options) *Loader {
	t.Helper()
	opts.Logger = testutil.NewTestLogger(t)
	l, err := NewLoader(opts)
	require.NoError(t, err)
	return l
}

func TestLoad_Directory(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"b.js":                      "b();",
		"a/one.ts":                  "let x: number = 1;",
		"a/two.jsx":                 "<div/>;",
		"a/readme.md":               "# no",
		".hidden/skip.js":           "x();",
		".eslintrc.js":              "x();",
		"node_modules/lib/index.js": "x();",
		"pkg/node_modules/x.js":     "x();",
		"gen/out.min.js":            "x();",
	})

	l := newLoader(t, Options{Exclude: append([]string{"*.min.js"}, DefaultExclude...)})
	samples, err := l.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a/one.ts", "a/two.jsx", "b.js"}, ids(samples))
	assert.Equal(t, []byte("b();"), samples[2].Source)
	assert.Equal(t, filepath.Join(dir, "b.js"), samples[2].Path)
	for _, s := range samples {
		assert.NoError(t, s.LoadErr)
	}
}

func TestLoad_IncludeWithPath(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"src/a.js":  "a();",
		"src/b.ts":  "b();",
		"test/c.js": "c();",
	})

	l := newLoader(t, Options{Include: []string{"src/*.js"}})
	samples, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js"}, ids(samples))
}

func TestLoad_HashIDs(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{"a.js": "x();"})

	l := newLoader(t, Options{IDMode: IDHash})
	samples, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, Hash([]byte("x();")), samples[0].ID)
	assert.Len(t, samples[0].ID, 64)
}

func TestLoad_SingleFile(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{"game.js": "run();"})

	samples, err := newLoader(t, Options{}).Load(context.Background(), filepath.Join(dir, "game.js"))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "game.js", samples[0].ID)
	assert.Equal(t, []byte("run();"), samples[0].Source)
}

func TestLoad_JSONL(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"candidates.jsonl": `{"id": "c1", "code": "const a = 1;"}

{"code": "b();"}
not json
{"id": "c4", "code": "let t: string = 'x';", "edition": "typescript"}
`,
	})

	samples, err := newLoader(t, Options{}).Load(context.Background(), filepath.Join(dir, "candidates.jsonl"))
	require.NoError(t, err)
	require.Len(t, samples, 4)

	assert.Equal(t, "c1", samples[0].ID)
	assert.Equal(t, []byte("const a = 1;"), samples[0].Source)
	assert.Equal(t, "candidates.jsonl:1", samples[0].Path)

	assert.Equal(t, Hash([]byte("b();")), samples[1].ID)

	assert.Equal(t, "candidates.jsonl:4", samples[2].ID)
	assert.Error(t, samples[2].LoadErr)

	assert.Equal(t, "c4", samples[3].ID)
	assert.Equal(t, "typescript", samples[3].Edition)
}

func TestLoad_JSONLWithoutCode(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{
		"candidates.jsonl": `{"id": "a", "text": "eval(1)"}
{"id": "b"}
{"id": "c", "code": ""}
{"code": "   "}
{"id": "e", "code": null}
`,
	})

	samples, err := newLoader(t, Options{}).Load(context.Background(), filepath.Join(dir, "candidates.jsonl"))
	require.NoError(t, err)
	require.Len(t, samples, 5)

	tests := []struct {
		id      string
		wantErr string
	}{
		{id: "a", wantErr: "record has no code field"},
		{id: "b", wantErr: "record has no code field"},
		{id: "c", wantErr: "record has empty code"},
		{id: "candidates.jsonl:4", wantErr: "record has empty code"},
		{id: "e", wantErr: "record has no code field"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.id, samples[i].ID)
			assert.Empty(t, samples[i].Source)
			require.Error(t, samples[i].LoadErr)
			assert.Equal(t, tt.wantErr, samples[i].LoadErr.Error())
		})
	}
}

func TestLoad_JSONLOversizedRecord(t *testing.T) {
	old := maxLine
	maxLine = 64
	t.Cleanup(func() { maxLine = old })

	long := `{"id": "big", "code": "` + strings.Repeat("x", 200) + `"}`
	dir := testutil.WriteCorpus(t, map[string]string{
		"candidates.jsonl": `{"id": "a", "code": "a();"}` + "\n" + long + "\n" + `{"id": "c", "code": "c();"}`,
	})

	samples, err := newLoader(t, Options{}).Load(context.Background(), filepath.Join(dir, "candidates.jsonl"))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, "a", samples[0].ID)
	assert.NoError(t, samples[0].LoadErr)

	assert.Equal(t, "candidates.jsonl:2", samples[1].ID)
	require.Error(t, samples[1].LoadErr)
	assert.Contains(t, samples[1].LoadErr.Error(), "exceeds 64 bytes")

	assert.Equal(t, "c", samples[2].ID)
	assert.Equal(t, []byte("c();"), samples[2].Source)
	assert.NoError(t, samples[2].LoadErr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := newLoader(t, Options{}).Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewLoader(Options{Include: []string{"[a"}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := testutil.WriteCorpus(t, map[string]string{"a.js": "x();"})
	_, err = newLoader(t, Options{}).Load(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseIDMode(t *testing.T) {
	m, err := ParseIDMode("")
	require.NoError(t, err)
	assert.Equal(t, IDPath, m)

	m, err = ParseIDMode("HASH")
	require.NoError(t, err)
	assert.Equal(t, IDHash, m)

	_, err = ParseIDMode("uuid")
	assert.Error(t, err)
}

func TestLoader_Selects(t *testing.T) {
	l := newLoader(t, Options{Exclude: DefaultExclude})
	tests := []struct {
		rel  string
		want bool
	}{
		{"a.js", true},
		{"src/b.tsx", true},
		{"notes.txt", false},
		{"node_modules/x/index.js", false},
		{"pkg/node_modules/x/index.js", false},
		{".cache/a.js", false},
		{"src/.hidden.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Selects(tt.rel))
		})
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := testutil.WriteCorpus(t, map[string]string{"sub/a.js": "x();"})

	s := newLoader(t, Options{}).LoadFile(dir, filepath.Join(dir, "sub", "a.js"))
	assert.Equal(t, "sub/a.js", s.ID)
	assert.Equal(t, []byte("x();"), s.Source)
	assert.NoError(t, s.LoadErr)

	s = newLoader(t, Options{IDMode: IDHash}).LoadFile(dir, filepath.Join(dir, "sub", "a.js"))
	assert.Equal(t, Hash([]byte("x();")), s.ID)

	s = newLoader(t, Options{}).LoadFile(dir, filepath.Join(dir, "gone.js"))
	assert.Equal(t, "gone.js", s.ID)
	assert.ErrorIs(t, s.LoadErr, os.ErrNotExist)
}

func TestLoader_SkipsDir(t *testing.T) {
	l := newLoader(t, Options{Exclude: DefaultExclude})
	assert.True(t, l.SkipsDir("node_modules"))
	assert.True(t, l.SkipsDir("a/node_modules"))
	assert.True(t, l.SkipsDir(".git"))
	assert.False(t, l.SkipsDir("src"))
}
