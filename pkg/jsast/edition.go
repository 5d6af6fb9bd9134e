package jsast

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/leapstack-labs/samplegate/pkg/token"
)

// Edition selects the surface grammar a sample is written in.
type Edition string

// Supported editions.
const (
	EditionAuto       Edition = "auto"
	EditionJavaScript Edition = "javascript"
	EditionJSX        Edition = "jsx"
	EditionTypeScript Edition = "typescript"
	EditionTSX        Edition = "tsx"
)

// ParseEdition validates an edition name. The empty string means auto.
func ParseEdition(s string) (Edition, error) {
	switch e := Edition(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return EditionAuto, nil
	case "js", "es", "ecmascript":
		return EditionJavaScript, nil
	case "ts":
		return EditionTypeScript, nil
	case EditionAuto, EditionJavaScript, EditionJSX, EditionTypeScript, EditionTSX:
		return e, nil
	default:
		return "", fmt.Errorf("unknown edition %q (want auto, javascript, jsx, typescript or tsx)", s)
	}
}

// EditionForPath resolves EditionAuto from the file extension.
// Any other edition is returned unchanged.
func EditionForPath(path string, e Edition) Edition {
	if e != EditionAuto && e != "" {
		return e
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return EditionTypeScript
	case ".tsx":
		return EditionTSX
	case ".jsx":
		return EditionJSX
	default:
		return EditionJavaScript
	}
}

// needsLowering reports whether the edition must go through esbuild first.
// JSX is part of the tree-sitter JavaScript grammar and parses directly.
func (e Edition) needsLowering() bool {
	return e == EditionTypeScript || e == EditionTSX
}

// verbatimImports keeps type-only-looking imports in the output.
// Without it esbuild drops imports whose bindings are unused, which would
// hide them from the import policy.
const verbatimImports = `{"compilerOptions":{"verbatimModuleSyntax":true}}`

// lower strips TypeScript syntax with esbuild. JSX is preserved so the
// tree-sitter grammar sees it as written.
func lower(name string, src []byte, e Edition) ([]byte, *ParseError) {
	loader := api.LoaderTS
	if e == EditionTSX {
		loader = api.LoaderTSX
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:      loader,
		Sourcefile:  name,
		Target:      api.ESNext,
		JSX:         api.JSXPreserve,
		TsconfigRaw: verbatimImports,
		LogLevel:    api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		perr := &ParseError{Message: msg.Text}
		if msg.Location != nil {
			perr.Pos = token.Position{Line: msg.Location.Line, Column: msg.Location.Column + 1}
		}
		return nil, perr
	}
	return result.Code, nil
}
