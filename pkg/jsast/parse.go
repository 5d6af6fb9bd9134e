package jsast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/leapstack-labs/samplegate/pkg/token"
)

// SourceType selects the ECMAScript goal symbol.
type SourceType string

// Source types.
const (
	// SourceUnambiguous parses as a module iff the file has a top-level import or export.
	SourceUnambiguous SourceType = "unambiguous"
	SourceModule      SourceType = "module"
	SourceScript      SourceType = "script"
)

// ParseSourceType validates a source type name. The empty string means unambiguous.
func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return SourceUnambiguous, nil
	case SourceUnambiguous, SourceModule, SourceScript:
		return st, nil
	default:
		return "", fmt.Errorf("unknown source type %q (want unambiguous, module or script)", s)
	}
}

// ParseError is a syntax error: the sample cannot be analysed at all.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// Options configures a Parser.
type Options struct {
	SourceType SourceType
}

// Parser turns sample text into a File.
// A Parser holds no tree-sitter state and is safe for concurrent use.
type Parser struct {
	opts Options
}

// NewParser creates a parser with the given options.
func NewParser(opts Options) *Parser {
	if opts.SourceType == "" {
		opts.SourceType = SourceUnambiguous
	}
	return &Parser{opts: opts}
}

// Parse parses src. Syntax problems are returned as *ParseError; any other
// error (such as context cancellation) is returned as is.
func (p *Parser) Parse(ctx context.Context, name string, src []byte, edition Edition) (*File, error) {
	edition = EditionForPath(name, edition)

	text := src
	if edition.needsLowering() {
		lowered, perr := lower(name, src, edition)
		if perr != nil {
			return nil, perr
		}
		text = lowered
	}

	// One tree-sitter parser per call. They are cheap and not goroutine-safe.
	sp := sitter.NewParser()
	sp.SetLanguage(javascript.GetLanguage())
	tree, err := sp.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	cursor := sitter.NewTreeCursor(tree.RootNode())
	root := convert(cursor, text, nil)
	cursor.Close()

	if bad := firstSyntaxError(root); bad != nil {
		return nil, syntaxError(bad)
	}

	f := &File{
		Name:    name,
		Source:  text,
		Root:    root,
		Edition: edition,
	}

	decl := firstModuleDecl(root)
	switch p.opts.SourceType {
	case SourceModule:
		f.Module = true
	case SourceScript:
		if decl != nil {
			return nil, &ParseError{
				Message: "import and export declarations may only appear in modules",
				Pos:     decl.Pos,
			}
		}
	default:
		f.Module = decl != nil
	}
	return f, nil
}

// convert copies the subtree under the cursor into Go values.
func convert(c *sitter.TreeCursor, src []byte, parent *Node) *Node {
	sn := c.CurrentNode()
	pt := sn.StartPoint()
	n := &Node{
		Kind:    sn.Type(),
		Field:   c.CurrentFieldName(),
		Named:   sn.IsNamed(),
		Missing: sn.IsMissing(),
		Start:   int(sn.StartByte()),
		End:     int(sn.EndByte()),
		Parent:  parent,
	}
	n.Pos = token.Position{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Offset: n.Start}

	if c.GoToFirstChild() {
		for {
			n.Children = append(n.Children, convert(c, src, n))
			if !c.GoToNextSibling() {
				break
			}
		}
		c.GoToParent()
	} else if n.End <= len(src) && n.Start <= n.End {
		n.Text = string(src[n.Start:n.End])
	}
	return n
}

func firstSyntaxError(root *Node) *Node {
	return Find(root, func(n *Node) bool {
		return n.Kind == "ERROR" || n.Missing
	})
}

func syntaxError(n *Node) *ParseError {
	if n.Missing {
		return &ParseError{Message: fmt.Sprintf("missing %s", n.Kind), Pos: n.Pos}
	}
	snippet := firstToken(n)
	if snippet == "" {
		return &ParseError{Message: "unexpected input", Pos: n.Pos}
	}
	return &ParseError{Message: fmt.Sprintf("unexpected %q", snippet), Pos: n.Pos}
}

// firstToken returns the text of the first leaf under n, truncated.
func firstToken(n *Node) string {
	leaf := Find(n, func(c *Node) bool { return len(c.Children) == 0 && c.Text != "" })
	if leaf == nil {
		return ""
	}
	s := leaf.Text
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	if len(s) > 32 {
		s = s[:32]
	}
	return s
}

func firstModuleDecl(root *Node) *Node {
	for _, c := range root.Children {
		if c.Kind == "import_statement" || c.Kind == "export_statement" {
			return c
		}
	}
	return nil
}
