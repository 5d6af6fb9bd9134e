// Package output renders command output for terminals, agents and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how a command renders its output.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a flag value to an OutputMode. Unknown values mean auto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	case "md":
		return ModeMarkdown
	default:
		return ModeAuto
	}
}

// ValidMode reports whether s names an output mode.
func ValidMode(s string) bool {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto, ModeText, ModeMarkdown, "md", ModeJSON:
		return true
	}
	return false
}

// Renderer writes styled output to a pair of streams.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with explicit terminal detection.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: NewStyles(out, isTTY),
	}
}

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the output stream is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the primary output stream.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the diagnostic output stream.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Errorf writes formatted text to the diagnostic stream.
func (r *Renderer) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, a...)
}

// JSON writes v as indented JSON to the output stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
