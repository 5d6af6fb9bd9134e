package main

import (
	"bytes"
	"fmt"
	"strings"
)

// generatedHeader marks content that gendocs owns and may overwrite.
const generatedHeader = "<!-- Code generated by scripts/gendocs. DO NOT EDIT. -->"

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	buf bytes.Buffer
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes a YAML frontmatter block with title and description.
func (w *MarkdownWriter) Frontmatter(title, description string) {
	fmt.Fprintf(&w.buf, "---\ntitle: %q\ndescription: %q\n---\n\n", title, description)
}

// GeneratedMarker writes the generated-content marker.
func (w *MarkdownWriter) GeneratedMarker() {
	w.buf.WriteString(generatedHeader + "\n\n")
}

// Header writes a header of the given level.
func (w *MarkdownWriter) Header(level int, text string) {
	fmt.Fprintf(&w.buf, "%s %s\n\n", strings.Repeat("#", level), text)
}

// Paragraph writes text followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.buf.WriteString(strings.TrimSpace(text) + "\n\n")
}

// Line writes a single line.
func (w *MarkdownWriter) Line(text string) {
	w.buf.WriteString(text + "\n")
}

// Newline writes an empty line.
func (w *MarkdownWriter) Newline() {
	w.buf.WriteByte('\n')
}

// Text writes raw text.
func (w *MarkdownWriter) Text(text string) {
	w.buf.WriteString(text)
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.buf.WriteString("- " + item + "\n")
	}
	w.Newline()
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	fmt.Fprintf(&w.buf, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

// Table writes a pipe table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.row(headers)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.row(sep)
	for _, r := range rows {
		w.row(r)
	}
	w.Newline()
}

func (w *MarkdownWriter) row(cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	w.buf.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
}

// Bytes returns the document.
func (w *MarkdownWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the document.
func (w *MarkdownWriter) String() string {
	return w.buf.String()
}

// Bold wraps s in strong emphasis.
func Bold(s string) string {
	return "**" + s + "**"
}

// InlineCode wraps s in backticks.
func InlineCode(s string) string {
	return "`" + s + "`"
}

// cleanDescription collapses a description to a single line.
func cleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
