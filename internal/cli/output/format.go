package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatHeader formats a markdown header of the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text + "\n"
}

// FormatKeyValue formats a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// Table renders rows under a header. Markdown mode produces a pipe table.
func Table(w io.Writer, mode OutputMode, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	t.AppendHeader(hdr)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, c := range row {
			r[i] = c
		}
		t.AppendRow(r)
	}

	if mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
