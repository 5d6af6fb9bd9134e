// Package token holds source positions shared by the parser, rules, and reports.
package token

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WholeFile is the rendered location of diagnostics that are not tied to a node.
const WholeFile = "whole-file"

// Position represents a location in the source code.
// The zero value means "whole file".
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String renders the position as line:column, or "whole-file".
func (p Position) String() string {
	if !p.IsValid() {
		return WholeFile
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare orders positions by line then column. Whole-file positions sort first.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line != o.Line:
		if p.Line < o.Line {
			return -1
		}
		return 1
	case p.Column != o.Column:
		if p.Column < o.Column {
			return -1
		}
		return 1
	}
	return 0
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// MarshalJSON renders {"line":..,"column":..} or the string "whole-file".
// The byte offset is intentionally left out of reports.
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		return json.Marshal(WholeFile)
	}
	return json.Marshal(jsonPosition{Line: p.Line, Column: p.Column})
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (p *Position) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != WholeFile {
			return fmt.Errorf("invalid position %q", s)
		}
		*p = Position{}
		return nil
	}
	var jp jsonPosition
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	*p = Position{Line: jp.Line, Column: jp.Column}
	return nil
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}
