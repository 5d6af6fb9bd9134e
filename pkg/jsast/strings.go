package jsast

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ConstString returns the value of n when it is a compile-time constant
// string: a string literal, a template literal without substitutions, or a
// "+" concatenation of those (parenthesized or not).
func (f *File) ConstString(n *Node) (string, bool) {
	n = Unparen(n)
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case "string", "template_string":
		if n.Kind == "template_string" && n.HasChildKind("template_substitution") {
			return "", false
		}
		raw := f.Text(n)
		if len(raw) < 2 {
			return "", false
		}
		return DecodeEscapes(raw[1 : len(raw)-1])
	case "binary_expression":
		op := n.Child("operator")
		if op == nil || op.Text != "+" {
			return "", false
		}
		left, ok := f.ConstString(n.Child("left"))
		if !ok {
			return "", false
		}
		right, ok := f.ConstString(n.Child("right"))
		if !ok {
			return "", false
		}
		return left + right, true
	}
	return "", false
}

// DecodeEscapes resolves JavaScript string escape sequences.
// It returns false for malformed escapes.
func DecodeEscapes(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if i+3 > len(s) {
				return "", false
			}
			r, ok := parseHex(s[i+1 : i+3])
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, width, ok := parseUnicodeEscape(s[i+1:])
			if !ok {
				return "", false
			}
			i += width
			if utf16.IsSurrogate(r) {
				// a low surrogate escape may follow
				if strings.HasPrefix(s[i+1:], `\u`) {
					r2, w2, ok := parseUnicodeEscape(s[i+3:])
					if ok {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							b.WriteRune(dec)
							i += 2 + w2
							continue
						}
					}
				}
				b.WriteRune(utf8.RuneError)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), true
}

// parseUnicodeEscape parses the part after `\u`: XXXX or {X...}.
// It returns the rune and the number of bytes consumed.
func parseUnicodeEscape(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		r, ok := parseHex(s[1:end])
		if !ok || r > utf8.MaxRune {
			return 0, 0, false
		}
		return r, end + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	r, ok := parseHex(s[:4])
	return r, 4, ok
}

func parseHex(s string) (rune, bool) {
	if s == "" || len(s) > 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
