package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEscapes(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`fs`, "fs", true},
		{`f\x73`, "fs", true},
		{`f\u0073`, "fs", true},
		{`\u{66}\u{73}`, "fs", true},
		{`a\'b`, "a'b", true},
		{`tab\there`, "tab\there", true},
		{`\uD83D\uDE00`, "\U0001F600", true},
		{`bad\x7`, "", false},
		{`bad\u12`, "", false},
		{`trailing\`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := DecodeEscapes(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestConstString(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		want   string
		wantOK bool
	}{
		{name: "double quoted", src: `f("child_process")`, want: "child_process", wantOK: true},
		{name: "single quoted", src: `f('vm')`, want: "vm", wantOK: true},
		{name: "template", src: "f(`os`)", want: "os", wantOK: true},
		{name: "concatenation", src: `f("f" + ("s"))`, want: "fs", wantOK: true},
		{name: "escaped", src: `f("\x66s")`, want: "fs", wantOK: true},
		{name: "template substitution", src: "f(`${name}`)", wantOK: false},
		{name: "identifier", src: `f(name)`, wantOK: false},
		{name: "numeric concatenation", src: `f("a" - "b")`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, tt.src)
			call := Find(f.Root, func(n *Node) bool { return n.Kind == "call_expression" })
			if !assert.NotNil(t, call) {
				return
			}
			got, ok := f.ConstString(call.Child("arguments").FirstNamed())
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
