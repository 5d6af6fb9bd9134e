package style

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
)

func init() {
	lint.Register(SampleMinLength)
}

// SampleMinLength reports samples whose trimmed source is shorter than
// min_chars characters. With the default of 0 it never fires.
var SampleMinLength = lint.RuleDef{
	ID:          "sample-min-length",
	Name:        "style.sample-min-length",
	Category:    core.CategoryStyle,
	Description: "Require samples to have a minimum length.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"min_chars"},
	Strategy:    lint.StrategyPattern,
	Kinds:       []string{"program"},
	Match:       checkSampleMinLength,

	Rationale:   "Very short generations are rarely complete programs.",
	BadExample:  `x();`,
	GoodExample: `function update(dt) { player.x += speed * dt; }`,
	Fix:         "Discard the sample or lower min_chars.",
}

func checkSampleMinLength(n *jsast.Node, ctx *lint.Context, opts map[string]any) []lint.Diagnostic {
	minChars := lint.GetIntOption(opts, "min_chars", 0)
	if minChars <= 0 || n.Parent != nil {
		return nil
	}
	length := utf8.RuneCountInString(strings.TrimSpace(string(ctx.File.Source)))
	if length >= minChars {
		return nil
	}
	return []lint.Diagnostic{lint.WholeFile(fmt.Sprintf("sample is %d characters long, minimum is %d", length, minChars))}
}
