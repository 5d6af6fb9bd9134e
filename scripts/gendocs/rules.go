package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	_ "github.com/leapstack-labs/samplegate/pkg/lint/rules"
	"github.com/leapstack-labs/samplegate/pkg/policy"
)

// categoryDescriptions provides human-readable descriptions for rule categories.
var categoryDescriptions = map[core.Category]string{
	core.CategorySafety:      "Rules that reject code able to escape static review: dynamic evaluation, restricted modules and scope injection.",
	core.CategoryCorrectness: "Rules about references and bindings that cannot be resolved or are never used.",
	core.CategoryStyle:       "Rules about sample shape that never affect safety.",
}

var categoryOrder = []core.Category{core.CategorySafety, core.CategoryCorrectness, core.CategoryStyle}

// generateRuleDocs generates the rule documentation files.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rules := lint.AllRules()

	if err := generateRulesIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, category := range categoryOrder {
		if err := generateCategoryPage(outDir, category, rules); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", category)
	}
	return nil
}

// generateRulesIndex generates the rules overview page.
func generateRulesIndex(outDir string, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Lint rules and the import policy applied by samplegate")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("samplegate checks every sample with **%d lint rules** and an **import policy**. "+
		"A sample is rejected when any of them reports an error.", len(rules)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Effect"},
		[][]string{
			{InlineCode("error"), "The sample is rejected"},
			{InlineCode("warning"), "Reported; the sample is still accepted"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules can be configured in `samplegate.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled:
    - sample-min-length
  severity:
    no-unused-vars: error   # or warning, off
  rules:
    no-unused-vars:
      vars: all`)

	w.Header(2, "All Rules")
	var rows [][]string
	for _, r := range rules {
		link := fmt.Sprintf("[%s](/rules/%s#%s)", InlineCode(r.ID), r.Category, r.ID)
		rows = append(rows, []string{link, capitalizeFirst(r.Category.String()), r.DefaultSeverity.String(), cleanDescription(r.Description)})
	}
	rows = append(rows, []string{InlineCode(policy.RuleID), "Policy", core.SeverityError.String(), "Import of a module on the denylist"})
	w.Table([]string{"Rule", "Category", "Severity", "Description"}, rows)

	w.Paragraph(fmt.Sprintf("%s is reported by the import policy rather than the lint engine. "+
		"It is configured under `policy`, and disabling lint rules never turns it off.", InlineCode(policy.RuleID)))

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateCategoryPage generates the documentation page for one category.
func generateCategoryPage(outDir string, category core.Category, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()
	title := capitalizeFirst(category.String()) + " Rules"

	w.Frontmatter(title, categoryDescriptions[category])
	w.GeneratedMarker()

	w.Header(1, title)
	w.Paragraph(categoryDescriptions[category])

	for _, r := range rules {
		if r.Category == category {
			writeRuleDoc(w, r)
		}
	}

	return os.WriteFile(filepath.Join(outDir, category.String()+".md"), w.Bytes(), 0600)
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, rule core.RuleInfo) {
	// Rule header with anchor: ### no-eval {#no-eval}
	w.Line(fmt.Sprintf("### %s {#%s}", rule.ID, rule.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s | **Strategy:** %s", InlineCode(rule.DefaultSeverity.String()), rule.Strategy))
	w.Newline()

	w.Paragraph(cleanDescription(rule.Description))

	if rationale := rule.Rationale; rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(rationale))
	}

	if bad := rule.BadExample; bad != "" {
		w.Header(4, "Bad")
		w.CodeBlock("js", bad)
	}

	if good := rule.GoodExample; good != "" {
		w.Header(4, "Good")
		w.CodeBlock("js", good)
	}

	if fix := rule.Fix; fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(fix))
	}

	if len(rule.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(rule.ConfigKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}
