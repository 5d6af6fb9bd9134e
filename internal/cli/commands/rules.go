package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	_ "github.com/leapstack-labs/samplegate/pkg/lint/rules" // register built-in rules
	"github.com/leapstack-labs/samplegate/pkg/policy"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Category string // Filter by category
	Verbose  bool   // Show full documentation
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by category: safety, correctness and style.
Use --verbose to see full documentation including examples and fix guidance.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  samplegate rules

  # Show details for a specific rule
  samplegate rules no-eval

  # List safety rules only
  samplegate rules --category safety

  # Output as JSON
  samplegate rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category: safety, correctness, style")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func rulesRenderer(cmd *cobra.Command, opts *RulesOptions) *output.Renderer {
	mode := output.ModeAuto
	if cfg, err := NewCommandContext(cmd); err == nil {
		mode = output.Mode(cfg.Cfg.Output)
	}
	// Override renderer if format flag is set
	if opts.Format != "" {
		mode = output.Mode(opts.Format)
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := rulesRenderer(cmd, opts)

	rules := lint.AllRules()
	if opts.Category != "" {
		var cat core.Category
		if err := cat.UnmarshalText([]byte(opts.Category)); err != nil {
			return err
		}
		filtered := rules[:0]
		for _, rule := range rules {
			if rule.Category == cat {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	// Sort by category, then ID
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Category != rules[j].Category {
			return rules[i].Category < rules[j].Category
		}
		return rules[i].ID < rules[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, rules)
	case output.ModeMarkdown:
		listRulesMarkdown(r, rules, opts.Verbose)
	default:
		listRulesText(r, rules, opts.Verbose)
	}
	return nil
}

func findRule(ruleID string) (core.RuleInfo, bool) {
	for _, ri := range lint.AllRules() {
		if ri.ID == ruleID {
			return ri, true
		}
	}
	return core.RuleInfo{}, false
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := rulesRenderer(cmd, opts)

	rule, ok := findRule(ruleID)
	if !ok {
		if ruleID == policy.RuleID {
			return fmt.Errorf("%s is reported by the import policy, not a lint rule; configure it under policy.denied_imports", ruleID)
		}
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, &rule)
	default:
		showRuleText(r, &rule)
	}
	return nil
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(rules))))
	r.Println("")

	current := core.Category(-1)
	for _, rule := range rules {
		if rule.Category != current {
			current = rule.Category
			r.Println(styles.Header2.Render(capitalizeFirst(current.String())))
		}

		severityStyle := getSeverityStyle(styles, rule.DefaultSeverity)
		r.Printf("    %s  %s - %s\n",
			styles.Muted.Render(rule.ID),
			rule.Name,
			severityStyle.Render(rule.DefaultSeverity.String()),
		)

		if verbose {
			r.Println(styles.Muted.Render("        " + rule.Description))
			if rule.Rationale != "" {
				r.Println(styles.Muted.Render("        Why: " + truncateOneLine(rule.Rationale, 80)))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'samplegate rules <rule-id>' for detailed documentation"))
	r.Println("")
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, rules []core.RuleInfo, verbose bool) {
	r.Println("# Lint Rules")
	r.Println("")

	current := core.Category(-1)
	for _, rule := range rules {
		if rule.Category != current {
			current = rule.Category
			r.Println("## " + capitalizeFirst(current.String()))
			r.Println("")
		}

		r.Printf("- **%s** - %s (`%s`)\n", rule.ID, rule.Name, rule.DefaultSeverity.String())
		if verbose {
			r.Println("  " + rule.Description)
			if rule.Rationale != "" {
				r.Println("  > " + rule.Rationale)
			}
		}
	}

	r.Println("")
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count struct {
		Safety      int `json:"safety"`
		Correctness int `json:"correctness"`
		Style       int `json:"style"`
		Total       int `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, rules []core.RuleInfo) error {
	jsonOutput := RulesJSONOutput{Rules: rules}
	if jsonOutput.Rules == nil {
		jsonOutput.Rules = []core.RuleInfo{}
	}

	for _, rule := range rules {
		switch rule.Category {
		case core.CategorySafety:
			jsonOutput.Count.Safety++
		case core.CategoryCorrectness:
			jsonOutput.Count.Correctness++
		case core.CategoryStyle:
			jsonOutput.Count.Style++
		}
	}
	jsonOutput.Count.Total = len(rules)

	return r.JSON(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Category"), rule.Category.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), rule.DefaultSeverity.String())
	r.Printf("  %s: %s\n", styles.Bold.Render("Strategy"), rule.Strategy)
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Category:** %s | **Severity:** `%s`\n\n", rule.Category.String(), rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```js")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```js")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

// Helper functions

func getSeverityStyle(styles *output.Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return styles.Error
	case core.SeverityWarning:
		return styles.Warning
	default:
		return styles.Muted
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
