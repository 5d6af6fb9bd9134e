package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/samplegate/internal/cli/config"
	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format     string   // Output format: text, markdown, json
	ErrorsOnly bool     // Hide warnings
	Rules      []string // Run only specific lint rules
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <corpus>",
		Short: "Show diagnostics for a corpus in human-readable form",
		Long: `Validate a corpus and list the diagnostics of every sample that has any.

Uses the same pipeline and configuration as validate, but prints a
readable listing instead of a JSONL report.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check a directory
  samplegate check ./samples

  # Only show errors
  samplegate check ./samples --errors-only

  # Run only the no-undef rule (the import policy always runs)
  samplegate check ./samples --rule no-undef`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().BoolVar(&opts.ErrorsOnly, "errors-only", false, "Hide warnings")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific lint rules")
	cmd.Flags().StringSlice("disable", nil, "Disable a rule (repeatable)")
	cmd.Flags().String("edition", "", "Language edition: auto, javascript, jsx, typescript, tsx")

	return cmd
}

func runCheck(cmd *cobra.Command, root string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	cfg, err := onlyRules(cmdCtx.Cfg, opts.Rules)
	if err != nil {
		return err
	}
	pipeline, err := NewPipeline(cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	samples, err := pipeline.Loader.Load(cmd.Context(), root)
	if err != nil {
		return err
	}
	report, err := pipeline.Runner.Run(cmd.Context(), samples)
	if err != nil {
		return err
	}

	results := report.Results
	if opts.ErrorsOnly {
		results = errorsOnly(results)
	}
	if err := renderCheckResults(r, results); err != nil {
		return err
	}

	if !report.AllAccepted() {
		summary := report.Summary(0)
		return fmt.Errorf("%w: %d of %d", ErrRejected, summary.Rejected, summary.Total)
	}
	return nil
}

// onlyRules returns a copy of cfg with every lint rule outside ids disabled.
func onlyRules(cfg *config.Config, ids []string) (*config.Config, error) {
	if len(ids) == 0 {
		return cfg, nil
	}
	for _, id := range ids {
		if _, ok := lint.GetByID(id); !ok {
			return nil, fmt.Errorf("rule %q not found", id)
		}
	}
	out := *cfg
	out.Lint.Disabled = nil
	for _, rule := range lint.GetAll() {
		if !slices.Contains(ids, rule.ID) {
			out.Lint.Disabled = append(out.Lint.Disabled, rule.ID)
		}
	}
	return &out, nil
}

func errorsOnly(results []validate.Result) []validate.Result {
	out := make([]validate.Result, 0, len(results))
	for _, res := range results {
		kept := res
		kept.Diagnostics = nil
		for _, d := range res.Diagnostics {
			if d.Severity == core.SeverityError {
				kept.Diagnostics = append(kept.Diagnostics, d)
			}
		}
		out = append(out, kept)
	}
	return out
}

// CheckJSONOutput is the JSON output structure for the check command.
type CheckJSONOutput struct {
	Samples []validate.Result `json:"samples"`
	Summary struct {
		Samples  int `json:"samples"`
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
}

func renderCheckResults(r *output.Renderer, results []validate.Result) error {
	var withIssues []validate.Result
	var errs, warnings int
	for _, res := range results {
		if len(res.Diagnostics) == 0 {
			continue
		}
		withIssues = append(withIssues, res)
		for _, d := range res.Diagnostics {
			if d.Severity == core.SeverityError {
				errs++
			} else {
				warnings++
			}
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := CheckJSONOutput{Samples: withIssues}
		if jsonOutput.Samples == nil {
			jsonOutput.Samples = []validate.Result{}
		}
		jsonOutput.Summary.Samples = len(withIssues)
		jsonOutput.Summary.Errors = errs
		jsonOutput.Summary.Warnings = warnings
		return r.JSON(jsonOutput)
	}

	styles := r.Styles()
	if len(withIssues) == 0 {
		r.Println(styles.Success.Render("No issues found"))
		return nil
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, res := range withIssues {
		header := fmt.Sprintf("%s (%s)", res.ID, res.Verdict)
		if markdown {
			r.Println(output.FormatHeader(2, header))
		} else {
			r.Println(styles.Bold.Render(header))
		}
		for _, d := range res.Diagnostics {
			loc := "-"
			if d.Pos.IsValid() {
				loc = fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)
			}
			if markdown {
				r.Printf("- `%s` **%s** %s: %s\n", loc, d.Severity, d.RuleID, d.Message)
				continue
			}
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-5s", loc)),
				severityLabel(styles, d.Severity),
				styles.Bold.Render(d.RuleID),
				d.Message,
			)
		}
		r.Println("")
	}

	parts := []string{fmt.Sprintf("%d issues", errs+warnings)}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", errs))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", warnings))
	}
	r.Printf("Summary: %s in %d samples\n", strings.Join(parts, ", "), len(withIssues))
	return nil
}

func severityLabel(styles *output.Styles, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return styles.Error.Render("error  ")
	case core.SeverityWarning:
		return styles.Warning.Render("warning")
	default:
		return styles.Muted.Render("unknown")
	}
}
