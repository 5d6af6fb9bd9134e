package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/pkg/batch"
)

// ValidateOptions holds command-local options for the validate command.
// Everything else reaches the command through the loaded config.
type ValidateOptions struct {
	PrintConfig bool
	Quiet       bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <corpus>",
		Short: "Validate a corpus of code samples",
		Long: `Validate every sample in a corpus and report a verdict for each.

The corpus is a directory, a single source file, or a .jsonl file of
{"id", "code"} records. One JSON object per sample is written to stdout
(or --report); a summary is written to stderr.

The command exits non-zero if any sample is rejected.`,
		Example: `  # Validate a directory
  samplegate validate ./samples

  # Write the report and summary to files
  samplegate validate candidates.jsonl --report report.jsonl --summary summary.json

  # Treat unused variables as errors, skip the with rule
  samplegate validate ./samples --severity no-unused-vars=error --disable no-with

  # Show the effective configuration
  samplegate validate --print-config`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.PrintConfig {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if opts.PrintConfig {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(cmdCtx.Cfg); err != nil {
					return err
				}
				return enc.Close()
			}
			return runValidate(cmd, cmdCtx, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.String("edition", "", "Language edition: auto, javascript, jsx, typescript, tsx")
	f.String("source-type", "", "Source type: unambiguous, module, script")
	f.String("id-mode", "", "Sample IDs: path or hash")
	f.IntP("workers", "j", 0, "Parallel workers (0 = one per CPU)")
	f.String("report", "", "Write the JSONL report to a file instead of stdout")
	f.String("summary", "", "Write the summary JSON to a file")
	f.Int("top", 5, "Number of top rules in the summary")
	f.StringSlice("include", nil, "Glob patterns selecting sample files")
	f.StringSlice("exclude", nil, "Glob patterns for paths to skip")
	f.StringSlice("disable", nil, "Disable a rule (repeatable)")
	f.StringToString("severity", nil, "Override a rule severity, rule=error|warning|off (repeatable)")
	f.BoolVar(&opts.PrintConfig, "print-config", false, "Print the effective configuration as YAML and exit")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Do not print the summary to stderr")

	_ = cmd.RegisterFlagCompletionFunc("edition", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "javascript", "jsx", "typescript", "tsx"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("source-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"unambiguous", "module", "script"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runValidate(cmd *cobra.Command, cmdCtx *CommandContext, root string, opts *ValidateOptions) error {
	cfg := cmdCtx.Cfg
	pipeline, err := NewPipeline(cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	samples, err := pipeline.Loader.Load(ctx, root)
	if err != nil {
		return err
	}
	report, err := pipeline.Runner.Run(ctx, samples)
	if err != nil {
		return err
	}

	if err := writeTo(cfg.Report, cmd.OutOrStdout(), func(w io.Writer) error {
		return batch.WriteJSONL(w, report.Results)
	}); err != nil {
		return err
	}

	summary := report.Summary(cfg.TopRules)
	if cfg.Summary != "" {
		if err := writeTo(cfg.Summary, cmd.OutOrStdout(), func(w io.Writer) error {
			return batch.WriteSummary(w, summary)
		}); err != nil {
			return err
		}
	}
	if !opts.Quiet {
		r := output.NewRenderer(cmd.ErrOrStderr(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
		if err := renderSummary(r, summary); err != nil {
			return err
		}
	}

	if !report.AllAccepted() {
		return fmt.Errorf("%w: %d of %d", ErrRejected, summary.Rejected, summary.Total)
	}
	return nil
}

// writeTo writes to the named file, or to stdout when path is "" or "-".
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func renderSummary(r *output.Renderer, s batch.Summary) error {
	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		return batch.WriteSummary(r.Writer(), s)
	}

	rows := make([][]string, 0, len(s.TopRules))
	for _, rc := range s.TopRules {
		rows = append(rows, []string{rc.RuleID, strconv.Itoa(rc.Count), strconv.Itoa(s.IssueDistribution[rc.RuleID])})
	}
	passRate := fmt.Sprintf("%.1f%%", s.PassRate*100)

	if mode == output.ModeMarkdown {
		r.Println(output.FormatHeader(2, "Validation Summary"))
		r.Println(output.FormatKeyValue("Samples", strconv.Itoa(s.Total)))
		r.Println(output.FormatKeyValue("Accepted", fmt.Sprintf("%d (%d with notes)", s.Accepted, s.AcceptedWithNotes)))
		r.Println(output.FormatKeyValue("Rejected", strconv.Itoa(s.Rejected)))
		r.Println(output.FormatKeyValue("Parse failures", strconv.Itoa(s.ParseFailures)))
		r.Println(output.FormatKeyValue("Pass rate", passRate))
		if len(rows) > 0 {
			r.Println("")
			output.Table(r.Writer(), mode, []string{"Rule", "Diagnostics", "Samples"}, rows)
		}
		return nil
	}

	styles := r.Styles()
	verdict := styles.Success.Render("all accepted")
	if s.Rejected > 0 {
		verdict = styles.Error.Render(fmt.Sprintf("%d rejected", s.Rejected))
	}
	r.Println(styles.Header1.Render("Validation Summary"))
	r.Printf("  %s %d  %s %d  %s %d  %s %s\n",
		styles.Bold.Render("samples:"), s.Total,
		styles.Bold.Render("accepted:"), s.Accepted,
		styles.Bold.Render("parse failures:"), s.ParseFailures,
		styles.Bold.Render("pass rate:"), passRate,
	)
	r.Printf("  %s  %s\n", verdict, styles.Muted.Render(fmt.Sprintf("%d errors, %d warnings", s.Errors, s.Warnings)))
	if len(rows) > 0 {
		output.Table(r.Writer(), mode, []string{"Rule", "Diagnostics", "Samples"}, rows)
	}
	return nil
}
