// Package validate turns one sample into a verdict: parse, lint, apply the
// capability policy, then decide.
package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	"github.com/leapstack-labs/samplegate/pkg/policy"
)

// Pipeline diagnostic IDs that do not belong to a lint rule.
const (
	LoadErrorID     = "load-error"
	ParseErrorID    = "parse-error"
	InternalErrorID = "internal-error"
)

// Result is the outcome of validating one sample.
type Result struct {
	ID          string            `json:"id"`
	Verdict     core.Verdict      `json:"verdict"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// HasNotes reports whether an accepted sample still carries warnings.
func (r Result) HasNotes() bool {
	return r.Verdict == core.VerdictAccept && len(r.Diagnostics) > 0
}

// ParseFailed reports whether the sample could not be parsed.
func (r Result) ParseFailed() bool {
	return len(r.Diagnostics) == 1 && r.Diagnostics[0].RuleID == ParseErrorID
}

// Options configures a Validator.
type Options struct {
	Edition    jsast.Edition // default edition for samples that do not set one
	SourceType jsast.SourceType
	Lint       *lint.Config
	Policy     *policy.Policy // nil means the default policy
	Logger     *slog.Logger
}

// Validator validates samples. It is safe for concurrent use.
type Validator struct {
	edition  jsast.Edition
	parser   *jsast.Parser
	analyzer *lint.Analyzer
	policy   *policy.Policy
	logger   *slog.Logger
}

// New creates a Validator over the lint rules registered at call time.
func New(opts Options) *Validator {
	if opts.Policy == nil {
		opts.Policy = policy.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Edition == "" {
		opts.Edition = jsast.EditionAuto
	}
	return &Validator{
		edition:  opts.Edition,
		parser:   jsast.NewParser(jsast.Options{SourceType: opts.SourceType}),
		analyzer: lint.NewAnalyzer(opts.Lint, opts.Policy.Env()),
		policy:   opts.Policy,
		logger:   opts.Logger,
	}
}

// Validate runs the full pipeline on s. Every failure is reported as a
// diagnostic on the result; Validate itself never fails.
func (v *Validator) Validate(ctx context.Context, s core.Sample) Result {
	res := Result{ID: s.ID}
	res.Diagnostics = Aggregate(v.diagnose(ctx, s))
	res.Verdict = Decide(res.Diagnostics)

	v.logger.Debug("validated sample",
		"id", s.ID,
		"verdict", res.Verdict.String(),
		"diagnostics", len(res.Diagnostics),
	)
	return res
}

func (v *Validator) diagnose(ctx context.Context, s core.Sample) []lint.Diagnostic {
	if s.LoadErr != nil {
		return []lint.Diagnostic{pipelineDiagnostic(LoadErrorID, s.LoadErr.Error())}
	}

	edition := v.edition
	if s.Edition != "" {
		if e, err := jsast.ParseEdition(s.Edition); err == nil {
			edition = e
		}
	}

	name := s.Path
	if name == "" {
		name = s.ID
	}
	f, err := v.parser.Parse(ctx, name, s.Source, edition)
	if err != nil {
		var perr *jsast.ParseError
		if errors.As(err, &perr) {
			d := pipelineDiagnostic(ParseErrorID, perr.Message)
			d.Pos = perr.Pos
			return []lint.Diagnostic{d}
		}
		return []lint.Diagnostic{pipelineDiagnostic(InternalErrorID, fmt.Sprintf("parse aborted: %v", err))}
	}

	diags := v.analyzer.Analyze(f)
	return append(diags, v.policy.Check(f)...)
}

func pipelineDiagnostic(id, message string) lint.Diagnostic {
	return lint.Diagnostic{
		RuleID:   id,
		Category: core.CategoryCorrectness,
		Severity: core.SeverityError,
		Message:  message,
	}
}

// InternalError builds the result for a sample whose validation failed
// unexpectedly.
func InternalError(id string, cause any) Result {
	return Result{
		ID:          id,
		Verdict:     core.VerdictReject,
		Diagnostics: []lint.Diagnostic{pipelineDiagnostic(InternalErrorID, fmt.Sprintf("validation failed: %v", cause))},
	}
}

// Decide returns Reject iff any diagnostic has Error severity.
func Decide(diags []lint.Diagnostic) core.Verdict {
	for _, d := range diags {
		if d.Severity == core.SeverityError {
			return core.VerdictReject
		}
	}
	return core.VerdictAccept
}

// Aggregate returns the diagnostics in report order: by location, then rule
// ID, then message. Whole-file diagnostics come first. The result is never nil.
func Aggregate(diags []lint.Diagnostic) []lint.Diagnostic {
	out := make([]lint.Diagnostic, len(diags))
	copy(out, diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := a.Pos.Compare(b.Pos); c != 0 {
			return c < 0
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
	return out
}
