package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/samplegate/internal/cli/config"
	"github.com/leapstack-labs/samplegate/internal/cli/output"
	"github.com/leapstack-labs/samplegate/pkg/batch"
	"github.com/leapstack-labs/samplegate/pkg/corpus"
	"github.com/leapstack-labs/samplegate/pkg/jsast"
	"github.com/leapstack-labs/samplegate/pkg/lint"
	_ "github.com/leapstack-labs/samplegate/pkg/lint/rules" // register built-in rules
	"github.com/leapstack-labs/samplegate/pkg/policy"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// ErrRejected is returned when at least one sample is rejected.
var ErrRejected = errors.New("samples rejected")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext gathers the loaded config, logger and renderer for cmd.
// Config is loaded here when the root command has not already done so.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfgFile, _ := cmd.Flags().GetString("config")
		var err error
		if cfg, err = config.LoadConfig(cfgFile, cmd.Flags()); err != nil {
			return nil, err
		}
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// Pipeline is the set of components a validation run needs, built from config.
type Pipeline struct {
	Loader    *corpus.Loader
	Validator *validate.Validator
	Runner    *batch.Runner
}

// NewPipeline builds the loader, validator and runner described by cfg.
func NewPipeline(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	lintCfg, err := lint.NewConfigFromLintConfig(&cfg.Lint)
	if err != nil {
		return nil, fmt.Errorf("lint config: %w", err)
	}
	pol, err := policy.New(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	edition, err := jsast.ParseEdition(cfg.Edition)
	if err != nil {
		return nil, err
	}
	sourceType, err := jsast.ParseSourceType(cfg.SourceType)
	if err != nil {
		return nil, err
	}
	idMode, err := corpus.ParseIDMode(cfg.IDMode)
	if err != nil {
		return nil, err
	}

	loader, err := corpus.NewLoader(corpus.Options{
		Include: cfg.Files,
		Exclude: cfg.Exclude,
		IDMode:  idMode,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	v := validate.New(validate.Options{
		Edition:    edition,
		SourceType: sourceType,
		Lint:       lintCfg,
		Policy:     pol,
		Logger:     logger,
	})
	return &Pipeline{
		Loader:    loader,
		Validator: v,
		Runner:    batch.NewRunner(v, batch.Options{Workers: cfg.Workers, Logger: logger}),
	}, nil
}
