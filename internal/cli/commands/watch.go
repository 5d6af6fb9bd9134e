package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/samplegate/pkg/batch"
	"github.com/leapstack-labs/samplegate/pkg/core"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Debounce time.Duration
	Initial  bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate samples as they change",
		Long: `Watch a corpus directory and validate each sample file when it is
created or written. One JSON object per changed file is written to stdout.

Runs until interrupted.`,
		Example: `  # Watch a directory
  samplegate watch ./samples

  # Validate everything once before watching
  samplegate watch ./samples --initial`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			pipeline, err := NewPipeline(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			w := &sampleWatcher{
				root:     args[0],
				pipeline: pipeline,
				out:      cmd.OutOrStdout(),
				logger:   cmdCtx.Logger,
				debounce: opts.Debounce,
			}
			if opts.Initial {
				if err := w.validateAll(cmd.Context()); err != nil {
					return err
				}
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "Wait this long after the last change before validating")
	cmd.Flags().BoolVar(&opts.Initial, "initial", false, "Validate every sample once before watching")
	cmd.Flags().IntP("workers", "j", 0, "Parallel workers (0 = one per CPU)")
	cmd.Flags().String("edition", "", "Language edition: auto, javascript, jsx, typescript, tsx")

	return cmd
}

// sampleWatcher validates sample files under root as they change.
type sampleWatcher struct {
	root     string
	pipeline *Pipeline
	out      io.Writer
	logger   *slog.Logger
	debounce time.Duration

	onReady func() // called once every directory is watched
}

func (w *sampleWatcher) validateAll(ctx context.Context) error {
	samples, err := w.pipeline.Loader.Load(ctx, w.root)
	if err != nil {
		return err
	}
	return w.validate(ctx, samples)
}

func (w *sampleWatcher) validate(ctx context.Context, samples []core.Sample) error {
	report, err := w.pipeline.Runner.Run(ctx, samples)
	if err != nil {
		return err
	}
	return batch.WriteJSONL(w.out, report.Results)
}

// Run watches until ctx is cancelled. Changes are collected until the
// debounce interval passes without a new one, then validated as a batch.
func (w *sampleWatcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.watchDir(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info("watching corpus", "root", w.root)
	if w.onReady != nil {
		w.onReady()
	}

	batches := make(chan []string)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(batches)
		return w.watchLoop(gctx, watcher, batches)
	})
	g.Go(func() error {
		for paths := range batches {
			samples := make([]core.Sample, 0, len(paths))
			for _, p := range paths {
				samples = append(samples, w.pipeline.Loader.LoadFile(w.root, p))
			}
			if err := w.validate(gctx, samples); err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

// watchDir recursively adds a directory to the watcher.
func (w *sampleWatcher) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip hidden and excluded directories
		if p != w.root && w.pipeline.Loader.SkipsDir(w.rel(p)) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func (w *sampleWatcher) rel(p string) string {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return filepath.Base(p)
	}
	return filepath.ToSlash(rel)
}

// watchLoop handles file system events.
func (w *sampleWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, batches chan<- []string) error {
	pending := make(map[string]bool)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Only handle write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := w.watchDir(watcher, event.Name); err != nil {
						w.logger.Warn("failed to watch directory", "dir", event.Name, "error", err)
					}
				}
				continue
			}
			if !w.pipeline.Loader.Selects(w.rel(event.Name)) {
				continue
			}

			pending[event.Name] = true
			debounce = time.After(w.debounce)

		case <-debounce:
			debounce = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			w.logger.Debug("change detected", "files", len(paths))
			select {
			case batches <- paths:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}
