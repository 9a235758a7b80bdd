package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eykd/pet-go/internal/config"
	"github.com/eykd/pet-go/internal/watch"
	"github.com/eykd/pet-go/report"
	"github.com/eykd/pet-go/runner"
	"github.com/eykd/pet-go/scenario"
)

// RunIO handles I/O for the run command.
type RunIO interface {
	LoadConfig(ctx context.Context, path string) (config.Config, error)
	FindScenarios(ctx context.Context, paths []string) ([]string, error)
	ReadScenario(ctx context.Context, path string) ([]byte, error)
}

// Watcher re-invokes onChange whenever scenario files change, until ctx is
// done.
type Watcher interface {
	Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error
	Close() error
}

// newWatcherFunc creates the watcher used by --watch.
type newWatcherFunc func(paths []string, logger *zap.Logger) (Watcher, error)

// NewRunCmd creates the run subcommand.
func NewRunCmd(r scenario.Resolver, io RunIO) *cobra.Command {
	return newRunCmdWithWatcher(r, io, func(paths []string, logger *zap.Logger) (Watcher, error) {
		w, err := watch.New(paths, ScenarioExt, watch.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}

func newRunCmdWithWatcher(r scenario.Resolver, io RunIO, newWatcher newWatcherFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path...]",
		Short: "Run scenario files",
		Long: `Run parses every scenario file first and stops on the first parse error,
so nothing runs against a broken file. Scenarios then run independently:
a failing step ends its own scenario only, unless --fail-fast is set.

Paths may be files or directories; directories are searched for *.pet
files. Without paths, the "paths" setting of .pet.yml is used, which
defaults to the current directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := io.LoadConfig(cmd.Context(), cfgPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := applyRunFlags(cmd, &cfg); err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Paths = args
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			defer func() { _ = logger.Sync() }()

			mode, err := report.ParseColorMode(cfg.Color)
			if err != nil {
				return err
			}
			console := report.NewConsole(cmd.OutOrStdout(), report.WithColor(mode), report.WithSteps(!cfg.Quiet))
			pipeline := runner.NewPipeline(
				runner.WithReporter(report.Multi{console, report.NewLog(logger)}),
				runner.WithLogger(logger),
				runner.WithStepTimeout(cfg.StepTimeout),
			)
			suite := runner.NewSuite(pipeline,
				runner.WithConcurrency(cfg.Concurrency),
				runner.WithFailFast(cfg.FailFast),
			)

			watching, _ := cmd.Flags().GetBool("watch")
			if !watching {
				return runOnce(cmd, r, io, suite, cfg.Paths)
			}

			w, err := newWatcher(cfg.Paths, logger)
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			defer w.Close()

			if err := runOnce(cmd, r, io, suite, cfg.Paths); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes...")
			return w.Run(cmd.Context(), func(_ context.Context, changed []string) {
				logger.Debug("rerunning", zap.Strings("changed", changed))
				if err := runOnce(cmd, r, io, suite, cfg.Paths); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				}
			})
		},
	}

	cmd.Flags().String("config", config.FileName, "Path to the configuration file")
	cmd.Flags().IntP("concurrency", "j", 1, "Number of scenarios to run at once")
	cmd.Flags().Bool("fail-fast", false, "Stop starting scenarios after the first failure")
	cmd.Flags().String("color", config.ColorAuto, "Color output: auto, always or never")
	cmd.Flags().Duration("step-timeout", 0, "Deadline for each step's context (0 disables)")
	cmd.Flags().BoolP("quiet", "q", false, "Do not echo steps as they run")
	cmd.Flags().BoolP("watch", "w", false, "Re-run when scenario files change")

	return cmd
}

// applyRunFlags overrides cfg with every flag set explicitly on the command
// line, then validates the result.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast, _ = flags.GetBool("fail-fast")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Changed("step-timeout") {
		cfg.StepTimeout, _ = flags.GetDuration("step-timeout")
	}
	if flags.Changed("quiet") {
		cfg.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// runOnce parses every scenario file, then runs all scenarios. Parse errors
// abort before anything runs.
func runOnce(cmd *cobra.Command, r scenario.Resolver, io RunIO, suite *runner.Suite, paths []string) error {
	ctx := cmd.Context()

	files, err := io.FindScenarios(ctx, paths)
	if err != nil {
		return fmt.Errorf("finding scenario files: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No scenario files found")
		return nil
	}

	var all []scenario.Scenario
	for _, f := range files {
		src, err := io.ReadScenario(ctx, f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		scenarios, diags, err := scenario.Parse(string(src), f, r)
		if err != nil {
			printDiagnostics(cmd, []scenario.Diagnostic{scenario.DiagnosticFor(err)})
			return fmt.Errorf("%s has parse errors; nothing was run", f)
		}
		printDiagnostics(cmd, diags)
		all = append(all, scenarios...)
	}

	sum := suite.Run(ctx, all)
	if !sum.OK() {
		return fmt.Errorf("%d of %d scenarios failed (%d skipped)", sum.Failed, len(sum.Outcomes), sum.Skipped)
	}
	return nil
}

// fileRunIO implements RunIO using OS file I/O.
type fileRunIO struct{}

func newDefaultRunIO() *fileRunIO {
	return &fileRunIO{}
}

func (fileRunIO) LoadConfig(_ context.Context, path string) (config.Config, error) {
	return config.Load(path)
}

func (fileRunIO) FindScenarios(ctx context.Context, paths []string) ([]string, error) {
	return FindScenariosImpl(ctx, paths)
}

func (fileRunIO) ReadScenario(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
