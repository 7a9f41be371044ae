package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resx-hooks/internal/check"
	"resx-hooks/internal/config"
	"resx-hooks/internal/filewalker"
	"resx-hooks/internal/gitfiles"
	"resx-hooks/internal/history"
	"resx-hooks/internal/loader"
	"resx-hooks/internal/parser"
	"resx-hooks/internal/report"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Exit statuses.
const (
	exitFindings = 1
	exitFatal    = 2
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := setupContext()
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
		return
	case errors.Is(err, check.ErrChecksFailed):
		cancel()
		os.Exit(exitFindings)
	default:
		log.Error().Err(err).Msg("Resource check aborted")
		cancel()
		os.Exit(exitFatal)
	}
}

// flags holds command line overrides of the loaded configuration.
type flags struct {
	extensions []string
	format     string
	noColor    bool
	workers    int
	record     bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "resx-hooks",
		Short: "Consistency checks for .resx localization files",
		Long: `Validates a set of .resx resource files as one localization catalog:
every file must define the same keys, no value may be blank, and every
translation must use the same placeholders as the first file defining the key.
Without arguments the files tracked by git are checked.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&f.extensions, "ext", nil, "File extension to check (repeatable, overrides RESX_HOOKS_EXTENSIONS)")
	pf.StringVar(&f.format, "format", "", "Output format: text or json")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable coloured output")
	pf.IntVar(&f.workers, "workers", 0, "Number of files parsed concurrently")
	pf.BoolVar(&f.record, "record", false, "Record the run in PostgreSQL (requires DATABASE_URL)")

	rootCmd.AddCommand(checkCmd(f, "all", "Run every resource check"))
	rootCmd.AddCommand(checkCmd(f, "keys", "Check that all files define the same keys", check.KeysConsistency))
	rootCmd.AddCommand(checkCmd(f, "empty", "Check for empty or whitespace-only values", check.EmptyValues))
	rootCmd.AddCommand(checkCmd(f, "placeholders", "Check placeholder consistency across files", check.Placeholders))

	return rootCmd
}

func checkCmd(f *flags, name, short string, checks ...check.Name) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [files or patterns...]",
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return runChecks(cmd, cfg, args, checks)
		},
	}
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("ext") {
		cfg.Extensions = f.extensions
	}
	if pf.Changed("format") {
		cfg.Format = f.format
	}
	if pf.Changed("no-color") {
		cfg.NoColor = f.noColor
	}
	if pf.Changed("workers") {
		cfg.WorkerCount = f.workers
	}
	if pf.Changed("record") {
		cfg.Record = f.record
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

// runChecks resolves, loads and checks the catalog, then prints the result.
func runChecks(cmd *cobra.Command, cfg *config.Config, args []string, checks []check.Name) error {
	ctx := cmd.Context()
	started := time.Now()

	useColor := !cfg.NoColor && !color.NoColor
	printer := report.NewPrinter(cmd.OutOrStdout(), log.Logger, cfg.Format, useColor)

	paths, err := resolveFiles(ctx, cfg, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return printer.NoFiles()
	}

	log.Debug().Int("files", len(paths)).Int("workers", cfg.WorkerCount).Msg("Loading resource files")

	catalog, err := loader.NewLoader(parser.DefaultRegistry(), cfg.WorkerCount).Load(ctx, paths)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			log.Error().Str("file", perr.File).Err(perr.Err).Msg("Failed to parse resource file")
		}
		return fmt.Errorf("load catalog: %w", err)
	}

	res := check.Run(catalog, checks...)
	if err := printer.Print(res); err != nil {
		return err
	}

	if cfg.Record {
		if err := recordRun(ctx, cfg, history.NewRun(res, started)); err != nil {
			log.Warn().Err(err).Msg("Failed to record check run")
		}
	}

	if res.Failed() {
		return check.ErrChecksFailed
	}
	return nil
}

// resolveFiles turns arguments into paths. Without arguments the tracked
// files are listed through git, falling back to walking the working
// directory.
func resolveFiles(ctx context.Context, cfg *config.Config, args []string) ([]string, error) {
	walker := filewalker.NewWalker(cfg.Extensions)
	if len(args) > 0 {
		return walker.Resolve(args)
	}

	lister := gitfiles.NewLister(cfg.GitBinary, "")
	paths, err := lister.List(ctx, gitfiles.Pathspecs(cfg.Extensions))
	if err == nil {
		return walker.Filter(paths), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.Warn().Err(err).Msg("Could not list files with git, walking the working directory")
	return walker.Walk(".")
}

func recordRun(ctx context.Context, cfg *config.Config, run history.Run) error {
	pool, err := history.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := history.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.Record(ctx, run)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
