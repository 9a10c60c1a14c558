package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/adapters/source"
	"github.com/okian/scoutdb/internal/adapters/terminal"
	service "github.com/okian/scoutdb/internal/app"
	"github.com/okian/scoutdb/internal/config"
	"github.com/okian/scoutdb/pkg/logger"
)

type rootFlags struct {
	configPath string
	dataDir    string
	json       bool
	strict     bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "scoutdb",
		Short: "Query a football player ratings dataset from the terminal",
		Long: `scoutdb loads players, user ratings and tags from CSV files into memory
and answers queries against them:

  player <name or prefix>
  user <id>
  top<N> '<POS>'
  tags '<tag>' '<tag>' ...

Without a subcommand it starts an interactive prompt.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, f)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file (overrides $"+config.EnvFile+")")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory holding the players, ratings and tags CSV files")
	pf.BoolVar(&f.json, "json", false, "render results as JSON")
	pf.BoolVar(&f.strict, "strict", false, "stop loading at the first bad record")

	cmd.AddCommand(newQueryCmd(f))
	return cmd
}

func newQueryCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <text>",
		Short: "Run one query and exit",
		Long: `Run one query and exit with a non-zero status when it fails.

Example:
  scoutdb query player messi
  scoutdb query "top10 'ST'" --json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, f, args)
		},
	}
}

// app is one loaded service plus the settings the front end needs.
type app struct {
	svc *service.Service
	cfg *config.Config
	log logger.Logger
}

// bootstrap loads configuration, sets up logging on stderr and loads the
// dataset.
func bootstrap(cmd *cobra.Command, f *rootFlags) (*app, error) {
	ctx := cmd.Context()

	if f.configPath != "" {
		if err := os.Setenv(config.EnvFile, f.configPath); err != nil {
			return nil, fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if cmd.Flags().Changed("strict") {
		cfg.StrictIngest = f.strict
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithJSON(cfg.LogJSON)); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	log := logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := service.New(serviceOptions(cfg, log)...)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	src := source.NewCSV(cfg.DataDir,
		source.WithFiles(cfg.PlayersFile, cfg.RatingsFile, cfg.TagsFile),
		source.WithSkipMalformed(!cfg.StrictIngest),
		source.WithLogger(log.Named("source")),
	)
	if err := svc.Load(ctx, src); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return &app{svc: svc, cfg: cfg, log: log}, nil
}

func serviceOptions(cfg *config.Config, log logger.Logger) []service.Option {
	return []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithQueueSize(cfg.QueueSize),
		service.WithCacheSize(cfg.CacheSize),
		service.WithDedupeCapacity(cfg.PlayerCapacity),
		service.WithBounds(cfg.Bounds()),
		service.WithStrictIngest(cfg.StrictIngest),
		service.WithDatabaseOptions(
			repository.WithPlayerCapacity(cfg.PlayerCapacity),
			repository.WithUserCapacity(cfg.UserCapacity),
			repository.WithTagCapacity(cfg.TagCapacity),
			repository.WithPositionCapacity(cfg.PositionCapacity),
			repository.WithPopularityThreshold(uint32(cfg.PopularityThreshold)), //nolint:gosec // validated non-negative
			repository.WithBTreeOrder(cfg.BTreeOrder),
		),
	}
}

func (a *app) repl(out io.Writer, f *rootFlags, prompt string) *terminal.REPL {
	return terminal.New(a.svc, out,
		terminal.WithJSON(f.json),
		terminal.WithMaxResults(a.cfg.MaxResults),
		terminal.WithPrompt(prompt),
		terminal.WithLogger(a.log.Named("terminal")),
	)
}

func runREPL(cmd *cobra.Command, f *rootFlags) error {
	a, err := bootstrap(cmd, f)
	if err != nil {
		return err
	}
	defer func() { _ = a.svc.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	st := a.svc.GetStats()
	if !f.json {
		fmt.Fprintf(out, "loaded %d players, %d users in %s; \\help lists commands\n",
			st.Dataset.Players, st.Dataset.Users, st.LoadDuration)
	}

	// The reader blocks on input, so an interrupt ends the command without
	// waiting for it.
	done := make(chan error, 1)
	go func() { done <- a.repl(out, f, terminal.DefaultPrompt).Run(ctx, cmd.InOrStdin()) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		a.log.Info(context.WithoutCancel(ctx), "interrupted")
		return nil
	}
}

func runQuery(cmd *cobra.Command, f *rootFlags, args []string) error {
	a, err := bootstrap(cmd, f)
	if err != nil {
		return err
	}
	defer func() { _ = a.svc.Close() }()

	return a.repl(cmd.OutOrStdout(), f, "").Execute(cmd.Context(), strings.Join(args, " "))
}
