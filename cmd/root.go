package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/novai/newswire/internal/aggregate"
	"github.com/novai/newswire/internal/ai"
	"github.com/novai/newswire/internal/classify"
	"github.com/novai/newswire/internal/config"
	"github.com/novai/newswire/internal/feed"
	"github.com/novai/newswire/internal/filter"
	"github.com/novai/newswire/internal/logging"
	"github.com/novai/newswire/internal/server"
	"github.com/novai/newswire/internal/themes"
	"github.com/novai/newswire/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "newswire",
	Short: "AI news aggregation service",
	Long:  "newswire pulls dozens of AI news feeds into one filtered, deduplicated stream and serves it over HTTP.",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check for a newer release")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE:  runServe,
}

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newswire %s (commit: %s, built: %s)\n", version, commit, date)
		if flagVersionCheck {
			if res := update.Check(cmd.Context(), version); res != nil {
				fmt.Printf("A newer version is available: %s\n", res.LatestVersion)
			} else {
				fmt.Println("Up to date.")
			}
		}
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	agg, th := buildPipeline(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.BackgroundRefresh {
		agg.StartBackground(ctx)
	}

	srv := server.New(cfg.Server, agg, th, log)
	return srv.Run(ctx)
}

// setup loads config and builds the logger shared by every verb.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(logging.Config{
		Level:      cfg.Logger.Level,
		Console:    cfg.Logger.Console,
		FilePath:   cfg.Logger.FilePath,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	return cfg, log, nil
}

// buildPipeline wires fetch -> classify -> filter into the aggregate
// cache, and the aggregate into the theme service.
func buildPipeline(cfg *config.Config, log *zap.SugaredLogger) (*aggregate.Service, *themes.Service) {
	fetcher := feed.NewFetcher(feed.Options{
		Timeout:        cfg.FetchTimeout(),
		Concurrency:    cfg.Fetch.Concurrency,
		PerSourceLimit: cfg.Fetch.PerSourceLimit,
	}, log)
	classifier := classify.Default()
	sources := cfg.EnabledSources()

	refresh := func(ctx context.Context) ([]feed.Item, error) {
		items, err := fetcher.FetchAll(ctx, sources)
		if err != nil {
			return nil, err
		}
		accepted := make([]feed.Item, 0, len(items))
		for _, it := range items {
			if classifier.Accept(it) {
				accepted = append(accepted, it)
			}
		}
		return filter.Apply(accepted, filter.Options{
			SourceQuota:         cfg.Filter.SourceQuota,
			SimilarityThreshold: cfg.Filter.SimilarityThreshold,
		}), nil
	}

	agg := aggregate.New(refresh, cfg.RefreshDuration(), log)

	var summarizer ai.Summarizer
	if cfg.AIEnabled() {
		s, err := ai.New(cfg.AI, cfg.AIKey())
		if err != nil {
			log.Warnw("AI disabled", "error", err)
		} else {
			summarizer = s
		}
	}

	items := func(ctx context.Context) ([]feed.Item, error) {
		res, err := agg.Get(ctx, "all", cfg.Themes.InputSize)
		if err != nil {
			return nil, err
		}
		return res.Items, nil
	}
	th := themes.NewService(items, summarizer, themes.Options{
		MinMembers: cfg.Themes.MinMembers,
		MaxThemes:  cfg.Themes.MaxThemes,
		MaxMembers: cfg.Themes.MaxMembers,
	}, cfg.ThemesTTL(), log)

	return agg, th
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
