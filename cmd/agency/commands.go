package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/DaanHessen/agency-terminal/internal/assets"
	"github.com/DaanHessen/agency-terminal/internal/cue"
	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/DaanHessen/agency-terminal/internal/metrics"
	"github.com/DaanHessen/agency-terminal/internal/store"
	"github.com/DaanHessen/agency-terminal/internal/text"
	"github.com/DaanHessen/agency-terminal/internal/ui"
	"github.com/DaanHessen/agency-terminal/internal/util"
)

func newPlayCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the agency terminal (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, f)
		},
	}
}

func runPlay(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	logger, closer, err := fileLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, cancel := signalContext()
	defer cancel()

	var cues cue.Player = cue.Multi{cue.NewBell(os.Stdout), cue.Log{Logger: logger}}
	if cfg.Mute {
		cues = cue.Log{Logger: logger}
	}
	session, st, err := openSession(ctx, cfg, logger, cues, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	cache := openCache(cfg, logger)
	opts := ui.Options{
		Briefer: newBriefer(cache, logger),
		Cues:    cues,
		Art:     cache.FetchString(assets.Banner, "THE AGENCY"),
		Help:    renderHelp(cache.FetchString(assets.Help, ""), logger),
		Theme:   cfg.Theme,
		Logger:  logger,
	}
	logger.Info("session started", "seed", session.Seed().Text, "store", fmt.Sprintf("%T", st))
	runErr := ui.Run(ctx, session, opts)

	saveCtx, cancelSave := withTimeout(5 * time.Second)
	defer cancelSave()
	if err := session.Save(saveCtx); err != nil {
		logger.Warn("final save failed", "error", err)
	}
	return runErr
}

func newHeadlessCommand(f *flags) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation without a UI, logging to stderr",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			logger := stderrLogger()
			slog.SetDefault(logger)

			ctx, cancel := signalContext()
			defer cancel()
			if duration > 0 {
				var stop context.CancelFunc
				ctx, stop = context.WithTimeout(ctx, duration)
				defer stop()
			}

			rec := metrics.New()
			session, st, err := openSession(ctx, cfg, logger, cue.Log{Logger: logger}, rec)
			if err != nil {
				return err
			}
			defer st.Close()
			session.Subscribe(func(n engine.Notification) {
				logger.Info("notification", "component", "notify", "title", n.Title, "text", n.Text, "critical", n.Critical)
			})
			session.Login(ctx)

			if cfg.MetricsAddr != "" {
				srv := serveMetrics(cfg.MetricsAddr, rec, logger)
				defer func() {
					shutdownCtx, done := withTimeout(2 * time.Second)
					defer done()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			loop := engine.NewLoop(session, logger)
			loop.Start(ctx)

			saveCtx, cancelSave := withTimeout(5 * time.Second)
			defer cancelSave()
			if err := session.Save(saveCtx); err != nil {
				logger.Warn("final save failed", "error", err)
			}
			snap := session.Snapshot()
			logger.Info("headless run finished", "credits", snap.Credits, "missions", len(snap.Missions), "events", len(snap.World.Events))
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

func newResetCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(30 * time.Second)
			defer cancel()
			st, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := store.Reset(ctx, st); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved game deleted")
			return nil
		},
	}
}

func newMigrateCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|version",
		Short:     "Manage the Postgres schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(30 * time.Second)
			defer cancel()
			migrator, err := store.NewMigrator(cfg.DSN)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch args[0] {
			case "up":
				if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					return err
				}
				fmt.Fprintln(out, "Migrations applied")
			case "down":
				if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					return err
				}
				fmt.Fprintln(out, "Migrations rolled back")
			case "version":
				v, dirty, err := migrator.Version(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema version %d (dirty=%t)\n", v, dirty)
			default:
				return fmt.Errorf("unknown migrate action %q; use up|down|version", args[0])
			}
			return nil
		},
	}
}

func openSession(ctx context.Context, cfg util.Config, logger *slog.Logger, cues cue.Player, obs engine.Observer) (*engine.Session, store.Store, error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	state := store.LoadOrNew(ctx, st, time.Now(), logger)
	seed, err := engine.NewSeed(cfg.SeedText)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	opts := []engine.Option{
		engine.WithSeed(seed),
		engine.WithTuning(cfg.Tuning),
		engine.WithCues(cues),
		engine.WithPersister(st),
		engine.WithLogger(logger),
	}
	if obs != nil {
		opts = append(opts, engine.WithObserver(obs))
	}
	return engine.NewSession(state, opts...), st, nil
}

func openCache(cfg util.Config, logger *slog.Logger) *assets.Cache {
	cache := assets.New(filepath.Join(cfg.DataDir, "cache"), assets.WithLogger(logger))
	if err := cache.Install(); err != nil {
		logger.Warn("asset cache install failed", "error", err)
	}
	if err := cache.Activate(); err != nil {
		logger.Warn("asset cache activate failed", "error", err)
	}
	logger.Info("asset cache ready", "generation", cache.Generation())
	return cache
}

func newBriefer(cache *assets.Cache, logger *slog.Logger) text.Briefer {
	plain, err := text.NewTemplateBriefer(cache.FetchString(assets.BriefTemplate, ""))
	if err != nil {
		logger.Warn("brief template rejected, using default", "error", err)
		plain, _ = text.NewTemplateBriefer("")
	}
	styled, err := text.NewGlamourBriefer(plain, "dark", 80)
	if err != nil {
		logger.Warn("glamour unavailable", "error", err)
		return text.Cached(plain)
	}
	return text.Cached(text.WithFallback(styled, plain))
}

func renderHelp(md string, logger *slog.Logger) string {
	if md == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		logger.Warn("help render failed", "error", err)
		return md
	}
	return out
}

func serveMetrics(addr string, rec *metrics.Recorder, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
