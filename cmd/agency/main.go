package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/DaanHessen/agency-terminal/internal/util"
)

var (
	version      = "0.1.0"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

type flags struct {
	configPath  string
	dataDir     string
	dsn         string
	seed        string
	theme       string
	logFile     string
	metricsAddr string
	mute        bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "agency",
		Short:         "Terminal idle spy simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file with tuning overrides")
	pf.StringVar(&f.dataDir, "data-dir", "", "directory for the save file, cache and logs")
	pf.StringVar(&f.dsn, "dsn", "", "storage: file:<dir>, sqlite:<path> or postgres://...")
	pf.StringVar(&f.seed, "seed", "", "simulation seed (random if omitted)")
	pf.StringVar(&f.theme, "theme", "", "color theme: agency|terminal|amber|mono")
	pf.StringVar(&f.logFile, "log-file", "", "log file used while the TUI runs")
	pf.BoolVar(&f.mute, "mute", false, "disable the terminal bell")

	root.AddCommand(
		newPlayCommand(f),
		newHeadlessCommand(f),
		newResetCommand(f),
		newMigrateCommand(f),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "agency", version)
			},
		},
	)
	return root
}

// loadConfig layers defaults, the YAML file, the environment and finally
// explicitly set flags.
func loadConfig(cmd *cobra.Command, f *flags) (util.Config, error) {
	cfg := util.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = util.LoadFile(cfg, f.configPath); err != nil {
			return cfg, err
		}
	}
	cfg = util.LoadEnv(cfg, ".env")

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.DataDir = f.dataDir
	}
	if changed("dsn") {
		cfg.DSN = f.dsn
	}
	if changed("seed") {
		cfg.SeedText = f.seed
	}
	if changed("theme") {
		cfg.Theme = f.theme
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("mute") {
		cfg.Mute = f.mute
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}

	if strings.TrimSpace(cfg.SeedText) == "" {
		generated, err := generateSeed()
		if err != nil {
			return cfg, fmt.Errorf("failed to generate seed: %w", err)
		}
		cfg.SeedText = generated
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return cfg, fmt.Errorf("create data dir: %w", err)
	}
	return cfg, nil
}

// fileLogger sends logs to the log file so they do not tear the TUI.
func fileLogger(cfg util.Config) (*slog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(fh, &slog.HandlerOptions{Level: slog.LevelInfo})), fh, nil
}

func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func generateSeed() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
