package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings and flags.
type Config struct {
	DataDir     string
	DSN         string // empty|file:<dir>|sqlite:<path>|postgres://...
	SeedText    string
	Theme       string // agency|terminal|amber|mono
	Tuning      engine.Tuning
	LogFile     string
	MetricsAddr string
	Mute        bool
	ConfigPath  string
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		DataDir: defaultDataDir(),
		Theme:   "agency",
		Tuning:  engine.DefaultTuning(),
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "agency-terminal")
	}
	return ".agency"
}

// LogPath is where the TUI writes its log while it owns the terminal.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "agency.log")
}

// fileConfig is the optional YAML config file.
type fileConfig struct {
	DataDir string        `yaml:"data_dir"`
	DSN     string        `yaml:"dsn"`
	Theme   string        `yaml:"theme"`
	Tuning  engine.Tuning `yaml:"tuning"`
}

// LoadFile overlays the YAML file at path onto c. Missing tuning fields keep
// their defaults.
func LoadFile(c Config, path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read config %s", path)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return c, errors.Wrapf(err, "parse config %s", path)
	}
	c.ConfigPath = path
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.DSN != "" {
		c.DSN = fc.DSN
	}
	if fc.Theme != "" {
		c.Theme = fc.Theme
	}
	c.Tuning = mergeTuning(c.Tuning, fc.Tuning).WithDefaults()
	return c, nil
}

func mergeTuning(base, over engine.Tuning) engine.Tuning {
	if over.WorldInterval > 0 {
		base.WorldInterval = over.WorldInterval
	}
	if over.MissionPoll > 0 {
		base.MissionPoll = over.MissionPoll
	}
	if over.MissionGate > 0 {
		base.MissionGate = over.MissionGate
	}
	if over.EventChance > 0 {
		base.EventChance = over.EventChance
	}
	if over.DecayFaction != "" {
		base.DecayFaction = over.DecayFaction
	}
	if over.DecayAmount != 0 {
		base.DecayAmount = over.DecayAmount
	}
	if over.BannerDuration > 0 {
		base.BannerDuration = over.BannerDuration
	}
	if over.ThinkDelay > 0 {
		base.ThinkDelay = over.ThinkDelay
	}
	if over.MaxNotifications > 0 {
		base.MaxNotifications = over.MaxNotifications
	}
	return base
}

// LoadEnv reads .env files (missing ones are ignored) into the process
// environment and overlays the AGENCY_* variables onto c.
func LoadEnv(c Config, files ...string) Config {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	return ApplyEnv(c, os.LookupEnv)
}

// ApplyEnv overlays AGENCY_* variables found through lookup.
func ApplyEnv(c Config, lookup func(string) (string, bool)) Config {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("AGENCY_DATA_DIR", &c.DataDir)
	set("AGENCY_DSN", &c.DSN)
	set("AGENCY_SEED", &c.SeedText)
	set("AGENCY_THEME", &c.Theme)
	set("AGENCY_LOG_FILE", &c.LogFile)
	set("AGENCY_METRICS_ADDR", &c.MetricsAddr)
	if v, ok := lookup("AGENCY_MUTE"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			c.Mute = true
		}
	}
	return c
}
