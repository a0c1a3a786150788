// Package assets keeps a versioned, cache-first copy of the static files the
// terminal needs so it renders without reaching the origin.
package assets

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/DaanHessen/agency-terminal/internal/util"
	"github.com/pkg/errors"
)

// Generation names the current cache; bumping it invalidates older copies.
const Generation = "agency-terminal-v1"

const (
	Banner        = "banner.txt"
	Help          = "help.md"
	BriefTemplate = "brief.md.tmpl"
)

// Manifest lists what Install pre-caches.
var Manifest = []string{Banner, Help, BriefTemplate}

//go:embed static
var static embed.FS

// Origin serves assets that are not cached yet.
type Origin interface {
	Open(name string) ([]byte, error)
}

// OriginFunc adapts a function to Origin.
type OriginFunc func(name string) ([]byte, error)

func (f OriginFunc) Open(name string) ([]byte, error) { return f(name) }

// Embedded is the origin compiled into the binary.
func Embedded() Origin {
	return OriginFunc(func(name string) ([]byte, error) {
		return fs.ReadFile(static, path.Join("static", name))
	})
}

// Cache stores assets under <root>/<generation>/.
type Cache struct {
	mu         sync.Mutex
	root       string
	generation string
	origin     Origin
	logger     *slog.Logger
}

type Option func(*Cache)

func WithGeneration(g string) Option   { return func(c *Cache) { c.generation = g } }
func WithOrigin(o Origin) Option       { return func(c *Cache) { c.origin = o } }
func WithLogger(l *slog.Logger) Option { return func(c *Cache) { c.logger = l } }

func New(root string, opts ...Option) *Cache {
	c := &Cache{root: root, generation: Generation, origin: Embedded(), logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "assets")
	return c
}

func (c *Cache) Generation() string { return c.generation }

func (c *Cache) dir() string { return filepath.Join(c.root, c.generation) }

// Install fetches every manifest entry from the origin into the current
// generation. It fails if any entry is unavailable.
func (c *Cache) Install() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	for _, name := range Manifest {
		b, err := c.origin.Open(name)
		if err != nil {
			return errors.Wrapf(err, "fetch %s", name)
		}
		if err := c.putLocked(name, b); err != nil {
			return err
		}
	}
	c.logger.Debug("cache installed", "generation", c.generation, "assets", len(Manifest))
	return nil
}

// Activate removes every generation other than the current one.
func (c *Cache) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "list cache generations")
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == c.generation {
			continue
		}
		c.logger.Info("deleting old cache", "generation", e.Name())
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return errors.Wrapf(err, "delete cache %s", e.Name())
		}
	}
	return nil
}

// Fetch answers from the cache, then from the origin, caching what the
// origin returns.
func (c *Cache) Fetch(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, errors.Errorf("invalid asset name %q", name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, err := os.ReadFile(filepath.Join(c.dir(), filepath.FromSlash(name))); err == nil {
		return b, nil
	}
	b, err := c.origin.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", name)
	}
	if err := c.putLocked(name, b); err != nil {
		c.logger.Warn("cache write failed", "asset", name, "error", err)
	}
	return b, nil
}

// FetchString is Fetch for text assets, returning fallback on any error.
func (c *Cache) FetchString(name, fallback string) string {
	b, err := c.Fetch(name)
	if err != nil {
		return fallback
	}
	return string(b)
}

func (c *Cache) putLocked(name string, b []byte) error {
	p := filepath.Join(c.dir(), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	if err := util.WriteFileAtomic(p, b, 0o644); err != nil {
		return errors.Wrapf(err, "cache %s", name)
	}
	return nil
}
