// Package text renders mission briefs and agent dossiers as markdown.
package text

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

// Briefer renders the prose panes of the dashboard.
type Briefer interface {
	Brief(ctx context.Context, m engine.Mission) (string, error)
	Dossier(ctx context.Context, st engine.GameState) (string, error)
}

// DefaultBriefTemplate is used when no template is installed.
const DefaultBriefTemplate = `# {{.Title}}

**Location:** {{.Location}} | **Reward:** {{.Reward}} XP | **Status:** {{.Status}}

{{.Brief}}
`

// templateBriefer is deterministic and offline; its output is raw markdown.
type templateBriefer struct {
	brief *template.Template
}

func NewTemplateBriefer(tmpl string) (Briefer, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultBriefTemplate
	}
	t, err := template.New("brief").Parse(tmpl)
	if err != nil {
		return nil, errors.Wrap(err, "parse brief template")
	}
	return &templateBriefer{brief: t}, nil
}

func (t *templateBriefer) Brief(_ context.Context, m engine.Mission) (string, error) {
	var b bytes.Buffer
	if err := t.brief.Execute(&b, m); err != nil {
		return "", errors.Wrap(err, "render brief")
	}
	return b.String(), nil
}

func (t *templateBriefer) Dossier(_ context.Context, st engine.GameState) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# Agent %s\n\n", st.AgentName)
	fmt.Fprintf(&b, "**Rank:** %s | **Level:** %d | **XP:** %d\n\n", st.Rank, st.Level, st.XP)
	fmt.Fprintf(&b, "Credits %d, influence %d, intel %d.\n\n", st.Credits, st.Influence, st.Intel)
	b.WriteString("## Factions\n\n")
	for _, name := range sortedKeys(st.World.Factions) {
		f := st.World.Factions[name]
		fmt.Fprintf(&b, "- %s (%s): %.1f\n", name, f.Allegiance, f.Standing)
	}
	if len(st.Contacts) > 0 {
		b.WriteString("\n## Contacts\n\n")
		for _, c := range st.Contacts {
			fmt.Fprintf(&b, "- %s, %s (%s)\n", c.Name, c.Faction, c.Status)
		}
	}
	return b.String(), nil
}

// glamourBriefer styles the markdown of src for the terminal.
type glamourBriefer struct {
	src Briefer
	r   *glamour.TermRenderer
}

// NewGlamourBriefer wraps src; style is a glamour standard style such as
// "dark", "light" or "notty".
func NewGlamourBriefer(src Briefer, style string, width int) (Briefer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		return nil, errors.Wrap(err, "glamour renderer")
	}
	return &glamourBriefer{src: src, r: r}, nil
}

func (g *glamourBriefer) Brief(ctx context.Context, m engine.Mission) (string, error) {
	md, err := g.src.Brief(ctx, m)
	if err != nil {
		return "", err
	}
	return g.r.Render(md)
}

func (g *glamourBriefer) Dossier(ctx context.Context, st engine.GameState) (string, error) {
	md, err := g.src.Dossier(ctx, st)
	if err != nil {
		return "", err
	}
	return g.r.Render(md)
}

// WithFallback returns a briefer that prefers primary and falls back to backup on error.
func WithFallback(primary, fallback Briefer) Briefer { return &fallbackBriefer{p: primary, f: fallback} }

type fallbackBriefer struct{ p, f Briefer }

func (n *fallbackBriefer) Brief(ctx context.Context, m engine.Mission) (string, error) {
	if n.p == nil {
		return n.f.Brief(ctx, m)
	}
	if s, err := n.p.Brief(ctx, m); err == nil {
		return s, nil
	}
	return n.f.Brief(ctx, m)
}

func (n *fallbackBriefer) Dossier(ctx context.Context, st engine.GameState) (string, error) {
	if n.p == nil {
		return n.f.Dossier(ctx, st)
	}
	if s, err := n.p.Dossier(ctx, st); err == nil {
		return s, nil
	}
	return n.f.Dossier(ctx, st)
}

// Cached memoizes briefs by mission content; the view re-renders every frame.
// Dossiers change with every tick and are not cached.
func Cached(b Briefer) Briefer { return &cachedBriefer{b: b, briefs: map[string]string{}} }

type cachedBriefer struct {
	b      Briefer
	mu     sync.Mutex
	briefs map[string]string
}

func (c *cachedBriefer) Brief(ctx context.Context, m engine.Mission) (string, error) {
	key, err := MissionCacheKey(m)
	if err != nil {
		return c.b.Brief(ctx, m)
	}
	c.mu.Lock()
	s, ok := c.briefs[key]
	c.mu.Unlock()
	if ok {
		return s, nil
	}
	s, err = c.b.Brief(ctx, m)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.briefs[key] = s
	c.mu.Unlock()
	return s, nil
}

func (c *cachedBriefer) Dossier(ctx context.Context, st engine.GameState) (string, error) {
	return c.b.Dossier(ctx, st)
}

// MissionCacheKey hashes everything a brief is rendered from.
func MissionCacheKey(m engine.Mission) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
