package text

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
)

var mission = engine.Mission{
	ID:       "mission-1",
	Title:    "Sabotage the Red Hand Cell in Paris",
	Brief:    "Your objective is to sabotage the Red Hand Cell located in the Paris region.",
	Status:   engine.MissionActive,
	Location: engine.RegionParis,
	Reward:   120,
}

func TestTemplateBrief(t *testing.T) {
	b, err := NewTemplateBriefer("")
	if err != nil {
		t.Fatalf("briefer: %v", err)
	}
	md, err := b.Brief(context.Background(), mission)
	if err != nil {
		t.Fatalf("brief: %v", err)
	}
	for _, want := range []string{"# Sabotage the Red Hand Cell in Paris", "**Reward:** 120 XP", "located in the Paris region"} {
		if !strings.Contains(md, want) {
			t.Fatalf("brief missing %q:\n%s", want, md)
		}
	}
}

func TestBadTemplateRejected(t *testing.T) {
	if _, err := NewTemplateBriefer("{{.Title"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDossierListsFactionsSorted(t *testing.T) {
	b, _ := NewTemplateBriefer("")
	md, err := b.Dossier(context.Background(), engine.NewGameState(time.Now()))
	if err != nil {
		t.Fatalf("dossier: %v", err)
	}
	cygnus := strings.Index(md, "Cygnus Corp")
	mi6 := strings.Index(md, "- MI6")
	red := strings.Index(md, "- Red Hand")
	if cygnus < 0 || mi6 < cygnus || red < mi6 {
		t.Fatalf("factions not sorted:\n%s", md)
	}
	if !strings.Contains(md, "Dr. Evelyn Reed") {
		t.Fatalf("contacts missing:\n%s", md)
	}
}

func TestGlamourBriefRenders(t *testing.T) {
	src, _ := NewTemplateBriefer("")
	g, err := NewGlamourBriefer(src, "notty", 60)
	if err != nil {
		t.Fatalf("glamour: %v", err)
	}
	out, err := g.Brief(context.Background(), mission)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Sabotage the Red Hand Cell") {
		t.Fatalf("rendered brief lost the title:\n%s", out)
	}
}

type failing struct{}

func (failing) Brief(context.Context, engine.Mission) (string, error) {
	return "", errors.New("offline")
}
func (failing) Dossier(context.Context, engine.GameState) (string, error) {
	return "", errors.New("offline")
}

type counting struct {
	Briefer
	calls int
}

func (c *counting) Brief(ctx context.Context, m engine.Mission) (string, error) {
	c.calls++
	return c.Briefer.Brief(ctx, m)
}

func TestWithFallback(t *testing.T) {
	plain, _ := NewTemplateBriefer("")
	b := WithFallback(failing{}, plain)
	if md, err := b.Brief(context.Background(), mission); err != nil || !strings.Contains(md, mission.Title) {
		t.Fatalf("fallback not used: %q %v", md, err)
	}
	if _, err := WithFallback(nil, plain).Dossier(context.Background(), engine.NewGameState(time.Now())); err != nil {
		t.Fatalf("nil primary: %v", err)
	}
}

func TestCachedBriefer(t *testing.T) {
	plain, _ := NewTemplateBriefer("")
	c := &counting{Briefer: plain}
	b := Cached(c)
	for i := 0; i < 3; i++ {
		if _, err := b.Brief(context.Background(), mission); err != nil {
			t.Fatalf("brief: %v", err)
		}
	}
	if c.calls != 1 {
		t.Fatalf("expected one render, got %d", c.calls)
	}
	done := mission
	done.Status = engine.MissionCompleted
	if _, err := b.Brief(context.Background(), done); err != nil {
		t.Fatalf("brief: %v", err)
	}
	if c.calls != 2 {
		t.Fatalf("status change should re-render, got %d calls", c.calls)
	}
}

func TestMissionCacheKeyDeterminism(t *testing.T) {
	k1, _ := MissionCacheKey(mission)
	k2, _ := MissionCacheKey(mission)
	if k1 != k2 {
		t.Fatal("MissionCacheKey not stable")
	}
	other := mission
	other.Reward++
	k3, _ := MissionCacheKey(other)
	if k1 == k3 {
		t.Fatal("MissionCacheKey identical for different missions")
	}
}
