package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

type countingObserver struct {
	nopObserver
	ticks, generated, completed, notified, saved, failed int
}

func (o *countingObserver) WorldTicked(*GlobalEvent) { o.ticks++ }
func (o *countingObserver) MissionGenerated(Mission) { o.generated++ }
func (o *countingObserver) MissionCompleted(Mission) { o.completed++ }
func (o *countingObserver) Notified(Notification)    { o.notified++ }
func (o *countingObserver) Saved(err error) {
	if err != nil {
		o.failed++
		return
	}
	o.saved++
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestSession(t *testing.T, p *memPersister, obs Observer) (*Session, *FakeClock) {
	t.Helper()
	clock := NewFakeClock(epoch)
	seed, err := NewSeed("session-test")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	opts := []Option{WithClock(clock), WithSeed(seed), WithPersister(p), WithLogger(quietLogger()), WithCues(cue.Mute{})}
	if obs != nil {
		opts = append(opts, WithObserver(obs))
	}
	st := NewGameState(epoch)
	st.LastMissionTime = epoch
	return NewSession(st, opts...), clock
}

func TestSessionPersistsAfterMutations(t *testing.T) {
	p := &memPersister{}
	obs := &countingObserver{}
	s, clock := newTestSession(t, p, obs)
	ctx := context.Background()

	s.TickWorld(ctx)
	if p.count() != 1 {
		t.Fatalf("expected save after world tick, got %d", p.count())
	}
	if _, ok := s.PollMissions(ctx); ok {
		t.Fatalf("mission generated before the gate elapsed")
	}
	if p.count() != 1 {
		t.Fatalf("idle poll should not save")
	}
	clock.Advance(31 * time.Second)
	m, ok := s.PollMissions(ctx)
	if !ok {
		t.Fatalf("expected mission after the gate")
	}
	if !s.CompleteMission(ctx, m.ID) {
		t.Fatalf("expected completion")
	}
	if s.CompleteMission(ctx, m.ID) {
		t.Fatalf("completion repeated")
	}
	if p.count() != 3 {
		t.Fatalf("expected 3 saves, got %d", p.count())
	}
	if p.last.Credits != 500+m.Reward {
		t.Fatalf("persisted credits %d, want %d", p.last.Credits, 500+m.Reward)
	}
	if obs.ticks != 1 || obs.generated != 1 || obs.completed != 1 || obs.saved != 3 {
		t.Fatalf("unexpected observer counts: %+v", obs)
	}
	if obs.notified < 2 {
		t.Fatalf("expected notifications to reach the observer, got %d", obs.notified)
	}
}

func TestSessionRespondDoesNotSave(t *testing.T) {
	p := &memPersister{}
	s, _ := newTestSession(t, p, nil)
	if got := s.Respond("credits"); got != "Your current credit balance is 500." {
		t.Fatalf("unexpected answer %q", got)
	}
	if p.count() != 0 {
		t.Fatalf("query triggered a save")
	}
}

func TestSessionSurvivesSaveFailure(t *testing.T) {
	p := &memPersister{fail: true}
	obs := &countingObserver{}
	s, _ := newTestSession(t, p, obs)
	s.TickWorld(context.Background())
	if obs.failed != 1 {
		t.Fatalf("expected failed save to be observed, got %d", obs.failed)
	}
	if err := s.Save(context.Background()); err == nil {
		t.Fatalf("expected explicit save to report the failure")
	}
}

func TestSessionLoginLogout(t *testing.T) {
	p := &memPersister{}
	s, _ := newTestSession(t, p, nil)
	ctx := context.Background()
	s.Login(ctx)
	if !s.Snapshot().LoggedIn || !p.last.LoggedIn {
		t.Fatalf("login not recorded")
	}
	s.Logout(ctx)
	if s.Snapshot().LoggedIn || p.last.LoggedIn {
		t.Fatalf("logout not recorded")
	}
}

func TestSessionSnapshotIsDetached(t *testing.T) {
	s, _ := newTestSession(t, &memPersister{}, nil)
	snap := s.Snapshot()
	snap.Credits = 0
	snap.World.Factions[FactionMI6] = Faction{}
	again := s.Snapshot()
	if again.Credits != 500 || again.World.Factions[FactionMI6].Standing != 50 {
		t.Fatalf("snapshot shares memory with the session")
	}
}

func TestSessionSameSeedSameWorld(t *testing.T) {
	run := func() GameState {
		s, clock := newTestSession(t, &memPersister{}, nil)
		for i := 0; i < 200; i++ {
			clock.Advance(5 * time.Second)
			s.TickWorld(context.Background())
			s.PollMissions(context.Background())
		}
		return s.Snapshot()
	}
	a, b := run(), run()
	if len(a.World.Events) != len(b.World.Events) || len(a.Missions) != len(b.Missions) {
		t.Fatalf("runs diverged: %d/%d events, %d/%d missions",
			len(a.World.Events), len(b.World.Events), len(a.Missions), len(b.Missions))
	}
	for i := range a.Missions {
		if a.Missions[i].Title != b.Missions[i].Title || a.Missions[i].Reward != b.Missions[i].Reward {
			t.Fatalf("mission %d differs: %+v vs %+v", i, a.Missions[i], b.Missions[i])
		}
	}
}
