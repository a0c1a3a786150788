package engine

import (
	"testing"
	"time"
)

func newTestWorld(rng Rand) (*WorldSimulator, *FakeClock) {
	clock := NewFakeClock(epoch)
	notes, _ := newTestCenter(clock)
	return NewWorldSimulator(rng, notes, DefaultTuning()), clock
}

func TestTickDecaysRedHandToZero(t *testing.T) {
	w, clock := newTestWorld(&scriptedRand{floats: []float64{0.99}})
	st := NewGameState(epoch)
	for i := 0; i < 1000; i++ {
		clock.Advance(5 * time.Second)
		if ev := w.Tick(&st, clock.Now()); ev != nil {
			t.Fatalf("tick %d raised unexpected event %+v", i, ev)
		}
	}
	if got := st.World.Factions[FactionRedHand].Standing; got != 0 {
		t.Fatalf("expected Red Hand standing 0, got %v", got)
	}
	if got := st.World.Factions[FactionMI6].Standing; got != 50 {
		t.Fatalf("MI6 standing drifted: %v", got)
	}
	if !st.World.Date.Equal(clock.Now()) {
		t.Fatalf("world date not advanced: %v", st.World.Date)
	}
}

func TestTickKeepsScoresInRange(t *testing.T) {
	seed, _ := NewSeed("range-check")
	tuning := DefaultTuning()
	tuning.EventChance = 1
	clock := NewFakeClock(epoch)
	notes, _ := newTestCenter(clock)
	w := NewWorldSimulator(seed.Stream("world"), notes, tuning)
	st := NewGameState(epoch)
	for i := 0; i < 500; i++ {
		w.Tick(&st, clock.Now())
		for name, f := range st.World.Factions {
			if f.Standing < 0 || f.Standing > 100 {
				t.Fatalf("tick %d: faction %s out of range: %v", i, name, f.Standing)
			}
		}
		for name, r := range st.World.Regions {
			if r.Stability < 0 || r.Stability > 100 {
				t.Fatalf("tick %d: region %s out of range: %v", i, name, r.Stability)
			}
			if len(r.Events) > maxRegionEvents {
				t.Fatalf("tick %d: region %s holds %d events", i, name, len(r.Events))
			}
		}
		if g := st.World.GlobalStability; g < 0 || g > 100 {
			t.Fatalf("tick %d: global stability out of range: %v", i, g)
		}
	}
	if len(st.World.Events) != maxWorldEvents {
		t.Fatalf("expected event log capped at %d, got %d", maxWorldEvents, len(st.World.Events))
	}
	if len(st.Notifications) != 200 {
		t.Fatalf("expected notifications capped at 200, got %d", len(st.Notifications))
	}
}

func TestPoliticalUnrestHitsKyiv(t *testing.T) {
	w, clock := newTestWorld(&scriptedRand{floats: []float64{0.01}, ints: []int{0}})
	st := NewGameState(epoch)
	ev := w.Tick(&st, clock.Now())
	if ev == nil || ev.Type != EventPoliticalUnrest {
		t.Fatalf("expected political unrest, got %+v", ev)
	}
	kyiv := st.World.Regions[RegionKyiv]
	if kyiv.Stability != 55 {
		t.Fatalf("expected Kyiv stability 55, got %v", kyiv.Stability)
	}
	if len(kyiv.Events) != 1 || kyiv.Events[0] != string(EventPoliticalUnrest) {
		t.Fatalf("unexpected Kyiv events: %v", kyiv.Events)
	}
	if len(st.Notifications) != 1 || st.Notifications[0].Title != "Global Alert: Political Unrest" || st.Notifications[0].Critical {
		t.Fatalf("unexpected notifications: %+v", st.Notifications)
	}
}

func TestCyberattackIsCritical(t *testing.T) {
	clock := NewFakeClock(epoch)
	notes, rec := newTestCenter(clock)
	w := NewWorldSimulator(&scriptedRand{floats: []float64{0.01}, ints: []int{2}}, notes, DefaultTuning())
	st := NewGameState(epoch)
	ev := w.Tick(&st, clock.Now())
	if ev == nil || ev.Type != EventCyberattack || !ev.Critical {
		t.Fatalf("expected critical cyberattack, got %+v", ev)
	}
	if st.World.GlobalStability != 72 {
		t.Fatalf("expected global stability 72, got %v", st.World.GlobalStability)
	}
	if _, ok := notes.Banner(clock.Now()); !ok {
		t.Fatalf("expected critical banner")
	}
	names := rec.Names()
	if len(names) != 2 || names[1] != "alert-critical" {
		t.Fatalf("unexpected cues: %v", names)
	}
}
