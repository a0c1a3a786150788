package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

func newTestGenerator(rng Rand) (*MissionGenerator, *FakeClock, *cue.Recorder) {
	clock := NewFakeClock(epoch)
	notes, rec := newTestCenter(clock)
	return NewMissionGenerator(rng, notes, rec, DefaultTuning()), clock, rec
}

func TestPollRespectsGate(t *testing.T) {
	seed, _ := NewSeed("gate")
	g, clock, _ := newTestGenerator(seed.Stream("missions"))
	st := NewGameState(epoch)
	st.LastMissionTime = epoch

	var created []time.Time
	for i := 0; i < 6000; i++ {
		clock.Advance(100 * time.Millisecond)
		if m, ok := g.Poll(&st, clock.Now()); ok {
			created = append(created, m.CreatedAt)
		}
	}
	if len(created) < 2 {
		t.Fatalf("expected several missions in ten minutes, got %d", len(created))
	}
	for i := 1; i < len(created); i++ {
		if gap := created[i].Sub(created[i-1]); gap <= 30*time.Second {
			t.Fatalf("missions %d and %d only %v apart", i-1, i, gap)
		}
	}
	if len(st.Missions) != len(created) {
		t.Fatalf("state holds %d missions, polled %d", len(st.Missions), len(created))
	}
}

func TestPollBuildsMissionFromVocabulary(t *testing.T) {
	g, clock, _ := newTestGenerator(&scriptedRand{ints: []int{1, 2, 0, 99}})
	st := NewGameState(epoch)
	clock.Advance(time.Minute)
	m, ok := g.Poll(&st, clock.Now())
	if !ok {
		t.Fatalf("expected a mission")
	}
	if m.Title != "Infiltrate the Rogue AI Node in Kyiv" {
		t.Fatalf("unexpected title %q", m.Title)
	}
	if !strings.HasPrefix(m.Brief, "Your objective is to infiltrate the Rogue AI Node located in the Kyiv region.") {
		t.Fatalf("unexpected brief %q", m.Brief)
	}
	if m.Reward != 149 || m.Status != MissionActive || m.Location != RegionKyiv {
		t.Fatalf("unexpected mission %+v", m)
	}
	if !st.LastMissionTime.Equal(clock.Now()) {
		t.Fatalf("last mission time not updated")
	}
	if n := st.Notifications[0]; n.Title != "New Mission Briefing" || n.Text != m.Title {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestPollWithoutRegionsIsNoop(t *testing.T) {
	g, clock, _ := newTestGenerator(&scriptedRand{})
	st := NewGameState(epoch)
	st.World.Regions = map[string]Region{}
	clock.Advance(time.Hour)
	if _, ok := g.Poll(&st, clock.Now()); ok {
		t.Fatalf("expected no mission without regions")
	}
}

func TestUniqueMissionIDAvoidsCollisions(t *testing.T) {
	st := NewGameState(epoch)
	first := uniqueMissionID(&st, epoch)
	st.Missions = append(st.Missions, Mission{ID: first})
	second := uniqueMissionID(&st, epoch)
	st.Missions = append(st.Missions, Mission{ID: second})
	third := uniqueMissionID(&st, epoch)
	if first == second || second == third || first == third {
		t.Fatalf("duplicate ids: %s %s %s", first, second, third)
	}
	if second != first+"-2" {
		t.Fatalf("unexpected suffix: %s", second)
	}
}

func TestCompleteCreditsOnce(t *testing.T) {
	g, _, rec := newTestGenerator(&scriptedRand{})
	st := NewGameState(epoch)
	st.Missions = []Mission{{ID: "m1", Title: "Extract the Asset", Reward: 80, Status: MissionActive}}

	if !g.Complete(&st, "m1") {
		t.Fatalf("expected completion")
	}
	if st.Credits != 580 || st.XP != 80 {
		t.Fatalf("expected 580 credits and 80 XP, got %d and %d", st.Credits, st.XP)
	}
	if st.Missions[0].Status != MissionCompleted {
		t.Fatalf("mission not marked completed")
	}
	if n := st.Notifications[0]; n.Title != "Mission Complete!" || n.Text != `You have completed "Extract the Asset" and earned 80 XP.` {
		t.Fatalf("unexpected notification %+v", n)
	}
	if g.Complete(&st, "m1") {
		t.Fatalf("second completion should be ignored")
	}
	if st.Credits != 580 || st.XP != 80 {
		t.Fatalf("double credit: %d credits, %d XP", st.Credits, st.XP)
	}
	names := rec.Names()
	if len(names) != 2 || names[0] != cue.Notification || names[1] != cue.MissionComplete {
		t.Fatalf("unexpected cues: %v", names)
	}
}

func TestCompleteUnknownLeavesStateAlone(t *testing.T) {
	g, _, _ := newTestGenerator(&scriptedRand{})
	st := NewGameState(epoch)
	st.Missions = []Mission{{ID: "m1", Reward: 80, Status: MissionActive}}
	before := st.Clone()
	if g.Complete(&st, "nope") {
		t.Fatalf("unknown id reported as completed")
	}
	if !reflect.DeepEqual(before, st) {
		t.Fatalf("state changed on unknown completion")
	}
}
