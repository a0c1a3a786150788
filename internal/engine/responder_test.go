package engine

import (
	"reflect"
	"strings"
	"testing"
)

func TestRespondCredits(t *testing.T) {
	st := NewGameState(epoch)
	if got := Respond("What are my credits?", &st); !strings.Contains(got, "500") {
		t.Fatalf("expected credit balance in %q", got)
	}
}

func TestRespondFallbackIgnoresState(t *testing.T) {
	a := NewGameState(epoch)
	b := NewGameState(epoch)
	b.Credits = 9999
	b.World.GlobalStability = 3
	for _, st := range []*GameState{&a, &b} {
		if got := Respond("banana", st); got != FallbackResponse {
			t.Fatalf("expected fallback, got %q", got)
		}
	}
}

func TestRespondIsPure(t *testing.T) {
	st := NewGameState(epoch)
	st.Missions = []Mission{{ID: "m1", Status: MissionActive}}
	before := st.Clone()
	queries := []string{"hello", "missions?", "credits", "status", "world state", "banana"}
	for _, q := range queries {
		first := Respond(q, &st)
		if again := Respond(q, &st); again != first {
			t.Fatalf("query %q not stable: %q vs %q", q, first, again)
		}
	}
	if !reflect.DeepEqual(before, st) {
		t.Fatalf("responder mutated state")
	}
}

func TestRespondRules(t *testing.T) {
	st := NewGameState(epoch)
	st.AgentName = "Nightjar"
	st.Missions = []Mission{
		{ID: "a", Status: MissionActive},
		{ID: "b", Status: MissionCompleted},
	}
	cases := []struct {
		query string
		want  string
	}{
		{"Hello there", "Hello, Agent Nightjar."},
		{"hi", "Hello, Agent Nightjar."},
		{"hello, any missions?", "Hello, Agent Nightjar."},
		{"list missions", "We currently have 1 active mission(s)."},
		{"Show my profile", "Faction Standing (MI6): 50"},
		{"STATUS", "Faction Standing (Red Hand): 10"},
		{"world state please", "The current global stability is at 75%. No major events are currently reported."},
	}
	for _, tc := range cases {
		if got := Respond(tc.query, &st); !strings.Contains(got, tc.want) {
			t.Fatalf("query %q: expected %q in %q", tc.query, tc.want, got)
		}
	}
}

func TestRespondGreetingMatchesSubstringFirst(t *testing.T) {
	st := NewGameState(epoch)
	for _, q := range []string{"is this world state bad?", "think about my credits"} {
		if got := Respond(q, &st); !strings.HasPrefix(got, "Hello, Agent") {
			t.Fatalf("query %q: expected greeting, got %q", q, got)
		}
	}
}

func TestRespondWorldStateListsHotRegions(t *testing.T) {
	st := NewGameState(epoch)
	for _, name := range []string{RegionParis, RegionKyiv} {
		r := st.World.Regions[name]
		r.Events = []string{string(EventPoliticalUnrest)}
		st.World.Regions[name] = r
	}
	st.World.GlobalStability = 72.5
	got := Respond("world state", &st)
	want := "The current global stability is at 72.5%. Major events are occurring in Kyiv, Paris."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
