package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

var (
	missionTasks   = []string{"Sabotage", "Infiltrate", "Extract", "Investigate"}
	missionTargets = []string{"Red Hand Cell", "Cygnus Corp. Executive", "Rogue AI Node"}
)

const (
	minReward  = 50
	rewardSpan = 100 // rewards fall in [50,149]
)

// MissionGenerator is poll driven: Poll may be called at any cadence and only
// produces a mission once MissionGate has elapsed since the previous one.
type MissionGenerator struct {
	rng    Rand
	notes  *NotificationCenter
	cues   cue.Player
	tuning Tuning
}

func NewMissionGenerator(rng Rand, notes *NotificationCenter, cues cue.Player, tuning Tuning) *MissionGenerator {
	return &MissionGenerator{rng: rng, notes: notes, cues: cue.Safe(cues), tuning: tuning.WithDefaults()}
}

// Poll generates a mission when the gate allows it.
func (g *MissionGenerator) Poll(st *GameState, now time.Time) (Mission, bool) {
	if now.Sub(st.LastMissionTime) <= g.tuning.MissionGate {
		return Mission{}, false
	}
	if len(st.World.Regions) == 0 {
		return Mission{}, false
	}
	m := g.generate(st, now)
	st.Missions = append(st.Missions, m)
	st.LastMissionTime = now
	g.notes.Add(st, Notification{Title: "New Mission Briefing", Text: m.Title})
	return m, true
}

func (g *MissionGenerator) generate(st *GameState, now time.Time) Mission {
	locations := st.RegionNames()
	task := missionTasks[g.rng.Intn(len(missionTasks))]
	target := missionTargets[g.rng.Intn(len(missionTargets))]
	location := locations[g.rng.Intn(len(locations))]
	return Mission{
		ID:    uniqueMissionID(st, now),
		Title: fmt.Sprintf("%s the %s in %s", task, target, location),
		Brief: fmt.Sprintf("Your objective is to %s the %s located in the %s region. Our intel suggests this target is a critical part of a larger operation.",
			strings.ToLower(task), target, location),
		Status:    MissionActive,
		Location:  location,
		Reward:    minReward + g.rng.Intn(rewardSpan),
		CreatedAt: now,
	}
}

// uniqueMissionID derives the id from the generation time and appends a
// counter when another mission already holds it.
func uniqueMissionID(st *GameState, now time.Time) string {
	base := fmt.Sprintf("mission-%d", now.UnixMilli())
	id := base
	for n := 2; ; n++ {
		if _, taken := st.Mission(id); !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// Complete credits an active mission once. Unknown or already completed ids
// leave the state untouched and report false.
func (g *MissionGenerator) Complete(st *GameState, id string) bool {
	for i := range st.Missions {
		m := &st.Missions[i]
		if m.ID != id {
			continue
		}
		if m.Status != MissionActive {
			return false
		}
		m.Status = MissionCompleted
		st.XP += m.Reward
		st.Credits += m.Reward
		g.notes.Add(st, Notification{
			Title: "Mission Complete!",
			Text:  fmt.Sprintf("You have completed \"%s\" and earned %d XP.", m.Title, m.Reward),
		})
		g.cues.Play(cue.MissionComplete)
		return true
	}
	return false
}
