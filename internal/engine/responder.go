package engine

import (
	"fmt"
	"strings"
)

// FallbackResponse is returned when no predicate matches.
const FallbackResponse = "I am sorry, Agent. My current data is insufficient to provide a meaningful response to that query."

type responseRule struct {
	match  func(q string) bool
	render func(st *GameState) string
}

// Rules are tried in order; the first match wins.
var responseRules = []responseRule{
	{
		match: func(q string) bool { return hasAny(q, "hello", "hi") },
		render: func(st *GameState) string {
			return fmt.Sprintf("Hello, Agent %s. How can I assist you with your current tasks?", st.AgentName)
		},
	},
	{
		match: func(q string) bool { return strings.Contains(q, "missions") },
		render: func(st *GameState) string {
			return fmt.Sprintf("We currently have %d active mission(s). You can view them in the 'Tasks' pane.", len(st.ActiveMissions()))
		},
	},
	{
		match:  func(q string) bool { return strings.Contains(q, "credits") },
		render: func(st *GameState) string { return fmt.Sprintf("Your current credit balance is %d.", st.Credits) },
	},
	{
		match: func(q string) bool { return hasAny(q, "status", "my profile") },
		render: func(st *GameState) string {
			return fmt.Sprintf("Agent Status:\n- Rank: %s (%d XP)\n- Faction Standing (%s): %s\n- Faction Standing (%s): %s",
				st.Rank, st.XP,
				FactionMI6, standingText(st, FactionMI6),
				FactionRedHand, standingText(st, FactionRedHand))
		},
	},
	{
		match: func(q string) bool { return strings.Contains(q, "world state") },
		render: func(st *GameState) string {
			var hot []string
			for _, name := range st.RegionNames() {
				if len(st.World.Regions[name].Events) > 0 {
					hot = append(hot, name)
				}
			}
			lead := fmt.Sprintf("The current global stability is at %s%%.", formatScore(st.World.GlobalStability))
			if len(hot) == 0 {
				return lead + " No major events are currently reported."
			}
			return lead + " Major events are occurring in " + strings.Join(hot, ", ") + "."
		},
	},
}

// Respond maps a free-text query to a canned answer built from st. It only
// reads st; the caller owns any artificial response delay.
func Respond(query string, st *GameState) string {
	q := strings.ToLower(query)
	for _, r := range responseRules {
		if r.match(q) {
			return r.render(st)
		}
	}
	return FallbackResponse
}

func standingText(st *GameState, faction string) string {
	f, ok := st.World.Factions[faction]
	if !ok {
		return "unknown"
	}
	return formatScore(f.Standing)
}

// formatScore prints a 0-100 score with one decimal, dropping a trailing ".0".
func formatScore(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
