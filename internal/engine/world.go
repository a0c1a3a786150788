package engine

import "time"

const (
	maxRegionEvents = 10
	maxWorldEvents  = 50
)

type eventTemplate struct {
	Description string
	Critical    bool
	Region      string
	apply       func(st *GameState)
}

// Descriptions are fixed; the side effects follow what each description announces.
var eventTemplates = map[EventType]eventTemplate{
	EventPoliticalUnrest: {
		Description: "Local protests have erupted in Kyiv, impacting stability.",
		Region:      RegionKyiv,
		apply:       func(st *GameState) { st.AdjustStability(RegionKyiv, -5) },
	},
	EventCorporateScandal: {
		Description: "Cygnus Corp. is under investigation. Faction standing is shifting.",
		apply:       func(st *GameState) { st.AdjustStanding(FactionCygnusCorp, -2) },
	},
	EventCyberattack: {
		Description: "A major cyberattack has been detected, affecting global networks.",
		Critical:    true,
		apply:       func(st *GameState) { st.World.GlobalStability = Clamp(st.World.GlobalStability - 3) },
	},
}

// WorldSimulator advances factions and regions once per world tick.
type WorldSimulator struct {
	rng    Rand
	notes  *NotificationCenter
	tuning Tuning
}

func NewWorldSimulator(rng Rand, notes *NotificationCenter, tuning Tuning) *WorldSimulator {
	return &WorldSimulator{rng: rng, notes: notes, tuning: tuning.WithDefaults()}
}

// Tick rolls for a global event, then applies the faction decay. The returned
// event is nil when the roll missed.
func (w *WorldSimulator) Tick(st *GameState, now time.Time) *GlobalEvent {
	st.World.Date = now
	var ev *GlobalEvent
	if w.rng.Float64() < w.tuning.EventChance {
		e := w.generateEvent(now)
		w.addGlobalEvent(st, e)
		ev = &e
	}
	st.AdjustStanding(w.tuning.DecayFaction, w.tuning.DecayAmount)
	return ev
}

func (w *WorldSimulator) generateEvent(now time.Time) GlobalEvent {
	typ := AllEventTypes[w.rng.Intn(len(AllEventTypes))]
	tpl := eventTemplates[typ]
	return GlobalEvent{Type: typ, Description: tpl.Description, Critical: tpl.Critical, Region: tpl.Region, At: now}
}

func (w *WorldSimulator) addGlobalEvent(st *GameState, e GlobalEvent) {
	st.World.Events = append(st.World.Events, e)
	if n := len(st.World.Events); n > maxWorldEvents {
		st.World.Events = st.World.Events[n-maxWorldEvents:]
	}
	if r, ok := st.World.Regions[e.Region]; ok {
		r.Events = append(r.Events, string(e.Type))
		if n := len(r.Events); n > maxRegionEvents {
			r.Events = r.Events[n-maxRegionEvents:]
		}
		st.World.Regions[e.Region] = r
	}
	if tpl, ok := eventTemplates[e.Type]; ok && tpl.apply != nil {
		tpl.apply(st)
	}
	w.notes.Add(st, Notification{
		Title:    "Global Alert: " + string(e.Type),
		Text:     e.Description,
		Critical: e.Critical,
	})
}
