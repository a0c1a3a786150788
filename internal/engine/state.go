package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Asset is one line of the agent's inventory.
type Asset struct {
	Count  int         `json:"count"`
	Status AssetStatus `json:"status"`
}

type Faction struct {
	Name       string     `json:"name"`
	Standing   float64    `json:"standing"` // 0-100
	Allegiance Allegiance `json:"allegiance"`
}

type Region struct {
	Name      string   `json:"name"`
	Stability float64  `json:"stability"` // 0-100
	Events    []string `json:"events"`
}

// GlobalEvent is an entry of the world event log.
type GlobalEvent struct {
	Type        EventType `json:"type"`
	Description string    `json:"description"`
	Critical    bool      `json:"critical"`
	Region      string    `json:"region,omitempty"`
	At          time.Time `json:"at"`
}

type Mission struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Brief     string        `json:"brief"`
	Status    MissionStatus `json:"status"`
	Location  string        `json:"location"`
	Reward    int           `json:"reward"`
	CreatedAt time.Time     `json:"createdAt"`
}

type Notification struct {
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Critical bool      `json:"critical"`
	At       time.Time `json:"at"`
}

type Contact struct {
	Name    string `json:"name"`
	Faction string `json:"faction"`
	Status  string `json:"status"`
}

type Mail struct {
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	At      time.Time `json:"at"`
}

type WorldState struct {
	Date            time.Time          `json:"date"`
	GlobalStability float64            `json:"globalStability"` // 0-100
	Factions        map[string]Faction `json:"factions"`
	Regions         map[string]Region  `json:"regions"`
	Events          []GlobalEvent      `json:"events"`
}

// GameState is the whole snapshot. The JSON names follow the browser build's
// localStorage layout so exported saves stay recognisable.
type GameState struct {
	LoggedIn  bool      `json:"isLoggedIn"`
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	Rank      string    `json:"rank"`
	XP        int       `json:"xp"`
	Level     int       `json:"level"`

	Credits   int              `json:"credits"`
	Influence int              `json:"influence"`
	Intel     int              `json:"intel"`
	Assets    map[string]Asset `json:"assets"`

	World WorldState `json:"worldState"`

	Missions      []Mission      `json:"missions"`
	Contacts      []Contact      `json:"contacts"`
	Mail          []Mail         `json:"mail"`
	Notifications []Notification `json:"notifications"`

	Cooldowns       map[string]time.Time `json:"cooldowns"`
	LastMissionTime time.Time            `json:"lastMissionTime"`
}

const (
	FactionMI6        = "MI6"
	FactionRedHand    = "Red Hand"
	FactionCygnusCorp = "Cygnus Corp"

	RegionLondon = "London"
	RegionKyiv   = "Kyiv"
	RegionParis  = "Paris"
)

// NewGameState returns the fresh-agent state used when nothing is persisted.
func NewGameState(now time.Time) GameState {
	return GameState{
		AgentID:   uuid.New(),
		AgentName: "Agent",
		Rank:      "Recruit",
		Level:     1,
		Credits:   500,
		Influence: 10,
		Assets: map[string]Asset{
			"Recon Drone": {Count: 1, Status: AssetIdle},
			"SWAT Unit":   {Count: 0, Status: AssetIdle},
		},
		World: WorldState{
			Date:            now,
			GlobalStability: 75,
			Factions: map[string]Faction{
				FactionMI6:        {Name: FactionMI6, Standing: 50, Allegiance: AllegianceAlly},
				FactionRedHand:    {Name: FactionRedHand, Standing: 10, Allegiance: AllegianceEnemy},
				FactionCygnusCorp: {Name: FactionCygnusCorp, Standing: 30, Allegiance: AllegianceNeutral},
			},
			Regions: map[string]Region{
				RegionLondon: {Name: RegionLondon, Stability: 90},
				RegionKyiv:   {Name: RegionKyiv, Stability: 60},
				RegionParis:  {Name: RegionParis, Stability: 80},
			},
		},
		Contacts: []Contact{
			{Name: "Dr. Evelyn Reed", Faction: FactionMI6, Status: "Active"},
			{Name: "Marcus Thorne", Faction: FactionRedHand, Status: "Compromised"},
		},
		Cooldowns: map[string]time.Time{},
	}
}

// Clamp restricts v to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AdjustStanding adds delta to a faction's standing. Unknown factions are ignored.
func (s *GameState) AdjustStanding(name string, delta float64) {
	f, ok := s.World.Factions[name]
	if !ok {
		return
	}
	f.Standing = Clamp(f.Standing + delta)
	s.World.Factions[name] = f
}

// AdjustStability adds delta to a region's stability. Unknown regions are ignored.
func (s *GameState) AdjustStability(name string, delta float64) {
	r, ok := s.World.Regions[name]
	if !ok {
		return
	}
	r.Stability = Clamp(r.Stability + delta)
	s.World.Regions[name] = r
}

// RegionNames returns the region keys sorted, so random picks are reproducible per seed.
func (s *GameState) RegionNames() []string {
	names := make([]string, 0, len(s.World.Regions))
	for k := range s.World.Regions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ActiveMissions returns missions still awaiting completion, oldest first.
func (s *GameState) ActiveMissions() []Mission {
	var out []Mission
	for _, m := range s.Missions {
		if m.Status == MissionActive {
			out = append(out, m)
		}
	}
	return out
}

// Mission looks a mission up by id.
func (s *GameState) Mission(id string) (Mission, bool) {
	for _, m := range s.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return Mission{}, false
}

// Normalize repairs a state decoded from storage: nil collections become empty,
// scores are clamped, map keys are copied into names and unknown enum values
// are replaced or dropped.
func (s *GameState) Normalize(maxNotifications int) {
	if s.Assets == nil {
		s.Assets = map[string]Asset{}
	}
	if s.Cooldowns == nil {
		s.Cooldowns = map[string]time.Time{}
	}
	if s.World.Factions == nil {
		s.World.Factions = map[string]Faction{}
	}
	if s.World.Regions == nil {
		s.World.Regions = map[string]Region{}
	}
	for k, f := range s.World.Factions {
		f.Name = k
		f.Standing = Clamp(f.Standing)
		if !f.Allegiance.Validate() {
			f.Allegiance = AllegianceNeutral
		}
		s.World.Factions[k] = f
	}
	for k, r := range s.World.Regions {
		r.Name = k
		r.Stability = Clamp(r.Stability)
		s.World.Regions[k] = r
	}
	s.World.GlobalStability = Clamp(s.World.GlobalStability)
	for k, a := range s.Assets {
		if !a.Status.Validate() {
			a.Status = AssetIdle
		}
		a.Count = max(a.Count, 0)
		s.Assets[k] = a
	}
	// A mission with an unknown status can no longer be credited.
	for i := range s.Missions {
		if !s.Missions[i].Status.Validate() {
			s.Missions[i].Status = MissionCompleted
		}
	}
	events := s.World.Events[:0]
	for _, ev := range s.World.Events {
		if ev.Type.Validate() {
			events = append(events, ev)
		}
	}
	s.World.Events = events
	if s.AgentID == uuid.Nil {
		s.AgentID = uuid.New()
	}
	if s.Level < 1 {
		s.Level = 1
	}
	s.capNotifications(maxNotifications)
}

func (s *GameState) capNotifications(max int) {
	if max > 0 && len(s.Notifications) > max {
		s.Notifications = s.Notifications[:max]
	}
}

// Clone returns a deep copy safe to hand to the renderer.
func (s GameState) Clone() GameState {
	out := s
	out.Assets = make(map[string]Asset, len(s.Assets))
	for k, v := range s.Assets {
		out.Assets[k] = v
	}
	out.Cooldowns = make(map[string]time.Time, len(s.Cooldowns))
	for k, v := range s.Cooldowns {
		out.Cooldowns[k] = v
	}
	out.World.Factions = make(map[string]Faction, len(s.World.Factions))
	for k, v := range s.World.Factions {
		out.World.Factions[k] = v
	}
	out.World.Regions = make(map[string]Region, len(s.World.Regions))
	for k, v := range s.World.Regions {
		v.Events = append([]string(nil), v.Events...)
		out.World.Regions[k] = v
	}
	out.World.Events = append([]GlobalEvent(nil), s.World.Events...)
	out.Missions = append([]Mission(nil), s.Missions...)
	out.Contacts = append([]Contact(nil), s.Contacts...)
	out.Mail = append([]Mail(nil), s.Mail...)
	out.Notifications = append([]Notification(nil), s.Notifications...)
	return out
}
