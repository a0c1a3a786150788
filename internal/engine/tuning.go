package engine

import "time"

// Tuning holds the cadences and probabilities of the simulation. Zero fields
// fall back to DefaultTuning when passed through WithDefaults.
type Tuning struct {
	WorldInterval    time.Duration `yaml:"world_interval" json:"world_interval"`
	MissionPoll      time.Duration `yaml:"mission_poll" json:"mission_poll"`
	MissionGate      time.Duration `yaml:"mission_gate" json:"mission_gate"`
	EventChance      float64       `yaml:"event_chance" json:"event_chance"`
	DecayFaction     string        `yaml:"decay_faction" json:"decay_faction"`
	DecayAmount      float64       `yaml:"decay_amount" json:"decay_amount"`
	BannerDuration   time.Duration `yaml:"banner_duration" json:"banner_duration"`
	ThinkDelay       time.Duration `yaml:"think_delay" json:"think_delay"`
	MaxNotifications int           `yaml:"max_notifications" json:"max_notifications"`
}

func DefaultTuning() Tuning {
	return Tuning{
		WorldInterval:    5 * time.Second,
		MissionPoll:      time.Second,
		MissionGate:      30 * time.Second,
		EventChance:      0.1,
		DecayFaction:     FactionRedHand,
		DecayAmount:      -0.1,
		BannerDuration:   5 * time.Second,
		ThinkDelay:       1500 * time.Millisecond,
		MaxNotifications: 200,
	}
}

// WithDefaults replaces zero or out-of-range fields with DefaultTuning values.
// A zero EventChance or DecayAmount therefore means "default", not "disabled".
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	if t.WorldInterval <= 0 {
		t.WorldInterval = d.WorldInterval
	}
	if t.MissionPoll <= 0 {
		t.MissionPoll = d.MissionPoll
	}
	if t.MissionGate <= 0 {
		t.MissionGate = d.MissionGate
	}
	if t.EventChance <= 0 || t.EventChance > 1 {
		t.EventChance = d.EventChance
	}
	if t.DecayFaction == "" {
		t.DecayFaction = d.DecayFaction
	}
	if t.DecayAmount == 0 {
		t.DecayAmount = d.DecayAmount
	}
	if t.BannerDuration <= 0 {
		t.BannerDuration = d.BannerDuration
	}
	if t.ThinkDelay <= 0 {
		t.ThinkDelay = d.ThinkDelay
	}
	if t.MaxNotifications <= 0 {
		t.MaxNotifications = d.MaxNotifications
	}
	return t
}
