package store

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/DaanHessen/agency-terminal/internal/engine"
	"github.com/pkg/errors"
)

const snapshotVersion = 1

type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	State   json.RawMessage `json:"state"`
}

func encode(st engine.GameState, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, errors.Wrap(err, "encode state")
	}
	b, err := json.Marshal(envelope{Version: snapshotVersion, SavedAt: now.UTC(), State: raw})
	if err != nil {
		return nil, errors.Wrap(err, "encode envelope")
	}
	return b, nil
}

// decode reads an enveloped or legacy raw payload and merges it over the
// default state, so fields missing from older saves keep their defaults.
func decode(b []byte, now time.Time) (engine.GameState, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return engine.GameState{}, ErrNoSnapshot
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return engine.GameState{}, unreadable(err, "decode envelope")
	}
	payload := b
	if env.Version > 0 && len(env.State) > 0 {
		if env.Version > snapshotVersion {
			return engine.GameState{}, unreadable(errors.Errorf("version %d", env.Version), "unsupported snapshot")
		}
		payload = env.State
	}
	st := engine.NewGameState(now)
	shadow := browserState{GameState: &st, LastMissionTime: browserTime{st.LastMissionTime}}
	if err := json.Unmarshal(payload, &shadow); err != nil {
		return engine.GameState{}, unreadable(err, "decode state")
	}
	st.LastMissionTime = shadow.LastMissionTime.Time
	if shadow.Cooldowns != nil {
		st.Cooldowns = make(map[string]time.Time, len(shadow.Cooldowns))
		for k, v := range shadow.Cooldowns {
			st.Cooldowns[k] = v.Time
		}
	}
	st.Normalize(0)
	return st, nil
}

// browserState overlays the fields the browser build saved as epoch
// milliseconds (Date.now()) rather than timestamps.
type browserState struct {
	*engine.GameState
	LastMissionTime browserTime            `json:"lastMissionTime"`
	Cooldowns       map[string]browserTime `json:"cooldowns"`
}

// browserTime accepts an RFC 3339 string or a number of epoch milliseconds.
// Zero and null mean "never".
type browserTime struct{ time.Time }

func (t *browserTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		return t.Time.UnmarshalJSON(b)
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return errors.Wrap(err, "epoch millis")
	}
	if ms == 0 {
		t.Time = time.Time{}
		return nil
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
