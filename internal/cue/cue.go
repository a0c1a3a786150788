// Package cue plays named feedback cues. Playback is fire-and-forget: a Player
// never returns an error and a failing backend must not disturb the game.
package cue

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Name identifies a cue.
type Name string

const (
	Click           Name = "click"
	LoginSuccess    Name = "login-success"
	Notification    Name = "notification"
	AlertCritical   Name = "alert-critical"
	MissionComplete Name = "mission-complete"
)

type Player interface {
	Play(Name)
}

// Mute discards every cue.
type Mute struct{}

func (Mute) Play(Name) {}

// Bell rings the terminal bell. Critical alerts ring twice; clicks are silent.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell { return &Bell{w: w} }

func (b *Bell) Play(n Name) {
	rings := 0
	switch n {
	case Notification, LoginSuccess, MissionComplete:
		rings = 1
	case AlertCritical:
		rings = 2
	}
	if rings == 0 || b.w == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, strings.Repeat("\a", rings))
}

// Log records cues at debug level.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Play(n Name) {
	lg := l.Logger
	if lg == nil {
		lg = slog.Default()
	}
	lg.Debug("cue", "component", "cue", "name", string(n))
}

// Multi fans a cue out to several players.
type Multi []Player

func (m Multi) Play(n Name) {
	for _, p := range m {
		Safe(p).Play(n)
	}
}

type safe struct{ p Player }

// Safe wraps p so that a panicking backend is swallowed.
func Safe(p Player) Player {
	if p == nil {
		return Mute{}
	}
	if s, ok := p.(safe); ok {
		return s
	}
	return safe{p: p}
}

func (s safe) Play(n Name) {
	defer func() { _ = recover() }()
	s.p.Play(n)
}

// Recorder keeps the played cues in order; handy for tests and replays.
type Recorder struct {
	mu     sync.Mutex
	Played []Name
}

func (r *Recorder) Play(n Name) {
	r.mu.Lock()
	r.Played = append(r.Played, n)
	r.mu.Unlock()
}

// Names returns a copy of the cues played so far.
func (r *Recorder) Names() []Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Name(nil), r.Played...)
}
