package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

// Persister receives a full snapshot after every mutation.
type Persister interface {
	Save(ctx context.Context, st GameState) error
}

// Observer is told about simulation activity; the metrics package implements it.
type Observer interface {
	WorldTicked(ev *GlobalEvent)
	MissionGenerated(m Mission)
	MissionCompleted(m Mission)
	Notified(n Notification)
	Saved(err error)
	StateChanged(st *GameState)
}

type nopObserver struct{}

func (nopObserver) WorldTicked(*GlobalEvent) {}
func (nopObserver) MissionGenerated(Mission) {}
func (nopObserver) MissionCompleted(Mission) {}
func (nopObserver) Notified(Notification)    {}
func (nopObserver) Saved(error)              {}
func (nopObserver) StateChanged(*GameState)  {}

// Session owns the GameState and is its single writer. Every entry point holds
// the lock for its whole run, so ticks, completions and queries never interleave.
type Session struct {
	mu       sync.Mutex
	state    GameState
	clock    Clock
	seed     Seed
	tuning   Tuning
	cues     cue.Player
	store    Persister
	observer Observer
	logger   *slog.Logger

	notes    *NotificationCenter
	world    *WorldSimulator
	missions *MissionGenerator
}

type Option func(*Session)

func WithClock(c Clock) Option         { return func(s *Session) { s.clock = c } }
func WithSeed(seed Seed) Option        { return func(s *Session) { s.seed = seed } }
func WithTuning(t Tuning) Option       { return func(s *Session) { s.tuning = t } }
func WithCues(p cue.Player) Option     { return func(s *Session) { s.cues = p } }
func WithPersister(p Persister) Option { return func(s *Session) { s.store = p } }
func WithObserver(o Observer) Option   { return func(s *Session) { s.observer = o } }
func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = l } }

// NewSession takes ownership of st.
func NewSession(st GameState, opts ...Option) *Session {
	s := &Session{state: st}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = RealClock{}
	}
	if s.seed.Text == "" {
		s.seed, _ = NewSeed(fmt.Sprintf("session-%d", s.clock.Now().UnixNano()))
	}
	s.tuning = s.tuning.WithDefaults()
	s.cues = cue.Safe(s.cues)
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "session")
	s.state.Normalize(s.tuning.MaxNotifications)

	s.notes = NewNotificationCenter(s.clock, s.cues, s.tuning.BannerDuration, s.tuning.MaxNotifications)
	s.notes.Subscribe(s.observer.Notified)
	s.world = NewWorldSimulator(s.seed.Stream("world"), s.notes, s.tuning)
	s.missions = NewMissionGenerator(s.seed.Stream("missions"), s.notes, s.cues, s.tuning)
	return s
}

func (s *Session) Tuning() Tuning { return s.tuning }
func (s *Session) Seed() Seed     { return s.seed }

// Subscribe forwards every stored notification to fn. See NotificationCenter.Subscribe.
func (s *Session) Subscribe(fn func(Notification)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.Subscribe(fn)
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Banner returns the live critical banner, if any.
func (s *Session) Banner() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Banner(s.clock.Now())
}

// TickWorld runs one WorldSimulator tick and persists. It returns the event
// raised during the tick, or nil.
func (s *Session) TickWorld(ctx context.Context) *GlobalEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.world.Tick(&s.state, s.clock.Now())
	if ev != nil {
		s.logger.Info("global event", "event", string(ev.Type), "critical", ev.Critical)
	}
	s.observer.WorldTicked(ev)
	s.persistLocked(ctx)
	return ev
}

// PollMissions asks the generator for a mission and persists when one was made.
func (s *Session) PollMissions(ctx context.Context) (Mission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions.Poll(&s.state, s.clock.Now())
	if !ok {
		return Mission{}, false
	}
	s.logger.Info("mission generated", "mission", m.ID, "location", m.Location, "reward", m.Reward)
	s.observer.MissionGenerated(m)
	s.persistLocked(ctx)
	return m, true
}

// CompleteMission credits mission id once; see MissionGenerator.Complete.
func (s *Session) CompleteMission(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.missions.Complete(&s.state, id) {
		s.logger.Debug("completion ignored", "mission", id)
		return false
	}
	m, _ := s.state.Mission(id)
	s.logger.Info("mission completed", "mission", id, "reward", m.Reward)
	s.observer.MissionCompleted(m)
	s.persistLocked(ctx)
	return true
}

// Respond answers an assistant query against the current state without mutating it.
func (s *Session) Respond(query string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Respond(query, &s.state)
}

// Login marks the agent as authenticated and persists.
func (s *Session) Login(ctx context.Context) {
	s.setLoggedIn(ctx, true)
	s.cues.Play(cue.LoginSuccess)
}

// Logout clears the authenticated flag and persists.
func (s *Session) Logout(ctx context.Context) { s.setLoggedIn(ctx, false) }

func (s *Session) setLoggedIn(ctx context.Context, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoggedIn = v
	s.persistLocked(ctx)
}

// Save persists the current state immediately.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Save(ctx, s.state)
	s.observer.Saved(err)
	return err
}

func (s *Session) persistLocked(ctx context.Context) {
	s.observer.StateChanged(&s.state)
	if s.store == nil {
		return
	}
	err := s.store.Save(ctx, s.state)
	s.observer.Saved(err)
	if err != nil {
		s.logger.Warn("save failed", "error", err)
	}
}
