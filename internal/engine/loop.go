package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop drives a Session from wall-clock tickers when no UI is attached.
// It only knows cadences; the Session decides what a tick does.
type Loop struct {
	session *Session
	logger  *slog.Logger
	stop    chan struct{}
	once    sync.Once
}

func NewLoop(s *Session, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{session: s, logger: logger.With("component", "loop"), stop: make(chan struct{})}
}

// Start blocks until ctx is done or Stop is called. Call in a goroutine.
func (l *Loop) Start(ctx context.Context) {
	t := l.session.Tuning()
	l.logger.Info("loop started", "world_interval", t.WorldInterval, "mission_poll", t.MissionPoll)

	world := time.NewTicker(t.WorldInterval)
	defer world.Stop()
	poll := time.NewTicker(t.MissionPoll)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped by context")
			return
		case <-l.stop:
			l.logger.Info("loop stopped")
			return
		case <-world.C:
			l.session.TickWorld(ctx)
		case <-poll.C:
			l.session.PollMissions(ctx)
		}
	}
}

// Stop ends Start. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}
