package engine

import (
	"context"
	"testing"
	"time"
)

func TestLoopTicksUntilStopped(t *testing.T) {
	p := &memPersister{}
	tuning := DefaultTuning()
	tuning.WorldInterval = 5 * time.Millisecond
	tuning.MissionPoll = 5 * time.Millisecond
	s := NewSession(NewGameState(epoch), WithPersister(p), WithTuning(tuning), WithLogger(quietLogger()))
	l := NewLoop(s, quietLogger())

	done := make(chan struct{})
	go func() {
		l.Start(context.Background())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("loop did not tick, saves=%d", p.count())
		case <-time.After(5 * time.Millisecond):
		}
	}
	l.Stop()
	l.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop did not stop")
	}
}

func TestLoopStopsOnContext(t *testing.T) {
	s := NewSession(NewGameState(epoch), WithLogger(quietLogger()))
	l := NewLoop(s, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop ignored context cancellation")
	}
}
