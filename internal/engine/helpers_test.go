package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

// scriptedRand replays fixed draws, repeating the last one when exhausted.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[min(r.fi, len(r.floats)-1)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[min(r.ii, len(r.ints)-1)]
	r.ii++
	return v % n
}

type memPersister struct {
	mu    sync.Mutex
	saves int
	last  GameState
	fail  bool
}

func (p *memPersister) Save(_ context.Context, st GameState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.saves++
	p.last = st.Clone()
	return nil
}

func (p *memPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func newTestCenter(clock Clock) (*NotificationCenter, *cue.Recorder) {
	rec := &cue.Recorder{}
	return NewNotificationCenter(clock, rec, DefaultTuning().BannerDuration, 200), rec
}
