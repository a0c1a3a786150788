package cue

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type panicky struct{}

func (panicky) Play(Name) { panic("speaker unplugged") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestBellRings(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	b.Play(Click)
	assert.Equal(t, "", buf.String())
	b.Play(Notification)
	b.Play(AlertCritical)
	assert.Equal(t, "\a\a\a", buf.String())
}

func TestFailuresAreSwallowed(t *testing.T) {
	rec := &Recorder{}
	m := Multi{panicky{}, NewBell(failingWriter{}), rec}
	assert.NotPanics(t, func() { m.Play(AlertCritical) })
	assert.Equal(t, []Name{AlertCritical}, rec.Names())
	assert.NotPanics(t, func() { Safe(nil).Play(Click) })
}
