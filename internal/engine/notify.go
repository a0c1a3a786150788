package engine

import (
	"time"

	"github.com/DaanHessen/agency-terminal/internal/cue"
)

// NotificationCenter prepends notifications to the state and drives the
// side effects: the standard cue for every entry, and for critical ones a
// distinct cue plus a banner that hides itself after BannerDuration.
type NotificationCenter struct {
	clock       Clock
	cues        cue.Player
	duration    time.Duration
	max         int
	banner      string
	bannerUntil time.Time
	subscribers []func(Notification)
}

func NewNotificationCenter(clock Clock, cues cue.Player, bannerDuration time.Duration, max int) *NotificationCenter {
	if clock == nil {
		clock = RealClock{}
	}
	return &NotificationCenter{clock: clock, cues: cue.Safe(cues), duration: bannerDuration, max: max}
}

// Subscribe registers fn to be called after each notification is stored.
// Subscribers run on the caller's goroutine while the Session lock is held and
// must not call back into the Session.
func (c *NotificationCenter) Subscribe(fn func(Notification)) {
	if fn != nil {
		c.subscribers = append(c.subscribers, fn)
	}
}

// Add stores n at the head of the list. Missing fields stay blank.
func (c *NotificationCenter) Add(st *GameState, n Notification) {
	now := c.clock.Now()
	if n.At.IsZero() {
		n.At = now
	}
	st.Notifications = append([]Notification{n}, st.Notifications...)
	st.capNotifications(c.max)
	c.cues.Play(cue.Notification)
	if n.Critical {
		c.banner = "CRITICAL ALERT: " + n.Text
		c.bannerUntil = now.Add(c.duration)
		c.cues.Play(cue.AlertCritical)
	}
	for _, fn := range c.subscribers {
		fn(n)
	}
}

// Banner reports the critical banner text while it is still visible at now.
func (c *NotificationCenter) Banner(now time.Time) (string, bool) {
	if c.banner == "" || !now.Before(c.bannerUntil) {
		return "", false
	}
	return c.banner, true
}
