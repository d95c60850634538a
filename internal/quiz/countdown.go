package quiz

import (
	"context"
	"sync"
	"time"
)

// Countdown drives a session's Tick at a fixed interval from its own
// goroutine. It is the only spontaneous event source a session has, and the
// only actor allowed to force a submit without user confirmation.
//
// The loop stops the instant the session ends by any cause: a tick that
// exhausts the countdown, an explicit Stop after a user submit, or context
// cancellation. A stopped countdown never delivers another tick, so a
// forced submit cannot race a user submit.
type Countdown struct {
	session  *Session
	interval time.Duration
	onExpire func()

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewCountdown creates a countdown for session. onExpire runs once if the
// timer itself ends the session; it does not run for explicit submits.
func NewCountdown(session *Session, interval time.Duration, onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		session:  session,
		interval: interval,
		onExpire: onExpire,
		stopped:  make(chan struct{}),
	}
}

// Run loops until the session ends or the context is cancelled. It is meant
// to be called on its own goroutine.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopped:
			return
		case <-ticker.C:
			ended, err := c.session.Tick()
			if err != nil {
				// Session already ended elsewhere; nothing left to drive.
				c.Stop()
				return
			}
			if ended {
				c.Stop()
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}

// Stop halts the countdown deterministically. Safe to call more than once
// and from any goroutine.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopped)
	})
}
