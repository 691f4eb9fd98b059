package service

import (
	"sync"
	"time"
)

// Timer is a cancellation handle for a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it.
	Stop() bool
}

// Scheduler runs callbacks after a delay or at a fixed interval.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// ClockScheduler schedules callbacks on the wall clock.
type ClockScheduler struct{}

// NewClockScheduler creates a scheduler backed by the time package.
func NewClockScheduler() *ClockScheduler {
	return &ClockScheduler{}
}

// After runs fn once in its own goroutine after d.
func (ClockScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn every d until the returned timer is stopped.
func (ClockScheduler) Every(d time.Duration, fn func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(fn)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) loop(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
