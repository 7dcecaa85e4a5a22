package services

import (
	"context"
	"testing"
	"time"
)

// Resume surfaces listing failures to the caller instead of only logging.
var _ func(context.Context) error = (*Poller)(nil).Resume

func (p *Poller) hasWatcher(sessionID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.watchers[sessionID]
	return ok
}

func TestWatchReplacementSurvivesOldWatcher(t *testing.T) {
	p := NewPoller(nil, nil)
	defer p.Shutdown()

	p.Watch(1, "job-a", 0)
	p.Watch(1, "job-b", 0)

	// Give the replaced goroutine time to wake on its cancelled context and
	// run its deferred cleanup. The replacement must still be registered.
	time.Sleep(50 * time.Millisecond)

	if !p.hasWatcher(1) {
		t.Fatal("replacement watcher was removed when the replaced run exited")
	}
}

func TestStopRemovesWatcher(t *testing.T) {
	p := NewPoller(nil, nil)
	defer p.Shutdown()

	p.Watch(7, "job-a", 0)
	if !p.hasWatcher(7) {
		t.Fatal("watcher not registered")
	}

	p.Stop(7)
	if p.hasWatcher(7) {
		t.Fatal("watcher still registered after Stop")
	}

	// Stopping an unknown session is a no-op.
	p.Stop(99)
}

func TestShutdownCancelsAllWatchers(t *testing.T) {
	p := NewPoller(nil, nil)

	p.Watch(1, "job-a", 0)
	p.Watch(2, "job-b", 0)

	p.Shutdown()

	if p.hasWatcher(1) || p.hasWatcher(2) {
		t.Fatal("watchers remain after Shutdown")
	}
}
