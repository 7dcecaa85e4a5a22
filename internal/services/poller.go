package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/klearport/customs-console/internal/database"
	"github.com/klearport/customs-console/internal/models"
)

const (
	pollInterval    = 15 * time.Second
	maxPollAttempts = 60
)

// watcher is one live polling goroutine. The generation distinguishes a
// watcher from its replacement after Watch reuses a session ID.
type watcher struct {
	gen    uint64
	cancel context.CancelFunc
}

// Poller watches submitted extraction jobs and moves their sessions to ready
// or failed. One watcher per session; every exit path (result, failure,
// attempt ceiling, Stop, Shutdown) converges on the watcher's context cancel,
// so there is never more than one outstanding timer per session.
type Poller struct {
	db     *database.DB
	client *ExtractionClient

	mu       sync.Mutex
	nextGen  uint64
	watchers map[int]watcher
}

// NewPoller creates a poller backed by the given extraction client
func NewPoller(db *database.DB, client *ExtractionClient) *Poller {
	return &Poller{
		db:       db,
		client:   client,
		watchers: make(map[int]watcher),
	}
}

// Watch starts polling for a session's job result. startAttempt carries the
// persisted counter across restarts so the 60-attempt ceiling holds globally.
// Watching a session that already has a watcher replaces the old one.
func (p *Poller) Watch(sessionID int, jobID string, startAttempt int) {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	if old, ok := p.watchers[sessionID]; ok {
		old.cancel()
	}
	p.nextGen++
	gen := p.nextGen
	p.watchers[sessionID] = watcher{gen: gen, cancel: cancel}
	p.mu.Unlock()

	go p.run(ctx, gen, sessionID, jobID, startAttempt)
}

// Stop cancels the watcher for a session, if any
func (p *Poller) Stop(sessionID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.watchers[sessionID]; ok {
		w.cancel()
		delete(p.watchers, sessionID)
	}
}

// stopIf removes a session's watcher only if it is still the given
// generation. A replaced run exiting late must not tear down its replacement.
func (p *Poller) stopIf(sessionID int, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.watchers[sessionID]; ok && w.gen == gen {
		w.cancel()
		delete(p.watchers, sessionID)
	}
}

// Shutdown cancels all watchers
func (p *Poller) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, w := range p.watchers {
		w.cancel()
		delete(p.watchers, id)
	}
}

// Resume restarts watchers for sessions left in processing, e.g. after a
// server restart.
func (p *Poller) Resume(ctx context.Context) error {
	sessions, err := p.db.ListStuckSessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if s.JobID == nil {
			continue
		}
		p.Watch(s.ID, *s.JobID, s.PollAttempts)
	}
	if len(sessions) > 0 {
		log.Printf("Resumed polling for %d in-flight session(s)", len(sessions))
	}
	return nil
}

func (p *Poller) run(ctx context.Context, gen uint64, sessionID int, jobID string, attempt int) {
	defer p.stopIf(sessionID, gen)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		attempt++
		if err := p.db.SetSessionPollAttempts(ctx, sessionID, attempt); err != nil {
			log.Printf("Warning: failed to persist poll attempt for session %d: %v", sessionID, err)
		}

		result, err := p.client.FetchResult(ctx, jobID)
		if err == nil {
			p.finish(sessionID, result)
			return
		}
		if errors.Is(err, ErrJobPending) {
			if attempt >= maxPollAttempts {
				p.fail(sessionID, "extraction timed out, please try re-uploading the document")
				return
			}
			continue
		}
		if errors.Is(err, ErrJobFailed) {
			p.fail(sessionID, err.Error())
			return
		}

		// Transient transport errors count against the ceiling but do not
		// fail the session on their own.
		log.Printf("Warning: poll error for session %d (attempt %d): %v", sessionID, attempt, err)
		if attempt >= maxPollAttempts {
			p.fail(sessionID, "extraction backend unreachable")
			return
		}
	}
}

func (p *Poller) finish(sessionID int, result *ExtractionResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payload := result.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("[]")
	}
	if err := p.db.SetSessionResult(ctx, sessionID, payload, result.TemplateType, result.OutputFormatName); err != nil {
		log.Printf("Warning: failed to store result for session %d: %v", sessionID, err)
		return
	}
	log.Printf("Session %d ready (template %s)", sessionID, result.TemplateType)
}

func (p *Poller) fail(sessionID int, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.db.UpdateSessionStatus(ctx, sessionID, models.SessionStatusFailed, &message); err != nil {
		log.Printf("Warning: failed to mark session %d failed: %v", sessionID, err)
	}
}
