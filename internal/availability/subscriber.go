package availability

import (
	"context"
	"sync"
	"time"
)

// Store fetches the hall's cabins and then their bookings as two
// sequential queries. Two queries rather than one join: the cabin
// list is also needed to map booking rows back to layout position
// ids, and the pair keeps each query trivial.
type Store interface {
	FetchCabins(ctx context.Context, hallID int64) ([]CabinRef, error)
	FetchBookings(ctx context.Context, cabins []CabinRef) ([]BookingRecord, error)
}

// Broadcaster receives each fresh snapshot; in production this is the
// websocket Hub.
type Broadcaster interface {
	Broadcast(hallID int64, payload interface{})
}

const DefaultDebounce = 250 * time.Millisecond

// Subscriber watches one hall's booking change feed and re-runs the
// fetch-and-reconcile sequence after each event. Rapid-fire events
// coalesce: the refresh is scheduled on the trailing edge of a
// debounce window, so a burst costs one pass, not one per event.
type Subscriber struct {
	hallID   int64
	store    Store
	hub      Broadcaster
	debounce time.Duration
	logf     func(format string, args ...interface{})

	mu    sync.Mutex
	timer *time.Timer
	last  *Snapshot
}

func NewSubscriber(hallID int64, store Store, hub Broadcaster, debounce time.Duration, logf func(format string, args ...interface{})) *Subscriber {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Subscriber{
		hallID:   hallID,
		store:    store,
		hub:      hub,
		debounce: debounce,
		logf:     logf,
	}
}

// Run refreshes once immediately, then consumes events until ctx is
// cancelled. It blocks; callers run it in a goroutine.
func (s *Subscriber) Run(ctx context.Context, events <-chan Event) {
	s.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			s.stopTimer()
			return
		case _, ok := <-events:
			if !ok {
				s.stopTimer()
				return
			}
			s.schedule(ctx)
		}
	}
}

// schedule arms (or re-arms) the trailing-edge debounce timer.
func (s *Subscriber) schedule(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		s.refresh(ctx)
	})
}

func (s *Subscriber) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// refresh runs the two-step fetch and reconciles. On fetch failure the
// previous snapshot is kept; stale-but-available beats a hard failure
// here, and the next change event retries naturally.
func (s *Subscriber) refresh(ctx context.Context) {
	cabins, err := s.store.FetchCabins(ctx, s.hallID)
	if err != nil {
		s.logf("level=error msg=cabin fetch failed hall_id=%d err=%v", s.hallID, err)
		return
	}

	bookings, err := s.store.FetchBookings(ctx, cabins)
	if err != nil {
		s.logf("level=error msg=booking fetch failed hall_id=%d err=%v", s.hallID, err)
		return
	}

	snap := NewSnapshot(s.hallID, cabins, bookings)

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if ctx.Err() != nil {
		// Cancelled mid-fetch; discard instead of broadcasting.
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(s.hallID, snap)
	}
}

// Snapshot returns the last reconciled state, or nil before the first
// successful refresh.
func (s *Subscriber) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
