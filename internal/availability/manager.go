package availability

import (
	"context"
	"sync"
	"time"
)

// Manager owns one running Subscriber per hall. A subscriber is
// started lazily when the first watcher shows up and all of them stop
// together when the manager's context is cancelled.
type Manager struct {
	store    Store
	feed     *Feed
	hub      *Hub
	debounce time.Duration
	logf     func(format string, args ...interface{})

	mu      sync.Mutex
	subs    map[int64]*runningSub
	baseCtx context.Context
	cancel  context.CancelFunc
}

type runningSub struct {
	sub    *Subscriber
	cancel context.CancelFunc
}

func NewManager(store Store, feed *Feed, hub *Hub, debounce time.Duration, logf func(format string, args ...interface{})) *Manager {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:    store,
		feed:     feed,
		hub:      hub,
		debounce: debounce,
		logf:     logf,
		subs:     make(map[int64]*runningSub),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

func (m *Manager) Hub() *Hub { return m.hub }

// Ensure starts the hall's subscriber if it is not already running
// and returns it.
func (m *Manager) Ensure(hallID int64) *Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.subs[hallID]; ok {
		return r.sub
	}

	ctx, cancel := context.WithCancel(m.baseCtx)
	sub := NewSubscriber(hallID, m.store, m.hub, m.debounce, m.logf)
	events := m.feed.Subscribe(ctx, hallID)
	go sub.Run(ctx, events)

	m.subs[hallID] = &runningSub{sub: sub, cancel: cancel}
	m.logf("level=info msg=availability subscriber started hall_id=%d", hallID)
	return sub
}

// ReleaseIfIdle stops the hall's subscriber when no websocket clients
// remain. Called after a watcher disconnects so halls nobody is
// looking at stop polling the change feed.
func (m *Manager) ReleaseIfIdle(hallID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hub != nil && m.hub.WatcherCount(hallID) > 0 {
		return
	}
	if r, ok := m.subs[hallID]; ok {
		r.cancel()
		delete(m.subs, hallID)
		m.logf("level=info msg=availability subscriber stopped hall_id=%d", hallID)
	}
}

// Snapshot answers from the running subscriber when it has one and
// falls back to a one-shot fetch-and-reconcile otherwise.
func (m *Manager) Snapshot(ctx context.Context, hallID int64) (*Snapshot, error) {
	m.mu.Lock()
	r, running := m.subs[hallID]
	m.mu.Unlock()

	if running {
		if snap := r.sub.Snapshot(); snap != nil {
			return snap, nil
		}
	}

	cabins, err := m.store.FetchCabins(ctx, hallID)
	if err != nil {
		return nil, err
	}
	bookings, err := m.store.FetchBookings(ctx, cabins)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(hallID, cabins, bookings), nil
}

// Stop cancels every subscriber and closes all websocket clients.
func (m *Manager) Stop() {
	m.cancel()

	m.mu.Lock()
	for hallID, r := range m.subs {
		r.cancel()
		delete(m.subs, hallID)
	}
	m.mu.Unlock()

	if m.hub != nil {
		m.hub.Close()
	}
}
