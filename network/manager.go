package network

import (
	"sync"

	"wormz_server/logic"
)

// Manager is the room registry, partitioned by stake tier. It is an owned
// value constructed in main, not process-global state.
type Manager struct {
	mu    sync.RWMutex
	tiers map[float64][]*Room
	cfg   *logic.GameConfig
	sink  logic.SettlementSink
}

func NewManager(cfg *logic.GameConfig, sink logic.SettlementSink) *Manager {
	return &Manager{
		tiers: make(map[float64][]*Room),
		cfg:   cfg,
		sink:  sink,
	}
}

// AcquireRoom returns the first room in the tier that still has space and
// has not started, creating a fresh one otherwise. It never fails: capacity
// is created lazily. Started rooms are never selected, which keeps a clean
// boundary between forming and in-progress games.
func (m *Manager) AcquireRoom(stake float64) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.tiers[stake] {
		if r.Joinable() {
			return r
		}
	}

	r := NewRoom(stake, m.cfg, m.sink)
	m.tiers[stake] = append(m.tiers[stake], r)
	go r.Run()
	return r
}

// RoomCount reports the total number of registered rooms. Rooms are never
// reclaimed once created; empty ones just stop being selected.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, rooms := range m.tiers {
		n += len(rooms)
	}
	return n
}

// Shutdown stops every room loop. Used on process exit and in tests.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rooms := range m.tiers {
		for _, r := range rooms {
			r.Stop()
		}
	}
}
