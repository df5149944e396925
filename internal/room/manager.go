package room

import (
	"context"
	"sync"

	"taixiu-game-bot/internal/ledger"
)

// Manager owns one Room per venue. Rooms are created lazily on first
// reference and live for the process lifetime.
type Manager struct {
	cfg      Config
	ledger   ledger.Ledger
	notifier Notifier
	scheme   CommitmentScheme

	mu    sync.Mutex
	rooms map[int64]*Room
}

// NewManager creates a room manager with the default MD5 commitment
// scheme.
func NewManager(cfg Config, l ledger.Ledger, n Notifier) *Manager {
	return &Manager{
		cfg:      cfg,
		ledger:   l,
		notifier: n,
		scheme:   MD5Scheme{},
		rooms:    make(map[int64]*Room),
	}
}

// Room returns the venue's room, creating it if needed.
func (m *Manager) Room(venueID int64) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[venueID]
	if !ok {
		r = NewRoom(venueID, m.cfg, m.ledger, m.notifier, m.scheme)
		m.rooms[venueID] = r
	}
	return r
}

// StartRound starts a new round in the venue's room.
func (m *Manager) StartRound(ctx context.Context, venueID int64) (int64, error) {
	return m.Room(venueID).StartRound(ctx)
}

// PlaceBet places a bet in the venue's room. The category string is
// validated by the room itself.
func (m *Manager) PlaceBet(ctx context.Context, venueID, userID int64, category string, amount int64) (string, error) {
	return m.Room(venueID).PlaceBet(ctx, userID, Category(category), amount)
}

// State returns a read-only snapshot of the venue's room.
func (m *Manager) State(venueID int64) Snapshot {
	return m.Room(venueID).State()
}
