package room

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"taixiu-game-bot/internal/ledger"
)

// Phase is the lifecycle state of a venue's current round.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAccepting
	PhaseLocked
	PhaseResolved
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccepting:
		return "accepting"
	case PhaseLocked:
		return "locked"
	case PhaseResolved:
		return "resolved"
	}
	return "unknown"
}

// Config holds the room's betting rules and timing.
type Config struct {
	MinBet              int64
	MaxBet              int64
	MultiplierHighLow   float64
	MultiplierEvenOdd   float64
	CountdownSeconds    int
	CooldownSeconds     int
	PotContributionRate float64
	HistoryCapacity     int
	AutoRestart         bool
	PotName             string
}

// BetEntry is one user's wager in the current round. Entries are
// created only after the stake has been debited, consumed exactly once
// by settlement and never mutated.
type BetEntry struct {
	UserID   int64
	Category Category
	Amount   int64
	PlacedAt time.Time
}

// Result is a resolved outcome kept in the venue's history.
type Result struct {
	RoundID    int64
	Dice       [3]int
	Sum        int
	ResolvedAt time.Time
}

// Marker returns the single-letter history marker, T for Tài and X
// for Xỉu.
func (r Result) Marker() string {
	if r.Sum > 10 {
		return "T"
	}
	return "X"
}

// Snapshot is a read-only copy of a room's observable state.
type Snapshot struct {
	Phase      Phase
	RoundID    int64
	Commitment string
	Remaining  int
	Totals     map[Category]int64
	Counts     map[Category]int
	History    []Result
}

// Room is the per-venue betting state machine. All round state is
// guarded by mu; the countdown goroutine and concurrent PlaceBet
// callers serialize through it, so no bet can land after the lock
// transition and the lock cannot fire mid-bet.
type Room struct {
	venueID  int64
	cfg      Config
	ledger   ledger.Ledger
	notifier Notifier
	scheme   CommitmentScheme

	// tickInterval scales the countdown clock. One second in
	// production, shortened by tests.
	tickInterval time.Duration
	roll         func() Outcome

	mu         sync.Mutex
	rnd        *rand.Rand
	phase      Phase
	roundID    int64
	commitment string
	outcome    Outcome
	remaining  int
	bets       map[Category][]BetEntry
	totals     map[Category]int64
	history    []Result
}

// NewRoom creates a room for one venue.
func NewRoom(venueID int64, cfg Config, l ledger.Ledger, n Notifier, scheme CommitmentScheme) *Room {
	if cfg.HistoryCapacity <= 0 {
		cfg.HistoryCapacity = 20
	}
	r := &Room{
		venueID:      venueID,
		cfg:          cfg,
		ledger:       l,
		notifier:     n,
		scheme:       scheme,
		tickInterval: time.Second,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano() ^ venueID)),
		phase:        PhaseIdle,
		bets:         make(map[Category][]BetEntry),
		totals:       make(map[Category]int64),
	}
	r.roll = func() Outcome { return Roll(r.rnd) }
	return r
}

// StartRound begins a new betting round. The outcome is rolled and
// committed before any bet can be placed. Returns ErrRoundInProgress
// if a round is already accepting or locked.
func (r *Room) StartRound(ctx context.Context) (int64, error) {
	r.mu.Lock()
	if r.phase == PhaseAccepting || r.phase == PhaseLocked {
		r.mu.Unlock()
		return 0, ErrRoundInProgress
	}

	roundID := time.Now().UnixMilli()
	if roundID <= r.roundID {
		roundID = r.roundID + 1
	}
	r.roundID = roundID
	r.outcome = r.roll()
	r.commitment = r.scheme.Commit(roundID, r.outcome)
	r.phase = PhaseAccepting
	r.remaining = r.cfg.CountdownSeconds
	r.bets = make(map[Category][]BetEntry)
	r.totals = make(map[Category]int64)
	open := r.statusTextLocked()
	r.mu.Unlock()

	log.Info().
		Int64("venue_id", r.venueID).
		Int64("round_id", roundID).
		Int("countdown", r.cfg.CountdownSeconds).
		Msg("Betting round started")

	r.notifier.PublishStatus(r.venueID, open)
	go r.run(ctx)

	return roundID, nil
}

// PlaceBet validates and records a wager in the current round. The
// stake is debited before the entry is appended; both happen under the
// room mutex so the countdown cannot lock the round mid-bet.
func (r *Room) PlaceBet(ctx context.Context, userID int64, cat Category, amount int64) (string, error) {
	r.mu.Lock()

	if r.phase != PhaseAccepting {
		r.mu.Unlock()
		return "", ErrRoomNotAccepting
	}

	user, err := r.ledger.GetUser(ctx, userID)
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, ledger.ErrUserNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}
	if user.Balance < amount {
		r.mu.Unlock()
		return "", ErrInsufficientBalance
	}
	if amount < r.cfg.MinBet || amount > r.cfg.MaxBet {
		r.mu.Unlock()
		return "", ErrInvalidAmount
	}
	if _, err := ParseCategory(string(cat)); err != nil {
		r.mu.Unlock()
		return "", ErrInvalidCategory
	}

	if _, err := r.ledger.Debit(ctx, userID, amount); err != nil {
		r.mu.Unlock()
		switch {
		case errors.Is(err, ledger.ErrUserNotFound):
			return "", ErrUnknownUser
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return "", ErrInsufficientBalance
		}
		return "", err
	}

	r.bets[cat] = append(r.bets[cat], BetEntry{
		UserID:   userID,
		Category: cat,
		Amount:   amount,
		PlacedAt: time.Now(),
	})
	r.totals[cat] += amount
	status := r.statusTextLocked()
	r.mu.Unlock()

	r.notifier.PublishStatus(r.venueID, status)

	return betConfirmText(cat, amount), nil
}

// State returns a read-only snapshot of the room.
func (r *Room) State() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Phase:      r.phase,
		RoundID:    r.roundID,
		Commitment: r.commitment,
		Remaining:  r.remaining,
		Totals:     make(map[Category]int64, len(r.totals)),
		Counts:     make(map[Category]int, len(r.bets)),
		History:    make([]Result, len(r.history)),
	}
	for c, t := range r.totals {
		snap.Totals[c] = t
	}
	for c, entries := range r.bets {
		snap.Counts[c] = len(entries)
	}
	copy(snap.History, r.history)
	return snap
}

// run drives the countdown for one round, then resolves and cools
// down. It exits when the context is cancelled.
func (r *Room) run(ctx context.Context) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if r.dispatch(r.tick()) {
			break
		}
	}

	r.resolve(ctx)
	r.coolDown(ctx)
}

type eventKind int

const (
	eventWarning eventKind = iota
	eventStatus
	eventLock
)

type event struct {
	kind      eventKind
	remaining int
}

// tick advances the countdown by one second and returns the events to
// emit. It only mutates state under the mutex and performs no I/O, so
// the transition logic is testable without a timer or transport.
func (r *Room) tick() []event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseAccepting {
		return nil
	}
	r.remaining--

	var events []event
	switch r.remaining {
	case 30, 10:
		events = append(events, event{eventWarning, r.remaining})
	}
	if r.remaining <= 0 {
		r.phase = PhaseLocked
		return append(events, event{eventLock, 0})
	}
	if r.remaining%5 == 0 || r.remaining <= 10 {
		events = append(events, event{eventStatus, r.remaining})
	}
	return events
}

// dispatch performs the side effects for tick events. Returns true
// once the round has locked.
func (r *Room) dispatch(events []event) bool {
	locked := false
	for _, ev := range events {
		switch ev.kind {
		case eventWarning:
			r.notifier.Announce(r.venueID, warningText(ev.remaining))
		case eventStatus:
			r.notifier.PublishStatus(r.venueID, r.statusText())
		case eventLock:
			locked = true
		}
	}
	return locked
}

// resolve reveals the pre-rolled outcome, records it in history and
// settles every bet. Settlement runs outside the mutex against an
// immutable snapshot of the entries.
func (r *Room) resolve(ctx context.Context) {
	r.mu.Lock()
	if r.phase != PhaseLocked {
		r.mu.Unlock()
		return
	}
	r.phase = PhaseResolved
	roundID := r.roundID
	outcome := r.outcome
	commitment := r.commitment

	// FIFO within each category, categories in fixed display order.
	var entries []BetEntry
	for _, c := range categories {
		entries = append(entries, r.bets[c]...)
	}

	r.history = append([]Result{{
		RoundID:    roundID,
		Dice:       outcome.Dice,
		Sum:        outcome.Sum,
		ResolvedAt: time.Now(),
	}}, r.history...)
	if len(r.history) > r.cfg.HistoryCapacity {
		r.history = r.history[:r.cfg.HistoryCapacity]
	}
	r.mu.Unlock()

	r.notifier.Announce(r.venueID, lockText())

	summary := r.settle(ctx, roundID, outcome, entries)

	log.Info().
		Int64("venue_id", r.venueID).
		Int64("round_id", roundID).
		Str("outcome", outcome.String()).
		Int("winners", summary.winners).
		Int("losers", summary.losers).
		Int64("paid", summary.paid).
		Int64("pot_added", summary.potAdded).
		Int("errors", summary.errors).
		Msg("Round resolved")

	r.notifier.Announce(r.venueID, resultText(roundID, outcome, commitment, summary))
}

// coolDown waits the configured delay after a round, then either
// starts the next round automatically or returns to idle and prompts
// for a manual start.
func (r *Room) coolDown(ctx context.Context) {
	delay := time.Duration(r.cfg.CooldownSeconds) * r.tickInterval
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if r.cfg.AutoRestart {
		if _, err := r.StartRound(ctx); err != nil {
			log.Error().Err(err).Int64("venue_id", r.venueID).Msg("Failed to auto-start next round")
		}
		return
	}

	r.mu.Lock()
	if r.phase == PhaseResolved {
		r.phase = PhaseIdle
	}
	r.mu.Unlock()

	r.notifier.PromptNewRound(r.venueID, promptNewRoundText())
}

// statusText renders the status panel from a fresh snapshot.
func (r *Room) statusText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusTextLocked()
}
