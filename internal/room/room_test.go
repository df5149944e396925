package room

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"taixiu-game-bot/internal/ledger"
	"taixiu-game-bot/internal/model"
)

// fakeLedger is an in-memory Ledger for room tests.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[int64]int64
	debited  int64
	credited map[int64]int64
	pots     map[string]int64

	// failCreditFor makes Credit fail for specific users, to test
	// settlement failure containment.
	failCreditFor map[int64]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances:      make(map[int64]int64),
		credited:      make(map[int64]int64),
		pots:          make(map[string]int64),
		failCreditFor: make(map[int64]bool),
	}
}

func (f *fakeLedger) addUser(id, balance int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[id] = balance
}

func (f *fakeLedger) balance(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[id]
}

func (f *fakeLedger) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[userID]
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	return &model.User{TelegramID: userID, Balance: bal}, nil
}

func (f *fakeLedger) Debit(ctx context.Context, userID int64, amount int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bal, ok := f.balances[userID]
	if !ok {
		return nil, ledger.ErrUserNotFound
	}
	if bal < amount {
		return nil, ledger.ErrInsufficientBalance
	}
	f.balances[userID] = bal - amount
	f.debited += amount
	return &model.User{TelegramID: userID, Balance: f.balances[userID]}, nil
}

func (f *fakeLedger) Credit(ctx context.Context, userID int64, amount int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreditFor[userID] {
		return nil, fmt.Errorf("credit refused for user %d", userID)
	}
	if _, ok := f.balances[userID]; !ok {
		return nil, ledger.ErrUserNotFound
	}
	f.balances[userID] += amount
	f.credited[userID] += amount
	return &model.User{TelegramID: userID, Balance: f.balances[userID]}, nil
}

func (f *fakeLedger) RecordTransaction(ctx context.Context, userID int64, amount int64, txType string, description string) error {
	return nil
}

func (f *fakeLedger) AddToPot(ctx context.Context, name string, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pots[name] += amount
	return f.pots[name], nil
}

func (f *fakeLedger) GetPots(ctx context.Context) ([]*model.Pot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pots := make([]*model.Pot, 0, len(f.pots))
	for name, amount := range f.pots {
		pots = append(pots, &model.Pot{Name: name, Amount: amount})
	}
	return pots, nil
}

// fakeNotifier records deliveries without any transport.
type fakeNotifier struct {
	mu       sync.Mutex
	statuses []string
	announce []string
	prompts  []string
	personal map[int64][]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{personal: make(map[int64][]string)}
}

func (f *fakeNotifier) PublishStatus(venueID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, text)
}

func (f *fakeNotifier) Announce(venueID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announce = append(f.announce, text)
}

func (f *fakeNotifier) PromptNewRound(venueID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, text)
}

func (f *fakeNotifier) NotifyUser(userID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.personal[userID] = append(f.personal[userID], text)
}

func (f *fakeNotifier) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func testConfig() Config {
	return Config{
		MinBet:              5000,
		MaxBet:              1000000,
		MultiplierHighLow:   1.95,
		MultiplierEvenOdd:   1.90,
		CountdownSeconds:    3,
		CooldownSeconds:     1,
		PotContributionRate: 0.05,
		HistoryCapacity:     20,
		AutoRestart:         false,
		PotName:             "taixiu",
	}
}

func newTestRoom(l ledger.Ledger, n Notifier) *Room {
	r := NewRoom(1, testConfig(), l, n, MD5Scheme{})
	r.tickInterval = 2 * time.Millisecond
	return r
}

// TestRoundEndToEnd runs a full round: A bets 10000 on tai, B bets
// 20000 on xiu, the dice come up 4-4-4 (sum 12, Tài). A is paid
// floor(10000*1.95), B's stake feeds the pot.
func TestRoundEndToEnd(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(100, 100000)
	ldg.addUser(200, 50000)
	notif := newFakeNotifier()

	r := newTestRoom(ldg, notif)
	r.roll = func() Outcome { return Outcome{Dice: [3]int{4, 4, 4}, Sum: 12} }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	roundID, err := r.StartRound(ctx)
	require.NoError(t, err)
	assert.NotZero(t, roundID)

	// A second start while accepting must be rejected.
	_, err = r.StartRound(ctx)
	assert.ErrorIs(t, err, ErrRoundInProgress)

	confirmation, err := r.PlaceBet(ctx, 100, CategoryTai, 10000)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation)

	_, err = r.PlaceBet(ctx, 200, CategoryXiu, 20000)
	require.NoError(t, err)

	// Stakes leave the balance at placement.
	assert.Equal(t, int64(90000), ldg.balance(100))
	assert.Equal(t, int64(30000), ldg.balance(200))

	require.Eventually(t, func() bool {
		return r.State().Phase == PhaseIdle
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, int64(109500), ldg.balance(100))
	assert.Equal(t, int64(30000), ldg.balance(200))

	ldg.mu.Lock()
	assert.Equal(t, int64(1000), ldg.pots["taixiu"])
	assert.Equal(t, int64(30000), ldg.debited)
	ldg.mu.Unlock()

	snap := r.State()
	require.Len(t, snap.History, 1)
	assert.Equal(t, roundID, snap.History[0].RoundID)
	assert.Equal(t, 12, snap.History[0].Sum)
	assert.Equal(t, "T", snap.History[0].Marker())

	// Without auto restart the room prompts for a manual start.
	assert.Equal(t, 1, notif.promptCount())
}

func TestPlaceBetValidation(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(1, 100000)
	ldg.addUser(2, 1000)

	r := newTestRoom(ldg, newFakeNotifier())
	r.phase = PhaseAccepting
	r.remaining = 60
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		cat     Category
		amount  int64
		wantErr error
	}{
		{"unknown user", 999, CategoryTai, 10000, ErrUnknownUser},
		{"insufficient balance", 2, CategoryTai, 2000000, ErrInsufficientBalance},
		{"below min bet", 1, CategoryTai, 1000, ErrInvalidAmount},
		{"above max bet", 1, CategoryTai, 2000000, ErrInvalidAmount},
		{"bad category", 1, Category("high"), 10000, ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.PlaceBet(ctx, tt.userID, tt.cat, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Every rejection left the round and the balances untouched.
	snap := r.State()
	for _, c := range categories {
		assert.Zero(t, snap.Totals[c])
		assert.Zero(t, snap.Counts[c])
	}
	assert.Equal(t, int64(100000), ldg.balance(1))
	assert.Equal(t, int64(1000), ldg.balance(2))
}

func TestPlaceBetRejectedOutsideAccepting(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(1, 100000)
	r := newTestRoom(ldg, newFakeNotifier())
	ctx := context.Background()

	for _, phase := range []Phase{PhaseIdle, PhaseLocked, PhaseResolved} {
		r.phase = phase
		_, err := r.PlaceBet(ctx, 1, CategoryTai, 10000)
		assert.ErrorIs(t, err, ErrRoomNotAccepting, "phase %s", phase)
	}
	assert.Equal(t, int64(100000), ldg.balance(1))
}

func TestTickMilestones(t *testing.T) {
	r := newTestRoom(newFakeLedger(), newFakeNotifier())
	r.phase = PhaseAccepting

	kinds := func(events []event) []eventKind {
		out := make([]eventKind, len(events))
		for i, ev := range events {
			out[i] = ev.kind
		}
		return out
	}

	// 31 -> 30: warning milestone plus a status refresh.
	r.remaining = 31
	assert.Equal(t, []eventKind{eventWarning, eventStatus}, kinds(r.tick()))

	// 26 -> 25: plain refresh cadence.
	r.remaining = 26
	assert.Equal(t, []eventKind{eventStatus}, kinds(r.tick()))

	// 24 -> 23: quiet tick.
	r.remaining = 24
	assert.Empty(t, r.tick())

	// 11 -> 10: final warning, and every second refreshes from here.
	r.remaining = 11
	assert.Equal(t, []eventKind{eventWarning, eventStatus}, kinds(r.tick()))
	assert.Equal(t, []eventKind{eventStatus}, kinds(r.tick()))

	// 1 -> 0: lock.
	r.remaining = 1
	assert.Equal(t, []eventKind{eventLock}, kinds(r.tick()))
	assert.Equal(t, PhaseLocked, r.State().Phase)

	// Ticks after lock are no-ops.
	assert.Empty(t, r.tick())
}

// TestLockRace races concurrent bets against the lock transition. No
// debit may land after the phase has moved past Accepting, so the sum
// of accepted entries must equal the sum debited from the ledger.
func TestLockRace(t *testing.T) {
	ldg := newFakeLedger()
	for i := int64(1); i <= 10; i++ {
		ldg.addUser(i, 1000000)
	}

	r := newTestRoom(ldg, newFakeNotifier())
	r.phase = PhaseAccepting
	r.remaining = 1
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(1); i <= 10; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, _ = r.PlaceBet(ctx, userID, CategoryTai, 10000)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.tick()
	}()
	wg.Wait()

	assert.Equal(t, PhaseLocked, r.State().Phase)

	var accepted int64
	snap := r.State()
	for _, c := range categories {
		accepted += snap.Totals[c]
	}
	ldg.mu.Lock()
	assert.Equal(t, ldg.debited, accepted)
	ldg.mu.Unlock()
}

// TestDebitsMatchTotals checks that for any sequence of accepted bets
// the ledger debits add up to the recorded category totals.
func TestDebitsMatchTotals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ldg := newFakeLedger()
		ldg.addUser(1, 1<<40)

		r := newTestRoom(ldg, newFakeNotifier())
		r.phase = PhaseAccepting
		r.remaining = 60
		ctx := context.Background()

		n := rapid.IntRange(0, 20).Draw(t, "bets")
		for i := 0; i < n; i++ {
			cat := categories[rapid.IntRange(0, 3).Draw(t, "cat")]
			amount := rapid.Int64Range(5000, 1000000).Draw(t, "amount")
			_, err := r.PlaceBet(ctx, 1, cat, amount)
			if err != nil {
				t.Fatalf("unexpected bet error: %v", err)
			}
		}

		snap := r.State()
		var total int64
		count := 0
		for _, c := range categories {
			total += snap.Totals[c]
			count += snap.Counts[c]
		}
		if count != n {
			t.Fatalf("expected %d entries, got %d", n, count)
		}
		ldg.mu.Lock()
		debited := ldg.debited
		ldg.mu.Unlock()
		if debited != total {
			t.Fatalf("debited %d but totals add to %d", debited, total)
		}
	})
}

// TestSettlementContainment makes one winner's credit fail and checks
// the other entries still settle.
func TestSettlementContainment(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(1, 0)
	ldg.addUser(2, 0)
	ldg.addUser(3, 0)
	ldg.failCreditFor[2] = true

	r := newTestRoom(ldg, newFakeNotifier())
	outcome := Outcome{Dice: [3]int{4, 4, 4}, Sum: 12}

	entries := []BetEntry{
		{UserID: 1, Category: CategoryTai, Amount: 10000},
		{UserID: 2, Category: CategoryTai, Amount: 10000},
		{UserID: 3, Category: CategoryChan, Amount: 10000},
	}

	s := r.settle(context.Background(), 1, outcome, entries)

	assert.Equal(t, 1, s.errors)
	assert.Equal(t, 2, s.winners)
	assert.Equal(t, int64(19500), ldg.balance(1))
	assert.Equal(t, int64(0), ldg.balance(2))
	assert.Equal(t, int64(19000), ldg.balance(3))
}

// TestSettlementPayouts checks the floor arithmetic on both
// multiplier pairs and the loser pot contribution.
func TestSettlementPayouts(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(1, 0)
	ldg.addUser(2, 0)
	ldg.addUser(3, 0)

	r := newTestRoom(ldg, newFakeNotifier())
	outcome := Outcome{Dice: [3]int{4, 4, 3}, Sum: 11} // Tài, Lẻ

	entries := []BetEntry{
		{UserID: 1, Category: CategoryTai, Amount: 33333}, // floor(33333*1.95) = 64999
		{UserID: 2, Category: CategoryLe, Amount: 10001},  // floor(10001*1.90) = 19001
		{UserID: 3, Category: CategoryChan, Amount: 9999}, // loses, pot floor(9999*0.05) = 499
	}

	s := r.settle(context.Background(), 1, outcome, entries)

	assert.Equal(t, 2, s.winners)
	assert.Equal(t, 1, s.losers)
	assert.Zero(t, s.errors)
	assert.Equal(t, int64(64999), ldg.balance(1))
	assert.Equal(t, int64(19001), ldg.balance(2))
	ldg.mu.Lock()
	assert.Equal(t, int64(499), ldg.pots["taixiu"])
	ldg.mu.Unlock()
}

func TestSnapshotIdempotent(t *testing.T) {
	ldg := newFakeLedger()
	ldg.addUser(1, 100000)

	r := newTestRoom(ldg, newFakeNotifier())
	r.phase = PhaseAccepting
	r.remaining = 42
	ctx := context.Background()

	_, err := r.PlaceBet(ctx, 1, CategoryTai, 10000)
	require.NoError(t, err)

	first := r.State()
	second := r.State()
	assert.Equal(t, first, second)
}

func TestHistoryCapacity(t *testing.T) {
	r := newTestRoom(newFakeLedger(), newFakeNotifier())
	ctx := context.Background()

	const rounds = 25
	for i := 1; i <= rounds; i++ {
		r.mu.Lock()
		r.phase = PhaseLocked
		r.roundID = int64(i)
		r.outcome = Outcome{Dice: [3]int{1, 2, 3}, Sum: 6}
		r.mu.Unlock()
		r.resolve(ctx)
	}

	snap := r.State()
	require.Len(t, snap.History, 20)
	// Most recent first.
	for i, res := range snap.History {
		assert.Equal(t, int64(rounds-i), res.RoundID)
	}
}

// TestAutoRestart verifies the configured rotation policy: with auto
// restart on, a new round begins after the cooldown with no prompt.
func TestAutoRestart(t *testing.T) {
	ldg := newFakeLedger()
	notif := newFakeNotifier()

	cfg := testConfig()
	cfg.CountdownSeconds = 2
	cfg.AutoRestart = true
	r := NewRoom(1, cfg, ldg, notif, MD5Scheme{})
	r.tickInterval = 2 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := r.StartRound(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := r.State()
		return snap.Phase == PhaseAccepting && snap.RoundID != first
	}, 2*time.Second, time.Millisecond)

	assert.Zero(t, notif.promptCount())
}
