// Package ledger exposes the balance operations the games and the
// betting room need, decoupled from the repository layer so game logic
// can be tested without a database.
package ledger

import (
	"context"

	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/repository"
)

// Sentinel errors surfaced to callers. They alias the repository
// errors so errors.Is works across layers.
var (
	ErrUserNotFound        = repository.ErrUserNotFound
	ErrInsufficientBalance = repository.ErrInsufficientBalance
)

// Ledger is the balance and pot interface used by game and room logic.
type Ledger interface {
	// GetUser returns the user's account, or ErrUserNotFound.
	GetUser(ctx context.Context, userID int64) (*model.User, error)

	// Debit subtracts a stake from a user's balance atomically.
	// Returns ErrInsufficientBalance if the balance would go negative.
	Debit(ctx context.Context, userID int64, amount int64) (*model.User, error)

	// Credit adds winnings or a bonus to a user's balance.
	Credit(ctx context.Context, userID int64, amount int64) (*model.User, error)

	// RecordTransaction appends a balance change record.
	RecordTransaction(ctx context.Context, userID int64, amount int64, txType string, description string) error

	// AddToPot adds amount to the named shared pot and returns its
	// new total.
	AddToPot(ctx context.Context, name string, amount int64) (int64, error)

	// GetPots returns every shared pot.
	GetPots(ctx context.Context) ([]*model.Pot, error)
}

// PostgresLedger implements Ledger on top of the pgx repositories.
type PostgresLedger struct {
	users *repository.UserRepository
	txs   *repository.TransactionRepository
	pots  *repository.PotRepository
}

// NewPostgresLedger creates a ledger backed by the given repositories.
func NewPostgresLedger(users *repository.UserRepository, txs *repository.TransactionRepository, pots *repository.PotRepository) *PostgresLedger {
	return &PostgresLedger{users: users, txs: txs, pots: pots}
}

func (l *PostgresLedger) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return l.users.GetByID(ctx, userID)
}

func (l *PostgresLedger) Debit(ctx context.Context, userID int64, amount int64) (*model.User, error) {
	return l.users.Debit(ctx, userID, amount)
}

func (l *PostgresLedger) Credit(ctx context.Context, userID int64, amount int64) (*model.User, error) {
	return l.users.Credit(ctx, userID, amount)
}

func (l *PostgresLedger) RecordTransaction(ctx context.Context, userID int64, amount int64, txType string, description string) error {
	var desc *string
	if description != "" {
		desc = &description
	}
	_, err := l.txs.Create(ctx, userID, amount, txType, desc)
	return err
}

func (l *PostgresLedger) AddToPot(ctx context.Context, name string, amount int64) (int64, error) {
	return l.pots.Add(ctx, name, amount)
}

func (l *PostgresLedger) GetPots(ctx context.Context) ([]*model.Pot, error) {
	return l.pots.GetAll(ctx)
}
