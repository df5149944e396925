package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taixiu-game-bot/internal/model"
)

// ErrPotNotFound is returned when the named pot does not exist.
var ErrPotNotFound = errors.New("pot not found")

// PotRepository handles shared pot persistence.
type PotRepository struct {
	pool *pgxpool.Pool
}

// NewPotRepository creates a new PotRepository instance.
func NewPotRepository(pool *pgxpool.Pool) *PotRepository {
	return &PotRepository{pool: pool}
}

// Get retrieves a pot by name.
func (r *PotRepository) Get(ctx context.Context, name string) (*model.Pot, error) {
	query := `SELECT name, amount, updated_at FROM pots WHERE name = $1`

	var pot model.Pot
	err := r.pool.QueryRow(ctx, query, name).Scan(&pot.Name, &pot.Amount, &pot.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPotNotFound
		}
		return nil, fmt.Errorf("failed to get pot: %w", err)
	}

	return &pot, nil
}

// Add atomically adds amount to a pot, creating it if missing.
// Returns the pot's new total.
func (r *PotRepository) Add(ctx context.Context, name string, amount int64) (int64, error) {
	query := `
		INSERT INTO pots (name, amount, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET amount = pots.amount + EXCLUDED.amount, updated_at = NOW()
		RETURNING amount`

	var total int64
	err := r.pool.QueryRow(ctx, query, name, amount).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to add to pot: %w", err)
	}

	return total, nil
}

// Reset sets a pot's amount to the given value.
// Used when a pot is paid out.
func (r *PotRepository) Reset(ctx context.Context, name string, amount int64) error {
	query := `
		UPDATE pots
		SET amount = $2, updated_at = NOW()
		WHERE name = $1`

	result, err := r.pool.Exec(ctx, query, name, amount)
	if err != nil {
		return fmt.Errorf("failed to reset pot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPotNotFound
	}
	return nil
}

// GetAll retrieves every pot.
func (r *PotRepository) GetAll(ctx context.Context) ([]*model.Pot, error) {
	query := `SELECT name, amount, updated_at FROM pots ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get pots: %w", err)
	}
	defer rows.Close()

	var pots []*model.Pot
	for rows.Next() {
		var pot model.Pot
		if err := rows.Scan(&pot.Name, &pot.Amount, &pot.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pot: %w", err)
		}
		pots = append(pots, &pot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pots: %w", err)
	}

	return pots, nil
}
