package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"taixiu-game-bot/internal/game"
	"taixiu-game-bot/internal/ledger"
	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/pkg/lock"
)

// Common errors for game plays.
var (
	ErrUnknownGame         = errors.New("unknown game")
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
)

// GameService runs instant game plays against the ledger.
type GameService struct {
	registry *game.Registry
	ledger   ledger.Ledger
	locks    *lock.UserLock
	potRate  float64
}

// NewGameService creates a new GameService instance.
func NewGameService(registry *game.Registry, l ledger.Ledger, locks *lock.UserLock, potRate float64) *GameService {
	return &GameService{
		registry: registry,
		ledger:   l,
		locks:    locks,
		potRate:  potRate,
	}
}

// Registry returns the game registry, for command listing.
func (s *GameService) Registry() *game.Registry {
	return s.registry
}

// Play runs one instant game round for a user. The stake is debited
// before the roll and the pot takes its cut of every stake at
// placement; winnings are credited after the roll. The per-user lock
// keeps concurrent plays from interleaving their debit and credit.
func (s *GameService) Play(ctx context.Context, command string, userID int64, bet int64, params map[string]any) (*game.GameResult, *model.User, error) {
	g, ok := s.registry.Get(command)
	if !ok {
		return nil, nil, ErrUnknownGame
	}

	if err := g.ValidateBet(bet, params); err != nil {
		return nil, nil, err
	}

	var result *game.GameResult
	var user *model.User
	err := s.locks.WithLock(userID, func() error {
		var err error
		user, err = s.ledger.Debit(ctx, userID, bet)
		if err != nil {
			return err
		}

		cut := int64(float64(bet) * s.potRate)
		if cut > 0 {
			if _, err := s.ledger.AddToPot(ctx, g.PotName(), cut); err != nil {
				log.Warn().Err(err).Str("pot", g.PotName()).Msg("Failed to add to pot")
			}
		}

		result, err = g.Play(ctx, userID, bet, params)
		if err != nil {
			// The roll failed after the debit. Refund the stake.
			if _, refundErr := s.ledger.Credit(ctx, userID, bet); refundErr != nil {
				log.Error().Err(refundErr).Int64("user_id", userID).Int64("amount", bet).
					Msg("Failed to refund stake after play error")
			}
			return err
		}

		if result.Win {
			user, err = s.ledger.Credit(ctx, userID, result.WinAmount)
			if err != nil {
				return fmt.Errorf("failed to credit winnings: %w", err)
			}
			desc := fmt.Sprintf("Thắng %s", g.Name())
			if err := s.ledger.RecordTransaction(ctx, userID, result.WinAmount, model.TxTypeWin, desc); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record win transaction")
			}
		} else {
			desc := fmt.Sprintf("Thua %s", g.Name())
			if err := s.ledger.RecordTransaction(ctx, userID, -bet, model.TxTypeBet, desc); err != nil {
				log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to record loss transaction")
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("game", command).
		Int64("user_id", userID).
		Int64("bet", bet).
		Bool("win", result.Win).
		Int64("win_amount", result.WinAmount).
		Msg("Instant game played")

	return result, user, nil
}
