// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/pkg/lock"
	"taixiu-game-bot/internal/repository"
)

// Common errors for account operations.
var (
	ErrAlreadyRegistered   = errors.New("account already registered")
	ErrNotRegistered       = repository.ErrUserNotFound
	ErrDailyAlreadyClaimed = errors.New("daily bonus already claimed today")
)

// AccountService handles registration, balances and the daily bonus.
type AccountService struct {
	userRepo       *repository.UserRepository
	txRepo         *repository.TransactionRepository
	locks          *lock.UserLock
	initialBalance int64
	dailyBonus     int64
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	locks *lock.UserLock,
	initialBalance int64,
	dailyBonus int64,
) *AccountService {
	return &AccountService{
		userRepo:       userRepo,
		txRepo:         txRepo,
		locks:          locks,
		initialBalance: initialBalance,
		dailyBonus:     dailyBonus,
	}
}

// Register creates a new account with the starting balance.
// Returns ErrAlreadyRegistered if the user already has an account.
func (s *AccountService) Register(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	exists, err := s.userRepo.Exists(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	user, err := s.userRepo.Create(ctx, telegramID, username, s.initialBalance)
	if err != nil {
		return nil, err
	}

	desc := "Số dư khởi tạo"
	if _, err := s.txRepo.Create(ctx, telegramID, s.initialBalance, model.TxTypeInitial, &desc); err != nil {
		// Account was created, only the record failed.
		log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to record initial transaction")
	}

	log.Info().Int64("user_id", telegramID).Str("username", username).Msg("User registered")
	return user, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// GetBalance retrieves a user's current balance.
func (s *AccountService) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// ClaimDaily grants the daily check-in bonus, once per calendar day.
// Returns the bonus amount and the user's new balance.
func (s *AccountService) ClaimDaily(ctx context.Context, telegramID int64) (int64, int64, error) {
	var newBalance int64
	err := s.locks.WithLock(telegramID, func() error {
		user, err := s.userRepo.GetByID(ctx, telegramID)
		if err != nil {
			return err
		}

		today := time.Now().Format("2006-01-02")
		if user.LastCheckin == today {
			return ErrDailyAlreadyClaimed
		}

		updated, err := s.userRepo.Credit(ctx, telegramID, s.dailyBonus)
		if err != nil {
			return fmt.Errorf("failed to credit daily bonus: %w", err)
		}
		newBalance = updated.Balance

		if err := s.userRepo.UpdateCheckin(ctx, telegramID, today); err != nil {
			return fmt.Errorf("failed to update checkin: %w", err)
		}

		desc := "Điểm danh hằng ngày"
		if _, err := s.txRepo.Create(ctx, telegramID, s.dailyBonus, model.TxTypeDaily, &desc); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to record daily transaction")
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return s.dailyBonus, newBalance, nil
}

// GetHistory retrieves a user's most recent transactions, newest first.
// Every game play records one, so this doubles as the play history.
func (s *AccountService) GetHistory(ctx context.Context, telegramID int64, limit int) ([]*model.Transaction, error) {
	if _, err := s.userRepo.GetByID(ctx, telegramID); err != nil {
		return nil, err
	}
	return s.txRepo.GetByUser(ctx, telegramID, limit)
}

// GetTopUsers retrieves the top users by balance.
func (s *AccountService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}

// SetBanned bans or unbans a user. Banned users are hidden from the
// top list but keep their balance.
func (s *AccountService) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	if err := s.userRepo.SetBanned(ctx, telegramID, banned); err != nil {
		return err
	}
	log.Info().Int64("user_id", telegramID).Bool("banned", banned).Msg("User ban state changed")
	return nil
}

// AdminAdjust changes a user's balance by an admin command.
// mode is one of "add", "sub" or "set". Returns the updated user.
func (s *AccountService) AdminAdjust(ctx context.Context, telegramID int64, mode string, amount int64) (*model.User, error) {
	var user *model.User
	err := s.locks.WithLock(telegramID, func() error {
		var err error
		var txType string
		var txAmount int64

		switch mode {
		case "add":
			user, err = s.userRepo.Credit(ctx, telegramID, amount)
			txType, txAmount = model.TxTypeAdminAdd, amount
		case "sub":
			user, err = s.userRepo.Debit(ctx, telegramID, amount)
			txType, txAmount = model.TxTypeAdminSub, -amount
		case "set":
			user, err = s.userRepo.SetBalance(ctx, telegramID, amount)
			txType, txAmount = model.TxTypeAdminSet, amount
		default:
			return fmt.Errorf("unknown adjust mode %q", mode)
		}
		if err != nil {
			return err
		}

		desc := fmt.Sprintf("Admin %s %d", mode, amount)
		if _, err := s.txRepo.Create(ctx, telegramID, txAmount, txType, &desc); err != nil {
			log.Warn().Err(err).Int64("user_id", telegramID).Msg("Failed to record admin transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
