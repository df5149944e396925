// Package model defines the data models for the Tài Xỉu betting bot.
package model

import "time"

// User represents a registered player account.
type User struct {
	TelegramID  int64     `db:"telegram_id"`
	Username    string    `db:"username"`
	Balance     int64     `db:"balance"`
	TotalBet    int64     `db:"total_bet"`
	LastCheckin string    `db:"last_checkin"`
	Banned      bool      `db:"banned"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Transaction represents a balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Pot is a shared reward accumulator funded by a fraction of losing bets.
// It is separate from any individual user balance.
type Pot struct {
	Name      string    `db:"name"`
	Amount    int64     `db:"amount"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeInitial  = "initial"   // Initial balance on registration
	TxTypeDaily    = "daily"     // Daily check-in bonus
	TxTypeBet      = "bet"       // Stake debited for a game or room bet
	TxTypeWin      = "win"       // Winnings credited
	TxTypeAdminAdd = "admin_add" // Admin added balance
	TxTypeAdminSub = "admin_sub" // Admin subtracted balance
	TxTypeAdminSet = "admin_set" // Admin set balance
)

// Pot names used by the instant games and the betting room.
const (
	PotTaiXiu = "taixiu"
	PotChanLe = "chanle"
	PotDoanSo = "doanso"
	PotSlot   = "slotmachine"
)
