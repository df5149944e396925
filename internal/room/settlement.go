package room

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"taixiu-game-bot/internal/model"
)

type settlementSummary struct {
	winners  int
	losers   int
	paid     int64
	potAdded int64
	errors   int
}

// settle pays out every bet entry against the revealed outcome. Each
// entry is processed independently: a failure or panic on one entry is
// logged and never prevents the remaining entries from being settled.
func (r *Room) settle(ctx context.Context, roundID int64, outcome Outcome, entries []BetEntry) settlementSummary {
	var s settlementSummary
	for _, entry := range entries {
		if err := r.settleEntry(ctx, roundID, outcome, entry, &s); err != nil {
			s.errors++
			log.Error().
				Err(err).
				Int64("venue_id", r.venueID).
				Int64("round_id", roundID).
				Int64("user_id", entry.UserID).
				Str("category", string(entry.Category)).
				Int64("amount", entry.Amount).
				Msg("Failed to settle bet entry")
		}
	}
	return s
}

func (r *Room) settleEntry(ctx context.Context, roundID int64, outcome Outcome, entry BetEntry, s *settlementSummary) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while settling: %v", rec)
		}
	}()

	if outcome.Wins(entry.Category) {
		winAmount := int64(float64(entry.Amount) * r.multiplier(entry.Category))
		if _, err := r.ledger.Credit(ctx, entry.UserID, winAmount); err != nil {
			return fmt.Errorf("failed to credit winnings: %w", err)
		}
		s.winners++
		s.paid += winAmount

		desc := fmt.Sprintf("Thắng %s ván #%d (%s)", entry.Category.Label(), roundID, outcome)
		if err := r.ledger.RecordTransaction(ctx, entry.UserID, winAmount, model.TxTypeWin, desc); err != nil {
			// The payout already happened, only the record failed.
			log.Warn().
				Err(err).
				Int64("user_id", entry.UserID).
				Int64("round_id", roundID).
				Msg("Failed to record win transaction")
		}
		r.notifier.NotifyUser(entry.UserID, winNoticeText(roundID, entry, winAmount, outcome))
		return nil
	}

	// The stake was already debited at placement; losers only feed
	// the shared pot.
	cut := int64(float64(entry.Amount) * r.cfg.PotContributionRate)
	if cut > 0 {
		if _, err := r.ledger.AddToPot(ctx, r.cfg.PotName, cut); err != nil {
			return fmt.Errorf("failed to add to pot: %w", err)
		}
		s.potAdded += cut
	}
	s.losers++

	desc := fmt.Sprintf("Thua %s ván #%d (%s)", entry.Category.Label(), roundID, outcome)
	if err := r.ledger.RecordTransaction(ctx, entry.UserID, -entry.Amount, model.TxTypeBet, desc); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", entry.UserID).
			Int64("round_id", roundID).
			Msg("Failed to record loss transaction")
	}
	r.notifier.NotifyUser(entry.UserID, loseNoticeText(roundID, entry, outcome))
	return nil
}

func (r *Room) multiplier(c Category) float64 {
	if c == CategoryTai || c == CategoryXiu {
		return r.cfg.MultiplierHighLow
	}
	return r.cfg.MultiplierEvenOdd
}
