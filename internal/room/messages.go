package room

import (
	"fmt"
	"strconv"
	"strings"
)

// formatAmount renders an amount with Vietnamese thousands separators,
// e.g. 1000000 -> "1.000.000".
func formatAmount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// statusTextLocked renders the live status panel. Caller must hold mu.
func (r *Room) statusTextLocked() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 TÀI XỈU - Ván #%d 🎲\n", r.roundID)
	fmt.Fprintf(&b, "⏳ Còn lại: %d giây\n\n", r.remaining)

	for _, c := range categories {
		fmt.Fprintf(&b, "%s %s: %s đ (%d cược)\n",
			categoryIcon(c), c.Label(), formatAmount(r.totals[c]), len(r.bets[c]))
	}

	fmt.Fprintf(&b, "\n💰 Cược: /tx <tai|xiu|chan|le> <số tiền> (%s - %s đ)\n",
		formatAmount(r.cfg.MinBet), formatAmount(r.cfg.MaxBet))
	fmt.Fprintf(&b, "🔐 Mã xác minh: %s", r.commitment)

	if len(r.history) > 0 {
		b.WriteString("\n📊 Cầu: ")
		limit := len(r.history)
		if limit > 10 {
			limit = 10
		}
		// History is most-recent-first; show oldest to newest.
		for i := limit - 1; i >= 0; i-- {
			b.WriteString(r.history[i].Marker())
			if i > 0 {
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}

func categoryIcon(c Category) string {
	switch c {
	case CategoryTai:
		return "🔴"
	case CategoryXiu:
		return "🔵"
	case CategoryChan:
		return "⚪"
	case CategoryLe:
		return "⚫"
	}
	return "▫️"
}

func warningText(remaining int) string {
	return fmt.Sprintf("⚠️ Còn %d giây để đặt cược!", remaining)
}

func lockText() string {
	return "🔒 Đã khoá cược! Đang lắc xúc xắc..."
}

func betConfirmText(c Category, amount int64) string {
	return fmt.Sprintf("✅ Đã đặt %s đ vào %s", formatAmount(amount), c.Label())
}

func resultText(roundID int64, o Outcome, commitment string, s settlementSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 KẾT QUẢ Ván #%d 🎲\n", roundID)
	fmt.Fprintf(&b, "🎯 %s\n", o)

	highLow := "XỈU"
	if o.IsHigh() {
		highLow = "TÀI"
	}
	evenOdd := "LẺ"
	if o.IsEven() {
		evenOdd = "CHẴN"
	}
	fmt.Fprintf(&b, "🏆 %s | %s\n\n", highLow, evenOdd)

	fmt.Fprintf(&b, "🎉 Thắng: %d người (+%s đ)\n", s.winners, formatAmount(s.paid))
	fmt.Fprintf(&b, "😢 Thua: %d người\n\n", s.losers)

	fmt.Fprintf(&b, "🔐 Xác minh: md5(\"%d-%d%d%d-%d\") = %s",
		roundID, o.Dice[0], o.Dice[1], o.Dice[2], o.Sum, commitment)
	return b.String()
}

func winNoticeText(roundID int64, entry BetEntry, winAmount int64, o Outcome) string {
	return fmt.Sprintf("🎉 Bạn thắng ván #%d!\n🎯 %s\n💰 Cược %s đ vào %s, nhận %s đ",
		roundID, o, formatAmount(entry.Amount), entry.Category.Label(), formatAmount(winAmount))
}

func loseNoticeText(roundID int64, entry BetEntry, o Outcome) string {
	return fmt.Sprintf("😢 Bạn thua ván #%d.\n🎯 %s\n💸 Mất %s đ cược vào %s",
		roundID, o, formatAmount(entry.Amount), entry.Category.Label())
}

func promptNewRoundText() string {
	return "🏁 Ván đã kết thúc. Nhấn nút bên dưới để bắt đầu ván mới!"
}
