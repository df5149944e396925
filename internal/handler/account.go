package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// HandleRegister handles the /register command.
// Creates a new account with the starting balance.
func (h *AccountHandler) HandleRegister(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}

	user, err := h.accountService.Register(ctx, sender.ID, username)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyRegistered) {
			return c.Reply("ℹ️ Bạn đã có tài khoản rồi. Dùng /balance để xem số dư.")
		}
		return c.Reply("❌ Đăng ký thất bại, vui lòng thử lại sau")
	}

	return c.Reply(fmt.Sprintf(
		"🎉 Chào mừng @%s!\n\n"+
			"Tài khoản đã được tạo với %s đ.\n\n"+
			"Lệnh khả dụng:\n"+
			"/balance - Xem số dư\n"+
			"/daily - Điểm danh nhận thưởng\n"+
			"/history - Lịch sử giao dịch\n"+
			"/top - Bảng xếp hạng\n"+
			"/pot - Xem hũ thưởng\n"+
			"/taixiu <tai|xiu> <tiền> - Tài Xỉu nhanh\n"+
			"/chanle <chan|le> <tiền> - Chẵn Lẻ\n"+
			"/doanso <1-10> <tiền> - Đoán Số\n"+
			"/slot <tiền> - Slot Machine\n"+
			"/txroom - Mở ván Tài Xỉu chung\n"+
			"/tx <tai|xiu|chan|le> <tiền> - Cược vào ván chung",
		username, formatAmount(user.Balance),
	))
}

// HandleBalance handles the /balance command.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	user, err := h.accountService.GetUser(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return c.Reply("❌ Bạn chưa có tài khoản. Dùng /register để đăng ký.")
		}
		return c.Reply("❌ Không lấy được số dư, vui lòng thử lại sau")
	}

	return c.Reply(fmt.Sprintf(
		"💰 Số dư: %s đ\n📈 Tổng đã cược: %s đ",
		formatAmount(user.Balance), formatAmount(user.TotalBet),
	))
}

// HandleDaily handles the /daily command.
// Grants the daily bonus once per calendar day.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	bonus, balance, err := h.accountService.ClaimDaily(ctx, sender.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotRegistered):
			return c.Reply("❌ Bạn chưa có tài khoản. Dùng /register để đăng ký.")
		case errors.Is(err, service.ErrDailyAlreadyClaimed):
			return c.Reply("⏰ Hôm nay bạn đã điểm danh rồi, quay lại vào ngày mai nhé!")
		}
		return c.Reply("❌ Điểm danh thất bại, vui lòng thử lại sau")
	}

	return c.Reply(fmt.Sprintf(
		"✅ Điểm danh thành công! +%s đ\n💰 Số dư: %s đ",
		formatAmount(bonus), formatAmount(balance),
	))
}

// HandleHistory handles the /history command.
// Shows the user's 10 most recent transactions, newest first.
func (h *AccountHandler) HandleHistory(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	txs, err := h.accountService.GetHistory(ctx, sender.ID, 10)
	if err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return c.Reply("❌ Bạn chưa có tài khoản. Dùng /register để đăng ký.")
		}
		return c.Reply("❌ Không lấy được lịch sử, vui lòng thử lại sau")
	}

	return c.Reply(historyText(txs))
}

// historyText renders the recent transactions message.
func historyText(txs []*model.Transaction) string {
	if len(txs) == 0 {
		return "📜 Chưa có giao dịch nào"
	}

	var b strings.Builder
	b.WriteString("📜 LỊCH SỬ GẦN ĐÂY\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for _, tx := range txs {
		label := tx.Type
		if tx.Description != nil && *tx.Description != "" {
			label = *tx.Description
		}
		amount := formatAmount(tx.Amount)
		if tx.Amount > 0 {
			amount = "+" + amount
		}
		fmt.Fprintf(&b, "%s | %s: %s đ\n", tx.CreatedAt.Format("02/01 15:04"), label, amount)
	}
	b.WriteString("━━━━━━━━━━━━━━━")
	return b.String()
}

// HandleTop handles the /top command.
// Displays the top 10 users by balance.
func (h *AccountHandler) HandleTop(c tele.Context) error {
	ctx := context.Background()

	users, err := h.accountService.GetTopUsers(ctx, 10)
	if err != nil {
		return c.Reply("❌ Không lấy được bảng xếp hạng, vui lòng thử lại sau")
	}

	if len(users) == 0 {
		return c.Reply("📊 Chưa có ai trên bảng xếp hạng")
	}

	msg := "🏆 BẢNG XẾP HẠNG TOP 10\n"
	msg += "━━━━━━━━━━━━━━━\n"

	medals := []string{"🥇", "🥈", "🥉"}
	for i, user := range users {
		rank := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			rank = medals[i]
		}

		displayName := user.Username
		if displayName == "" {
			displayName = fmt.Sprintf("User%d", user.TelegramID)
		}

		msg += fmt.Sprintf("%s @%s: %s đ\n", rank, displayName, formatAmount(user.Balance))
	}

	msg += "━━━━━━━━━━━━━━━"

	return c.Reply(msg)
}
