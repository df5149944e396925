package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/service"
)

// AdminHandler handles admin balance commands.
type AdminHandler struct {
	accountService *service.AccountService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

// HandleAdminAdd handles /admin_add <user_id> <amount>.
func (h *AdminHandler) HandleAdminAdd(c tele.Context) error {
	return h.adjust(c, "add")
}

// HandleAdminSub handles /admin_sub <user_id> <amount>.
func (h *AdminHandler) HandleAdminSub(c tele.Context) error {
	return h.adjust(c, "sub")
}

// HandleAdminSet handles /admin_set <user_id> <amount>.
func (h *AdminHandler) HandleAdminSet(c tele.Context) error {
	return h.adjust(c, "set")
}

// HandleAdminBan handles /admin_ban <user_id>.
func (h *AdminHandler) HandleAdminBan(c tele.Context) error {
	return h.setBanned(c, true)
}

// HandleAdminUnban handles /admin_unban <user_id>.
func (h *AdminHandler) HandleAdminUnban(c tele.Context) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c tele.Context, banned bool) error {
	verb := "ban"
	if !banned {
		verb = "unban"
	}
	usage := fmt.Sprintf("Dùng: /admin_%s <user_id>", verb)

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("❌ " + usage)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ " + usage)
	}

	if err := h.accountService.SetBanned(context.Background(), userID, banned); err != nil {
		if errors.Is(err, service.ErrNotRegistered) {
			return c.Reply("❌ Người dùng chưa có tài khoản")
		}
		return c.Reply("❌ Thao tác thất bại, vui lòng thử lại sau")
	}

	if banned {
		return c.Reply(fmt.Sprintf("🚫 Đã khoá người dùng %d", userID))
	}
	return c.Reply(fmt.Sprintf("✅ Đã mở khoá người dùng %d", userID))
}

func (h *AdminHandler) adjust(c tele.Context, mode string) error {
	usage := fmt.Sprintf("Dùng: /admin_%s <user_id> <số tiền>", mode)

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ " + usage)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ " + usage)
	}
	amount, err := parseAmount(args[1])
	if err != nil && mode != "set" {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}
	if mode == "set" {
		// Setting to zero is allowed.
		amount, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil || amount < 0 {
			return c.Reply("❌ Số tiền không hợp lệ. " + usage)
		}
	}

	user, err := h.accountService.AdminAdjust(context.Background(), userID, mode, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotRegistered):
			return c.Reply("❌ Người dùng chưa có tài khoản")
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Reply("❌ Số dư của người dùng không đủ để trừ")
		}
		return c.Reply("❌ Thao tác thất bại, vui lòng thử lại sau")
	}

	return c.Reply(fmt.Sprintf(
		"✅ Đã cập nhật số dư của %d\n💰 Số dư mới: %s đ",
		userID, formatAmount(user.Balance),
	))
}
