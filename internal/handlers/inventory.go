package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/service"
)

// InventoryHandler handles the /inventory command: a read-only listing of
// the active cabinet, deduplicated by medicine name.
type InventoryHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(svc *service.Service, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, logger: logger}
}

// Handle processes the /inventory command.
func (h *InventoryHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	cabinetID, cabinetName, err := h.svc.ActiveCabinet(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("resolve cabinet: %w", err)
	}

	owners, err := h.svc.VisibleOwnerIDs(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("resolve visible owners: %w", err)
	}

	items, err := h.svc.Inventory.GetDistinct(ctx, owners, cabinetID)
	if err != nil {
		return fmt.Errorf("list inventory: %w", err)
	}

	if len(items) == 0 {
		bot.Send(tgbotapi.NewMessage(message.Chat.ID,
			"📦 The cabinet is empty. Send a photo of a medicine or tell me what you have!"))
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 %s:\n\n", cabinetName))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s — %d pcs", i+1, item.Name, item.Quantity))
		if item.Dosage != "" {
			sb.WriteString(", " + item.Dosage)
		}
		if item.ExpiryDate != nil {
			sb.WriteString(", expires " + item.ExpiryDate.Format("2006-01-02"))
			if item.IsExpired() {
				sb.WriteString(" ⚠️")
			}
		}
		sb.WriteString("\n")
	}

	bot.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
	return nil
}
