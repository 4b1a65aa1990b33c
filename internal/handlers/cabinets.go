package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/service"
)

// CabinetsHandler handles the /cabinets command: lists the user's cabinets
// and marks the active one.
type CabinetsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewCabinetsHandler creates a new CabinetsHandler.
func NewCabinetsHandler(svc *service.Service, logger *logrus.Logger) *CabinetsHandler {
	return &CabinetsHandler{svc: svc, logger: logger}
}

// Handle processes the /cabinets command.
func (h *CabinetsHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	cabinets, err := h.svc.Cabinets.GetByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list cabinets: %w", err)
	}

	activeID, _, err := h.svc.ActiveCabinet(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("resolve active cabinet: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🏠 Your cabinets:\n\n")
	for _, c := range cabinets {
		sb.WriteString(fmt.Sprintf("📦 %s (id:%d)", c.Name, c.ID))
		if c.ID == activeID {
			sb.WriteString(" ✅")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("📦 " + models.DefaultCabinetName + " (default)")
	if activeID == models.DefaultCabinetID {
		sb.WriteString(" ✅")
	}
	sb.WriteString("\n\n💬 To create one: \"Create a cabinet for mom\"")
	sb.WriteString("\n🔄 To switch: \"Switch to mom's cabinet\"")

	bot.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
	return nil
}
