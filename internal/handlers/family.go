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

// FamilyHandler handles the /family command: a read-only listing of the
// family roster with placeholder rows filtered out.
type FamilyHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(svc *service.Service, logger *logrus.Logger) *FamilyHandler {
	return &FamilyHandler{svc: svc, logger: logger}
}

// Handle processes the /family command.
func (h *FamilyHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	members, err := h.svc.ValidFamily(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list family: %w", err)
	}

	if len(members) == 0 {
		bot.Send(tgbotapi.NewMessage(message.Chat.ID,
			"👨‍👩‍👧‍👦 You have not added anyone yet.\n\nTell me who is in your family, for example:\n\"My wife Anna, 30 years old\""))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("👨‍👩‍👧‍👦 Your family:\n\n")
	for _, m := range members {
		sb.WriteString("- " + describeMember(m) + "\n")
	}

	bot.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
	return nil
}

func describeMember(m *models.FamilyMember) string {
	parts := []string{m.Name}
	if m.Age != nil {
		parts = append(parts, fmt.Sprintf("%d years old", *m.Age))
	} else {
		parts = append(parts, "age not specified")
	}
	if m.Gender != "" {
		parts = append(parts, m.Gender)
	}
	if m.Relation != "" {
		parts = append(parts, m.Relation)
	}
	return strings.Join(parts, ", ")
}
