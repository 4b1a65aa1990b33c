package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/service"
)

// RemindersHandler handles the /reminders command: a read-only listing of
// the user's active dosing reminders.
type RemindersHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewRemindersHandler creates a new RemindersHandler.
func NewRemindersHandler(svc *service.Service, logger *logrus.Logger) *RemindersHandler {
	return &RemindersHandler{svc: svc, logger: logger}
}

// Handle processes the /reminders command.
func (h *RemindersHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	reminders, err := h.svc.ValidReminders(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	if len(reminders) == 0 {
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "No active reminders."))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("📋 Active reminders:\n\n")
	for _, r := range reminders {
		sb.WriteString("💊 " + r.MedicineName)
		if r.FamilyMember != "" {
			sb.WriteString(" (for " + r.FamilyMember + ")")
		}
		sb.WriteString("\n   ⏰ " + r.Schedule)
		if r.MealRelation != "" {
			sb.WriteString(" " + r.MealRelation)
		}
		if r.Dosage != "" {
			sb.WriteString("\n   📊 " + r.Dosage)
		}
		if r.IsIndefinite() {
			sb.WriteString("\n   🔄 Ongoing, no end date")
		} else {
			sb.WriteString("\n   📅 Course: " + r.CourseDescription())
		}
		if r.PillsRemaining > 0 {
			sb.WriteString(fmt.Sprintf("\n   💦 Pills left: %d", int(r.PillsRemaining)))
		}
		sb.WriteString("\n")
	}

	bot.Send(tgbotapi.NewMessage(message.Chat.ID, sb.String()))
	return nil
}
