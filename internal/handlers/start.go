package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/telegram"
)

const welcomeText = `👋 Hi! I am Apteka Bot.

I can help you:
💊 Keep the list of medicines in your cabinet
🔍 Suggest what to take for an ailment
📷 Recognize a medicine from a package photo
🎤 Accept voice messages
👨‍👩‍👧‍👦 Take your family members into account
⏰ Remind you to take your medicines
📅 Watch expiry dates
🧳 Put together a travel kit

Commands:
/inventory — show the cabinet
/reminders — intake reminders
/family — family members
/cabinets — your cabinets

Just write what is in your cabinet, or ask a question!`

// StartHandler handles the /start command.
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new StartHandler.
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{logger: logger}
}

// Handle processes the /start command.
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	msg.ReplyMarkup = telegram.MainMenuKeyboard()
	_, err := bot.Send(msg)
	return err
}
