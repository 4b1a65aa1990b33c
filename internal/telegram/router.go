package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Router handles message routing and command parsing
type Router struct {
	logger      *logrus.Logger
	handlers    map[string]CommandHandler
	chatHandler ChatHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error
}

// ChatHandler defines the interface for free-form messages: ordinary text,
// voice notes and photos all flow through it into the chat pipeline.
type ChatHandler interface {
	Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error
}

// menuAliases maps reply-keyboard button labels onto commands.
var menuAliases = map[string]string{
	"🏠 Start":     "start",
	"📦 Cabinet":   "inventory",
	"💊 Courses":   "reminders",
	"👨‍👩‍👧‍👦 Family": "family",
	"🏠 Cabinets":  "cabinets",
}

// NewRouter creates a new message router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// SetChatHandler registers the fallback handler for non-command messages.
func (r *Router) SetChatHandler(handler ChatHandler) {
	r.chatHandler = handler
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	r.logger.WithFields(logrus.Fields{
		"chat_id":    message.Chat.ID,
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
	}).Info("Received message")

	command := ""
	var args []string
	switch {
	case message.IsCommand():
		command = message.Command()
		args = strings.Fields(message.CommandArguments())
	default:
		// Reply-keyboard buttons arrive as plain text.
		if alias, ok := menuAliases[strings.TrimSpace(message.Text)]; ok {
			command = alias
		}
	}

	if command == "" {
		if r.chatHandler == nil {
			return
		}
		if err := r.chatHandler.Handle(bot, message); err != nil {
			r.logger.WithFields(logrus.Fields{
				"chat_id": message.Chat.ID,
				"user_id": message.From.ID,
				"error":   err,
			}).Error("Chat handler failed")
		}
		return
	}

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
		}).Warn("Unknown command")

		unknownMsg := tgbotapi.NewMessage(message.Chat.ID, "❓ Unknown command. Use /start to see what I can do.")
		bot.Send(unknownMsg)
		return
	}

	if err := handler.Handle(bot, message, args); err != nil {
		r.logger.WithFields(logrus.Fields{
			"command": command,
			"chat_id": message.Chat.ID,
			"user_id": message.From.ID,
			"error":   err,
		}).Error("Command handler failed")

		errorMsg := tgbotapi.NewMessage(message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
		bot.Send(errorMsg)
	}
}

// MainMenuKeyboard is the persistent reply keyboard shown after /start.
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏠 Start"),
			tgbotapi.NewKeyboardButton("📦 Cabinet"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("💊 Courses"),
			tgbotapi.NewKeyboardButton("👨‍👩‍👧‍👦 Family"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🏠 Cabinets"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
