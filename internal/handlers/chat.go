package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/directive"
	"github.com/Kerhoff/AptekaBot/internal/llm"
	"github.com/Kerhoff/AptekaBot/internal/metrics"
	"github.com/Kerhoff/AptekaBot/internal/models"
	"github.com/Kerhoff/AptekaBot/internal/service"
	"github.com/Kerhoff/AptekaBot/pkg/logger"
)

// historyWindow is the number of recent messages fed to the generation
// call; older ones fall off the window.
const historyWindow = 20

// ChatHandler drives the whole turn pipeline for free-form messages:
// grounding context → generation → directive extraction → reconciliation
// → sanitized reply.
type ChatHandler struct {
	svc    *service.Service
	ai     *llm.Client
	logger *logrus.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(svc *service.Service, ai *llm.Client, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, ai: ai, logger: logger}
}

// Handle processes one free-form user message.
func (h *ChatHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message) error {
	ctx := context.Background()

	user, err := h.svc.EnsureUser(ctx, message.From.ID, message.From.UserName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	ulog := logger.WithUser(h.logger, user.ID)

	userText, err := h.resolveUserText(ctx, bot, message)
	if err != nil {
		return err
	}
	if userText == "" {
		return nil
	}

	// History is read before the current turn is appended so the user
	// text appears in the request exactly once.
	history, err := h.svc.Messages.GetRecent(ctx, user.ID, historyWindow)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if err := h.svc.SaveMessage(ctx, user.ID, models.RoleUser, userText); err != nil {
		ulog.Errorf("Failed to save user message: %v", err)
	}

	snapshot, err := h.svc.LoadSnapshot(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	reply, err := h.ai.Generate(ctx, service.RenderContext(snapshot), history, userText)
	if err != nil {
		// No retry; the turn is aborted and no assistant message is
		// persisted.
		metrics.GenerationFailures.Inc()
		ulog.Errorf("Generation failed: %v", err)
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, llm.Apology))
		return nil
	}

	if ds := directive.ParseAll(reply); len(ds) > 0 {
		if err := h.svc.ApplyDirectives(ctx, user.ID, ds); err != nil {
			ulog.Errorf("Reconciliation finished with errors: %v", err)
		}
	}

	// The raw reply, directive tags included, goes into the log as an
	// audit trail of what this turn changed.
	if err := h.svc.SaveMessage(ctx, user.ID, models.RoleAssistant, reply); err != nil {
		ulog.Errorf("Failed to save assistant message: %v", err)
	}

	clean := directive.Strip(reply)
	if clean == "" {
		clean = "Done!"
	}
	bot.Send(tgbotapi.NewMessage(message.Chat.ID, clean))

	metrics.TurnsTotal.Inc()
	return nil
}

// resolveUserText turns the incoming message into plain text: voice notes
// go through Whisper, photos through the vision model, text passes as is.
func (h *ChatHandler) resolveUserText(ctx context.Context, bot *tgbotapi.BotAPI, message *tgbotapi.Message) (string, error) {
	switch {
	case message.Voice != nil:
		audio, err := downloadFile(ctx, bot, message.Voice.FileID)
		if err != nil {
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "⚠️ Could not download the voice message."))
			return "", fmt.Errorf("download voice: %w", err)
		}
		text, err := h.ai.Transcribe(ctx, audio)
		if err != nil || text == "" {
			h.logger.Errorf("Transcription failed: %v", err)
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "⚠️ Could not recognize the voice message. Please try again."))
			return "", nil
		}
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "🎤 Recognized: "+text))
		return text, nil

	case len(message.Photo) > 0:
		// The largest size comes last.
		photo := message.Photo[len(message.Photo)-1]
		data, err := downloadFile(ctx, bot, photo.FileID)
		if err != nil {
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "⚠️ Could not download the photo."))
			return "", fmt.Errorf("download photo: %w", err)
		}
		bot.Send(tgbotapi.NewMessage(message.Chat.ID, "📷 Analyzing the photo..."))

		dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
		description, err := h.ai.DescribePhoto(ctx, dataURL)
		if err != nil || description == "" {
			h.logger.Errorf("Vision failed: %v", err)
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "⚠️ Could not recognize the photo. Please try a sharper shot."))
			return "", nil
		}
		text := "I photographed a medicine package. Here is what is on the photo:\n" + description
		if message.Caption != "" {
			text += "\nMy comment: " + message.Caption
		}
		return text, nil

	default:
		return message.Text, nil
	}
}

func downloadFile(ctx context.Context, bot *tgbotapi.BotAPI, fileID string) ([]byte, error) {
	url, err := bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
