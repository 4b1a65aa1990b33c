// Package llm wraps the OpenAI collaborators the bot depends on: chat
// generation, Whisper transcription and vision. The rest of the system
// treats them as opaque text-in/text-out functions.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/AptekaBot/internal/models"
)

// Client calls the OpenAI API for generation, transcription and vision.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	logger    *logrus.Logger
}

// NewClient creates a new OpenAI client for the given model.
func NewClient(apiKey, model string, logger *logrus.Logger) *Client {
	return &Client{
		api:       openai.NewClient(apiKey),
		model:     model,
		maxTokens: 1000,
		logger:    logger,
	}
}

// Generate produces the assistant reply for one turn: system prompt,
// grounding context, the recent conversation window and the user's text.
// It is never retried; the caller degrades to a fixed apology on error.
func (c *Client) Generate(ctx context.Context, groundingContext string, history []*models.Message, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: groundingContext},
	)
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe turns a voice note into text with Whisper.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "voice.ogg",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe voice: %w", err)
	}

	return resp.Text, nil
}

const packagingPrompt = `The photo shows a medicine package. Identify:
1. Medicine name
2. Active ingredient
3. Dosage
4. Expiry date (if visible)
5. Indications
6. Category (painkiller, antipyretic, antibiotic and so on)
Answer briefly and structured.`

// DescribePhoto asks the vision model to describe a medicine package.
func (c *Client) DescribePhoto(ctx context.Context, dataURL string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 500,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: packagingPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe photo: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in vision response")
	}

	return resp.Choices[0].Message.Content, nil
}
