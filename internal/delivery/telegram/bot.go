package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/usecase"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

// sender tgbotapi.BotAPI ning biz ishlatadigan qismi
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// BotHandler Telegram bot handler
type BotHandler struct {
	api     *tgbotapi.BotAPI
	bot     sender
	chat    usecase.ChatUseCase
	metrics *metrics.Recorder
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, chat usecase.ChatUseCase, rec *metrics.Recorder) (*BotHandler, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newHandler(api, chat, rec)
	h.api = api
	return h, nil
}

func newHandler(bot sender, chat usecase.ChatUseCase, rec *metrics.Recorder) *BotHandler {
	return &BotHandler{
		bot:     bot,
		chat:    chat,
		metrics: rec,
	}
}

// SetChat chat usecase keyinroq ulanadi (Messenger bilan aylanma bog'liqlik).
func (h *BotHandler) SetChat(chat usecase.ChatUseCase) {
	h.chat = chat
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *BotHandler) GetBotUsername() string {
	if h.api == nil {
		return ""
	}
	return h.api.Self.UserName
}
