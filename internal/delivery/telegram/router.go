package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
)

// Start long polling rejimi (lokal ishlab chiqish uchun). Bir foydalanuvchi
// update'lari kelish tartibida, turli foydalanuvchilar parallel.
func (h *BotHandler) Start(ctx context.Context) error {
	if h.api == nil {
		return errors.New("polling needs a live bot api")
	}
	if _, err := h.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Printf("[telegram] webhook o'chirilmadi: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.api.GetUpdatesChan(u)
	log.Printf("[telegram] polling @%s", h.GetBotUsername())
	queues := newUserQueues(func(u tgbotapi.Update) { h.HandleUpdate(ctx, u) })

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			queues.push(update)
		}
	}
}

// HandleUpdate bitta update ni sinxron qayta ishlaydi (webhook shu yerga keladi).
func (h *BotHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.metrics.Update("callback")
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.metrics.Update("message")
		h.handleMessage(ctx, update.Message)
	default:
		h.metrics.Update("other")
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil || !message.Chat.IsPrivate() {
		return
	}
	text := message.Text
	if message.IsCommand() && message.Command() == "start" {
		text = constants.CommandStart
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	userID := message.From.ID
	replies, err := h.chat.HandleText(ctx, userID, text)
	if err != nil {
		logger.ErrorLogger.Printf("[telegram] user=%d text=%q: %v", userID, text, err)
	}
	if err := h.sendReplies(ctx, message.Chat.ID, replies); err != nil {
		logger.ErrorLogger.Printf("[telegram] javob yuborilmadi user=%d: %v", userID, err)
	}
}

// handleCallback inline tugma bosilganda
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("[telegram] callback answer failed: %v", err)
	}

	// buyurtma tugmalari bir marta bosiladi
	if strings.HasPrefix(cq.Data, constants.CallbackConfirmOrder) || strings.HasPrefix(cq.Data, constants.CallbackCancelOrder) {
		h.clearInlineButtons(cq)
	}

	userID := cq.From.ID
	replies, err := h.chat.HandleCallback(ctx, userID, cq.Data)
	if err != nil {
		logger.ErrorLogger.Printf("[telegram] callback user=%d data=%q: %v", userID, cq.Data, err)
	}
	chatID := userID
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
	}
	if err := h.sendReplies(ctx, chatID, replies); err != nil {
		logger.ErrorLogger.Printf("[telegram] javob yuborilmadi user=%d: %v", userID, err)
	}
}
