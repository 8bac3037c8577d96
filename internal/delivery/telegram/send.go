package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// send bitta chattable. Media group javobi xabarlar massivi, Send uni
// Message ga o'qiy olmaydi, shuning uchun Request.
func (h *BotHandler) send(c tgbotapi.Chattable) error {
	if h.bot == nil {
		return errors.New("telegram bot is nil")
	}
	if _, ok := c.(tgbotapi.MediaGroupConfig); ok {
		_, err := h.bot.Request(c)
		return err
	}
	_, err := h.bot.Send(c)
	return err
}

// sendReplies javoblarni ketma-ket yuboradi; birinchi xatoda to'xtaydi.
func (h *BotHandler) sendReplies(ctx context.Context, chatID int64, replies []entity.Reply) error {
	for _, r := range replies {
		for _, c := range render(chatID, r) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := h.send(c); err != nil {
				return fmt.Errorf("send to %d: %w", chatID, err)
			}
		}
	}
	return nil
}

// Send repository.Messenger: shaxsiy chatda chat ID = user ID.
func (h *BotHandler) Send(ctx context.Context, userID int64, reply entity.Reply) error {
	return h.sendReplies(ctx, userID, []entity.Reply{reply})
}

// clearInlineButtons bosilgan xabardagi inline tugmalarni olib tashlaydi
func (h *BotHandler) clearInlineButtons(cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	empty := tgbotapi.NewInlineKeyboardMarkup()
	empty.InlineKeyboard = [][]tgbotapi.InlineKeyboardButton{}
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID, empty)
	if _, err := h.bot.Request(edit); err != nil {
		log.Printf("[telegram] inline keyboard clear failed: %v", err)
	}
}
