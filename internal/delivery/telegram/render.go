package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

const (
	messageLimit  = 4096
	captionLimit  = 1024
	mediaGroupMax = 10
	// actionsText inline tugmalar alohida xabarda ketganda
	actionsText = "▼ こちらからどうぞ"
)

// render bitta Reply ni yuboriladigan Telegram xabarlariga aylantiradi.
// Tartib: rasmlar, matn (reply keyboard bilan), keyin inline tugmalar.
// Bitta xabarga faqat bitta reply_markup tushadi, shuning uchun reply
// keyboard va inline tugmalar birga kelsa, tugmalar alohida xabarda.
func render(chatID int64, r entity.Reply) []tgbotapi.Chattable {
	out := renderImages(chatID, r.Images)

	keyboard := replyKeyboard(r)
	inline := inlineKeyboard(r.Actions)

	text := strings.TrimSpace(r.Text)
	if text == "" && (keyboard != nil || inline != nil) {
		text = actionsText
	}
	if text == "" {
		return out
	}

	chunks := splitIntoChunks(text, messageLimit)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == len(chunks)-1 {
			switch {
			case keyboard != nil:
				msg.ReplyMarkup = keyboard
			case inline != nil:
				msg.ReplyMarkup = *inline
				inline = nil
			}
		}
		out = append(out, msg)
	}
	if inline != nil {
		msg := tgbotapi.NewMessage(chatID, actionsText)
		msg.ReplyMarkup = *inline
		out = append(out, msg)
	}
	return out
}

// renderImages bitta rasm Photo, ko'p rasm 10 talik media group.
func renderImages(chatID int64, images []entity.Image) []tgbotapi.Chattable {
	var out []tgbotapi.Chattable
	for start := 0; start < len(images); start += mediaGroupMax {
		end := start + mediaGroupMax
		if end > len(images) {
			end = len(images)
		}
		batch := images[start:end]
		if len(batch) == 1 {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(batch[0].URL))
			photo.Caption = truncate(batch[0].Caption, captionLimit)
			out = append(out, photo)
			continue
		}
		media := make([]interface{}, 0, len(batch))
		for _, img := range batch {
			p := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(img.URL))
			p.Caption = truncate(img.Caption, captionLimit)
			media = append(media, p)
		}
		out = append(out, tgbotapi.NewMediaGroup(chatID, media))
	}
	return out
}

// replyKeyboard Choices tugma matni qaytib keladi, shuning uchun aynan shu label.
func replyKeyboard(r entity.Reply) interface{} {
	if len(r.Choices) > 0 {
		var rows [][]tgbotapi.KeyboardButton
		for _, row := range r.Choices {
			var buttons []tgbotapi.KeyboardButton
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			if len(buttons) > 0 {
				rows = append(rows, buttons)
			}
		}
		if len(rows) > 0 {
			kb := tgbotapi.NewReplyKeyboard(rows...)
			kb.OneTimeKeyboard = true
			kb.ResizeKeyboard = true
			return kb
		}
	}
	if r.RemoveKeyboard {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

func inlineKeyboard(actions [][]entity.Action) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range actions {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, a := range row {
			switch {
			case a.URL != "":
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.URL))
			case a.Data != "":
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
			}
		}
		if len(buttons) > 0 {
			rows = append(rows, buttons)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// splitIntoChunks matnni Telegram limitiga mos bo'lib yuborish uchun bo'ladi
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder
	n := 0
	for _, r := range s {
		current.WriteRune(r)
		n++
		if n >= limit {
			chunks = append(chunks, current.String())
			current.Reset()
			n = 0
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
