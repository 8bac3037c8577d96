package telegram

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

func TestRender_TextOnly(t *testing.T) {
	out := render(7, entity.TextReply("こんにちは"))
	if len(out) != 1 {
		t.Fatalf("got %d messages", len(out))
	}
	msg := out[0].(tgbotapi.MessageConfig)
	if msg.ChatID != 7 || msg.Text != "こんにちは" || msg.ReplyMarkup != nil {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestRender_ChoicesBecomeReplyKeyboard(t *testing.T) {
	out := render(7, entity.Reply{
		Text:    "❶属性を選択してください",
		Choices: [][]string{{"一般", "学生"}, {}},
	})
	msg := out[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	if !ok {
		t.Fatalf("markup = %T", msg.ReplyMarkup)
	}
	if len(kb.Keyboard) != 1 || kb.Keyboard[0][1].Text != "学生" || !kb.OneTimeKeyboard || !kb.ResizeKeyboard {
		t.Fatalf("keyboard = %+v", kb)
	}
}

func TestRender_ActionsInline(t *testing.T) {
	out := render(7, entity.Reply{
		Text: "見積り結果",
		Actions: [][]entity.Action{
			{{Label: "デザイン相談", Data: "CONSULT_DESIGN"}},
			{{Label: "開く", URL: "https://bot.example.com/x"}},
			{{Label: "empty"}},
		},
	})
	if len(out) != 1 {
		t.Fatalf("got %d messages", len(out))
	}
	kb := out[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if d := kb.InlineKeyboard[0][0].CallbackData; d == nil || *d != "CONSULT_DESIGN" {
		t.Fatalf("callback data = %v", d)
	}
	if u := kb.InlineKeyboard[1][0].URL; u == nil || *u != "https://bot.example.com/x" {
		t.Fatalf("url = %v", u)
	}
}

func TestRender_KeyboardAndActionsSplit(t *testing.T) {
	out := render(7, entity.Reply{
		Text:           "概算見積",
		RemoveKeyboard: true,
		Actions:        [][]entity.Action{{{Label: "WEB注文", Data: "WEB_ORDER"}}},
	})
	if len(out) != 2 {
		t.Fatalf("got %d messages", len(out))
	}
	if _, ok := out[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove); !ok {
		t.Fatalf("first message should remove the keyboard")
	}
	second := out[1].(tgbotapi.MessageConfig)
	if second.Text != actionsText {
		t.Fatalf("second text = %q", second.Text)
	}
	if _, ok := second.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Fatalf("second markup = %T", second.ReplyMarkup)
	}
}

func TestRender_Images(t *testing.T) {
	one := render(7, entity.Reply{Images: []entity.Image{{URL: "https://a/1.png", Caption: "Tシャツ"}}})
	if len(one) != 1 {
		t.Fatalf("got %d", len(one))
	}
	photo := one[0].(tgbotapi.PhotoConfig)
	if photo.Caption != "Tシャツ" || photo.File.(tgbotapi.FileURL) != "https://a/1.png" {
		t.Fatalf("photo = %+v", photo)
	}

	var imgs []entity.Image
	for i := 0; i < 11; i++ {
		imgs = append(imgs, entity.Image{URL: "https://a/x.png"})
	}
	out := render(7, entity.Reply{Text: "商品", Images: imgs})
	if len(out) != 3 {
		t.Fatalf("got %d messages", len(out))
	}
	group := out[0].(tgbotapi.MediaGroupConfig)
	if len(group.Media) != 10 {
		t.Fatalf("group size = %d", len(group.Media))
	}
	if _, ok := out[1].(tgbotapi.PhotoConfig); !ok {
		t.Fatalf("11th image should be a single photo, got %T", out[1])
	}
	if out[2].(tgbotapi.MessageConfig).Text != "商品" {
		t.Fatalf("text should follow images")
	}
}

func TestRender_LongTextKeepsKeyboardOnLastChunk(t *testing.T) {
	text := strings.Repeat("あ", messageLimit+10)
	out := render(7, entity.Reply{Text: text, Choices: [][]string{{"OK"}}})
	if len(out) != 2 {
		t.Fatalf("got %d chunks", len(out))
	}
	if out[0].(tgbotapi.MessageConfig).ReplyMarkup != nil {
		t.Fatalf("keyboard on first chunk")
	}
	if out[1].(tgbotapi.MessageConfig).ReplyMarkup == nil {
		t.Fatalf("keyboard missing on last chunk")
	}
}

func TestRender_Empty(t *testing.T) {
	if out := render(7, entity.Reply{}); len(out) != 0 {
		t.Fatalf("empty reply rendered %d messages", len(out))
	}
}

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  int
	}{
		{"abc", 0, 1},
		{"abcdef", 3, 2},
		{"abcdefg", 3, 3},
		{"見積り", 2, 2},
	}
	for _, tt := range tests {
		if got := splitIntoChunks(tt.in, tt.limit); len(got) != tt.want {
			t.Errorf("splitIntoChunks(%q, %d) = %v", tt.in, tt.limit, got)
		}
	}
}
