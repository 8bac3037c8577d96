package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
)

func newTestChat(t *testing.T, ai *stubAssistant) (ChatUseCase, *EstimateFlow, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	flow := env.flow(entity.VariantPattern)
	var assistant repository.Assistant
	if ai != nil {
		assistant = ai
	}
	return NewChatUseCase(flow, env.quotes, assistant, env.view), flow, env
}

func texts(replies []entity.Reply) string {
	var out []string
	for _, r := range replies {
		out = append(out, r.Text)
	}
	return strings.Join(out, "\n")
}

func TestHandleText_Keywords(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		text string
		want string
	}{
		{constants.CommandStart, constants.KeywordEstimate},
		{constants.KeywordInquiry, "お問い合わせ方法"},
		{constants.KeywordHandoff, "有人チャットに接続いたします"},
		{"キャンペーンについて", "現在のキャンペーン情報"},
		{"Catalog please", "現在のキャンペーン情報"},
		{constants.KeywordEstimate, "属性"},
	}
	for _, tt := range tests {
		chat, _, _ := newTestChat(t, nil)
		replies, err := chat.HandleText(ctx, 1, tt.text)
		if err != nil {
			t.Fatalf("%q: %v", tt.text, err)
		}
		if !strings.Contains(texts(replies), tt.want) {
			t.Errorf("%q: reply %q lacks %q", tt.text, texts(replies), tt.want)
		}
	}
}

func TestHandleText_TopicSwitchClearsSession(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		keyword string
		want    string
	}{
		{constants.KeywordHandoff, "有人チャットに接続いたします"},
		{constants.CommandStart, constants.KeywordEstimate},
		{constants.KeywordCancel, constants.MsgFlowCancelled},
		{constants.KeywordCampaign, "現在のキャンペーン情報"},
		{"catalog", "現在のキャンペーン情報"},
	}
	for _, tt := range tests {
		chat, flow, _ := newTestChat(t, nil)
		_, _ = chat.HandleText(ctx, 1, constants.KeywordEstimate)
		_, _ = chat.HandleText(ctx, 1, "学生")
		replies, err := chat.HandleText(ctx, 1, tt.keyword)
		if err != nil {
			t.Fatal(err)
		}
		if got := texts(replies); !strings.Contains(got, tt.want) || strings.Contains(got, constants.MsgInvalidInput) {
			t.Errorf("%q mid-flow: reply %q, want %q", tt.keyword, got, tt.want)
		}
		if active, _ := flow.Active(ctx, 1); active {
			t.Fatalf("%q left the session alive", tt.keyword)
		}
	}
}

func TestHandleText_FlowToCard(t *testing.T) {
	ctx := context.Background()
	chat, _, _ := newTestChat(t, nil)
	var last []entity.Reply
	for _, text := range []string{constants.KeywordEstimate, "一般", catalog.UsageAfter14, "ハイクオリティーTシャツ", "パターンC", "50～99枚"} {
		replies, err := chat.HandleText(ctx, 2, text)
		if err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		last = replies
	}
	if !strings.Contains(texts(last), "概算見積") {
		t.Fatalf("last reply = %q", texts(last))
	}
}

func TestHandleText_Assistant(t *testing.T) {
	ctx := context.Background()

	ai := &stubAssistant{resp: "納期は通常2週間です。"}
	chat, _, _ := newTestChat(t, ai)
	replies, _ := chat.HandleText(ctx, 3, "納期はどれくらいですか？")
	if texts(replies) != ai.resp {
		t.Fatalf("assistant reply = %q", texts(replies))
	}

	// a stale button tap outside the flow is not sent to the assistant
	ai.called = 0
	if replies, _ := chat.HandleText(ctx, 3, "パターンA"); len(replies) != 0 || ai.called != 0 {
		t.Fatalf("stale button answered: %v called=%d", replies, ai.called)
	}

	failing := &stubAssistant{err: errors.New("quota")}
	chat, _, _ = newTestChat(t, failing)
	if replies, err := chat.HandleText(ctx, 3, "こんにちは"); err != nil || len(replies) != 0 {
		t.Fatalf("assistant failure should be silent: %v %v", replies, err)
	}

	chat, _, _ = newTestChat(t, nil)
	if replies, _ := chat.HandleText(ctx, 3, "こんにちは"); len(replies) != 0 {
		t.Fatalf("without assistant free text is ignored")
	}
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()
	chat, flow, env := newTestChat(t, nil)

	_, _ = chat.HandleText(ctx, 5, constants.KeywordEstimate)
	replies, _ := chat.HandleCallback(ctx, 5, constants.CallbackConsultDesign)
	if !strings.Contains(texts(replies), "有人チャットに接続") {
		t.Fatalf("consult design = %q", texts(replies))
	}
	if active, _ := flow.Active(ctx, 5); active {
		t.Fatalf("consultation should clear the session")
	}

	replies, _ = chat.HandleCallback(ctx, 5, constants.CallbackConsultPersonal)
	if !strings.Contains(texts(replies), "スタッフによるチャット対応") {
		t.Fatalf("consult personal = %q", texts(replies))
	}

	replies, _ = chat.HandleCallback(ctx, 5, constants.CallbackWebOrder)
	if replies[0].Actions[0][0].URL != "https://bot.example.com/web_order_form?uid=5" {
		t.Fatalf("web order link = %+v", replies[0])
	}

	data, _ := env.quotes.WebOrderForm(ctx, 5, "")
	res, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token))
	if err != nil {
		t.Fatal(err)
	}
	replies, err = chat.HandleCallback(ctx, 5, constants.CallbackConfirmOrder+res.OrderNo)
	if err != nil || !strings.Contains(texts(replies), "注文番号 "+res.OrderNo+" を確定しました") {
		t.Fatalf("confirm = %q %v", texts(replies), err)
	}
	if c, _ := env.sheet.RowColor(constants.SheetWebOrders, 2); c != entity.StatusConfirmed.Color() {
		t.Fatalf("row not confirmed")
	}

	replies, _ = chat.HandleCallback(ctx, 5, constants.CallbackCancelOrder+res.OrderNo)
	if !strings.Contains(texts(replies), "保留のまま") {
		t.Fatalf("cancel = %q", texts(replies))
	}
	if c, _ := env.sheet.RowColor(constants.SheetWebOrders, 2); c != entity.StatusCancelled.Color() {
		t.Fatalf("row not marked cancelled")
	}

	replies, _ = chat.HandleCallback(ctx, 5, constants.CallbackConfirmOrder+"W404")
	if !strings.Contains(texts(replies), "見つかりませんでした") {
		t.Fatalf("unknown order = %q", texts(replies))
	}

	if replies, _ := chat.HandleCallback(ctx, 5, "SOMETHING_ELSE"); replies != nil {
		t.Fatalf("unknown callback answered")
	}
}
