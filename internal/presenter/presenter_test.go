package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

func newTestBuilder() *Builder {
	b := New("https://assets.example.com/", "https://bot.example.com")
	b.now = func() time.Time { return time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC) }
	return b
}

func flatten(choices [][]string) []string {
	var out []string
	for _, row := range choices {
		out = append(out, row...)
	}
	return out
}

// Every button label must be accepted verbatim by the validator.
func TestStepPrompt_LabelsParse(t *testing.T) {
	b := newTestBuilder()
	steps := []struct {
		step   entity.Step
		field  entity.Field
		single bool
	}{
		{entity.StepAttribute, entity.FieldAttribute, false},
		{entity.StepUsageDate, entity.FieldUsageDate, false},
		{entity.StepBudget, entity.FieldBudget, false},
		{entity.StepItem, entity.FieldItem, false},
		{entity.StepPattern, entity.FieldPattern, false},
		{entity.StepQuantity, entity.FieldQuantity, false},
		{entity.StepPosition, entity.FieldPosition, false},
		{entity.StepColorCount, entity.FieldColorCount, false},
		{entity.StepColorCount, entity.FieldColorCount, true},
		{entity.StepNameNumber, entity.FieldNameNumber, false},
	}
	for _, tt := range steps {
		sess := &entity.Session{
			SingleSided: tt.single,
			Answers:     []entity.FieldValue{{Field: entity.FieldItem, Value: "ゲームシャツ"}},
		}
		r := b.StepPrompt(tt.step, 1, sess)
		labels := flatten(r.Choices)
		if len(labels) != len(catalog.Choices(tt.field, tt.single)) {
			t.Fatalf("%s: %d buttons, want %d", tt.step, len(labels), len(catalog.Choices(tt.field, tt.single)))
		}
		for _, l := range labels {
			ans, ok := catalog.Parse(tt.field, l, tt.single)
			if !ok || ans.Label() != l {
				t.Fatalf("%s: button %q not accepted verbatim", tt.step, l)
			}
		}
		for _, img := range r.Images {
			if img.Label == "" {
				continue
			}
			if _, ok := catalog.Parse(tt.field, img.Label, tt.single); !ok {
				t.Fatalf("%s: image label %q not accepted", tt.step, img.Label)
			}
		}
	}
}

func TestStepPrompt_Heading(t *testing.T) {
	b := newTestBuilder()
	if r := b.StepPrompt(entity.StepAttribute, 1, nil); !strings.HasPrefix(r.Text, "❶属性") {
		t.Fatalf("text = %q", r.Text)
	}
	if r := b.StepPrompt(entity.StepQuantity, 5, nil); !strings.HasPrefix(r.Text, "❺枚数") {
		t.Fatalf("text = %q", r.Text)
	}
	if r := b.StepPrompt(entity.StepTerminal, 1, nil); r.Text != constants.MsgInvalidInput {
		t.Fatalf("terminal prompt = %q", r.Text)
	}
}

func TestItemCarousel(t *testing.T) {
	r := newTestBuilder().ItemCarousel()
	if len(r.Images) != len(catalog.Products()) {
		t.Fatalf("images = %d", len(r.Images))
	}
	first := r.Images[0]
	if first.URL != "https://assets.example.com/dry_tshirt.png?v=20250401093000" {
		t.Fatalf("url = %s", first.URL)
	}
	if first.Label != "ドライTシャツ" {
		t.Fatalf("label = %s", first.Label)
	}

	noAssets := New("", "").ItemCarousel()
	if len(noAssets.Images) != 0 || len(flatten(noAssets.Choices)) != 12 {
		t.Fatalf("without asset base: %+v", noAssets)
	}
}

func TestPatternCarousel(t *testing.T) {
	r := newTestBuilder().PatternCarousel("ゲームシャツ")
	if len(r.Images) != 6 {
		t.Fatalf("images = %d", len(r.Images))
	}
	if !strings.Contains(r.Images[1].URL, "/game_shirt_B.png?v=") || r.Images[1].Label != "パターンB" {
		t.Fatalf("image = %+v", r.Images[1])
	}
	if PatternImage("unknown", "A") != "" {
		t.Fatalf("unknown item should have no pattern image")
	}
}

func TestResultCard(t *testing.T) {
	b := newTestBuilder()
	req := entity.EstimateRequest{
		Variant:       entity.VariantPattern,
		Item:          "ドライTシャツ",
		Pattern:       "パターンA",
		CustomerTier:  entity.TierGeneral,
		DiscountTier:  entity.DiscountEarly,
		UsageDate:     catalog.UsageAfter14,
		QuantityLabel: "10～19枚",
		Quantity:      10,
	}
	price := entity.PriceBreakdown{Base: 1830, Unit: 1830, Total: 18300, Quantity: 10, Matched: true}
	r := b.ResultCard(ResultCard{QuoteNo: "20250401093000", Request: req, Price: price, FormURL: b.QuotationFormURL("20250401093000")})

	for _, want := range []string{
		"見積番号: 20250401093000",
		"使用日: 14日目以降（早割）",
		"パターン: パターンA",
		"【合計金額】18,300円",
		"【1枚あたり】1,830円",
		"デザイン相談へお進みください",
	} {
		if !strings.Contains(r.Text, want) {
			t.Fatalf("card missing %q:\n%s", want, r.Text)
		}
	}
	if strings.Contains(r.Text, "見つかりませんでした") {
		t.Fatalf("matched card shows miss note")
	}
	if len(r.Images) != 1 || !strings.Contains(r.Images[0].URL, "dry_tshirt_A.png") {
		t.Fatalf("images = %+v", r.Images)
	}
	if r.Actions[0][0].Data != constants.CallbackConsultDesign || r.Actions[1][0].Data != constants.CallbackWebOrder {
		t.Fatalf("actions = %+v", r.Actions)
	}
	if got := r.Actions[2][0].URL; got != "https://bot.example.com/quotation_form?quote_no=20250401093000" {
		t.Fatalf("form url = %s", got)
	}
	if !r.RemoveKeyboard {
		t.Fatalf("card should drop the step keyboard")
	}

	miss := b.ResultCard(ResultCard{QuoteNo: "x", Request: req})
	if !strings.Contains(miss.Text, "【合計金額】0円") || !strings.Contains(miss.Text, "見つかりませんでした") {
		t.Fatalf("miss card:\n%s", miss.Text)
	}
	if len(miss.Actions) != 2 {
		t.Fatalf("no form url means no link button: %+v", miss.Actions)
	}
}

func TestOrderConfirmPrompt(t *testing.T) {
	r := OrderConfirmPrompt("W20250401093000", entity.EstimateRequest{Item: "ドライTシャツ"},
		entity.PriceBreakdown{Unit: 2010, Total: 40200, Quantity: 20})
	if r.Actions[0][0].Data != "CONFIRM_ORDER:W20250401093000" || r.Actions[1][0].Data != "CANCEL_ORDER:W20250401093000" {
		t.Fatalf("actions = %+v", r.Actions)
	}
	if !strings.Contains(r.Text, "40,200円") || !strings.Contains(r.Text, "20枚") {
		t.Fatalf("text = %s", r.Text)
	}
	if !strings.Contains(OrderConfirmed("W1").Text, "注文番号 W1 を確定しました") {
		t.Fatalf("confirmed text")
	}
}

func TestLinksAndStaticTexts(t *testing.T) {
	b := newTestBuilder()
	if u := b.WebOrderLink(42).Actions[0][0].URL; u != "https://bot.example.com/web_order_form?uid=42" {
		t.Fatalf("web order url = %s", u)
	}
	if r := New("", "").WebOrderLink(42); len(r.Actions) != 0 {
		t.Fatalf("no public base should give a plain text reply")
	}
	inq := b.Inquiry()
	if inq.Actions[0][0].URL != constants.FAQURL || flatten(inq.Choices)[0] != constants.KeywordHandoff {
		t.Fatalf("inquiry = %+v", inq)
	}
	if !strings.Contains(Campaign().Text, constants.InstagramURL) || !strings.Contains(Campaign().Text, constants.TikTokURL) {
		t.Fatalf("campaign text lacks links")
	}
	if !strings.HasPrefix(Handoff().Text, "有人チャットに接続いたします。") {
		t.Fatalf("handoff text")
	}
	w := b.Welcome()
	if flatten(w.Choices)[0] != constants.KeywordEstimate || w.Actions[0][0].URL != "https://bot.example.com/catalog_form" {
		t.Fatalf("welcome = %+v", w)
	}
}
