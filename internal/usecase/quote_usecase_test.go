package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
)

func TestKeyNumbers_SameSecondSuffix(t *testing.T) {
	k := &keyNumbers{prefix: "W"}
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	got := []string{k.next(at), k.next(at), k.next(at), k.next(at.Add(time.Second))}
	want := []string{"W20250401090000", "W20250401090000-01", "W20250401090000-02", "W20250401090001"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("next[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func webOrderForm(token string) map[string]string {
	return map[string]string{
		"token":                 token,
		"uid":                   "42",
		sheets.ColName:          "山田 太郎",
		sheets.ColPhone:         "090-0000-0000",
		sheets.ColAttribute:     "一般",
		sheets.ColUsageDate:     "2025-05-01",
		sheets.ColItem:          "ドライTシャツ",
		sheets.SizeKey("M"):     "10",
		sheets.SizeKey("L"):     "10",
		"print_position_1":      "前",
		"print_color_count_1":   "2色",
		"print_position_2":      "背中",
		"print_color_count_2":   "フルカラー",
		"print_size_2":          "A4以下",
		"special_ink_2":         "ラメ",
		"outline_2":             "on",
		sheets.ColNameNumber:    "なし",
	}
}

func TestParseWebOrder(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	req, err := ParseWebOrder(webOrderForm(""), now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Quantity != 20 || req.DiscountTier != entity.DiscountEarly || req.CustomerTier != entity.TierGeneral {
		t.Fatalf("req = %+v", req)
	}
	if len(req.Placements) != 2 || req.SingleSided {
		t.Fatalf("placements = %+v", req.Placements)
	}
	back := req.Placements[1]
	if !back.FullColor || back.DesignSize != "A4以下" || back.SpecialInk != "ラメ" || !back.Outline {
		t.Fatalf("back placement = %+v", back)
	}
	if req.Placements[0].ColorCount != 2 {
		t.Fatalf("front colors = %d", req.Placements[0].ColorCount)
	}

	soon := webOrderForm("")
	soon[sheets.ColUsageDate] = "2025-04-10"
	if r, _ := ParseWebOrder(soon, now); r.DiscountTier != entity.DiscountRegular {
		t.Fatalf("9 days ahead should be regular")
	}

	bad := []func(m map[string]string){
		func(m map[string]string) { m[sheets.ColAttribute] = "会社員" },
		func(m map[string]string) { m[sheets.ColItem] = "パーカー" },
		func(m map[string]string) { m[sheets.ColUsageDate] = "someday" },
		func(m map[string]string) { m[sheets.SizeKey("M")] = "-1" },
		func(m map[string]string) { delete(m, sheets.SizeKey("M")); delete(m, sheets.SizeKey("L")) },
		func(m map[string]string) { delete(m, "print_position_1"); delete(m, "print_position_2") },
		func(m map[string]string) { m["print_color_count_1"] = "7色" },
		func(m map[string]string) { m["special_ink_2"] = "蛍光" },
	}
	for i, mutate := range bad {
		form := webOrderForm("")
		mutate(form)
		if _, err := ParseWebOrder(form, now); !errors.Is(err, ErrInvalidForm) {
			t.Errorf("case %d: expected ErrInvalidForm, got %v", i, err)
		}
	}
}

func TestSubmitWebOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.quotes.now = func() time.Time { return time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC) }

	data, err := env.quotes.WebOrderForm(ctx, 42, "")
	if err != nil || data.Token == "" {
		t.Fatalf("form: %+v %v", data, err)
	}
	res, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.OrderNo != "W20250401100000" || !res.Price.Matched || res.Price.Total != res.Price.Unit*20 {
		t.Fatalf("result = %+v", res)
	}

	rows := env.rows(t, constants.SheetWebOrders)
	if len(rows) != 2 || rows[1][1] != res.OrderNo {
		t.Fatalf("rows = %v", rows)
	}
	if c, ok := env.sheet.RowColor(constants.SheetWebOrders, 2); !ok || c != entity.StatusPending.Color() {
		t.Fatalf("pending marker missing")
	}
	sent := env.messenger.sent[42]
	if len(sent) != 1 || sent[0].Actions[0][0].Data != constants.CallbackConfirmOrder+res.OrderNo {
		t.Fatalf("confirmation push = %+v", sent)
	}

	// same token again is a duplicate submission
	if _, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token)); !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("reused token: %v", err)
	}
	if len(env.rows(t, constants.SheetWebOrders)) != 2 {
		t.Fatalf("duplicate submission wrote a row")
	}

	// editing the saved order overwrites it in place
	again, _ := env.quotes.WebOrderForm(ctx, 0, res.OrderNo)
	if !again.Found || again.UserID != 42 || again.Values[sheets.ColItem] != "ドライTシャツ" {
		t.Fatalf("prefill = %+v", again)
	}
	form := webOrderForm(again.Token)
	form[sheets.ColOrderNo] = res.OrderNo
	form[sheets.SizeKey("L")] = "30"
	if _, err := env.quotes.SubmitWebOrder(ctx, again.Token, form); err != nil {
		t.Fatal(err)
	}
	rows = env.rows(t, constants.SheetWebOrders)
	if len(rows) != 2 || rows[1][column(t, sheets.WebOrderSchema, sheets.ColOrderCount)] != "40" {
		t.Fatalf("edit did not overwrite: %v", rows)
	}
}

func TestSubmitWebOrder_MessengerFailureKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.messenger.err = errors.New("blocked by user")
	data, _ := env.quotes.WebOrderForm(ctx, 42, "")
	if _, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token)); err != nil {
		t.Fatalf("push failure should not fail the order: %v", err)
	}
	if len(env.rows(t, constants.SheetWebOrders)) != 2 {
		t.Fatalf("order not saved")
	}
}

func TestSetOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	data, _ := env.quotes.WebOrderForm(ctx, 42, "")
	res, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token))
	if err != nil {
		t.Fatal(err)
	}
	before := env.rows(t, constants.SheetWebOrders)

	found, err := env.quotes.SetOrderStatus(ctx, res.OrderNo, entity.StatusConfirmed)
	if err != nil || !found {
		t.Fatalf("confirm: %v %v", found, err)
	}
	if c, _ := env.sheet.RowColor(constants.SheetWebOrders, 2); c != entity.StatusConfirmed.Color() {
		t.Fatalf("color = %v", c)
	}
	after := env.rows(t, constants.SheetWebOrders)
	if strings.Join(before[1], "|") != strings.Join(after[1], "|") {
		t.Fatalf("status change touched data")
	}

	found, err = env.quotes.SetOrderStatus(ctx, "W0", entity.StatusConfirmed)
	if err != nil || found {
		t.Fatalf("unknown order: %v %v", found, err)
	}
}

func TestQuotationForm_PrefillAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := entity.EstimateRequest{
		Variant: entity.VariantPattern, Item: "ドライTシャツ", Pattern: "パターンA",
		CustomerTier: entity.TierGeneral, DiscountTier: entity.DiscountEarly,
		UsageDate: "14日目以降", QuantityLabel: "10～19枚", Quantity: 10,
	}
	price := env.engine.Compute(req)
	quoteNo, err := env.quotes.SaveFlowQuote(ctx, 7, req, price)
	if err != nil {
		t.Fatal(err)
	}

	data, err := env.quotes.QuotationForm(ctx, quoteNo)
	if err != nil || !data.Found {
		t.Fatalf("form: %+v %v", data, err)
	}
	if data.Values[sheets.ColProduct] != "ドライTシャツ" || data.Values[sheets.ColTotalPrice] != "18300" {
		t.Fatalf("prefill = %v", data.Values)
	}

	form := map[string]string{
		sheets.ColQuoteNo:   quoteNo,
		sheets.ColBodyColor: "ホワイト",
		"size_count_M":      "12",
	}
	if _, err := env.quotes.SubmitQuotation(ctx, data.Token, form); err != nil {
		t.Fatalf("submit: %v", err)
	}
	rows := env.rows(t, constants.SheetQuotes)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	row := rows[1]
	if row[column(t, sheets.QuoteSchema, sheets.ColBodyColor)] != "ホワイト" ||
		row[column(t, sheets.QuoteSchema, sheets.ColProduct)] != "ドライTシャツ" ||
		row[column(t, sheets.QuoteSchema, "size_count_M")] != "12" {
		t.Fatalf("row = %v", row)
	}

	if _, err := env.quotes.SubmitQuotation(ctx, data.Token, form); !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("token reuse: %v", err)
	}
	fresh, _ := env.quotes.QuotationForm(ctx, "")
	if _, err := env.quotes.SubmitQuotation(ctx, fresh.Token, map[string]string{}); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("missing quote_no: %v", err)
	}
}

func TestQuotationForm_StorageError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	data, _ := env.quotes.QuotationForm(ctx, "")
	env.sheet.FailWith = errors.New("quota")
	_, err := env.quotes.SubmitQuotation(ctx, data.Token, map[string]string{sheets.ColQuoteNo: "Q1"})
	if err == nil || errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestCatalogUseCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := NewCatalogUseCase(env.store, env.tokens, nil, 0)

	tok, err := u.Form(ctx)
	if err != nil {
		t.Fatal(err)
	}
	form := map[string]string{
		"name": "佐藤", "postal_code": "100-0001", "address_1": "東京都千代田区", "address_2": "1-1",
		"phone": "03", "email": "a@example.com", "sns_account": "@x", "school_grade": "高校2年", "other": "",
	}
	if err := u.Submit(ctx, tok, form); err != nil {
		t.Fatal(err)
	}
	rows := env.rows(t, constants.SheetCatalogRequests)
	if len(rows) != 2 || rows[1][3] != "東京都千代田区 1-1" || rows[1][1] != "佐藤" {
		t.Fatalf("rows = %v", rows)
	}
	if err := u.Submit(ctx, tok, form); !errors.Is(err, repository.ErrInvalidToken) {
		t.Fatalf("reuse: %v", err)
	}
	tok2, _ := u.Form(ctx)
	if err := u.Submit(ctx, tok2, map[string]string{}); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("empty name: %v", err)
	}
	// the corrected form goes through with the same token
	if err := u.Submit(ctx, tok2, form); err != nil {
		t.Fatalf("resubmit after fix: %v", err)
	}
}

func TestRejectedFormKeepsToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	data, _ := env.quotes.WebOrderForm(ctx, 42, "")
	bad := webOrderForm(data.Token)
	bad[sheets.SizeKey("M")] = "十"
	if _, err := env.quotes.SubmitWebOrder(ctx, data.Token, bad); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("bad size count: %v", err)
	}
	if _, err := env.quotes.SubmitWebOrder(ctx, data.Token, webOrderForm(data.Token)); err != nil {
		t.Fatalf("web order resubmit: %v", err)
	}

	q, _ := env.quotes.QuotationForm(ctx, "")
	if _, err := env.quotes.SubmitQuotation(ctx, q.Token, map[string]string{}); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("missing quote_no: %v", err)
	}
	if _, err := env.quotes.SubmitQuotation(ctx, q.Token, map[string]string{sheets.ColQuoteNo: "Q1"}); err != nil {
		t.Fatalf("quotation resubmit: %v", err)
	}
}
