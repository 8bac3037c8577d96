package web

import (
	"fmt"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
)

// field bitta forma maydoni; hammasi bitta shablon bilan chiziladi.
type field struct {
	Name     string
	Label    string
	Type     string // text, email, number, date, select, checkbox, textarea
	Value    string
	Options  []string
	Required bool
	ReadOnly bool
	Hint     string
}

type section struct {
	Title  string
	Fields []field
}

// formPage form.html ma'lumotlari
type formPage struct {
	Title    string
	Intro    string
	Action   string
	Token    string
	Hidden   map[string]string
	Sections []section
}

func text(name, label string, required bool) field {
	return field{Name: name, Label: label, Type: "text", Required: required}
}

// choice select; prefilled value outside the list is kept as the first option.
func choice(name, label, value string, options []string, blank bool) field {
	opts := options
	if blank {
		opts = append([]string{""}, options...)
	}
	if value != "" && !contains(opts, value) {
		opts = append([]string{value}, opts...)
	}
	return field{Name: name, Label: label, Type: "select", Value: value, Options: opts}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func catalogPage(token string) formPage {
	postal := text("postal_code", "郵便番号（必須）", true)
	postal.Hint = "※自動で住所補完します。(ブラウザの場合)"
	addr1 := text("address_1", "都道府県・市区町村（必須）", true)
	addr1.Hint = "※郵便番号入力後に自動補完されます。修正が必要な場合は上書きしてください。"
	addr2 := text("address_2", "番地・部屋番号など（必須）", true)
	addr2.Hint = "※カタログ送付のために番地や部屋番号を含めた完全な住所の記入が必要です"
	email := text(sheets.ColEmail, "メールアドレス（必須）", true)
	email.Type = "email"

	return formPage{
		Title:  "カタログ申込フォーム",
		Intro:  "以下の項目をご記入の上、送信してください。",
		Action: "/submit_form",
		Token:  token,
		Sections: []section{{Fields: []field{
			text(sheets.ColName, "氏名（必須）", true),
			postal, addr1, addr2,
			text(sheets.ColPhone, "電話番号（必須）", true),
			email,
			text("sns_account", "Insta・TikTok名（必須）", true),
			text("school_grade", "在籍予定の学校名と学年（未記入可）", false),
			{Name: "other", Label: "その他（質問やご要望など）", Type: "textarea"},
		}}},
	}
}

// quotationPage every quote column except the timestamp, in sheet order.
func quotationPage(token string, values map[string]string, opts SelectOptions) formPage {
	var fields []field
	for _, c := range sheets.QuoteSchema.Columns {
		if c.Key == sheets.ColTimestamp {
			continue
		}
		v := values[c.Key]
		if list, ok := opts[c.Key]; ok {
			fields = append(fields, choice(c.Key, c.Header, v, list, true))
			continue
		}
		f := text(c.Key, c.Header, false)
		f.Value = v
		if c.Key == sheets.ColQuoteNo {
			f.Required = true
			f.ReadOnly = v != ""
		}
		fields = append(fields, f)
	}
	return formPage{
		Title:    "見積内容の確認・編集",
		Action:   "/submit_quotation",
		Token:    token,
		Sections: []section{{Fields: fields}},
	}
}

func webOrderPage(token string, userID int64, orderNo string, values map[string]string) formPage {
	val := func(f field) field {
		f.Value = values[f.Name]
		return f
	}
	email := val(text(sheets.ColEmail, "メールアドレス", false))
	email.Type = "email"
	usage := val(field{Name: sheets.ColUsageDate, Label: "ご使用日", Type: "date", Required: true})
	usage.Hint = "14日以上先のご使用日は早割になります"

	customer := section{Title: "お客様情報", Fields: []field{
		val(text(sheets.ColName, "氏名", true)),
		val(text(sheets.ColPhone, "電話番号", true)),
		email,
	}}
	order := section{Title: "ご注文内容", Fields: []field{
		choice(sheets.ColAttribute, "属性", values[sheets.ColAttribute], catalog.Attributes, false),
		usage,
		choice(sheets.ColItem, "商品", values[sheets.ColItem], catalog.Products(), false),
		val(text(sheets.ColBodyColor, "ボディカラー", false)),
		choice(sheets.ColNameNumber, "ネーム・背番号", values[sheets.ColNameNumber], catalog.NameNumbers, false),
	}}

	sizes := section{Title: "サイズ別枚数"}
	for _, s := range sheets.SizeKeys {
		sizes.Fields = append(sizes.Fields, val(field{Name: sheets.SizeKey(s), Label: s, Type: "number"}))
	}
	count := val(field{Name: sheets.ColOrderCount, Label: "注文数", Type: "number"})
	count.Hint = "サイズ未定の場合のみ"
	sizes.Fields = append(sizes.Fields, count)

	sections := []section{customer, order, sizes}
	for i := 1; i <= 4; i++ {
		key := func(f string) string { return sheets.PlacementKey(f, i) }
		checked := func(f string) field {
			fd := field{Name: key(f), Type: "checkbox"}
			if values[fd.Name] != "" {
				fd.Value = "on"
			}
			return fd
		}
		full := checked(sheets.PlacementFullColor)
		full.Label = "フルカラー"
		outline := checked(sheets.PlacementOutline)
		outline.Label = "フチ付き"
		sections = append(sections, section{
			Title: fmt.Sprintf("プリント箇所 %d", i),
			Fields: []field{
				choice(key(sheets.PlacementPosition), "位置", values[key(sheets.PlacementPosition)], catalog.PrintSpots, true),
				choice(key(sheets.PlacementColorCount), "色数", values[key(sheets.PlacementColorCount)], catalog.ColorCounts, true),
				full,
				choice(key(sheets.PlacementSpecialInk), "特殊インク", values[key(sheets.PlacementSpecialInk)], catalog.SpecialInks, true),
				outline,
				choice(key(sheets.PlacementSize), "デザインサイズ", values[key(sheets.PlacementSize)], catalog.DesignSizes, true),
			},
		})
	}
	sections = append(sections, section{Fields: []field{
		val(field{Name: sheets.ColOtherNotes, Label: "備考", Type: "textarea"}),
	}})

	hidden := map[string]string{"uid": fmt.Sprint(userID)}
	if orderNo != "" {
		hidden[sheets.ColOrderNo] = orderNo
	}
	return formPage{
		Title:    "WEBフォームでの注文",
		Intro:    "送信後、Telegramに届く確認メッセージから注文を確定してください。",
		Action:   "/submit_web_order",
		Token:    token,
		Hidden:   hidden,
		Sections: sections,
	}
}
