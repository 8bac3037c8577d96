// Package presenter builds transport-neutral replies. Builders never touch
// storage; every selectable label comes from the catalog package.
package presenter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// Builder holds the base URLs that replies link to.
type Builder struct {
	assetBase  string
	publicBase string
	// now rasm versiyasi (?v=) uchun
	now func() time.Time
}

// New assetBase serves catalog images, publicBase serves the web forms.
// Either may be empty: images are then left out, form links too.
func New(assetBase, publicBase string) *Builder {
	return &Builder{
		assetBase:  strings.TrimRight(assetBase, "/"),
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}
}

// imageURL cache-busting versiyali rasm manzili
func (b *Builder) imageURL(file string) (string, bool) {
	if b.assetBase == "" || file == "" {
		return "", false
	}
	return fmt.Sprintf("%s/%s?v=%s", b.assetBase, url.PathEscape(file), b.now().Format(constants.QuoteNumberLayout)), true
}

func (b *Builder) formURL(path string, query url.Values) (string, bool) {
	if b.publicBase == "" {
		return "", false
	}
	u := b.publicBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, true
}

// QuotationFormURL link to the quote management form for one quote.
func (b *Builder) QuotationFormURL(quoteNo string) string {
	u, _ := b.formURL("/quotation_form", url.Values{"quote_no": {quoteNo}})
	return u
}

// WebOrderFormURL link to the web order form for one user.
func (b *Builder) WebOrderFormURL(userID int64) string {
	u, _ := b.formURL("/web_order_form", url.Values{"uid": {strconv.FormatInt(userID, 10)}})
	return u
}

var circled = []string{"❶", "❷", "❸", "❹", "❺", "❻", "❼", "❽", "❾"}

func heading(n int, title string) string {
	if n >= 1 && n <= len(circled) {
		return circled[n-1] + title
	}
	return title
}

// rows splits labels into keyboard rows of width.
func rows(labels []string, width int) [][]string {
	var out [][]string
	for i := 0; i < len(labels); i += width {
		end := min(i+width, len(labels))
		out = append(out, append([]string(nil), labels[i:end]...))
	}
	return out
}

// StepPrompt the question for step. n is the 1-based question number shown
// in the heading; sess supplies the chosen item and the single-sided branch.
func (b *Builder) StepPrompt(step entity.Step, n int, sess *entity.Session) entity.Reply {
	single := sess != nil && sess.SingleSided
	switch step {
	case entity.StepAttribute:
		return entity.Reply{
			Text:    heading(n, "属性") + "\nご利用者の属性を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldAttribute, single), 2),
		}
	case entity.StepUsageDate:
		return entity.Reply{
			Text:    heading(n, "使用日") + "\nご使用日は、今日より?\n(注文日より使用日が14日目以降なら早割)",
			Choices: rows(catalog.Choices(entity.FieldUsageDate, single), 2),
		}
	case entity.StepBudget:
		return entity.Reply{
			Text:    heading(n, "ご予算") + "\n1枚あたりのご予算を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldBudget, single), 2),
		}
	case entity.StepItem:
		r := b.ItemCarousel()
		r.Text = heading(n, "商品カテゴリー") + "\n" + r.Text
		return r
	case entity.StepPattern:
		item := ""
		if sess != nil {
			item, _ = sess.Answer(entity.FieldItem)
		}
		r := b.PatternCarousel(item)
		r.Text = heading(n, "パターン") + "\n" + r.Text
		return r
	case entity.StepQuantity:
		return entity.Reply{
			Text:    heading(n, "枚数") + "\n必要枚数を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldQuantity, single), 2),
		}
	case entity.StepPosition:
		return entity.Reply{
			Text:    heading(n, "プリント位置") + "\nプリントする位置を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldPosition, single), 2),
		}
	case entity.StepColorCount:
		width := 2
		if !single {
			width = 1
		}
		return entity.Reply{
			Text:    heading(n, "プリントカラー") + "\nプリントの色数を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldColorCount, single), width),
		}
	case entity.StepNameNumber:
		return entity.Reply{
			Text:    heading(n, "ネーム・背番号") + "\nネーム・背番号の有無を選択してください。",
			Choices: rows(catalog.Choices(entity.FieldNameNumber, single), 2),
		}
	}
	return entity.TextReply(constants.MsgInvalidInput)
}

// ItemCarousel one image per product, grouped by category. The product
// names double as the keyboard so a tap sends the exact label.
func (b *Builder) ItemCarousel() entity.Reply {
	r := entity.Reply{Text: "商品を選択してください。"}
	for _, cat := range catalog.Categories {
		var names []string
		for _, p := range cat.Products {
			names = append(names, p.Name)
			if u, ok := b.imageURL(p.Image); ok {
				r.Images = append(r.Images, entity.Image{URL: u, Caption: cat.Title + "：" + p.Name, Label: p.Name})
			}
		}
		r.Choices = append(r.Choices, rows(names, 2)...)
	}
	return r
}

// PatternImage "dry_tshirt.png" + "A" -> "dry_tshirt_A.png"
func PatternImage(item, code string) string {
	p, ok := catalog.FindProduct(item)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(p.Image, ".png") + "_" + code + ".png"
}

// PatternCarousel design patterns of one item.
func (b *Builder) PatternCarousel(item string) entity.Reply {
	r := entity.Reply{Text: "パターンを選択してください。"}
	for _, code := range catalog.PatternCodes {
		label := catalog.PatternPrefix + code
		if u, ok := b.imageURL(PatternImage(item, code)); ok {
			r.Images = append(r.Images, entity.Image{URL: u, Caption: label + "で金額を確認", Label: label})
		}
	}
	r.Choices = rows(catalog.Patterns(), 3)
	return r
}

// ResultCard ma'lumotlari
type ResultCard struct {
	QuoteNo string
	Request entity.EstimateRequest
	Price   entity.PriceBreakdown
	FormURL string
}

// Yen 18300 -> "18,300円"
func Yen(v int) string {
	return humanize.Comma(int64(v)) + "円"
}

// ResultCard the estimate summary sent when the flow completes.
func (b *Builder) ResultCard(c ResultCard) entity.Reply {
	req := c.Request
	var sb strings.Builder
	sb.WriteString("概算見積\n")
	fmt.Fprintf(&sb, "見積番号: %s\n", c.QuoteNo)
	fmt.Fprintf(&sb, "属性: %s\n", req.CustomerTier)
	fmt.Fprintf(&sb, "使用日: %s（%s）\n", req.UsageDate, req.DiscountTier)
	if req.Budget != "" {
		fmt.Fprintf(&sb, "ご予算: %s\n", req.Budget)
	}
	fmt.Fprintf(&sb, "商品: %s\n", req.Item)
	if req.Pattern != "" {
		fmt.Fprintf(&sb, "パターン: %s\n", req.Pattern)
	}
	fmt.Fprintf(&sb, "枚数: %s\n", req.QuantityLabel)
	if req.Position != "" {
		fmt.Fprintf(&sb, "プリント位置: %s\n", req.Position)
	}
	if req.ColorChoice != "" {
		fmt.Fprintf(&sb, "プリントカラー: %s\n", req.ColorChoice)
	}
	if req.NameNumber != "" {
		fmt.Fprintf(&sb, "ネーム・背番号: %s\n", req.NameNumber)
	}
	sb.WriteString("――――――\n")
	fmt.Fprintf(&sb, "【合計金額】%s\n", Yen(c.Price.Total))
	fmt.Fprintf(&sb, "【1枚あたり】%s\n", Yen(c.Price.Unit))
	sb.WriteString("――――――\n")
	if !c.Price.Matched {
		sb.WriteString("※この組み合わせの単価が見つかりませんでした。スタッフよりご案内いたします。\n")
	}
	sb.WriteString("※より正確な金額をご希望の方は、下記からデザイン相談へお進みください。")

	r := entity.Reply{Text: sb.String(), RemoveKeyboard: true}

	img := ""
	if p, ok := catalog.FindProduct(req.Item); ok {
		img = p.Image
	}
	if code := strings.TrimSpace(strings.TrimPrefix(req.Pattern, catalog.PatternPrefix)); code != "" {
		img = PatternImage(req.Item, code)
	}
	if u, ok := b.imageURL(img); ok {
		r.Images = []entity.Image{{URL: u, Caption: req.Item + "の見積結果"}}
	}

	r.Actions = [][]entity.Action{
		{{Label: "デザイン相談", Data: constants.CallbackConsultDesign}},
		{{Label: "WEBフォームで注文", Data: constants.CallbackWebOrder}},
	}
	if c.FormURL != "" {
		r.Actions = append(r.Actions, []entity.Action{{Label: "見積内容を確認・編集", URL: c.FormURL}})
	}
	return r
}

// Inquiry FAQ va jonli chat kartalari
func (b *Builder) Inquiry() entity.Reply {
	r := entity.Reply{
		Text:    "お問い合わせ方法をお選びください。",
		Actions: [][]entity.Action{{{Label: "よくある質問", URL: constants.FAQURL}}},
		Choices: [][]string{{constants.KeywordHandoff}},
	}
	if u, ok := b.imageURL("IMG_5765.PNG"); ok {
		r.Images = append(r.Images, entity.Image{URL: u, Caption: "よくある質問"})
	}
	if u, ok := b.imageURL("IMG_5766.PNG"); ok {
		r.Images = append(r.Images, entity.Image{URL: u, Caption: "有人チャット", Label: constants.KeywordHandoff})
	}
	return r
}

// Handoff text for the human chat keyword.
func Handoff() entity.Reply {
	return entity.Reply{RemoveKeyboard: true, Text: "有人チャットに接続いたします。\n" +
		"ご検討中のデザインを画像やイラストでお送りください。\n\n" +
		"※当ショップの営業時間は10：00～18：00となります。\n" +
		"営業時間外のお問い合わせにつきましては確認ができ次第の回答となります。\n" +
		"誠に恐れ入りますが、ご了承くださいませ。\n\n" +
		"その他ご要望などがございましたらメッセージでお送りくださいませ。\n" +
		"よろしくお願い致します。"}
}

// ConsultDesign reply to the design consultation button.
func ConsultDesign() entity.Reply {
	return entity.Reply{RemoveKeyboard: true, Text: "有人チャットに接続いたします。\n" +
		"ご検討中のデザインがございましたら、画像やイラストなどの資料をお送りくださいませ。\n\n" +
		"※当ショップの営業時間は【10:00～19:00】でございます。\n" +
		"営業時間外にいただいたお問い合わせにつきましては、確認でき次第、順次ご対応させていただきます。\n" +
		"何卒ご理解賜りますようお願い申し上げます。\n\n" +
		"その他ご要望やご不明点がございましたら、お気軽にメッセージをお送りくださいませ。\n" +
		"どうぞよろしくお願いいたします。"}
}

// ConsultPersonal reply to the personal consultation button.
func ConsultPersonal() entity.Reply {
	return entity.Reply{RemoveKeyboard: true, Text: "スタッフによるチャット対応を開始いたします。\n" +
		"ご検討中の商品について、金額やデザインに関するご質問がございましたら、こちらからお気軽にご相談ください。\n\n" +
		"※当ショップの営業時間は【10:00～19:00】です。\n" +
		"営業時間外にいただいたお問い合わせにつきましては、確認でき次第、順次ご対応させていただきます。\n" +
		"あらかじめご了承くださいませ。\n\n" +
		"そのほか、ご要望やご不明点がございましたら、メッセージにてお知らせください。\n" +
		"よろしくお願いいたします。"}
}

// Campaign kampaniya va SNS havolalari
func Campaign() entity.Reply {
	return entity.Reply{RemoveKeyboard: true, Text: "📢 現在のキャンペーン情報\n" +
		"現在、実施中のキャンペーンはございません🙇‍♀️\n" +
		"今後、お得なキャンペーンやプレゼント企画などを予定しておりますので、" +
		"ぜひこのチャットを登録したままお待ちいただけますと嬉しいです🎁✨\n" +
		"新着情報は、こちらや各SNSで随時お知らせいたします！\n\n" +
		"📸 Instagramはこちら\n" +
		"商品紹介や制作事例、お客様の声などを日々アップしています！\n" +
		"👉 " + constants.InstagramURL + "\n\n" +
		"🎵 TikTokはこちら\n" +
		"制作風景や裏側、スタッフの日常などを楽しくお届け中📹✨\n" +
		"👉 " + constants.TikTokURL + "\n\n" +
		"今後ともどうぞよろしくお願いいたします！"}
}

// Welcome /start menyusi
func (b *Builder) Welcome() entity.Reply {
	r := entity.Reply{
		Text: "オリジナルTシャツのお見積りチャットです。\n" +
			"「" + constants.KeywordEstimate + "」で概算金額をすぐにお出しします。",
		Choices: [][]string{
			{constants.KeywordEstimate},
			{constants.KeywordInquiry, constants.KeywordCampaign},
		},
	}
	if u, ok := b.formURL("/catalog_form", nil); ok {
		r.Actions = [][]entity.Action{{{Label: "カタログ請求", URL: u}}}
	}
	return r
}

// WebOrderLink card with the user's web order form link.
func (b *Builder) WebOrderLink(userID int64) entity.Reply {
	u := b.WebOrderFormURL(userID)
	if u == "" {
		return entity.TextReply("現在WEBフォームはご利用いただけません。お手数ですがスタッフまでお問い合わせください。")
	}
	return entity.Reply{
		Text:    "WEBフォームでの注文を開く",
		Actions: [][]entity.Action{{{Label: "開く", URL: u}}},
	}
}

// OrderConfirmPrompt pushed after a web order is saved.
func OrderConfirmPrompt(orderNo string, req entity.EstimateRequest, price entity.PriceBreakdown) entity.Reply {
	var sb strings.Builder
	sb.WriteString("ご注文内容の確認\n")
	fmt.Fprintf(&sb, "注文番号: %s\n", orderNo)
	fmt.Fprintf(&sb, "商品: %s\n", req.Item)
	fmt.Fprintf(&sb, "枚数: %d枚\n", price.Quantity)
	fmt.Fprintf(&sb, "【合計金額】%s\n", Yen(price.Total))
	fmt.Fprintf(&sb, "【1枚あたり】%s\n", Yen(price.Unit))
	sb.WriteString("この内容で注文を確定しますか？")
	return entity.Reply{
		Text: sb.String(),
		Actions: [][]entity.Action{
			{{Label: "注文を確定する", Data: constants.CallbackConfirmOrder + orderNo}},
			{{Label: "今は注文しない", Data: constants.CallbackCancelOrder + orderNo}},
		},
	}
}

// OrderConfirmed tasdiqlangandan keyin
func OrderConfirmed(orderNo string) entity.Reply {
	return entity.TextReply(fmt.Sprintf("注文番号 %s を確定しました！担当スタッフから追って納期などの詳細をご連絡します。", orderNo))
}

// OrderKeptPending the reply to "not now".
func OrderKeptPending() entity.Reply {
	return entity.TextReply("ご注文は保留のままとなりました。別の商品にて再検討される場合はカンタン見積もしくはWEBフォームから再開してください。")
}

// OrderNotFound unknown order number in a callback.
func OrderNotFound(orderNo string) entity.Reply {
	return entity.TextReply(fmt.Sprintf("注文番号 %s が見つかりませんでした。お手数ですがスタッフまでお問い合わせください。", orderNo))
}
