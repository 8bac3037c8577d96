package sheets

import (
	"fmt"

	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
)

// Column ingliz kaliti va varaqdagi sarlavha
type Column struct {
	Key    string
	Header string
	// Aliases older headers still accepted when reading.
	Aliases []string
}

// Schema one sheet layout. KeyColumn is the 0-based index of the column
// holding the record key; -1 means the sheet is append-only.
type Schema struct {
	Title     string
	KeyColumn int
	Columns   []Column
}

// Headers sarlavha qatori
func (s Schema) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// KeyName returns the English key of the key column.
func (s Schema) KeyName() string {
	if s.KeyColumn < 0 || s.KeyColumn >= len(s.Columns) {
		return ""
	}
	return s.Columns[s.KeyColumn].Key
}

// Row lays values out in column order; missing keys become "".
func (s Schema) Row(values map[string]string) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = values[c.Key]
	}
	return out
}

// HasKey reports whether the schema has a column for key.
func (s Schema) HasKey(key string) bool {
	for _, c := range s.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Common column keys.
const (
	ColTimestamp     = "timestamp"
	ColQuoteNo       = "quote_no"
	ColOrderNo       = "order_no"
	ColUserID        = "user_id"
	ColAttribute     = "attribute"
	ColUsageDate     = "usage_date"
	ColDiscount      = "discount"
	ColProduct       = "product_category"
	ColItem          = "item"
	ColPattern       = "pattern"
	ColQuantity      = "quantity"
	ColTotalPrice    = "total_price"
	ColUnitPrice     = "unit_price"
	ColPrintPosition = "print_position"
	ColPrintColor    = "print_color"
	ColPrintSize     = "print_size"
	ColPrintDesign   = "print_design"
	ColFormURL       = "form_url"
	ColBodyColor     = "body_color"
	ColOrderCount    = "order_count"
	ColAreaCount     = "print_area_count"
	ColJerseyName    = "jersey_name"
	ColOutline       = "outline_enabled"
	ColOtherNotes    = "other_notes"
	ColBudget        = "budget"
	ColNameNumber    = "name_number"
	ColBasePrice     = "base_price"
	ColPositionFee   = "position_fee"
	ColColorFee      = "color_fee"
	ColNameNumberFee = "name_number_fee"
	ColOptionInkFee  = "option_ink_fee"
	ColFullColorFee  = "full_color_size_fee"
	ColVariant       = "variant"
	ColPriceMatched  = "price_matched"
	ColName          = "name"
	ColPhone         = "phone"
	ColEmail         = "email"
)

// SizeKeys o'lcham bo'yicha son kalitlari, sarlavha = o'lcham nomi.
var SizeKeys = []string{"SS", "S", "M", "L", "XL", "XXL", "XXXL", "XXXXL"}

// SizeKey "size_count_M"
func SizeKey(size string) string { return "size_count_" + size }

// PlacementKey "print_position_2"
func PlacementKey(field string, i int) string { return fmt.Sprintf("%s_%d", field, i) }

func sizeColumns() []Column {
	out := make([]Column, len(SizeKeys))
	for i, s := range SizeKeys {
		out[i] = Column{Key: SizeKey(s), Header: s}
	}
	return out
}

func cols(pairs ...string) []Column {
	out := make([]Column, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Column{Key: pairs[i], Header: pairs[i+1]})
	}
	return out
}

// QuoteSchema the quote management sheet. The first 66 columns (A:BN) keep
// the shop's established layout; breakdown columns follow.
var QuoteSchema = buildQuoteSchema()

func buildQuoteSchema() Schema {
	c := cols(
		ColTimestamp, "日時",
		ColQuoteNo, "見積番号",
		ColUserID, "ユーザーID",
		ColAttribute, "属性",
		ColUsageDate, "使用日(割引区分)",
	)
	c = append(c, Column{Key: ColProduct, Header: "商品カテゴリー", Aliases: []string{"商品名"}})
	c = append(c, cols(
		ColPattern, "パターン",
		ColQuantity, "枚数",
		ColTotalPrice, "合計金額",
		ColUnitPrice, "単価",
		ColPrintPosition, "プリント位置",
	)...)
	c = append(c, Column{Key: ColPrintColor, Header: "プリントカラー", Aliases: []string{"色数"}})
	c = append(c, cols(
		ColPrintSize, "プリントサイズ",
		ColPrintDesign, "プリントデザイン",
		ColFormURL, "見積番号管理WEBフォームURL",
		"body_code", "ボディ品番",
		"body_name", "ボディ商品名",
		"body_color_no", "ボディカラーNo",
		ColBodyColor, "商品カラー",
	)...)
	c = append(c, sizeColumns()...)
	c = append(c, cols(
		ColOrderCount, "注文数",
		ColAreaCount, "プリント箇所数",
	)...)
	for i := 1; i <= 4; i++ {
		c = append(c, cols(
			PlacementKey("print_position", i), fmt.Sprintf("プリント位置_%d", i),
			PlacementKey("print_design", i), fmt.Sprintf("プリントデザイン_%d", i),
			PlacementKey("print_color_count", i), fmt.Sprintf("プリントカラー数_%d", i),
			PlacementKey("print_color", i), fmt.Sprintf("プリントカラー_%d", i),
			PlacementKey("print_size", i), fmt.Sprintf("デザインサイズ_%d", i),
		)...)
	}
	c = append(c, cols(
		"jersey_number", "背番号",
		ColJerseyName, "背ネーム",
		"jersey_number_color", "背番号カラー",
		"jersey_name_color", "背ネームカラー",
		ColOutline, "フチ付き",
		"symbol", "記号",
		"processing_method", "加工方法",
		"delivery_date", "納期",
		"payment_method", "支払い方法",
		"special_spec", "特殊仕様",
		"requested_delivery", "希望納期",
		"packaging", "袋詰め有無",
	)...)
	c = append(c, Column{Key: ColOtherNotes, Header: "その他備考", Aliases: []string{"その他"}})
	c = append(c, cols(
		"pattern_fee", "パターン料金",
		"lot_size", "枚数(ロット)",
		"shipping_fee", "送料",
		"delivery_request_date", "納期(希望日)",

		ColBudget, "予算",
		ColNameNumber, "ネーム・背番号",
		ColBasePrice, "基本単価",
		ColPositionFee, "プリント位置加算",
		ColColorFee, "色数加算",
		ColNameNumberFee, "ネーム加算",
		ColVariant, "見積方式",
		ColPriceMatched, "単価表一致",
	)...)
	return Schema{Title: constants.SheetQuotes, KeyColumn: 1, Columns: c}
}

// QuoteFormKeys quotation form fields (every quote column except the timestamp).
func QuoteFormKeys() []string {
	var out []string
	for _, c := range QuoteSchema.Columns {
		if c.Key != ColTimestamp {
			out = append(out, c.Key)
		}
	}
	return out
}

// Placement field names of the web order form.
const (
	PlacementPosition   = "print_position"
	PlacementColorCount = "print_color_count"
	PlacementFullColor  = "full_color"
	PlacementSpecialInk = "special_ink"
	PlacementOutline    = "outline"
	PlacementSize       = "print_size"
)

// WebOrderSchema web buyurtmalar varag'i
var WebOrderSchema = buildWebOrderSchema()

func buildWebOrderSchema() Schema {
	c := cols(
		ColTimestamp, "日時",
		ColOrderNo, "注文番号",
		ColUserID, "ユーザーID",
		ColName, "氏名",
		ColPhone, "電話番号",
		ColEmail, "メールアドレス",
		ColAttribute, "属性",
		ColUsageDate, "使用日",
		ColDiscount, "割引区分",
		ColItem, "商品名",
		ColBodyColor, "ボディカラー",
	)
	c = append(c, sizeColumns()...)
	c = append(c, Column{Key: ColOrderCount, Header: "注文数"})
	for i := 1; i <= 4; i++ {
		c = append(c, cols(
			PlacementKey(PlacementPosition, i), fmt.Sprintf("プリント位置_%d", i),
			PlacementKey(PlacementColorCount, i), fmt.Sprintf("プリントカラー数_%d", i),
			PlacementKey(PlacementFullColor, i), fmt.Sprintf("フルカラー_%d", i),
			PlacementKey(PlacementSpecialInk, i), fmt.Sprintf("特殊インク_%d", i),
			PlacementKey(PlacementOutline, i), fmt.Sprintf("フチ付き_%d", i),
			PlacementKey(PlacementSize, i), fmt.Sprintf("デザインサイズ_%d", i),
		)...)
	}
	c = append(c, cols(
		ColNameNumber, "ネーム・背番号",
		ColBasePrice, "基本単価",
		ColPositionFee, "プリント位置加算",
		ColColorFee, "色数加算",
		ColNameNumberFee, "ネーム加算",
		ColOptionInkFee, "特殊インク・フチ加算",
		ColFullColorFee, "フルカラーサイズ加算",
		ColUnitPrice, "単価",
		ColTotalPrice, "合計金額",
		ColPriceMatched, "単価表一致",
		ColOtherNotes, "備考",
	)...)
	return Schema{Title: constants.SheetWebOrders, KeyColumn: 1, Columns: c}
}

// CatalogSchema catalog requests, append only.
var CatalogSchema = Schema{
	Title:     constants.SheetCatalogRequests,
	KeyColumn: -1,
	Columns: cols(
		ColTimestamp, "日時",
		ColName, "氏名",
		"postal_code", "郵便番号",
		"address", "住所",
		ColPhone, "電話番号",
		ColEmail, "メールアドレス",
		"sns_account", "Insta/TikTok名",
		"school_grade", "在籍予定の学校名と学年",
		"other", "その他(質問・要望)",
	),
}
