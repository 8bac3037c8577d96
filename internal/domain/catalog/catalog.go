// Package catalog holds the fixed choice labels of the estimate flow and the
// web forms. Validators and presentation builders both read from here, so a
// button label is always byte-identical to the value the flow accepts.
package catalog

import (
	"strings"
	"unicode"

	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"golang.org/x/text/unicode/norm"
)

// Product bitta kiyim turi va uning katalog rasmi
type Product struct {
	Name  string
	Image string // fayl nomi, ASSET_BASE_URL ga qo'shiladi
}

// Category carousel sahifasi
type Category struct {
	Title    string
	Products []Product
}

var Categories = []Category{
	{Title: "Tシャツ系", Products: []Product{
		{Name: "ドライTシャツ", Image: "dry_tshirt.png"},
		{Name: "ハイクオリティーTシャツ", Image: "high_quality_tshirt.png"},
		{Name: "ドライロングTシャツ", Image: "dry_long_tshirt.png"},
		{Name: "ドライポロシャツ", Image: "dry_polo.png"},
	}},
	{Title: "スポーツ系", Products: []Product{
		{Name: "ゲームシャツ", Image: "game_shirt.png"},
		{Name: "ベースボールシャツ", Image: "baseball_shirt.png"},
		{Name: "ストライプベースボールシャツ", Image: "stripe_baseball.png"},
		{Name: "ストライプユニフォーム", Image: "stripe_uniform.png"},
	}},
	{Title: "トレーナー系", Products: []Product{
		{Name: "クールネックライトトレーナー", Image: "crew_trainer.png"},
		{Name: "ジップアップライトトレーナー", Image: "zip_trainer.png"},
		{Name: "フーディーライトトレーナー", Image: "hoodie_trainer.png"},
		{Name: "バスケシャツ", Image: "basketball_shirt.png"},
	}},
}

var Attributes = []string{string(entity.TierStudent), string(entity.TierGeneral)}

const (
	UsageAfter14  = "14日目以降"
	UsageWithin14 = "14日目以内"
)

var UsageDates = []string{UsageAfter14, UsageWithin14}

var Budgets = []string{"〜1,500円", "1,500〜2,000円", "2,000〜2,500円", "2,500円以上"}

// PatternCodes dizayn namunalari; tugma matni "パターン" + kod.
var PatternCodes = []string{"A", "B", "C", "D", "E", "F"}

const PatternPrefix = "パターン"

// QuantityOption bucket label with its representative quantity.
type QuantityOption struct {
	Label string
	Value int
}

// Quantities use the fullwidth tilde as the shop's buttons always did; the
// pricing engine canonicalizes it to the wave dash.
var Quantities = []QuantityOption{
	{Label: "10～19枚", Value: 10},
	{Label: "20～29枚", Value: 20},
	{Label: "30～39枚", Value: 30},
	{Label: "40～49枚", Value: 40},
	{Label: "50～99枚", Value: 50},
	{Label: "100枚以上", Value: 100},
}

// PositionOption print position choice.
type PositionOption struct {
	Label       string
	Count       int
	SingleSided bool
}

var Positions = []PositionOption{
	{Label: "前のみ", Count: 1, SingleSided: true},
	{Label: "背中のみ", Count: 1, SingleSided: true},
	{Label: "前と背中", Count: 2},
	{Label: "前・背中・袖", Count: 3},
}

// ColorOption maps a color choice to (extra colors, full-color placements).
// The first color of every position is included in the base price.
type ColorOption struct {
	Label      string
	ExtraColor int
	FullColor  int
}

var SingleSidedColors = []ColorOption{
	{Label: "1色", ExtraColor: 0, FullColor: 0},
	{Label: "2色", ExtraColor: 1, FullColor: 0},
	{Label: "3色", ExtraColor: 2, FullColor: 0},
	{Label: "フルカラー", ExtraColor: 0, FullColor: 1},
}

var DoubleSidedColors = []ColorOption{
	{Label: "前後とも1色", ExtraColor: 0, FullColor: 0},
	{Label: "前2色・背中1色", ExtraColor: 1, FullColor: 0},
	{Label: "前後とも2色", ExtraColor: 2, FullColor: 0},
	{Label: "前フルカラー・背中1色", ExtraColor: 0, FullColor: 1},
	{Label: "前後ともフルカラー", ExtraColor: 0, FullColor: 2},
}

const NameNumberNone = "なし"

var NameNumbers = []string{NameNumberNone, "ネーム＋背番号セット", "ネーム(大)", "背番号(大)"}

// Web order form options.
var (
	ColorCounts  = []string{"1色", "2色", "3色", "フルカラー"}
	SpecialInks  = []string{"なし", "蓄光", "ラメ", "金・銀"}
	DesignSizes  = []string{"A5以下", "A4以下", "A3以下"}
	GarmentSizes = []string{"SS", "S", "M", "L", "XL", "XXL", "XXXL", "XXXXL"}
	PrintSpots   = []string{"前", "背中", "左袖", "右袖", "左胸", "すそ"}
)

const FullColorLabel = "フルカラー"

// Products returns every product name in carousel order.
func Products() []string {
	var out []string
	for _, c := range Categories {
		for _, p := range c.Products {
			out = append(out, p.Name)
		}
	}
	return out
}

// Patterns returns the pattern button labels.
func Patterns() []string {
	out := make([]string, len(PatternCodes))
	for i, code := range PatternCodes {
		out[i] = PatternPrefix + code
	}
	return out
}

// QuantityLabels tugma matnlari
func QuantityLabels() []string {
	out := make([]string, len(Quantities))
	for i, q := range Quantities {
		out[i] = q.Label
	}
	return out
}

func PositionLabels() []string {
	out := make([]string, len(Positions))
	for i, p := range Positions {
		out[i] = p.Label
	}
	return out
}

// ColorOptions returns the color table for the chosen side count.
func ColorOptions(singleSided bool) []ColorOption {
	if singleSided {
		return SingleSidedColors
	}
	return DoubleSidedColors
}

func ColorLabels(singleSided bool) []string {
	opts := ColorOptions(singleSided)
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}

// LookupColor finds a color choice in either table. Single-sided is searched
// first when the flag says so.
func LookupColor(label string, singleSided bool) (ColorOption, bool) {
	label = Canonical(label)
	for _, o := range ColorOptions(singleSided) {
		if Canonical(o.Label) == label {
			return o, true
		}
	}
	for _, o := range ColorOptions(!singleSided) {
		if Canonical(o.Label) == label {
			return o, true
		}
	}
	return ColorOption{}, false
}

// Choices returns the allowed labels for a field.
func Choices(field entity.Field, singleSided bool) []string {
	switch field {
	case entity.FieldAttribute:
		return Attributes
	case entity.FieldUsageDate:
		return UsageDates
	case entity.FieldBudget:
		return Budgets
	case entity.FieldItem:
		return Products()
	case entity.FieldPattern:
		return Patterns()
	case entity.FieldQuantity:
		return QuantityLabels()
	case entity.FieldPosition:
		return PositionLabels()
	case entity.FieldColorCount:
		return ColorLabels(singleSided)
	case entity.FieldNameNumber:
		return NameNumbers
	}
	return nil
}

// rangeDashes a typed range separator ("20-29枚", "20ー29枚") in any of
// these glyphs becomes the wave dash.
var rangeDashes = map[rune]bool{
	'～': true, // fullwidth tilde
	'~': true,
	'〜': true,
	'-': true,
	'ー': true,
	'ｰ': true,
	'−': true,
	'–': true,
	'—': true,
	'－': true,
}

// Canonical NFC + trimmed, with a dash between two digits unified to 〜.
// Typed and button text converge to the same form; katakana long vowels
// ("ハイクオリティー") are left alone.
func Canonical(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	runes := []rune(s)
	changed := false
	for i := 1; i+1 < len(runes); i++ {
		if rangeDashes[runes[i]] && runes[i] != '〜' && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			runes[i] = '〜'
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(runes)
}

// match exact label first, then the canonical form
func match(text string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if a == text {
			return a, true
		}
	}
	c := Canonical(text)
	for _, a := range allowed {
		if Canonical(a) == c {
			return a, true
		}
	}
	return "", false
}

// Parse validates text against the field's allowed set and returns the typed
// answer. singleSided selects the color table.
func Parse(field entity.Field, text string, singleSided bool) (entity.StepAnswer, bool) {
	label, ok := match(text, Choices(field, singleSided))
	if !ok {
		return nil, false
	}
	switch field {
	case entity.FieldAttribute:
		return entity.AttributeAnswer{Tier: entity.CustomerTier(label)}, true
	case entity.FieldUsageDate:
		discount := entity.DiscountRegular
		if label == UsageAfter14 {
			discount = entity.DiscountEarly
		}
		return entity.UsageDateAnswer{Text: label, Discount: discount}, true
	case entity.FieldBudget:
		return entity.BudgetAnswer{Text: label}, true
	case entity.FieldItem:
		return entity.ItemAnswer{Name: label}, true
	case entity.FieldPattern:
		return entity.PatternAnswer{Text: label}, true
	case entity.FieldQuantity:
		for _, q := range Quantities {
			if q.Label == label {
				return entity.QuantityAnswer{Text: label, Value: q.Value}, true
			}
		}
	case entity.FieldPosition:
		for _, p := range Positions {
			if p.Label == label {
				return entity.PositionAnswer{Text: label, Count: p.Count, SingleSided: p.SingleSided}, true
			}
		}
	case entity.FieldColorCount:
		return entity.ColorAnswer{Text: label}, true
	case entity.FieldNameNumber:
		return entity.NameNumberAnswer{Text: label}, true
	}
	return nil, false
}

// FindProduct returns the product with its image file.
func FindProduct(name string) (Product, bool) {
	name = Canonical(name)
	for _, c := range Categories {
		for _, p := range c.Products {
			if p.Name == name {
				return p, true
			}
		}
	}
	return Product{}, false
}

// IsChoiceLabel reports whether text is any flow button label. Used to keep
// stale button taps away from the assistant.
func IsChoiceLabel(text string) bool {
	fields := []entity.Field{
		entity.FieldAttribute, entity.FieldUsageDate, entity.FieldBudget, entity.FieldItem,
		entity.FieldPattern, entity.FieldQuantity, entity.FieldPosition, entity.FieldNameNumber,
	}
	for _, f := range fields {
		if _, ok := match(text, Choices(f, false)); ok {
			return true
		}
	}
	_, ok := LookupColor(text, true)
	return ok
}
