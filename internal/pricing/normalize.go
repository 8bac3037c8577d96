package pricing

import (
	"strings"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"golang.org/x/text/unicode/norm"
)

const patternPrefix = "パターン"

// Canonical quantity ranges, smallest first.
const (
	Range10to19  = "10〜19枚"
	Range20to29  = "20〜29枚"
	Range30to39  = "30〜39枚"
	Range40to49  = "40〜49枚"
	Range50to99  = "50〜99枚"
	Range100Plus = "100枚以上"
)

// quantityValues bucket label -> representative quantity
var quantityValues = map[string]int{
	Range10to19:  10,
	Range20to29:  20,
	Range30to39:  30,
	Range40to49:  40,
	Range50to99:  50,
	Range100Plus: 100,
}

// Ranges jadval kalitlari, kichigidan boshlab.
var Ranges = []string{Range10to19, Range20to29, Range30to39, Range40to49, Range50to99, Range100Plus}

// NormalizeText NFC va bo'sh joylarsiz.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// NormalizePattern "パターンA" -> "A".
func NormalizePattern(s string) string {
	s = NormalizeText(s)
	return strings.TrimSpace(strings.ReplaceAll(s, patternPrefix, ""))
}

// NormalizeQuantityLabel the flow validator's canonical form, so a label
// the flow accepted always finds its bucket.
func NormalizeQuantityLabel(s string) string {
	return catalog.Canonical(s)
}

// QuantityValue maps a bucket label to its representative quantity.
// Unknown labels map to 1.
func QuantityValue(label string) int {
	if v, ok := quantityValues[NormalizeQuantityLabel(label)]; ok {
		return v
	}
	return 1
}

// CanonicalRange derives the lookup range from a quantity.
func CanonicalRange(qty int) string {
	switch {
	case qty < 20:
		return Range10to19
	case qty < 30:
		return Range20to29
	case qty < 40:
		return Range30to39
	case qty < 50:
		return Range40to49
	case qty < 100:
		return Range50to99
	default:
		return Range100Plus
	}
}

// CanonicalizeRange label -> canonical range. Idempotent.
func CanonicalizeRange(label string) string {
	return CanonicalRange(QuantityValue(label))
}
