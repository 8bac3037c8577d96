// Package pricing turns a completed estimate request into a price breakdown.
// Compute is pure: the tables are loaded once and never mutated.
package pricing

import (
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
)

// Engine narx hisoblovchi
type Engine struct {
	tables *Tables
}

// NewEngine copies and normalizes the table keys so lookups compare canonical text.
func NewEngine(t *Tables) *Engine {
	out := &Tables{
		Version:       t.Version,
		Pattern:       make(map[string][]PatternRow, len(t.Pattern)),
		Detailed:      make(map[string][]DetailedRow, len(t.Detailed)),
		NameNumber:    normalizeKeys(t.NameNumber),
		SpecialInk:    normalizeKeys(t.SpecialInk),
		OutlineFee:    t.OutlineFee,
		FullColorSize: normalizeKeys(t.FullColorSize),
	}
	for tier, rows := range t.Pattern {
		cp := make([]PatternRow, len(rows))
		for i, r := range rows {
			r.Item = NormalizeText(r.Item)
			r.Pattern = NormalizePattern(r.Pattern)
			r.QuantityRange = NormalizeQuantityLabel(r.QuantityRange)
			cp[i] = r
		}
		out.Pattern[tier] = cp
	}
	for tier, rows := range t.Detailed {
		cp := make([]DetailedRow, len(rows))
		for i, r := range rows {
			r.Item = NormalizeText(r.Item)
			r.Discount = NormalizeText(r.Discount)
			cp[i] = r
		}
		out.Detailed[tier] = cp
	}
	return &Engine{tables: out}
}

// NewDefaultEngine engine over the built-in tables.
func NewDefaultEngine() (*Engine, error) {
	t, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return NewEngine(t), nil
}

// Version jadval versiyasi (log uchun)
func (e *Engine) Version() string { return e.tables.Version }

func normalizeKeys(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[NormalizeText(k)] = v
	}
	return out
}

func tierKey(t entity.CustomerTier) string {
	if NormalizeText(string(t)) == string(entity.TierStudent) {
		return tableStudent
	}
	return tableGeneral
}

// Compute prices one request. A table miss returns the zero breakdown with
// Matched=false; unknown option labels cost nothing.
func (e *Engine) Compute(req entity.EstimateRequest) entity.PriceBreakdown {
	qty := req.Quantity
	if qty <= 0 {
		qty = QuantityValue(req.QuantityLabel)
	}
	tier := tierKey(req.CustomerTier)

	if req.Variant == entity.VariantPattern {
		return e.computePattern(req, tier, qty)
	}

	row, ok := e.findDetailed(tier, NormalizeText(req.Item), discountOf(req), qty)
	if !ok {
		return entity.PriceBreakdown{}
	}

	b := entity.PriceBreakdown{Base: row.Base, Quantity: qty, Matched: true}
	if req.Variant == entity.VariantWebOrder {
		e.addPlacements(&b, row, req)
	} else {
		b.Position = positionSurcharge(row, req.PositionCount, req.SingleSided)
		if c, found := catalog.LookupColor(req.ColorChoice, req.SingleSided); found {
			b.Color = c.ExtraColor*row.ColorFee + c.FullColor*row.FullColorFee
		}
	}
	// chat flow skips the name/number question when single-sided; the web
	// order form asks it always, so a chosen option is charged there.
	if !req.SingleSided || req.Variant == entity.VariantWebOrder {
		b.NameNumber = e.tables.NameNumber[NormalizeText(req.NameNumber)]
	}
	return finish(b)
}

func (e *Engine) computePattern(req entity.EstimateRequest, tier string, qty int) entity.PriceBreakdown {
	item := NormalizeText(req.Item)
	pattern := NormalizePattern(req.Pattern)
	rng := CanonicalRange(qty)
	for _, row := range e.tables.Pattern[tier] {
		if row.Item == item && row.Pattern == pattern && row.QuantityRange == rng {
			return finish(entity.PriceBreakdown{Base: row.UnitPrice, Quantity: qty, Matched: true})
		}
	}
	return entity.PriceBreakdown{}
}

func (e *Engine) findDetailed(tier, item string, discount entity.DiscountTier, qty int) (DetailedRow, bool) {
	for _, row := range e.tables.Detailed[tier] {
		if row.Item == item && row.Discount == string(discount) && row.Min <= qty && qty <= row.Max {
			return row, true
		}
	}
	return DetailedRow{}, false
}

// addPlacements web buyurtma: har bir joy uchun rang, maxsus bo'yoq, kontur
// va to'liq rang o'lchami.
func (e *Engine) addPlacements(b *entity.PriceBreakdown, row DetailedRow, req entity.EstimateRequest) {
	placements := req.Placements
	if len(placements) > entity.MaxPlacements {
		placements = placements[:entity.MaxPlacements]
	}
	b.Position = positionSurcharge(row, len(placements), len(placements) <= 1)
	for _, p := range placements {
		if p.FullColor {
			b.Color += row.FullColorFee
			b.FullColorSize += e.tables.FullColorSize[NormalizeText(p.DesignSize)]
		} else if p.ColorCount > 1 {
			b.Color += (p.ColorCount - 1) * row.ColorFee
		}
		b.OptionInk += e.tables.SpecialInk[NormalizeText(p.SpecialInk)]
		if p.Outline {
			b.OptionInk += e.tables.OutlineFee
		}
	}
}

func positionSurcharge(row DetailedRow, count int, singleSided bool) int {
	if singleSided || count <= 1 {
		return 0
	}
	return row.PositionFee * (count - 1)
}

func discountOf(req entity.EstimateRequest) entity.DiscountTier {
	if d := entity.DiscountTier(NormalizeText(string(req.DiscountTier))); d == entity.DiscountEarly {
		return d
	}
	if req.DiscountTier == "" && req.UsageDate != "" {
		return DiscountForUsageLabel(req.UsageDate)
	}
	return entity.DiscountRegular
}

func finish(b entity.PriceBreakdown) entity.PriceBreakdown {
	b.Unit = b.Base + b.Surcharges()
	b.Total = b.Unit * b.Quantity
	return b
}

// DiscountForUsageLabel "14日目以降" -> 早割, anything else -> 通常.
func DiscountForUsageLabel(label string) entity.DiscountTier {
	if NormalizeText(label) == catalog.UsageAfter14 {
		return entity.DiscountEarly
	}
	return entity.DiscountRegular
}

// DiscountForDate compares calendar dates: usage at least 14 days after the
// order gets the early discount.
func DiscountForDate(order, usage time.Time) entity.DiscountTier {
	o := time.Date(order.Year(), order.Month(), order.Day(), 0, 0, 0, 0, time.UTC)
	u := time.Date(usage.Year(), usage.Month(), usage.Day(), 0, 0, 0, 0, time.UTC)
	if u.Sub(o) >= 14*24*time.Hour {
		return entity.DiscountEarly
	}
	return entity.DiscountRegular
}
