package entity

// StepAnswer is a validated answer to one flow step. The set of
// implementations is closed; every variant knows its field and how it
// contributes to the EstimateRequest.
type StepAnswer interface {
	Field() Field
	Label() string
	apply(req *EstimateRequest)
}

type AttributeAnswer struct {
	Tier CustomerTier
}

func (a AttributeAnswer) Field() Field                { return FieldAttribute }
func (a AttributeAnswer) Label() string               { return string(a.Tier) }
func (a AttributeAnswer) apply(req *EstimateRequest) { req.CustomerTier = a.Tier }

type UsageDateAnswer struct {
	Text     string
	Discount DiscountTier
}

func (a UsageDateAnswer) Field() Field  { return FieldUsageDate }
func (a UsageDateAnswer) Label() string { return a.Text }
func (a UsageDateAnswer) apply(req *EstimateRequest) {
	req.UsageDate = a.Text
	req.DiscountTier = a.Discount
}

type BudgetAnswer struct {
	Text string
}

func (a BudgetAnswer) Field() Field                { return FieldBudget }
func (a BudgetAnswer) Label() string               { return a.Text }
func (a BudgetAnswer) apply(req *EstimateRequest) { req.Budget = a.Text }

type ItemAnswer struct {
	Name string
}

func (a ItemAnswer) Field() Field                { return FieldItem }
func (a ItemAnswer) Label() string               { return a.Name }
func (a ItemAnswer) apply(req *EstimateRequest) { req.Item = a.Name }

// PatternAnswer keeps the label as chosen ("パターンA"); the pricing engine
// strips the decorative prefix.
type PatternAnswer struct {
	Text string
}

func (a PatternAnswer) Field() Field                { return FieldPattern }
func (a PatternAnswer) Label() string               { return a.Text }
func (a PatternAnswer) apply(req *EstimateRequest) { req.Pattern = a.Text }

type QuantityAnswer struct {
	Text  string
	Value int
}

func (a QuantityAnswer) Field() Field  { return FieldQuantity }
func (a QuantityAnswer) Label() string { return a.Text }
func (a QuantityAnswer) apply(req *EstimateRequest) {
	req.QuantityLabel = a.Text
	req.Quantity = a.Value
}

type PositionAnswer struct {
	Text        string
	Count       int
	SingleSided bool
}

func (a PositionAnswer) Field() Field  { return FieldPosition }
func (a PositionAnswer) Label() string { return a.Text }
func (a PositionAnswer) apply(req *EstimateRequest) {
	req.Position = a.Text
	req.PositionCount = a.Count
	req.SingleSided = a.SingleSided
}

type ColorAnswer struct {
	Text string
}

func (a ColorAnswer) Field() Field                { return FieldColorCount }
func (a ColorAnswer) Label() string               { return a.Text }
func (a ColorAnswer) apply(req *EstimateRequest) { req.ColorChoice = a.Text }

type NameNumberAnswer struct {
	Text string
}

func (a NameNumberAnswer) Field() Field                { return FieldNameNumber }
func (a NameNumberAnswer) Label() string               { return a.Text }
func (a NameNumberAnswer) apply(req *EstimateRequest) { req.NameNumber = a.Text }

// BuildRequest folds validated answers into one request, in answer order.
func BuildRequest(variant FlowVariant, answers []StepAnswer) EstimateRequest {
	req := EstimateRequest{Variant: variant, CustomerTier: TierGeneral, DiscountTier: DiscountRegular}
	for _, a := range answers {
		a.apply(&req)
	}
	if req.PositionCount == 0 {
		req.PositionCount = 1
		req.SingleSided = true
	}
	return req
}
