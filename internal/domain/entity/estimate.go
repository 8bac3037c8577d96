package entity

// CustomerTier foydalanuvchi atributi: narx jadvalini tanlaydi
type CustomerTier string

const (
	TierGeneral CustomerTier = "一般"
	TierStudent CustomerTier = "学生"
)

// DiscountTier ishlatish sanasidan kelib chiqadigan chegirma turi
type DiscountTier string

const (
	DiscountEarly   DiscountTier = "早割"
	DiscountRegular DiscountTier = "通常"
)

// FlowVariant selects the question order and the pricing table family.
type FlowVariant string

const (
	// VariantPattern asks item then design pattern; priced from the pattern table.
	VariantPattern FlowVariant = "pattern"
	// VariantDetailed asks budget, print position, colors and name/number.
	VariantDetailed FlowVariant = "detailed"
	// VariantWebOrder is the flat web order form with up to four placements.
	VariantWebOrder FlowVariant = "web_order"
)

// MaxPlacements web buyurtmada mustaqil sozlanadigan bosma joylar soni
const MaxPlacements = 4

// Placement one independently configured print position of a web order.
type Placement struct {
	Position   string `json:"position"`
	ColorCount int    `json:"color_count"`
	FullColor  bool   `json:"full_color"`
	SpecialInk string `json:"special_ink"`
	Outline    bool   `json:"outline"`
	DesignSize string `json:"design_size"`
}

// EstimateRequest bitta yakunlangan suhbat yoki forma uchun hisob so'rovi.
// Yaratilgandan keyin o'zgartirilmaydi.
type EstimateRequest struct {
	Variant       FlowVariant  `json:"variant"`
	Item          string       `json:"item"`
	Pattern       string       `json:"pattern,omitempty"`
	CustomerTier  CustomerTier `json:"customer_tier"`
	DiscountTier  DiscountTier `json:"discount_tier"`
	UsageDate     string       `json:"usage_date"`
	Budget        string       `json:"budget,omitempty"` // faqat ma'lumot uchun
	QuantityLabel string       `json:"quantity_label"`
	Quantity      int          `json:"quantity"`
	Position      string       `json:"position,omitempty"`
	PositionCount int          `json:"position_count"`
	SingleSided   bool         `json:"single_sided"`
	ColorChoice   string       `json:"color_choice,omitempty"`
	NameNumber    string       `json:"name_number,omitempty"`
	Placements    []Placement  `json:"placements,omitempty"`
}

// PriceBreakdown yen amounts of one estimate. Total is always Unit*Quantity.
type PriceBreakdown struct {
	Base          int  `json:"base"`
	Position      int  `json:"position"`
	Color         int  `json:"color"`
	NameNumber    int  `json:"name_number"`
	OptionInk     int  `json:"option_ink"` // special ink + outline
	FullColorSize int  `json:"full_color_size"`
	Unit          int  `json:"unit"`
	Total         int  `json:"total"`
	Quantity      int  `json:"quantity"`
	Matched       bool `json:"matched"`
}

// Surcharges sum of every add-on on top of the base price.
func (b PriceBreakdown) Surcharges() int {
	return b.Position + b.Color + b.NameNumber + b.OptionInk + b.FullColorSize
}
