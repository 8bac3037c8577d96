package entity

// Record bitta jadval qatori: kalit (smeta/buyurtma raqami) va ustun qiymatlari.
// Values inglizcha ustun kalitlari bo'yicha saqlanadi.
type Record struct {
	Key    string
	Values map[string]string
}

// OrderStatus is shown only as the row background color.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

// RGB background color in 0..255 components.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "RRGGBB".
func (c RGB) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{
		digits[c.R>>4], digits[c.R&0x0F],
		digits[c.G>>4], digits[c.G&0x0F],
		digits[c.B>>4], digits[c.B&0x0F],
	}
	return string(b)
}

var statusColors = map[OrderStatus]RGB{
	StatusPending:   {R: 0xFF, G: 0xF2, B: 0xCC},
	StatusConfirmed: {R: 0xD9, G: 0xEA, B: 0xD3},
	StatusCancelled: {R: 0xD9, G: 0xD9, B: 0xD9},
}

// Color status marker rangi; noma'lum status oq rangda.
func (s OrderStatus) Color() RGB {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return RGB{R: 0xFF, G: 0xFF, B: 0xFF}
}

// ParseStatusColor maps a row color back to a status.
func ParseStatusColor(c RGB) (OrderStatus, bool) {
	for status, color := range statusColors {
		if color == c {
			return status, true
		}
	}
	return "", false
}
