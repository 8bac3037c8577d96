package entity

import "time"

// Step savol bosqichi. Qiymatlar har bir variant ketma-ketligida o'sib boradi.
type Step int

const (
	StepNone Step = iota
	StepAttribute
	StepUsageDate
	StepBudget
	StepItem
	StepPattern
	StepQuantity
	StepPosition
	StepColorCount
	StepNameNumber
	StepTerminal
)

var stepNames = map[Step]string{
	StepNone:       "none",
	StepAttribute:  "attribute",
	StepUsageDate:  "usage_date",
	StepBudget:     "budget",
	StepItem:       "item",
	StepPattern:    "pattern",
	StepQuantity:   "quantity",
	StepPosition:   "print_position",
	StepColorCount: "color_count",
	StepNameNumber: "name_number",
	StepTerminal:   "terminal",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStep String() ning teskarisi
func ParseStep(name string) (Step, bool) {
	for s, n := range stepNames {
		if n == name {
			return s, true
		}
	}
	return StepNone, false
}

// Field javob saqlanadigan maydon nomi
type Field string

const (
	FieldAttribute  Field = "user_type"
	FieldUsageDate  Field = "usage_date"
	FieldBudget     Field = "budget"
	FieldItem       Field = "item"
	FieldPattern    Field = "pattern"
	FieldQuantity   Field = "quantity"
	FieldPosition   Field = "print_position"
	FieldColorCount Field = "print_color"
	FieldNameNumber Field = "name_number"
)

// FieldValue bitta qabul qilingan javob (tanlangan yorliq)
type FieldValue struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Session per-user estimate conversation state.
type Session struct {
	UserID      int64        `json:"user_id"`
	Variant     FlowVariant  `json:"variant"`
	Step        Step         `json:"step"`
	Answers     []FieldValue `json:"answers"`
	SingleSided bool         `json:"single_sided"`
	StartedAt   time.Time    `json:"started_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Answer returns the stored value for a field.
func (s *Session) Answer(field Field) (string, bool) {
	for _, a := range s.Answers {
		if a.Field == field {
			return a.Value, true
		}
	}
	return "", false
}

// Clone sessiyaning mustaqil nusxasi
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Answers = append([]FieldValue(nil), s.Answers...)
	return &out
}
