package pricing

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables/price_table_2025.yaml
var defaultTables []byte

// PatternRow item x pattern x quantity range unit price.
type PatternRow struct {
	Item          string `yaml:"item"`
	Pattern       string `yaml:"pattern"`
	QuantityRange string `yaml:"quantity_range"`
	UnitPrice     int    `yaml:"unit_price"`
}

// DetailedRow base price and surcharge rates for one (item, discount, qty bounds).
type DetailedRow struct {
	Item         string `yaml:"item"`
	Discount     string `yaml:"discount"`
	Min          int    `yaml:"min"`
	Max          int    `yaml:"max"`
	Base         int    `yaml:"base"`
	PositionFee  int    `yaml:"position_fee"`
	ColorFee     int    `yaml:"color_fee"`
	FullColorFee int    `yaml:"full_color_fee"`
}

// Tables narx jadvallari; yuklangandan keyin o'zgarmaydi.
type Tables struct {
	Version       string                   `yaml:"version"`
	Pattern       map[string][]PatternRow  `yaml:"pattern"`
	Detailed      map[string][]DetailedRow `yaml:"detailed"`
	NameNumber    map[string]int           `yaml:"name_number_fees"`
	SpecialInk    map[string]int           `yaml:"special_ink_fees"`
	OutlineFee    int                      `yaml:"outline_fee"`
	FullColorSize map[string]int           `yaml:"full_color_size_fees"`
}

const (
	tableGeneral = "general"
	tableStudent = "student"
)

// DecodeTables reads and validates a YAML price table.
func DecodeTables(r io.Reader) (*Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode price tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTablesFile reads tables from disk. An empty path returns the built-in tables.
func LoadTablesFile(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price tables: %w", err)
	}
	defer f.Close()
	return DecodeTables(f)
}

// DefaultTables the tables compiled into the binary.
func DefaultTables() (*Tables, error) {
	return DecodeTables(bytes.NewReader(defaultTables))
}

func (t *Tables) validate() error {
	for _, tier := range []string{tableGeneral, tableStudent} {
		if len(t.Pattern[tier]) == 0 {
			return fmt.Errorf("price tables: pattern.%s is empty", tier)
		}
		if len(t.Detailed[tier]) == 0 {
			return fmt.Errorf("price tables: detailed.%s is empty", tier)
		}
		for i, row := range t.Detailed[tier] {
			if row.Min > row.Max {
				return fmt.Errorf("price tables: detailed.%s[%d] (%s) min %d > max %d", tier, i, row.Item, row.Min, row.Max)
			}
			if row.Base < 0 || row.PositionFee < 0 || row.ColorFee < 0 || row.FullColorFee < 0 {
				return fmt.Errorf("price tables: detailed.%s[%d] (%s) has a negative amount", tier, i, row.Item)
			}
		}
		for i, row := range t.Pattern[tier] {
			if row.UnitPrice < 0 {
				return fmt.Errorf("price tables: pattern.%s[%d] (%s) has a negative amount", tier, i, row.Item)
			}
		}
	}
	for _, fees := range []map[string]int{t.NameNumber, t.SpecialInk, t.FullColorSize} {
		for label, fee := range fees {
			if fee < 0 {
				return fmt.Errorf("price tables: fee %q is negative", label)
			}
		}
	}
	if t.OutlineFee < 0 {
		return fmt.Errorf("price tables: outline_fee is negative")
	}
	return nil
}
