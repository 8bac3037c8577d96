package web

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed select_options.yaml
var defaultSelectOptions []byte

// SelectOptions quotation formasidagi select maydonlari: ustun kaliti -> variantlar.
type SelectOptions map[string][]string

// LoadSelectOptions path bo'sh bo'lsa ichki fayl ishlatiladi.
func LoadSelectOptions(path string) (SelectOptions, error) {
	data := defaultSelectOptions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read select options: %w", err)
		}
		data = b
	}
	return parseSelectOptions(data)
}

func parseSelectOptions(data []byte) (SelectOptions, error) {
	opts := SelectOptions{}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parse select options: %w", err)
	}
	return opts, nil
}
