package web

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
)

func TestChoiceKeepsUnknownPrefill(t *testing.T) {
	base := []string{"A", "B"}
	f := choice("pattern", "パターン", "Z", base, true)
	want := []string{"Z", "", "A", "B"}
	if len(f.Options) != len(want) {
		t.Fatalf("options = %v", f.Options)
	}
	for i := range want {
		if f.Options[i] != want[i] {
			t.Fatalf("options = %v", f.Options)
		}
	}
	if base[0] != "A" || len(base) != 2 {
		t.Fatalf("catalog slice mutated: %v", base)
	}
}

func TestQuotationPageFields(t *testing.T) {
	opts := SelectOptions{"payment_method": {"銀行振込"}}
	page := quotationPage("tok", map[string]string{sheets.ColQuoteNo: "Q1"}, opts)
	fields := page.Sections[0].Fields
	if len(fields) != len(sheets.QuoteSchema.Columns)-1 {
		t.Fatalf("fields = %d, want every column but the timestamp", len(fields))
	}
	for _, f := range fields {
		switch f.Name {
		case sheets.ColQuoteNo:
			if !f.ReadOnly || f.Value != "Q1" {
				t.Errorf("quote_no = %+v", f)
			}
		case "payment_method":
			if f.Type != "select" {
				t.Errorf("payment_method type = %s", f.Type)
			}
		}
	}
}

func TestWebOrderPageCheckboxes(t *testing.T) {
	page := webOrderPage("tok", 42, "", map[string]string{"full_color_2": "○"})
	var got string
	for _, s := range page.Sections {
		for _, f := range s.Fields {
			if f.Name == "full_color_2" {
				got = f.Value
			}
		}
	}
	if got != "on" {
		t.Fatalf("full_color_2 = %q", got)
	}
	if page.Hidden["uid"] != "42" {
		t.Fatalf("hidden = %v", page.Hidden)
	}
	if _, ok := page.Hidden[sheets.ColOrderNo]; ok {
		t.Fatalf("new order should not carry order_no")
	}
}

func TestLoadSelectOptions(t *testing.T) {
	opts, err := LoadSelectOptions("")
	if err != nil {
		t.Fatal(err)
	}
	if len(opts["payment_method"]) == 0 {
		t.Fatalf("embedded options missing payment_method")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	if err := os.WriteFile(path, []byte("packaging: [なし]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, err = LoadSelectOptions(path)
	if err != nil || len(opts) != 1 || opts["packaging"][0] != "なし" {
		t.Fatalf("file options = %v, %v", opts, err)
	}

	if _, err := LoadSelectOptions(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
	if _, err := parseSelectOptions([]byte("- not a map")); err == nil {
		t.Fatalf("list root should fail")
	}
}
