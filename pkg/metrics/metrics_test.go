package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.FlowEvent("pattern", "item", "ok")
	r.EstimateCompleted("pattern", "一般")
	r.PriceMiss("pattern")
	r.SheetWrite("WebOrders", "upsert", nil)
	r.FormSubmit("catalog", "ok")
	r.Update("message")
	r.OrderStatus("confirmed", true)
}

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.PriceMiss("detailed")
	r.PriceMiss("detailed")
	r.SheetWrite("Simple Estimate_1", "upsert", nil)
	r.SheetWrite("Simple Estimate_1", "upsert", errors.New("boom"))

	if got := testutil.ToFloat64(r.priceMisses.WithLabelValues("detailed")); got != 2 {
		t.Fatalf("price misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.sheetWrites.WithLabelValues("Simple Estimate_1", "upsert", "error")); got != 1 {
		t.Fatalf("sheet write errors = %v, want 1", got)
	}
}
