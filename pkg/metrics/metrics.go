// Package metrics Prometheus counters for the estimate bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the bot counters. A nil *Recorder is valid and records nothing.
type Recorder struct {
	flowEvents    *prometheus.CounterVec
	estimates     *prometheus.CounterVec
	priceMisses   *prometheus.CounterVec
	sheetWrites   *prometheus.CounterVec
	formSubmits   *prometheus.CounterVec
	updatesTotal  *prometheus.CounterVec
	orderStatuses *prometheus.CounterVec
}

// NewRecorder registers every counter on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		flowEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estimate_flow_events_total",
			Help: "Estimate flow transitions by variant, step and outcome",
		}, []string{"variant", "step", "outcome"}),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estimates_completed_total",
			Help: "Completed estimates by variant and customer tier",
		}, []string{"variant", "tier"}),
		priceMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "price_table_misses_total",
			Help: "Estimates that found no price table row",
		}, []string{"variant"}),
		sheetWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sheet_writes_total",
			Help: "Spreadsheet writes by sheet, operation and status",
		}, []string{"sheet", "op", "status"}),
		formSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Web form submissions by form and status",
		}, []string{"form", "status"}),
		updatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Telegram updates received by kind",
		}, []string{"kind"}),
		orderStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "Order status marker changes by status and whether the row was found",
		}, []string{"status", "found"}),
	}
	reg.MustRegister(r.flowEvents, r.estimates, r.priceMisses, r.sheetWrites, r.formSubmits, r.updatesTotal, r.orderStatuses)
	return r
}

func (r *Recorder) FlowEvent(variant, step, outcome string) {
	if r == nil {
		return
	}
	r.flowEvents.WithLabelValues(variant, step, outcome).Inc()
}

func (r *Recorder) EstimateCompleted(variant, tier string) {
	if r == nil {
		return
	}
	r.estimates.WithLabelValues(variant, tier).Inc()
}

// PriceMiss counts a lookup that fell back to the zero breakdown.
func (r *Recorder) PriceMiss(variant string) {
	if r == nil {
		return
	}
	r.priceMisses.WithLabelValues(variant).Inc()
}

func (r *Recorder) SheetWrite(sheet, op string, err error) {
	if r == nil {
		return
	}
	r.sheetWrites.WithLabelValues(sheet, op, status(err)).Inc()
}

func (r *Recorder) FormSubmit(form, status string) {
	if r == nil {
		return
	}
	r.formSubmits.WithLabelValues(form, status).Inc()
}

func (r *Recorder) Update(kind string) {
	if r == nil {
		return
	}
	r.updatesTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) OrderStatus(status string, found bool) {
	if r == nil {
		return
	}
	f := "false"
	if found {
		f = "true"
	}
	r.orderStatuses.WithLabelValues(status, f).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
