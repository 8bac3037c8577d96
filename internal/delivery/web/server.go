// Package web HTTP tomoni: formalar, Telegram webhook, health va /metrics.
package web

import (
	"context"
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourusername/print-estimate-bot/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

// UpdateHandler webhook orqali kelgan update ni qayta ishlaydi.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// QuoteForms quotation va web order formalari
type QuoteForms interface {
	QuotationForm(ctx context.Context, quoteNo string) (usecase.FormData, error)
	SubmitQuotation(ctx context.Context, token string, form map[string]string) (string, error)
	WebOrderForm(ctx context.Context, userID int64, orderNo string) (usecase.FormData, error)
	SubmitWebOrder(ctx context.Context, token string, form map[string]string) (usecase.WebOrderResult, error)
}

// CatalogForms katalog so'rovi formasi
type CatalogForms interface {
	Form(ctx context.Context) (string, error)
	Submit(ctx context.Context, token string, form map[string]string) error
}

// Deps router bog'liqliklari. Updates nil bo'lsa webhook marshruti yo'q.
type Deps struct {
	Updates       UpdateHandler
	WebhookSecret string
	Quotes        QuoteForms
	Catalog       CatalogForms
	Options       SelectOptions
	StaticDir     string
	Gatherer      prometheus.Gatherer
}

// Handler gin handlerlari
type Handler struct {
	deps Deps
}

// NewRouter barcha marshrutlarni ulaydi.
func NewRouter(d Deps) *gin.Engine {
	if d.Options == nil {
		d.Options = SelectOptions{}
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	h := &Handler{deps: d}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	if d.Updates != nil {
		r.POST("/telegram/webhook", h.Webhook)
	}

	r.GET("/catalog_form", h.CatalogForm)
	r.POST("/submit_form", h.SubmitCatalog)
	r.GET("/quotation_form", h.QuotationForm)
	r.POST("/submit_quotation", h.SubmitQuotation)
	r.GET("/web_order_form", h.WebOrderForm)
	r.POST("/submit_web_order", h.SubmitWebOrder)

	if d.StaticDir != "" {
		r.Static("/static", d.StaticDir)
	}
	return r
}
