package web

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/usecase"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
)

const (
	secretHeader = "X-Telegram-Bot-Api-Secret-Token"
	tokenField   = "form_token"
)

// respondError xatoni HTTP javobiga aylantiradi.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidToken):
		c.String(http.StatusBadRequest, constants.MsgDuplicateForm)
	case errors.Is(err, usecase.ErrInvalidForm):
		c.String(http.StatusBadRequest, constants.MsgErrorPrefix+err.Error())
	default:
		logger.ErrorLogger.Printf("[web] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, constants.MsgErrorPrefix+err.Error())
	}
}

// postForm birinchi qiymatlar; bo'sh bo'lmagan nomlar.
func postForm(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidForm, err)
	}
	out := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out, nil
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, constants.MsgHealth)
}

// Webhook Telegram update; secret mos kelmasa 400 va hech narsa qilinmaydi.
func (h *Handler) Webhook(c *gin.Context) {
	if h.deps.WebhookSecret != "" {
		got := c.GetHeader(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.deps.WebhookSecret)) != 1 {
			log.Printf("[web] webhook secret mos emas (%s)", c.ClientIP())
			c.String(http.StatusBadRequest, "invalid secret token")
			return
		}
	}
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.String(http.StatusBadRequest, "invalid update")
		return
	}
	h.deps.Updates.HandleUpdate(c.Request.Context(), update)
	c.String(http.StatusOK, "OK")
}

func (h *Handler) CatalogForm(c *gin.Context) {
	token, err := h.deps.Catalog.Form(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.HTML(http.StatusOK, "form.html", catalogPage(token))
}

func (h *Handler) SubmitCatalog(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.deps.Catalog.Submit(c.Request.Context(), form[tokenField], form); err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, constants.MsgCatalogThanks)
}

func (h *Handler) QuotationForm(c *gin.Context) {
	data, err := h.deps.Quotes.QuotationForm(c.Request.Context(), c.Query("quote_no"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.HTML(http.StatusOK, "form.html", quotationPage(data.Token, data.Values, h.deps.Options))
}

func (h *Handler) SubmitQuotation(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	quoteNo, err := h.deps.Quotes.SubmitQuotation(c.Request.Context(), form[tokenField], form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("%s（見積番号: %s）", constants.MsgQuotationSaved, quoteNo))
}

func (h *Handler) WebOrderForm(c *gin.Context) {
	var userID int64
	if raw := strings.TrimSpace(c.Query("uid")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, constants.MsgErrorPrefix+"uid が不正です")
			return
		}
		userID = id
	}
	data, err := h.deps.Quotes.WebOrderForm(c.Request.Context(), userID, c.Query("order_no"))
	if err != nil {
		respondError(c, err)
		return
	}
	orderNo := ""
	if data.Found {
		orderNo = data.Key
	}
	c.HTML(http.StatusOK, "form.html", webOrderPage(data.Token, data.UserID, orderNo, data.Values))
}

func (h *Handler) SubmitWebOrder(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.deps.Quotes.SubmitWebOrder(c.Request.Context(), form[tokenField], form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, fmt.Sprintf("%s\n注文番号: %s\n合計金額: %s円（%d枚）",
		constants.MsgWebOrderSaved, res.OrderNo, humanize.Comma(int64(res.Price.Total)), res.Request.Quantity))
}
