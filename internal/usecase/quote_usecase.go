package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
	"github.com/yourusername/print-estimate-bot/internal/presenter"
	"github.com/yourusername/print-estimate-bot/internal/pricing"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

// ErrInvalidForm submitted values failed validation.
var ErrInvalidForm = errors.New("invalid form input")

// Form names used for tokens and metrics.
const (
	FormCatalog   = "catalog"
	FormQuotation = "quotation"
	FormWebOrder  = "web_order"
)

// RecordStore keyed rows in the spreadsheet.
type RecordStore interface {
	Upsert(ctx context.Context, schema sheets.Schema, rec entity.Record) (sheets.UpsertResult, error)
	Append(ctx context.Context, schema sheets.Schema, values map[string]string) error
	MarkStatus(ctx context.Context, schema sheets.Schema, key string, status entity.OrderStatus) (bool, error)
	Find(ctx context.Context, schema sheets.Schema, key string) (entity.Record, bool, error)
}

// keyNumbers timestamp-based quote/order numbers; a "-NN" suffix separates
// numbers issued within the same second.
type keyNumbers struct {
	mu     sync.Mutex
	prefix string
	last   string
	seq    int
}

func (k *keyNumbers) next(now time.Time) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	base := k.prefix + now.Format(constants.QuoteNumberLayout)
	if base != k.last {
		k.last = base
		k.seq = 0
		return base
	}
	k.seq++
	return fmt.Sprintf("%s-%02d", base, k.seq)
}

// FormData what a form page needs to render.
type FormData struct {
	Token  string
	Key    string
	UserID int64
	Values map[string]string
	Found  bool
}

// WebOrderResult saqlangan web buyurtma
type WebOrderResult struct {
	OrderNo string
	Request entity.EstimateRequest
	Price   entity.PriceBreakdown
}

// QuoteUseCase quote rows from the chat flow and both quote/order forms.
type QuoteUseCase struct {
	store     RecordStore
	tokens    repository.TokenRepository
	engine    *pricing.Engine
	view      *presenter.Builder
	messenger repository.Messenger
	metrics   *metrics.Recorder
	tokenTTL  time.Duration
	quoteNos  *keyNumbers
	orderNos  *keyNumbers
	now       func() time.Time
}

// NewQuoteUseCase messenger may be nil; confirmation pushes are then skipped.
func NewQuoteUseCase(
	store RecordStore,
	tokens repository.TokenRepository,
	engine *pricing.Engine,
	view *presenter.Builder,
	messenger repository.Messenger,
	rec *metrics.Recorder,
	tokenTTL time.Duration,
) *QuoteUseCase {
	if tokenTTL <= 0 {
		tokenTTL = constants.DefaultFormTokenTTL
	}
	return &QuoteUseCase{
		store:     store,
		tokens:    tokens,
		engine:    engine,
		view:      view,
		messenger: messenger,
		metrics:   rec,
		tokenTTL:  tokenTTL,
		quoteNos:  &keyNumbers{},
		orderNos:  &keyNumbers{prefix: constants.OrderNumberPrefix},
		now:       time.Now,
	}
}

// SetMessenger wires the push channel after the bot is constructed.
func (u *QuoteUseCase) SetMessenger(m repository.Messenger) { u.messenger = m }

func priceValues(v map[string]string, price entity.PriceBreakdown) {
	v[sheets.ColBasePrice] = strconv.Itoa(price.Base)
	v[sheets.ColPositionFee] = strconv.Itoa(price.Position)
	v[sheets.ColColorFee] = strconv.Itoa(price.Color)
	v[sheets.ColNameNumberFee] = strconv.Itoa(price.NameNumber)
	v[sheets.ColOptionInkFee] = strconv.Itoa(price.OptionInk)
	v[sheets.ColFullColorFee] = strconv.Itoa(price.FullColorSize)
	v[sheets.ColUnitPrice] = strconv.Itoa(price.Unit)
	v[sheets.ColTotalPrice] = strconv.Itoa(price.Total)
	v[sheets.ColPriceMatched] = strconv.FormatBool(price.Matched)
}

// SaveFlowQuote writes a finished chat estimate to the quote sheet.
func (u *QuoteUseCase) SaveFlowQuote(ctx context.Context, userID int64, req entity.EstimateRequest, price entity.PriceBreakdown) (string, error) {
	now := u.now()
	quoteNo := u.quoteNos.next(now)

	v := map[string]string{
		sheets.ColTimestamp:     now.Format(constants.TimestampLayout),
		sheets.ColUserID:        strconv.FormatInt(userID, 10),
		sheets.ColAttribute:     string(req.CustomerTier),
		sheets.ColUsageDate:     fmt.Sprintf("%s(%s)", req.UsageDate, req.DiscountTier),
		sheets.ColProduct:       req.Item,
		sheets.ColPattern:       req.Pattern,
		sheets.ColQuantity:      req.QuantityLabel,
		sheets.ColPrintPosition: req.Position,
		sheets.ColPrintColor:    req.ColorChoice,
		sheets.ColBudget:        req.Budget,
		sheets.ColNameNumber:    req.NameNumber,
		sheets.ColVariant:       string(req.Variant),
		sheets.ColFormURL:       u.view.QuotationFormURL(quoteNo),
	}
	priceValues(v, price)

	if _, err := u.store.Upsert(ctx, sheets.QuoteSchema, entity.Record{Key: quoteNo, Values: v}); err != nil {
		return "", err
	}
	return quoteNo, nil
}

func (u *QuoteUseCase) issue(ctx context.Context, form string) (string, error) {
	tok, err := u.tokens.Issue(ctx, form, u.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue %s token: %w", form, err)
	}
	return tok, nil
}

// consume runs after validation, so a rejected form can be corrected and
// sent again with the same token.
func (u *QuoteUseCase) consume(ctx context.Context, form, token string) error {
	if err := u.tokens.Consume(ctx, form, token); err != nil {
		u.metrics.FormSubmit(form, "bad_token")
		return err
	}
	return nil
}

// QuotationForm prefills the quote management form from the sheet.
func (u *QuoteUseCase) QuotationForm(ctx context.Context, quoteNo string) (FormData, error) {
	quoteNo = strings.TrimSpace(quoteNo)
	data := FormData{Key: quoteNo, Values: map[string]string{}}
	if quoteNo != "" {
		rec, found, err := u.store.Find(ctx, sheets.QuoteSchema, quoteNo)
		if err != nil {
			return FormData{}, err
		}
		if found {
			data.Values, data.Found = rec.Values, true
		}
	}
	data.Values[sheets.ColQuoteNo] = quoteNo
	tok, err := u.issue(ctx, FormQuotation)
	if err != nil {
		return FormData{}, err
	}
	data.Token = tok
	return data, nil
}

// SubmitQuotation overwrites the quote row with the submitted fields. Keys the
// form did not send keep their stored value.
func (u *QuoteUseCase) SubmitQuotation(ctx context.Context, token string, form map[string]string) (string, error) {
	quoteNo := strings.TrimSpace(form[sheets.ColQuoteNo])
	if quoteNo == "" {
		u.metrics.FormSubmit(FormQuotation, "invalid")
		return "", fmt.Errorf("%w: quote_no is required", ErrInvalidForm)
	}
	if err := u.consume(ctx, FormQuotation, token); err != nil {
		return "", err
	}

	values := map[string]string{}
	existing, found, err := u.store.Find(ctx, sheets.QuoteSchema, quoteNo)
	if err != nil {
		u.metrics.FormSubmit(FormQuotation, "error")
		return "", err
	}
	if found {
		for k, v := range existing.Values {
			values[k] = v
		}
	}
	for _, k := range sheets.QuoteFormKeys() {
		if v, ok := form[k]; ok {
			values[k] = strings.TrimSpace(v)
		}
	}
	values[sheets.ColTimestamp] = u.now().Format(constants.TimestampLayout)

	if _, err := u.store.Upsert(ctx, sheets.QuoteSchema, entity.Record{Key: quoteNo, Values: values}); err != nil {
		u.metrics.FormSubmit(FormQuotation, "error")
		return "", err
	}
	u.metrics.FormSubmit(FormQuotation, "ok")
	log.Printf("[quote] forma saqlandi: %s (mavjud=%v)", quoteNo, found)
	return quoteNo, nil
}

// WebOrderForm the order form for a user; orderNo reopens a saved order.
func (u *QuoteUseCase) WebOrderForm(ctx context.Context, userID int64, orderNo string) (FormData, error) {
	orderNo = strings.TrimSpace(orderNo)
	data := FormData{Key: orderNo, UserID: userID, Values: map[string]string{}}
	if orderNo != "" {
		rec, found, err := u.store.Find(ctx, sheets.WebOrderSchema, orderNo)
		if err != nil {
			return FormData{}, err
		}
		if found {
			data.Values, data.Found = rec.Values, true
			if data.UserID == 0 {
				data.UserID, _ = strconv.ParseInt(rec.Values[sheets.ColUserID], 10, 64)
			}
		}
	}
	tok, err := u.issue(ctx, FormWebOrder)
	if err != nil {
		return FormData{}, err
	}
	data.Token = tok
	return data, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "on", "true", "yes", "あり", "○":
		return true
	}
	return false
}

func oneOf(v string, allowed []string) (string, bool) {
	c := catalog.Canonical(v)
	for _, a := range allowed {
		if catalog.Canonical(a) == c {
			return a, true
		}
	}
	return "", false
}

// ParseWebOrder validates the web order form into a request. usage_date is
// either a YYYY-MM-DD date, compared with now, or one of the flow labels.
func ParseWebOrder(form map[string]string, now time.Time) (entity.EstimateRequest, error) {
	req := entity.EstimateRequest{Variant: entity.VariantWebOrder}

	ans, ok := catalog.Parse(entity.FieldAttribute, form[sheets.ColAttribute], false)
	if !ok {
		return req, fmt.Errorf("%w: attribute %q", ErrInvalidForm, form[sheets.ColAttribute])
	}
	req.CustomerTier = ans.(entity.AttributeAnswer).Tier

	usage := strings.TrimSpace(form[sheets.ColUsageDate])
	if d, err := time.ParseInLocation("2006-01-02", usage, now.Location()); err == nil {
		req.UsageDate = usage
		req.DiscountTier = pricing.DiscountForDate(now, d)
	} else if label, ok := oneOf(usage, catalog.UsageDates); ok {
		req.UsageDate = label
		req.DiscountTier = pricing.DiscountForUsageLabel(label)
	} else {
		return req, fmt.Errorf("%w: usage_date %q", ErrInvalidForm, usage)
	}

	p, ok := catalog.FindProduct(form[sheets.ColItem])
	if !ok {
		return req, fmt.Errorf("%w: item %q", ErrInvalidForm, form[sheets.ColItem])
	}
	req.Item = p.Name

	for _, size := range sheets.SizeKeys {
		raw := strings.TrimSpace(form[sheets.SizeKey(size)])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, fmt.Errorf("%w: size %s count %q", ErrInvalidForm, size, raw)
		}
		req.Quantity += n
	}
	if req.Quantity == 0 {
		n, err := strconv.Atoi(strings.TrimSpace(form[sheets.ColOrderCount]))
		if err != nil || n <= 0 {
			return req, fmt.Errorf("%w: quantity is required", ErrInvalidForm)
		}
		req.Quantity = n
	}
	req.QuantityLabel = pricing.CanonicalRange(req.Quantity)

	req.NameNumber = catalog.NameNumberNone
	if v := strings.TrimSpace(form[sheets.ColNameNumber]); v != "" {
		label, ok := oneOf(v, catalog.NameNumbers)
		if !ok {
			return req, fmt.Errorf("%w: name_number %q", ErrInvalidForm, v)
		}
		req.NameNumber = label
	}

	for i := 1; i <= entity.MaxPlacements; i++ {
		pos := strings.TrimSpace(form[sheets.PlacementKey(sheets.PlacementPosition, i)])
		if pos == "" {
			continue
		}
		pl := entity.Placement{Position: pos, ColorCount: 1, SpecialInk: catalog.SpecialInks[0]}
		if v := strings.TrimSpace(form[sheets.PlacementKey(sheets.PlacementColorCount, i)]); v != "" {
			label, ok := oneOf(v, catalog.ColorCounts)
			if !ok {
				return req, fmt.Errorf("%w: color count %q", ErrInvalidForm, v)
			}
			if label == catalog.FullColorLabel {
				pl.FullColor = true
				pl.ColorCount = 0
			} else {
				for n, c := range catalog.ColorCounts {
					if c == label {
						pl.ColorCount = n + 1
					}
				}
			}
		}
		if truthy(form[sheets.PlacementKey(sheets.PlacementFullColor, i)]) {
			pl.FullColor = true
			pl.ColorCount = 0
		}
		if v := strings.TrimSpace(form[sheets.PlacementKey(sheets.PlacementSpecialInk, i)]); v != "" {
			label, ok := oneOf(v, catalog.SpecialInks)
			if !ok {
				return req, fmt.Errorf("%w: special ink %q", ErrInvalidForm, v)
			}
			pl.SpecialInk = label
		}
		pl.Outline = truthy(form[sheets.PlacementKey(sheets.PlacementOutline, i)])
		if v := strings.TrimSpace(form[sheets.PlacementKey(sheets.PlacementSize, i)]); v != "" {
			label, ok := oneOf(v, catalog.DesignSizes)
			if !ok {
				return req, fmt.Errorf("%w: design size %q", ErrInvalidForm, v)
			}
			pl.DesignSize = label
		}
		req.Placements = append(req.Placements, pl)
	}
	if len(req.Placements) == 0 {
		return req, fmt.Errorf("%w: at least one print position is required", ErrInvalidForm)
	}
	req.PositionCount = len(req.Placements)
	req.SingleSided = req.PositionCount == 1
	return req, nil
}

func webOrderValues(form map[string]string, req entity.EstimateRequest, price entity.PriceBreakdown, userID int64, now time.Time) map[string]string {
	v := map[string]string{
		sheets.ColTimestamp:  now.Format(constants.TimestampLayout),
		sheets.ColUserID:     strconv.FormatInt(userID, 10),
		sheets.ColName:       strings.TrimSpace(form[sheets.ColName]),
		sheets.ColPhone:      strings.TrimSpace(form[sheets.ColPhone]),
		sheets.ColEmail:      strings.TrimSpace(form[sheets.ColEmail]),
		sheets.ColAttribute:  string(req.CustomerTier),
		sheets.ColUsageDate:  req.UsageDate,
		sheets.ColDiscount:   string(req.DiscountTier),
		sheets.ColItem:       req.Item,
		sheets.ColBodyColor:  strings.TrimSpace(form[sheets.ColBodyColor]),
		sheets.ColOrderCount: strconv.Itoa(req.Quantity),
		sheets.ColNameNumber: req.NameNumber,
		sheets.ColOtherNotes: strings.TrimSpace(form[sheets.ColOtherNotes]),
	}
	for _, size := range sheets.SizeKeys {
		v[sheets.SizeKey(size)] = strings.TrimSpace(form[sheets.SizeKey(size)])
	}
	for i, pl := range req.Placements {
		n := i + 1
		v[sheets.PlacementKey(sheets.PlacementPosition, n)] = pl.Position
		if pl.FullColor {
			v[sheets.PlacementKey(sheets.PlacementColorCount, n)] = catalog.FullColorLabel
			v[sheets.PlacementKey(sheets.PlacementFullColor, n)] = "○"
		} else {
			v[sheets.PlacementKey(sheets.PlacementColorCount, n)] = catalog.ColorCounts[pl.ColorCount-1]
		}
		v[sheets.PlacementKey(sheets.PlacementSpecialInk, n)] = pl.SpecialInk
		if pl.Outline {
			v[sheets.PlacementKey(sheets.PlacementOutline, n)] = "○"
		}
		v[sheets.PlacementKey(sheets.PlacementSize, n)] = pl.DesignSize
	}
	priceValues(v, price)
	return v
}

// SubmitWebOrder prices and stores a web order, marks it pending and pushes
// the confirmation prompt to the user.
func (u *QuoteUseCase) SubmitWebOrder(ctx context.Context, token string, form map[string]string) (WebOrderResult, error) {
	now := u.now()
	req, err := ParseWebOrder(form, now)
	if err != nil {
		u.metrics.FormSubmit(FormWebOrder, "invalid")
		return WebOrderResult{}, err
	}
	if err := u.consume(ctx, FormWebOrder, token); err != nil {
		return WebOrderResult{}, err
	}
	price := u.engine.Compute(req)
	if !price.Matched {
		logger.WarnLogger.Printf("[quote] web buyurtma narxi topilmadi: tier=%s item=%s qty=%d discount=%s",
			req.CustomerTier, req.Item, req.Quantity, req.DiscountTier)
		u.metrics.PriceMiss(string(req.Variant))
	}

	userID, _ := strconv.ParseInt(strings.TrimSpace(form["uid"]), 10, 64)
	orderNo := strings.TrimSpace(form[sheets.ColOrderNo])
	if orderNo == "" {
		orderNo = u.orderNos.next(now)
	}

	rec := entity.Record{Key: orderNo, Values: webOrderValues(form, req, price, userID, now)}
	if _, err := u.store.Upsert(ctx, sheets.WebOrderSchema, rec); err != nil {
		u.metrics.FormSubmit(FormWebOrder, "error")
		return WebOrderResult{}, err
	}
	if _, err := u.store.MarkStatus(ctx, sheets.WebOrderSchema, orderNo, entity.StatusPending); err != nil {
		u.metrics.FormSubmit(FormWebOrder, "error")
		return WebOrderResult{}, err
	}
	u.metrics.FormSubmit(FormWebOrder, "ok")
	logger.InfoLogger.Printf("[quote] web buyurtma saqlandi: %s user=%d total=%d", orderNo, userID, price.Total)

	if userID != 0 && u.messenger != nil {
		if err := u.messenger.Send(ctx, userID, presenter.OrderConfirmPrompt(orderNo, req, price)); err != nil {
			logger.ErrorLogger.Printf("[quote] tasdiqlash xabari yuborilmadi user=%d order=%s: %v", userID, orderNo, err)
		}
	}
	return WebOrderResult{OrderNo: orderNo, Request: req, Price: price}, nil
}

// SetOrderStatus colors the order row. found is false for unknown numbers.
func (u *QuoteUseCase) SetOrderStatus(ctx context.Context, orderNo string, status entity.OrderStatus) (bool, error) {
	found, err := u.store.MarkStatus(ctx, sheets.WebOrderSchema, strings.TrimSpace(orderNo), status)
	if err != nil {
		return found, err
	}
	u.metrics.OrderStatus(string(status), found)
	if !found {
		logger.WarnLogger.Printf("[quote] buyurtma topilmadi: %s (%s)", orderNo, status)
	}
	return found, nil
}
