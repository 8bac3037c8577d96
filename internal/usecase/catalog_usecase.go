package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/infrastructure/sheets"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

// CatalogUseCase katalog so'rovi formasi (append-only varaq)
type CatalogUseCase struct {
	store    RecordStore
	tokens   repository.TokenRepository
	metrics  *metrics.Recorder
	tokenTTL time.Duration
	now      func() time.Time
}

func NewCatalogUseCase(store RecordStore, tokens repository.TokenRepository, rec *metrics.Recorder, tokenTTL time.Duration) *CatalogUseCase {
	if tokenTTL <= 0 {
		tokenTTL = constants.DefaultFormTokenTTL
	}
	return &CatalogUseCase{store: store, tokens: tokens, metrics: rec, tokenTTL: tokenTTL, now: time.Now}
}

// Form issues the one-time token embedded in the page.
func (u *CatalogUseCase) Form(ctx context.Context) (string, error) {
	tok, err := u.tokens.Issue(ctx, FormCatalog, u.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue catalog token: %w", err)
	}
	return tok, nil
}

// Submit appends one catalog request. The two address lines share one cell.
func (u *CatalogUseCase) Submit(ctx context.Context, token string, form map[string]string) error {
	get := func(k string) string { return strings.TrimSpace(form[k]) }

	if get(sheets.ColName) == "" {
		u.metrics.FormSubmit(FormCatalog, "invalid")
		return fmt.Errorf("%w: name is required", ErrInvalidForm)
	}
	if err := u.tokens.Consume(ctx, FormCatalog, token); err != nil {
		u.metrics.FormSubmit(FormCatalog, "bad_token")
		return err
	}
	address := strings.TrimSpace(get("address_1") + " " + get("address_2"))
	values := map[string]string{
		sheets.ColTimestamp: u.now().Format(constants.TimestampLayout),
		sheets.ColName:      get(sheets.ColName),
		"postal_code":       get("postal_code"),
		"address":           address,
		sheets.ColPhone:     get(sheets.ColPhone),
		sheets.ColEmail:     get(sheets.ColEmail),
		"sns_account":       get("sns_account"),
		"school_grade":      get("school_grade"),
		"other":             get("other"),
	}
	if err := u.store.Append(ctx, sheets.CatalogSchema, values); err != nil {
		u.metrics.FormSubmit(FormCatalog, "error")
		return err
	}
	u.metrics.FormSubmit(FormCatalog, "ok")
	logger.InfoLogger.Printf("[catalog] yangi so'rov: %s", values[sheets.ColName])
	return nil
}
