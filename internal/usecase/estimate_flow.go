package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/looplab/fsm"
	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/presenter"
	"github.com/yourusername/print-estimate-bot/internal/pricing"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
	"github.com/yourusername/print-estimate-bot/pkg/metrics"
)

// transition bitta bosqich: qaysi maydon so'raladi va keyingi bosqich.
type transition struct {
	Step  entity.Step
	Field entity.Field
	Next  entity.Step
	// SingleNext replaces Next once a single-sided position was chosen.
	SingleNext entity.Step
}

func (t transition) next(singleSided bool) entity.Step {
	if singleSided && t.SingleNext != entity.StepNone {
		return t.SingleNext
	}
	return t.Next
}

var flowTables = map[entity.FlowVariant][]transition{
	entity.VariantPattern: {
		{Step: entity.StepAttribute, Field: entity.FieldAttribute, Next: entity.StepUsageDate},
		{Step: entity.StepUsageDate, Field: entity.FieldUsageDate, Next: entity.StepItem},
		{Step: entity.StepItem, Field: entity.FieldItem, Next: entity.StepPattern},
		{Step: entity.StepPattern, Field: entity.FieldPattern, Next: entity.StepQuantity},
		{Step: entity.StepQuantity, Field: entity.FieldQuantity, Next: entity.StepTerminal},
	},
	entity.VariantDetailed: {
		{Step: entity.StepAttribute, Field: entity.FieldAttribute, Next: entity.StepUsageDate},
		{Step: entity.StepUsageDate, Field: entity.FieldUsageDate, Next: entity.StepBudget},
		{Step: entity.StepBudget, Field: entity.FieldBudget, Next: entity.StepItem},
		{Step: entity.StepItem, Field: entity.FieldItem, Next: entity.StepQuantity},
		{Step: entity.StepQuantity, Field: entity.FieldQuantity, Next: entity.StepPosition},
		{Step: entity.StepPosition, Field: entity.FieldPosition, Next: entity.StepColorCount},
		{Step: entity.StepColorCount, Field: entity.FieldColorCount, Next: entity.StepNameNumber, SingleNext: entity.StepTerminal},
		{Step: entity.StepNameNumber, Field: entity.FieldNameNumber, Next: entity.StepTerminal},
	},
}

// Machine events. answer_single is fired once a single-sided position was
// chosen; the machine then skips the name/number question.
const (
	eventAnswer       = "answer"
	eventAnswerSingle = "answer_single"
)

// QuoteSaver persists a finished flow estimate and returns its quote number.
type QuoteSaver interface {
	SaveFlowQuote(ctx context.Context, userID int64, req entity.EstimateRequest, price entity.PriceBreakdown) (string, error)
}

// EstimateFlow the multi-step estimate conversation.
type EstimateFlow struct {
	variant  entity.FlowVariant
	steps    map[entity.Step]transition
	order    map[entity.Step]int
	first    entity.Step
	events   fsm.Events
	sessions repository.SessionRepository
	engine   *pricing.Engine
	quotes   QuoteSaver
	view     *presenter.Builder
	metrics  *metrics.Recorder
	locks    *userLocks
	now      func() time.Time
}

// NewEstimateFlow unknown variants fall back to the pattern flow.
func NewEstimateFlow(
	variant entity.FlowVariant,
	sessions repository.SessionRepository,
	engine *pricing.Engine,
	quotes QuoteSaver,
	view *presenter.Builder,
	rec *metrics.Recorder,
) *EstimateFlow {
	table, ok := flowTables[variant]
	if !ok {
		log.Printf("[flow] noma'lum variant %q, pattern ishlatiladi", variant)
		variant = entity.VariantPattern
		table = flowTables[variant]
	}

	f := &EstimateFlow{
		variant:  variant,
		steps:    make(map[entity.Step]transition, len(table)),
		order:    make(map[entity.Step]int, len(table)),
		first:    table[0].Step,
		sessions: sessions,
		engine:   engine,
		quotes:   quotes,
		view:     view,
		metrics:  rec,
		locks:    newUserLocks(),
		now:      time.Now,
	}
	for i, t := range table {
		f.steps[t.Step] = t
		f.order[t.Step] = i + 1
		f.events = append(f.events,
			fsm.EventDesc{Name: eventAnswer, Src: []string{t.Step.String()}, Dst: t.next(false).String()},
			fsm.EventDesc{Name: eventAnswerSingle, Src: []string{t.Step.String()}, Dst: t.next(true).String()},
		)
	}
	return f
}

// Variant the question order in use.
func (f *EstimateFlow) Variant() entity.FlowVariant { return f.variant }

// machine a per-answer state machine positioned at the session's step.
func (f *EstimateFlow) machine(at entity.Step, callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.NewFSM(at.String(), f.events, callbacks)
}

// answerEvent the event fired for an answer given the sides chosen so far.
func answerEvent(singleSided bool) string {
	if singleSided {
		return eventAnswerSingle
	}
	return eventAnswer
}

// Start discards any previous session and asks the first question.
func (f *EstimateFlow) Start(ctx context.Context, userID int64) (entity.Reply, error) {
	unlock := f.locks.lock(userID)
	defer unlock()

	now := f.now()
	sess := &entity.Session{
		UserID:    userID,
		Variant:   f.variant,
		Step:      f.first,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := f.sessions.Save(ctx, sess); err != nil {
		return entity.TextReply(constants.MsgSaveFailed), fmt.Errorf("start flow: %w", err)
	}
	f.metrics.FlowEvent(string(f.variant), f.first.String(), "started")
	return f.view.StepPrompt(f.first, f.order[f.first], sess), nil
}

// Active reports whether the user has a session in progress.
func (f *EstimateFlow) Active(ctx context.Context, userID int64) (bool, error) {
	_, err := f.sessions.Get(ctx, userID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Cancel drops the session. Reports whether one existed.
func (f *EstimateFlow) Cancel(ctx context.Context, userID int64) (bool, error) {
	unlock := f.locks.lock(userID)
	defer unlock()

	sess, err := f.sessions.Get(ctx, userID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	f.metrics.FlowEvent(string(sess.Variant), sess.Step.String(), "cancelled")
	return true, f.sessions.Delete(ctx, userID)
}

// Handle applies one answer. handled is false when the user has no session,
// so the caller can route the text elsewhere.
func (f *EstimateFlow) Handle(ctx context.Context, userID int64, text string) (entity.Reply, bool, error) {
	unlock := f.locks.lock(userID)
	defer unlock()

	sess, err := f.sessions.Get(ctx, userID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return entity.Reply{}, false, nil
	}
	if err != nil {
		return entity.Reply{}, false, fmt.Errorf("load session: %w", err)
	}

	t, ok := f.steps[sess.Step]
	if !ok || sess.Variant != f.variant {
		// eski variant yoki buzilgan bosqich
		return f.reject(ctx, sess, "stale")
	}
	// javob before_event da tekshiriladi; noto'g'ri javob o'tishni bekor qiladi
	var ans entity.StepAnswer
	m := f.machine(sess.Step, fsm.Callbacks{
		"before_event": func(_ context.Context, e *fsm.Event) {
			parsed, ok := catalog.Parse(t.Field, text, sess.SingleSided)
			if !ok {
				e.Cancel(errors.New("answer not in the allowed set"))
				return
			}
			ans = parsed
		},
	})
	if err := m.Event(ctx, answerEvent(sess.SingleSided)); err != nil {
		if ans != nil {
			logger.ErrorLogger.Printf("[flow] user=%d step=%s: %v", userID, sess.Step, err)
		}
		return f.reject(ctx, sess, "invalid")
	}
	next, ok := entity.ParseStep(m.Current())
	if !ok {
		return f.reject(ctx, sess, "stale")
	}
	if p, isPos := ans.(entity.PositionAnswer); isPos {
		sess.SingleSided = p.SingleSided
	}

	sess.Answers = append(sess.Answers, entity.FieldValue{Field: t.Field, Value: ans.Label()})
	sess.UpdatedAt = f.now()
	f.metrics.FlowEvent(string(f.variant), t.Step.String(), "answered")

	if next == entity.StepTerminal {
		reply, err := f.finish(ctx, sess)
		return reply, true, err
	}

	sess.Step = next
	if err := f.sessions.Save(ctx, sess); err != nil {
		_ = f.sessions.Delete(ctx, userID)
		return entity.TextReply(constants.MsgSaveFailed), true, fmt.Errorf("save session: %w", err)
	}
	return f.view.StepPrompt(next, f.order[next], sess), true, nil
}

func (f *EstimateFlow) reject(ctx context.Context, sess *entity.Session, outcome string) (entity.Reply, bool, error) {
	f.metrics.FlowEvent(string(sess.Variant), sess.Step.String(), outcome)
	if err := f.sessions.Delete(ctx, sess.UserID); err != nil {
		return entity.TextReply(constants.MsgInvalidInput), true, fmt.Errorf("delete session: %w", err)
	}
	return entity.TextReply(constants.MsgInvalidInput), true, nil
}

// answers re-parses the stored labels into typed answers.
func answers(sess *entity.Session) ([]entity.StepAnswer, error) {
	out := make([]entity.StepAnswer, 0, len(sess.Answers))
	single := false
	for _, fv := range sess.Answers {
		ans, ok := catalog.Parse(fv.Field, fv.Value, single)
		if !ok {
			return nil, fmt.Errorf("stored answer %s=%q no longer valid", fv.Field, fv.Value)
		}
		if p, isPos := ans.(entity.PositionAnswer); isPos {
			single = p.SingleSided
		}
		out = append(out, ans)
	}
	return out, nil
}

// finish prices, stores and presents the estimate. The session is removed
// whatever happens.
func (f *EstimateFlow) finish(ctx context.Context, sess *entity.Session) (entity.Reply, error) {
	defer func() {
		if err := f.sessions.Delete(ctx, sess.UserID); err != nil {
			logger.ErrorLogger.Printf("[flow] sessiyani o'chirib bo'lmadi user=%d: %v", sess.UserID, err)
		}
	}()

	typed, err := answers(sess)
	if err != nil {
		return entity.TextReply(constants.MsgInvalidInput), err
	}
	req := entity.BuildRequest(f.variant, typed)
	price := f.engine.Compute(req)
	if !price.Matched {
		logger.WarnLogger.Printf("[flow] narx jadvalida topilmadi: variant=%s tier=%s item=%s pattern=%s qty=%d discount=%s",
			req.Variant, req.CustomerTier, req.Item, req.Pattern, req.Quantity, req.DiscountTier)
		f.metrics.PriceMiss(string(req.Variant))
	}

	quoteNo, err := f.quotes.SaveFlowQuote(ctx, sess.UserID, req, price)
	if err != nil {
		f.metrics.FlowEvent(string(f.variant), entity.StepTerminal.String(), "save_failed")
		return entity.TextReply(constants.MsgSaveFailed), fmt.Errorf("save quote: %w", err)
	}

	f.metrics.EstimateCompleted(string(f.variant), string(req.CustomerTier))
	logger.InfoLogger.Printf("[flow] smeta tayyor: user=%d quote=%s total=%d", sess.UserID, quoteNo, price.Total)
	return f.view.ResultCard(presenter.ResultCard{
		QuoteNo: quoteNo,
		Request: req,
		Price:   price,
		FormURL: f.view.QuotationFormURL(quoteNo),
	}), nil
}

// SweepIdle removes sessions untouched for maxIdle.
func (f *EstimateFlow) SweepIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	return f.sessions.DeleteIdle(ctx, f.now().Add(-maxIdle))
}

// RunSweeper periodically drops idle sessions until ctx is done.
func (f *EstimateFlow) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := f.SweepIdle(ctx, maxIdle)
			if err != nil {
				logger.ErrorLogger.Printf("[flow] idle sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("♻️ [flow] %d ta eskirgan sessiya tozalandi", n)
			}
		}
	}
}
