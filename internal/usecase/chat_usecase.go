package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/print-estimate-bot/internal/domain/catalog"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"github.com/yourusername/print-estimate-bot/internal/domain/entity"
	"github.com/yourusername/print-estimate-bot/internal/domain/repository"
	"github.com/yourusername/print-estimate-bot/internal/presenter"
	"github.com/yourusername/print-estimate-bot/pkg/logger"
)

// ChatUseCase chat bilan bog'liq business logic: kalit so'zlar, smeta
// oqimi va tugma (callback) kodlari.
type ChatUseCase interface {
	HandleText(ctx context.Context, userID int64, text string) ([]entity.Reply, error)
	HandleCallback(ctx context.Context, userID int64, data string) ([]entity.Reply, error)
}

// OrderStatusSetter buyurtma qatorining rang markeri
type OrderStatusSetter interface {
	SetOrderStatus(ctx context.Context, orderNo string, status entity.OrderStatus) (bool, error)
}

type chatUseCase struct {
	flow      *EstimateFlow
	orders    OrderStatusSetter
	assistant repository.Assistant
	view      *presenter.Builder
}

// NewChatUseCase assistant may be nil; free text is then ignored.
func NewChatUseCase(flow *EstimateFlow, orders OrderStatusSetter, assistant repository.Assistant, view *presenter.Builder) ChatUseCase {
	return &chatUseCase{
		flow:      flow,
		orders:    orders,
		assistant: assistant,
		view:      view,
	}
}

func one(r entity.Reply) []entity.Reply { return []entity.Reply{r} }

func isCampaign(text string) bool {
	return strings.Contains(text, constants.KeywordCampaign) ||
		strings.Contains(strings.ToLower(text), constants.KeywordCatalog)
}

// dropSession the user left the flow for another topic.
func (u *chatUseCase) dropSession(ctx context.Context, userID int64) {
	if _, err := u.flow.Cancel(ctx, userID); err != nil {
		logger.ErrorLogger.Printf("[chat] sessiya o'chirilmadi user=%d: %v", userID, err)
	}
}

// HandleText keywords first, then the flow, then the assistant.
func (u *chatUseCase) HandleText(ctx context.Context, userID int64, text string) ([]entity.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	switch text {
	case constants.CommandStart:
		u.dropSession(ctx, userID)
		return one(u.view.Welcome()), nil
	case constants.KeywordInquiry:
		return one(u.view.Inquiry()), nil
	case constants.KeywordHandoff:
		u.dropSession(ctx, userID)
		return one(presenter.Handoff()), nil
	case constants.KeywordCancel:
		existed, err := u.flow.Cancel(ctx, userID)
		if err != nil {
			return one(entity.TextReply(constants.MsgFlowCancelled)), err
		}
		if existed {
			return one(entity.Reply{Text: constants.MsgFlowCancelled, RemoveKeyboard: true}), nil
		}
	case constants.KeywordEstimate:
		r, err := u.flow.Start(ctx, userID)
		return one(r), err
	}

	if isCampaign(text) {
		u.dropSession(ctx, userID)
		return one(presenter.Campaign()), nil
	}

	r, handled, err := u.flow.Handle(ctx, userID, text)
	if handled {
		return one(r), err
	}
	if err != nil {
		return nil, err
	}
	return u.answerFreeText(ctx, userID, text), nil
}

// answerFreeText asks the assistant; stale flow buttons stay unanswered.
func (u *chatUseCase) answerFreeText(ctx context.Context, userID int64, text string) []entity.Reply {
	if u.assistant == nil || catalog.IsChoiceLabel(text) {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, constants.AssistantTimeout)
	defer cancel()

	answer, err := u.assistant.Answer(ctx, userID, text)
	if err != nil {
		logger.ErrorLogger.Printf("[chat] assistant xato user=%d: %v", userID, err)
		return nil
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	return one(entity.TextReply(answer))
}

// HandleCallback inline tugma kodlari
func (u *chatUseCase) HandleCallback(ctx context.Context, userID int64, data string) ([]entity.Reply, error) {
	data = strings.TrimSpace(data)
	switch {
	case data == constants.CallbackConsultDesign:
		u.dropSession(ctx, userID)
		return one(presenter.ConsultDesign()), nil
	case data == constants.CallbackConsultPersonal:
		u.dropSession(ctx, userID)
		return one(presenter.ConsultPersonal()), nil
	case data == constants.CallbackWebOrder:
		return one(u.view.WebOrderLink(userID)), nil
	case strings.HasPrefix(data, constants.CallbackConfirmOrder):
		orderNo := strings.TrimPrefix(data, constants.CallbackConfirmOrder)
		return u.setStatus(ctx, orderNo, entity.StatusConfirmed, presenter.OrderConfirmed(orderNo))
	case strings.HasPrefix(data, constants.CallbackCancelOrder):
		orderNo := strings.TrimPrefix(data, constants.CallbackCancelOrder)
		return u.setStatus(ctx, orderNo, entity.StatusCancelled, presenter.OrderKeptPending())
	}
	log.Printf("[chat] noma'lum callback user=%d: %q", userID, data)
	return nil, nil
}

func (u *chatUseCase) setStatus(ctx context.Context, orderNo string, status entity.OrderStatus, ok entity.Reply) ([]entity.Reply, error) {
	found, err := u.orders.SetOrderStatus(ctx, orderNo, status)
	if err != nil {
		return one(entity.TextReply(constants.MsgErrorPrefix + "注文情報を更新できませんでした。")), fmt.Errorf("set order %s %s: %w", orderNo, status, err)
	}
	if !found {
		return one(presenter.OrderNotFound(orderNo)), nil
	}
	return one(ok), nil
}
