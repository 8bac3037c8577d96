package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/print-estimate-bot/internal/domain/constants"
	"google.golang.org/api/option"
)

// errEmpty model bo'sh javob qaytardi
var errEmpty = errors.New("empty response")

// generateFunc GenerateContent imzosi; testlarda almashtiriladi
type generateFunc func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// Assistant Gemini asosidagi FAQ yordamchisi (repository.Assistant).
type Assistant struct {
	client     *genai.Client
	generate   generateFunc
	maxRetries int
	retryDelay time.Duration
}

// NewAssistant yangi Gemini client yaratish
func NewAssistant(apiKey string) (*Assistant, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(constants.GeminiModelName)
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(FAQInstruction)},
	}

	return &Assistant{
		client:     client,
		generate:   model.GenerateContent,
		maxRetries: constants.MaxRetries,
		retryDelay: constants.RetryDelay * time.Second,
	}, nil
}

// Answer bitta savolga qisqa javob. Xavfsizlik filtri to'xtatsa bo'sh
// javob qaytadi, chaqiruvchi jim qoladi.
func (a *Assistant) Answer(ctx context.Context, userID int64, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		log.Printf("🔄 [gemini] user=%d so'rov (urinish %d/%d)", userID, attempt, a.maxRetries)

		answer, blocked, err := a.try(ctx, text)
		if err == nil {
			if blocked {
				log.Printf("🚫 [gemini] user=%d javob safety filter bilan to'xtatildi", userID)
				return "", nil
			}
			log.Printf("✅ [gemini] javob olindi (urinish %d)", attempt)
			return answer, nil
		}

		lastErr = err
		log.Printf("❌ [gemini] urinish %d xato: %v", attempt, err)
		if attempt == a.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.retryDelay):
		}
	}
	return "", fmt.Errorf("gemini: %d urinishdan keyin javob yo'q: %w", a.maxRetries, lastErr)
}

func (a *Assistant) try(ctx context.Context, text string) (string, bool, error) {
	resp, err := a.generate(ctx, genai.Text(text))
	if err != nil {
		return "", false, err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false, errors.New("no response candidates")
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", true, nil
	}
	answer := strings.TrimSpace(extractText(resp))
	if answer == "" {
		return "", false, errEmpty
	}
	return answer, false, nil
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				result.WriteString(string(t))
			}
		}
	}
	return result.String()
}

// Close client ni yopish
func (a *Assistant) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}
