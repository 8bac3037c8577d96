package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

func response(reason genai.FinishReason, texts ...string) *genai.GenerateContentResponse {
	var parts []genai.Part
	for _, t := range texts {
		parts = append(parts, genai.Text(t))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts},
			FinishReason: reason,
		}},
	}
}

func scripted(steps ...func() (*genai.GenerateContentResponse, error)) (*Assistant, *int) {
	calls := 0
	a := &Assistant{
		maxRetries: 3,
		generate: func(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error) {
			step := steps[calls]
			calls++
			return step()
		},
	}
	return a, &calls
}

func TestAnswer_RetriesUntilText(t *testing.T) {
	a, calls := scripted(
		func() (*genai.GenerateContentResponse, error) { return nil, errors.New("503") },
		func() (*genai.GenerateContentResponse, error) { return response(genai.FinishReasonStop, "  "), nil },
		func() (*genai.GenerateContentResponse, error) {
			return response(genai.FinishReasonStop, "納期は", "約2週間です。"), nil
		},
	)
	got, err := a.Answer(context.Background(), 1, "納期は？")
	if err != nil {
		t.Fatal(err)
	}
	if got != "納期は約2週間です。" || *calls != 3 {
		t.Fatalf("got %q after %d calls", got, *calls)
	}
}

func TestAnswer_GivesUp(t *testing.T) {
	fail := func() (*genai.GenerateContentResponse, error) { return nil, errors.New("quota") }
	a, calls := scripted(fail, fail, fail)
	_, err := a.Answer(context.Background(), 1, "質問")
	if err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("err = %v", err)
	}
	if *calls != 3 {
		t.Fatalf("calls = %d", *calls)
	}
}

func TestAnswer_SafetyBlockIsSilent(t *testing.T) {
	a, _ := scripted(func() (*genai.GenerateContentResponse, error) {
		return response(genai.FinishReasonSafety, "blocked"), nil
	})
	got, err := a.Answer(context.Background(), 1, "質問")
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestAnswer_NoCandidatesAndCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a, calls := scripted(func() (*genai.GenerateContentResponse, error) {
		cancel()
		return &genai.GenerateContentResponse{}, nil
	})
	a.retryDelay = time.Hour
	if _, err := a.Answer(ctx, 1, "質問"); !errors.Is(err, context.Canceled) || *calls != 1 {
		t.Fatalf("err = %v calls = %d", err, *calls)
	}
}

func TestAnswer_BlankQuestion(t *testing.T) {
	a, calls := scripted()
	if got, err := a.Answer(context.Background(), 1, "   "); got != "" || err != nil || *calls != 0 {
		t.Fatalf("blank question reached the model")
	}
}
