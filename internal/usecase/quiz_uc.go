package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"edu-entitlement-platform/internal/domain"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/adapter"
)

// QuizUseCase wraps the thin AI helper calls: quiz generation from lesson
// text and free-form chat. Both are gated on entitlement to the lesson's
// scope; the prompts are fixed, no prompt engineering lives here.
type QuizUseCase struct {
	ai     adapter.AIServiceAdapter
	ledger *LedgerUseCase
	model  string
	log    *zerolog.Logger
}

func NewQuizUseCase(ai adapter.AIServiceAdapter, ledger *LedgerUseCase, modelName string, logger *zerolog.Logger) *QuizUseCase {
	quizLog := logger.With().Str("component", "QuizUseCase").Logger()
	return &QuizUseCase{ai: ai, ledger: ledger, model: modelName, log: &quizLog}
}

const quizSystemPrompt = "You are a quiz generator for a school platform. " +
	"Reply with a JSON array only: [{\"question\":...,\"options\":[4 strings],\"answer\":index}]."

// GenerateQuiz produces n multiple-choice questions from lesson text.
func (uc *QuizUseCase) GenerateQuiz(ctx context.Context, userID, itemID, lessonText string, n int) ([]model.QuizQuestion, error) {
	if lessonText == "" || n < 1 {
		return nil, domain.ErrInvalidArgument
	}
	if err := uc.gate(ctx, userID, itemID); err != nil {
		return nil, err
	}

	messages := []adapter.Message{
		{Role: "system", Content: quizSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Generate %d questions from this lesson:\n\n%s", n, lessonText)},
	}
	raw, err := uc.ai.Chat(ctx, uc.model, messages)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the JSON in a code fence.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &questions); err != nil {
		uc.log.Warn().Err(err).Msg("quiz response was not valid JSON")
		return nil, domain.ErrOperationFailed
	}
	return questions, nil
}

// Chat forwards a study question to the model, entitlement-gated.
func (uc *QuizUseCase) Chat(ctx context.Context, userID, itemID string, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", domain.ErrInvalidArgument
	}
	if err := uc.gate(ctx, userID, itemID); err != nil {
		return "", err
	}
	return uc.ai.Chat(ctx, uc.model, messages)
}

func (uc *QuizUseCase) gate(ctx context.Context, userID, itemID string) error {
	ok, err := uc.ledger.IsEntitled(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotEntitled
	}
	return nil
}
