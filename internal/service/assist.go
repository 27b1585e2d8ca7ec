package service

import (
	"context"
	"fmt"
	"strings"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/model"
)

type Assistant interface {
	SuggestAssertions(ctx context.Context, tc model.TestCase) ([]string, error)
	GenerateSnippet(ctx context.Context, tc model.TestCase) (string, error)
}

type AssistService interface {
	Assertions(ctx context.Context, tc model.TestCase) ([]string, error)
	Snippet(ctx context.Context, tc model.TestCase) (string, error)
}

type assistService struct {
	assistant Assistant
}

func NewAssistService(assistant Assistant) AssistService {
	return &assistService{assistant: assistant}
}

func (s *assistService) Assertions(ctx context.Context, tc model.TestCase) ([]string, error) {
	if err := validateForAssist(tc); err != nil {
		return nil, err
	}
	return s.assistant.SuggestAssertions(ctx, tc)
}

func (s *assistService) Snippet(ctx context.Context, tc model.TestCase) (string, error) {
	if err := validateForAssist(tc); err != nil {
		return "", err
	}
	return s.assistant.GenerateSnippet(ctx, tc)
}

func validateForAssist(tc model.TestCase) error {
	if strings.TrimSpace(tc.Title) == "" {
		return fmt.Errorf("%w: test case title is required", brain.ErrValidation)
	}
	if len(tc.Steps) == 0 {
		return fmt.Errorf("%w: test case steps are required", brain.ErrValidation)
	}
	return nil
}
