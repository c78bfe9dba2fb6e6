package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/sleep-trainer/backend/internal/config"
	promptset "github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("model returned an empty message")

// Service generates encouragement messages with a chat model.
type Service struct {
	prompts promptset.Set
	chain   compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the chat model described by cfg and wraps it.
func NewService(ctx context.Context, cfg config.AIConfig, prompts promptset.Set) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel, prompts)
}

// NewServiceWithModel builds the generation chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, prompts promptset.Set) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile encouragement chain: %w", err)
	}

	return &Service{
		prompts: prompts,
		chain:   runnable,
	}, nil
}

// Generate returns a short encouragement message for the request.
func (s *Service) Generate(ctx context.Context, req timer.Request) (string, error) {
	contextMessage := BuildContext(req)
	input := map[string]any{
		"system": s.prompts.System,
		"query":  BuildUserPrompt(req.Action, contextMessage),
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run encouragement chain: %w", err)
	}
	if response == nil {
		return "", ErrEmptyCompletion
	}

	message := strings.TrimSpace(response.Content)
	if message == "" {
		return "", ErrEmptyCompletion
	}

	log.Printf("[ai] generated message for action=%s, time=%d, length=%d", req.Action, req.Time, len(message))
	return message, nil
}
