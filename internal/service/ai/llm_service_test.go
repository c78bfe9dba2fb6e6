package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	promptset "github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

type fakeChatModel struct {
	reply string
	err   error
	input []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

func newTestService(t *testing.T, fake *fakeChatModel) *Service {
	t.Helper()
	svc, err := NewServiceWithModel(context.Background(), fake, promptset.Default())
	if err != nil {
		t.Fatalf("NewServiceWithModel err: %v", err)
	}
	return svc
}

func TestGenerateSendsSystemAndContext(t *testing.T) {
	fake := &fakeChatModel{reply: "  You've got this. 🌙  "}
	svc := newTestService(t, fake)

	got, err := svc.Generate(context.Background(), timer.Request{Action: timer.ActionAsleep, Time: 125})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if got != "You've got this. 🌙" {
		t.Fatalf("expected trimmed message, got %q", got)
	}

	if len(fake.input) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(fake.input))
	}
	if fake.input[0].Role != schema.System || fake.input[0].Content != promptset.Default().System {
		t.Fatalf("unexpected system message %+v", fake.input[0])
	}
	if fake.input[1].Role != schema.User || !strings.Contains(fake.input[1].Content, "2 minutes and 5 seconds") {
		t.Fatalf("unexpected user message %q", fake.input[1].Content)
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: "   "})

	if _, err := svc.Generate(context.Background(), timer.Request{Action: timer.ActionStart}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestGenerateModelFailure(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{err: errors.New("rate limited")})

	if _, err := svc.Generate(context.Background(), timer.Request{Action: timer.ActionStart}); err == nil {
		t.Fatal("expected error when the model fails")
	}
}

func TestNewServiceWithModelRequiresModel(t *testing.T) {
	if _, err := NewServiceWithModel(context.Background(), nil, promptset.Default()); err == nil {
		t.Fatal("expected error for nil model")
	}
}
