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

	"github.com/maumlog/maum/backend/internal/config"
	"github.com/maumlog/maum/backend/internal/model/chat"
)

// ErrGeneration marks an upstream model failure. The conversation state is
// preserved by the caller so the user can retry by sending another message.
var ErrGeneration = errors.New("reply generation failed")

// Service wraps the chat model behind the counselor reply chain.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the counselor reply service from the configured model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile counselor chain: %w", err)
	}

	return &Service{chatModel: chatModel, cfg: cfg, chain: runnable}, nil
}

// GenerateReply produces the next assistant turn for the full turn sequence,
// system turn included. The model needs the whole context, not just the
// latest exchange.
func (s *Service) GenerateReply(ctx context.Context, turns []chat.Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("%w: empty turn sequence", ErrGeneration)
	}
	last := turns[len(turns)-1]
	if last.Role != chat.RoleUser {
		return "", fmt.Errorf("%w: sequence must end with a user turn", ErrGeneration)
	}

	system := CounselorPrompt(nil)
	body := turns[:len(turns)-1]
	if len(body) > 0 && body[0].Role == chat.RoleSystem {
		system = body[0].Content
		body = body[1:]
	}

	input := map[string]any{
		"system":  system,
		"history": historyMessages(body),
		"query":   last.Content,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty model response", ErrGeneration)
	}

	log.Printf("[ai] generated reply, turns=%d length=%d", len(turns), len(content))
	return content, nil
}

// GetChatModel exposes the underlying model so the emotion classifier can
// reuse it.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

func historyMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(t.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(t.Content, nil))
		}
	}
	return history
}
