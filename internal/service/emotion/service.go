// Package emotion classifies free text into one of the catalog emotions.
// It prefers an LLM classifier chain and falls back to keyword heuristics
// when the model is unavailable or returns garbage. Detection only ever
// fills an absent emotion; it never overrides an explicit choice.
package emotion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/maumlog/maum/backend/internal/analysis/emotion"
	emotionmodel "github.com/maumlog/maum/backend/internal/model/emotion"
)

// Config controls the classifier behaviour.
type Config struct {
	Enabled bool
}

// Service detects emotions in user text.
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
	catalog    *emotionmodel.Catalog
	fallback   func(text string) (string, bool)
}

// NewService creates the detection service. chatModel may be nil, in which
// case only the heuristic fallback runs.
func NewService(ctx context.Context, chatModel model.ChatModel, catalog *emotionmodel.Catalog, cfg Config) (*Service, error) {
	svc := &Service{
		enabled:  cfg.Enabled && chatModel != nil,
		catalog:  catalog,
		fallback: analysis.Detect,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt(catalog)),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the LLM classifier is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Detect returns the catalog emotion best matching the text. The boolean is
// false when neither the classifier nor the fallback found one.
func (s *Service) Detect(ctx context.Context, text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if !s.Enabled() {
		return s.fallbackDetect(trimmed)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{"text": trimmed})
	if err != nil {
		log.Printf("[emotion] classifier invoke failed, using fallback: %v", err)
		return s.fallbackDetect(trimmed)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallbackDetect(trimmed)
	}

	if name, ok := s.matchCatalog(msg.Content); ok {
		return name, true
	}
	return s.fallbackDetect(trimmed)
}

func (s *Service) fallbackDetect(text string) (string, bool) {
	name, ok := s.fallback(text)
	if !ok || !s.catalog.Valid(name) {
		return "", false
	}
	return name, true
}

// matchCatalog scans the classifier output for a catalog emotion name. The
// model is told to answer with exactly one word, but a containment scan
// tolerates the chatter it sometimes adds anyway.
func (s *Service) matchCatalog(output string) (string, bool) {
	for _, e := range s.catalog.List() {
		if strings.Contains(output, e.Name) {
			return e.Name, true
		}
	}
	return "", false
}

func classifierSystemPrompt(catalog *emotionmodel.Catalog) string {
	names := make([]string, 0, catalog.Size())
	for _, e := range catalog.List() {
		names = append(names, "'"+e.Name+"'")
	}
	return fmt.Sprintf(
		"당신은 텍스트에서 감정을 분석하는 전문가입니다. 주어진 텍스트에서 주요 감정을 파악하여 %s 중 하나만 선택하여 응답하세요. 다른 말은 덧붙이지 말고 감정 단어 하나만 응답하세요.",
		strings.Join(names, ", "),
	)
}
