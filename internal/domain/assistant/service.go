package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/trip-planner/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

const maxMessageLength = 2000

// ChatClient is the subset of the ChatGPT client the assistant needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Service answers travel questions.
type Service interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	guard  *fallback.Guard
	logger *slog.Logger
}

// NewService wires up the assistant domain.
func NewService(cfg Config, client ChatClient, guard *fallback.Guard, logger *slog.Logger) Service {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 10
	}
	return &service{
		cfg:    cfg,
		client: client,
		guard:  guard,
		logger: logger.With("component", "assistant.service"),
	}
}

type llmReply struct {
	Text  string
	Usage metrics.TokenUsage
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResponse{}, apperrors.Invalid("message cannot be empty")
	}
	if len([]rune(message)) > maxMessageLength {
		return ChatResponse{}, apperrors.Invalid(fmt.Sprintf("message cannot exceed %d characters", maxMessageLength))
	}

	res := fallback.Run(ctx, s.guard, "chat",
		func(ctx context.Context) (llmReply, error) {
			if s.client == nil {
				return llmReply{}, fallback.ErrNotConfigured
			}
			completion, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
				Model:       s.cfg.Model,
				Messages:    s.buildMessages(message, req.History, req.Context),
				Temperature: s.cfg.Temperature,
			})
			if err != nil {
				return llmReply{}, err
			}
			if len(completion.Choices) == 0 {
				return llmReply{}, errors.New("chatgpt returned no choices")
			}
			text := strings.TrimSpace(completion.Choices[0].Message.Content)
			if text == "" {
				return llmReply{}, errors.New("chatgpt returned an empty reply")
			}
			return llmReply{Text: text, Usage: completion.Usage.TokenUsage()}, nil
		},
		func(context.Context) fallback.Result[llmReply] {
			return fallback.Degraded(fallback.SourceFallback, llmReply{})
		},
	)

	if res.Degraded {
		reply, suggestions := ruleReply(message, req.Context)
		return ChatResponse{
			Reply:       reply,
			Suggestions: suggestions,
			Source:      res.Source,
			Degraded:    true,
		}, nil
	}
	s.logger.Info("assistant replied", "prompt_tokens", res.Data.Usage.PromptTokens, "total_tokens", res.Data.Usage.TotalTokens)
	out := ChatResponse{Reply: res.Data.Text, Source: SourceOpenAI}
	if !res.Data.Usage.IsZero() {
		usage := res.Data.Usage
		out.Usage = &usage
	}
	return out, nil
}

func (s *service) buildMessages(message string, history []Message, trip *TripContext) []chatgpt.Message {
	messages := []chatgpt.Message{{Role: "system", Content: s.systemPrompt(trip)}}
	if len(history) > s.cfg.MaxHistory {
		history = history[len(history)-s.cfg.MaxHistory:]
	}
	for _, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		content := strings.TrimSpace(m.Content)
		if content == "" || (role != RoleUser && role != RoleAssistant) {
			continue
		}
		messages = append(messages, chatgpt.Message{Role: role, Content: content})
	}
	return append(messages, chatgpt.Message{Role: RoleUser, Content: message})
}

func (s *service) systemPrompt(trip *TripContext) string {
	prompt := strings.TrimSpace(s.cfg.Prompt)
	if prompt == "" {
		prompt = "You are a friendly travel planning assistant."
	}
	if trip == nil {
		return prompt
	}
	var parts []string
	if v := strings.TrimSpace(trip.Destination); v != "" {
		parts = append(parts, "destination "+v)
	}
	if trip.StartDate != "" && trip.EndDate != "" {
		parts = append(parts, fmt.Sprintf("dates %s to %s", trip.StartDate, trip.EndDate))
	}
	if v := strings.TrimSpace(trip.Budget); v != "" {
		parts = append(parts, "budget "+v)
	}
	if len(parts) == 0 {
		return prompt
	}
	return prompt + "\nThe traveller is planning a trip with " + strings.Join(parts, ", ") + "."
}
