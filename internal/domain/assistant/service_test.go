package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

func TestChat_UsesLanguageModel(t *testing.T) {
	client := &stubChatClient{reply: "Try Chandni Chowk for street food."}
	svc := NewService(Config{Model: "gpt-4o-mini", Prompt: "Be brief.", MaxHistory: 2}, client, newGuard(), newTestLogger())

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message: "Where should I eat?",
		History: []Message{
			{Role: "user", Content: "dropped by the history cap"},
			{Role: "system", Content: "ignored role"},
			{Role: "assistant", Content: "Delhi is great in winter."},
		},
		Context: &TripContext{Destination: "Delhi", StartDate: "2024-12-01", EndDate: "2024-12-04"},
	})
	require.NoError(t, err)
	require.Equal(t, SourceOpenAI, resp.Source)
	require.False(t, resp.Degraded)
	require.Equal(t, "Try Chandni Chowk for street food.", resp.Reply)
	require.NotNil(t, resp.Usage)
	require.Equal(t, 30, resp.Usage.TotalTokens)

	msgs := client.last.Messages
	require.Len(t, msgs, 3)
	require.Equal(t, "system", msgs[0].Role)
	require.Contains(t, msgs[0].Content, "destination Delhi")
	require.Contains(t, msgs[0].Content, "dates 2024-12-01 to 2024-12-04")
	require.Equal(t, chatgpt.Message{Role: "assistant", Content: "Delhi is great in winter."}, msgs[1])
	require.Equal(t, chatgpt.Message{Role: "user", Content: "Where should I eat?"}, msgs[2])
	require.Equal(t, "gpt-4o-mini", client.last.Model)
}

func TestChat_FallsBackToRules(t *testing.T) {
	cases := []struct {
		name   string
		client ChatClient
	}{
		{"not configured", &stubChatClient{err: fallback.ErrNotConfigured}},
		{"provider error", &stubChatClient{err: errors.New("status=500")}},
		{"empty choices", &stubChatClient{}},
		{"nil client", nil},
	}
	for _, tc := range cases {
		svc := NewService(Config{}, tc.client, newGuard(), newTestLogger())
		resp, err := svc.Chat(context.Background(), ChatRequest{
			Message: "Which hotels are good?",
			Context: &TripContext{Destination: "Goa"},
		})
		require.NoError(t, err, tc.name)
		require.True(t, resp.Degraded, tc.name)
		require.Equal(t, fallback.SourceFallback, resp.Source, tc.name)
		require.Contains(t, resp.Reply, "For Goa: Staying near the centre", tc.name)
		require.NotEmpty(t, resp.Suggestions, tc.name)
		require.Nil(t, resp.Usage, tc.name)
	}
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	svc := NewService(Config{}, &stubChatClient{}, nil, newTestLogger())
	_, err := svc.Chat(context.Background(), ChatRequest{Message: "   "})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestRuleReply(t *testing.T) {
	reply, _ := ruleReply("How much money do I need?", nil)
	require.Contains(t, reply, "35% for accommodation")

	reply, _ = ruleReply("Will it rain tomorrow?", nil)
	require.Contains(t, reply, "forecast")

	reply, _ = ruleReply("best way to get around?", nil)
	require.Contains(t, reply, "route optimizer")

	reply, _ = ruleReply("Hi!", nil)
	require.Contains(t, reply, "Hello!")

	reply, suggestions := ruleReply("tell me a joke", &TripContext{Destination: " Paris "})
	require.Equal(t, "For Paris: "+defaultReply, reply)
	require.Len(t, suggestions, 2)
}

type stubChatClient struct {
	reply string
	err   error
	last  chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.last = req
	var out chatgpt.ChatCompletionResponse
	if s.err != nil {
		return out, s.err
	}
	if s.reply == "" {
		return out, nil
	}
	out.Choices = append(out.Choices, struct {
		Message      chatgpt.Message `json:"message"`
		FinishReason string          `json:"finish_reason"`
	}{Message: chatgpt.Message{Role: "assistant", Content: s.reply}, FinishReason: "stop"})
	out.Usage = chatgpt.Usage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30}
	return out, nil
}

func newGuard() *fallback.Guard {
	return fallback.NewGuard(SourceOpenAI, fallback.BreakerSettings{}, nil, newTestLogger())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
