package assistant

import "github.com/yanqian/trip-planner/pkg/metrics"

// SourceOpenAI tags replies written by the language model.
const SourceOpenAI = "openai"

// Chat roles accepted in the history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TripContext optionally grounds the reply in the trip being planned.
type TripContext struct {
	Destination string `json:"destination,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

// ChatRequest is the input of Service.Chat.
type ChatRequest struct {
	Message string       `json:"message"`
	History []Message    `json:"history,omitempty"`
	Context *TripContext `json:"context,omitempty"`
}

// ChatResponse carries the reply and where it came from.
type ChatResponse struct {
	Reply       string              `json:"reply"`
	Suggestions []string            `json:"suggestions,omitempty"`
	Source      string              `json:"source"`
	Degraded    bool                `json:"degraded"`
	Usage       *metrics.TokenUsage `json:"usage,omitempty"`
}

// Config wires runtime settings for the assistant.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
	MaxHistory  int
}
