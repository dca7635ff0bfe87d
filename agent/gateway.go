package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskchat-backend/pkg"
)

// Turn is one entry of the working history the loop threads through an
// exchange. Vendor wire shapes stay inside the gateway.
type Turn struct {
	Role       string // "user", "assistant" or "tool"
	Content    string
	ToolCalls  []ToolRequest // assistant turns that requested tools
	ToolCallID string        // tool result turns
	ToolName   string
}

// ToolRequest is one tool invocation asked for by the model.
type ToolRequest struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// ModelTurn is the outcome of one gateway call: final text when ToolRequests
// is empty, otherwise the tools the model wants executed first.
type ModelTurn struct {
	Text         string
	ToolRequests []ToolRequest
	TokensUsed   uint64
}

// Gateway is the loop's only view of the hosted model.
type Gateway interface {
	Converse(ctx context.Context, system string, history []Turn, tools []*Tool) (*ModelTurn, error)
}

// ChatGateway adapts the chat completions client to the Gateway contract.
type ChatGateway struct {
	client  *pkg.ChatClient
	model   string
	timeout time.Duration
}

func NewChatGateway(client *pkg.ChatClient, model string, timeout time.Duration) *ChatGateway {
	return &ChatGateway{client: client, model: model, timeout: timeout}
}

// Converse performs one model call. Transport faults, timeouts and empty
// responses all surface as ErrModelUnavailable; retry policy lives with the
// caller.
func (g *ChatGateway) Converse(ctx context.Context, system string, history []Turn, tools []*Tool) (*ModelTurn, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := pkg.ChatCompletionRequest{
		Model:    g.model,
		Messages: buildMessages(system, history),
		Tools:    buildTools(tools),
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrModelUnavailable)
	}

	msg := resp.Choices[0].Message
	turn := &ModelTurn{Text: msg.Content}
	if resp.Usage != nil {
		turn.TokensUsed = uint64(resp.Usage.TotalTokens)
	}

	for _, tc := range msg.ToolCalls {
		var args map[string]interface{}
		json.Unmarshal([]byte(tc.Function.Arguments), &args)
		turn.ToolRequests = append(turn.ToolRequests, ToolRequest{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: args,
		})
	}

	return turn, nil
}

func buildMessages(system string, history []Turn) []pkg.RequestMessage {
	messages := make([]pkg.RequestMessage, 0, len(history)+1)
	messages = append(messages, pkg.RequestMessage{Role: "system", Content: system})

	for _, t := range history {
		msg := pkg.RequestMessage{
			Role:       t.Role,
			Content:    t.Content,
			ToolCallID: t.ToolCallID,
			Name:       t.ToolName,
		}
		for _, tc := range t.ToolCalls {
			rawArgs, _ := json.Marshal(tc.Args)
			msg.ToolCalls = append(msg.ToolCalls, pkg.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: pkg.ToolCallFunc{
					Name:      tc.Name,
					Arguments: string(rawArgs),
				},
			})
		}
		messages = append(messages, msg)
	}

	return messages
}

func buildTools(tools []*Tool) []pkg.Tool {
	out := make([]pkg.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, pkg.Tool{
			Type: "function",
			Function: pkg.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Schema.Parameters(),
			},
		})
	}
	return out
}
