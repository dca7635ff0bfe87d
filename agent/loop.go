package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"
)

// MaxRounds is the hard bound on model/tool round-trips in one exchange.
const MaxRounds = 8

// modelRetries is how many extra attempts a failed model call gets before the
// exchange is abandoned. Tool-level errors are never retried; the model sees
// them and decides what to do.
const modelRetries = 1

const systemPrompt = `You are a task-list assistant. You manage the user's personal task list through the provided tools and nothing else. Use tools to create, list, complete, update or delete tasks when the user asks for it; answer directly when no task change is needed. Task ids only ever refer to the current user's own tasks. Reply with a short confirmation of what you did.`

const truncatedReply = "Sorry, I couldn't finish handling that request. Some steps may have been applied; please check your task list and try again."

// ToolCallRecord is one trace entry: a tool invocation actually attempted,
// successful or not.
type ToolCallRecord struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
	Result    map[string]interface{} `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Result is the terminal state of one exchange.
type Result struct {
	Text       string
	Trace      []ToolCallRecord
	Truncated  bool
	TokensUsed uint64
}

// Loop drives the model/tool conversation for one exchange at a time.
type Loop struct {
	gateway  Gateway
	registry *Registry
}

func NewLoop(gateway Gateway, registry *Registry) *Loop {
	return &Loop{gateway: gateway, registry: registry}
}

// Run executes one exchange: append the user turn to the working history,
// then alternate model calls and tool executions until the model produces a
// final text or MaxRounds is hit. Tool failures are absorbed into the
// conversation; only a model-gateway failure aborts with an error.
func (l *Loop) Run(ctx context.Context, ownerID uint64, history []Turn, userText string) (*Result, error) {
	working := make([]Turn, 0, len(history)+1)
	working = append(working, history...)
	working = append(working, Turn{Role: "user", Content: userText})

	result := &Result{}

	for round := 0; round < MaxRounds; round++ {
		turn, err := l.converse(ctx, working)
		if err != nil {
			return nil, err
		}
		result.TokensUsed += turn.TokensUsed

		if len(turn.ToolRequests) == 0 {
			result.Text = turn.Text
			if result.Text == "" {
				result.Text = "Done."
			}
			return result, nil
		}

		working = append(working, Turn{
			Role:      "assistant",
			Content:   turn.Text,
			ToolCalls: turn.ToolRequests,
		})

		// Execute the requested tools one at a time, in the order the
		// model issued them. Repeats are executed as given.
		for _, req := range turn.ToolRequests {
			output, terr := l.registry.Execute(ctx, ownerID, req.Name, req.Args)

			record := ToolCallRecord{Tool: req.Name, Arguments: req.Args}
			if terr != nil {
				record.Error = terr.Error()
			} else {
				record.Result = output
			}
			result.Trace = append(result.Trace, record)

			working = append(working, Turn{
				Role:       "tool",
				Content:    toolResultContent(output, terr),
				ToolCallID: req.ID,
				ToolName:   req.Name,
			})
		}
	}

	log.Printf("exchange for owner %d hit round limit %d", ownerID, MaxRounds)
	result.Text = truncatedReply
	result.Truncated = true
	return result, nil
}

func (l *Loop) converse(ctx context.Context, working []Turn) (*ModelTurn, error) {
	var lastErr error
	for attempt := 0; attempt <= modelRetries; attempt++ {
		turn, err := l.gateway.Converse(ctx, systemPrompt, working, l.registry.Tools())
		if err == nil {
			return turn, nil
		}
		if !errors.Is(err, ErrModelUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func toolResultContent(output map[string]interface{}, terr *ToolError) string {
	if terr != nil {
		raw, _ := json.Marshal(map[string]string{"error": terr.Error()})
		return string(raw)
	}
	raw, err := json.Marshal(output)
	if err != nil {
		return `{"error":"unencodable tool result"}`
	}
	return string(raw)
}
