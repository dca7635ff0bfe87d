package pkg

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateChatCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"model": "test-model",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "create_task", "arguments": "{\"title\":\"buy milk\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "secret-key")
	req := ChatCompletionRequest{
		Model: "test-model",
		Messages: []RequestMessage{
			{Role: "system", Content: "you are a test"},
			{Role: "user", Content: "add buy milk"},
		},
		Tools: []Tool{{
			Type: "function",
			Function: ToolFunction{
				Name:        "create_task",
				Description: "Create a task",
				Parameters:  map[string]interface{}{"type": "object"},
			},
		}},
	}

	resp, err := client.CreateChatCompletion(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateChatCompletion() error = %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}

	var sent ChatCompletionRequest
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if len(sent.Tools) != 1 || sent.Tools[0].Function.Name != "create_task" {
		t.Fatalf("sent tools = %+v", sent.Tools)
	}

	if len(resp.Choices) != 1 {
		t.Fatalf("choices = %+v", resp.Choices)
	}
	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) != 1 || calls[0].Function.Name != "create_task" {
		t.Fatalf("tool calls = %+v", calls)
	}
	if !strings.Contains(calls[0].Function.Arguments, "buy milk") {
		t.Fatalf("arguments = %q", calls[0].Function.Arguments)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
}

func TestCreateChatCompletionNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": "rate limited"}`)
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "secret-key")
	_, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("CreateChatCompletion() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error = %v, want status in message", err)
	}
}

func TestCreateChatCompletionContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewChatClient(server.URL, "secret-key")
	_, err := client.CreateChatCompletion(ctx, ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("CreateChatCompletion() error = nil, want error")
	}
}
