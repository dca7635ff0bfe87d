package agent

import (
	"errors"
	"fmt"
)

// Tool error kinds. These are fed back to the model as tool results and never
// surfaced to the end caller directly.
const (
	ErrKindUnknownTool      = "unknown_tool"
	ErrKindInvalidArguments = "invalid_arguments"
	ErrKindExecutionFailed  = "execution_failed"
)

// ToolError is a failed tool invocation. It is recorded in the trace and
// reported to the model as the tool's result.
type ToolError struct {
	Kind    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrModelUnavailable indicates the model gateway could not complete a call.
// Fatal to the current exchange.
var ErrModelUnavailable = errors.New("model unavailable")
