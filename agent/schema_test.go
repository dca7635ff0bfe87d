package agent

import (
	"strings"
	"testing"
)

func TestSchemaValidate(t *testing.T) {
	schema := &Schema{
		Properties: map[string]Property{
			"title":   {Type: "string"},
			"task_id": {Type: "integer"},
			"status":  {Type: "string", Enum: []string{"all", "pending", "completed"}},
		},
		Required: []string{"title"},
	}

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{
			name: "valid arguments",
			args: map[string]interface{}{"title": "buy milk", "task_id": float64(7)},
		},
		{
			name:    "missing required field",
			args:    map[string]interface{}{"task_id": float64(7)},
			wantErr: "missing required field: title",
		},
		{
			name:    "nil arguments",
			args:    nil,
			wantErr: "missing required field: title",
		},
		{
			name:    "wrong type",
			args:    map[string]interface{}{"title": "x", "task_id": "seven"},
			wantErr: "field task_id",
		},
		{
			name:    "float is not an integer",
			args:    map[string]interface{}{"title": "x", "task_id": 7.5},
			wantErr: "field task_id",
		},
		{
			name:    "enum value out of range",
			args:    map[string]interface{}{"title": "x", "status": "archived"},
			wantErr: `"archived" is not one of`,
		},
		{
			name: "enum value in range",
			args: map[string]interface{}{"title": "x", "status": "pending"},
		},
		{
			name: "undeclared keys ignored",
			args: map[string]interface{}{"title": "x", "unknown": 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate(tt.args)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if err.Kind != ErrKindInvalidArguments {
				t.Fatalf("error kind = %s, want %s", err.Kind, ErrKindInvalidArguments)
			}
			if !strings.Contains(err.Message, tt.wantErr) {
				t.Fatalf("error message = %q, want containing %q", err.Message, tt.wantErr)
			}
		})
	}
}

func TestSchemaParameters(t *testing.T) {
	schema := &Schema{
		Properties: map[string]Property{
			"title": {Type: "string", Description: "Short task title"},
		},
		Required: []string{"title"},
	}

	params := schema.Parameters()
	if params["type"] != "object" {
		t.Fatalf("type = %v, want object", params["type"])
	}
	props, ok := params["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("properties has type %T", params["properties"])
	}
	if _, ok := props["title"]; !ok {
		t.Fatal("properties missing title")
	}
	required, ok := params["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "title" {
		t.Fatalf("required = %v", params["required"])
	}
}
