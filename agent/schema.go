package agent

import (
	"encoding/json"
	"fmt"
	"math"
)

// Property declares one tool parameter.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema is the subset of JSON Schema used to declare tool parameters.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Parameters renders the schema in the wire shape the completions API expects.
func (s *Schema) Parameters() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	for name, p := range s.Properties {
		props[name] = p
	}
	required := s.Required
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Validate checks args against the schema: required fields present, declared
// fields of the right primitive type, enum values in range. Undeclared keys
// are ignored.
func (s *Schema) Validate(args map[string]interface{}) *ToolError {
	if args == nil {
		args = map[string]interface{}{}
	}

	for _, field := range s.Required {
		if _, exists := args[field]; !exists {
			return &ToolError{Kind: ErrKindInvalidArguments, Message: fmt.Sprintf("missing required field: %s", field)}
		}
	}

	for key, value := range args {
		prop, ok := s.Properties[key]
		if !ok {
			continue
		}
		if err := validateType(value, prop.Type); err != nil {
			return &ToolError{Kind: ErrKindInvalidArguments, Message: fmt.Sprintf("field %s: %v", key, err)}
		}
		if len(prop.Enum) > 0 {
			str, _ := value.(string)
			if !containsString(prop.Enum, str) {
				return &ToolError{Kind: ErrKindInvalidArguments, Message: fmt.Sprintf("field %s: %q is not one of %v", key, str, prop.Enum)}
			}
		}
	}

	return nil
}

func validateType(value interface{}, expected string) error {
	switch expected {
	case "string":
		if _, ok := value.(string); ok {
			return nil
		}
	case "number":
		if isNumber(value) {
			return nil
		}
	case "integer":
		if isInteger(value) {
			return nil
		}
	case "boolean":
		if _, ok := value.(bool); ok {
			return nil
		}
	default:
		return fmt.Errorf("unsupported schema type %q", expected)
	}
	return fmt.Errorf("expected %s but got %T", expected, value)
}

func isNumber(value interface{}) bool {
	switch v := value.(type) {
	case float32, float64:
		return true
	case int, int32, int64, uint, uint32, uint64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	}
	return false
}

func isInteger(value interface{}) bool {
	switch v := value.(type) {
	case int, int32, int64, uint, uint32, uint64:
		return true
	case float32:
		return math.Trunc(float64(v)) == float64(v)
	case float64:
		return math.Trunc(v) == v
	case json.Number:
		_, err := v.Int64()
		return err == nil
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
