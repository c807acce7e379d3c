package mcp

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SimpleSchema creates an object schema from a simple type map.
//
// Input format: {"version": "string", "offline": "bool"}
// Only the properties named in required are marked required.
func SimpleSchema(props map[string]string, required ...string) *jsonschema.Schema {
	properties := make(map[string]*jsonschema.Schema, len(props))

	for name, goType := range props {
		properties[name] = goTypeToJSONSchema(goType)
	}

	req := slices.Clone(required)
	slices.Sort(req)

	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   req,
	}
}

// goTypeToJSONSchema converts a Go type string to a JSON Schema type.
func goTypeToJSONSchema(goType string) *jsonschema.Schema {
	switch goType {
	case "string":
		return &jsonschema.Schema{Type: "string"}
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return &jsonschema.Schema{Type: "integer"}
	case "float32", "float64", "float", "number":
		return &jsonschema.Schema{Type: "number"}
	case "bool", "boolean":
		return &jsonschema.Schema{Type: "boolean"}
	default:
		if len(goType) > 2 && goType[:2] == "[]" {
			return &jsonschema.Schema{
				Type:  "array",
				Items: goTypeToJSONSchema(goType[2:]),
			}
		}

		return &jsonschema.Schema{Type: "string"}
	}
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// NewTool creates an mcp.Tool with the given parameters.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// Arguments are the decoded arguments of a tool call.
type Arguments map[string]any

// ParseArguments unmarshals CallToolRequest arguments.
func ParseArguments(req *mcp.CallToolRequest) (Arguments, error) {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return Arguments{}, nil
	}

	var args Arguments
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	if args == nil {
		args = Arguments{}
	}

	return args, nil
}

// String returns the string argument name, or "" if absent or mistyped.
func (a Arguments) String(name string) string {
	s, _ := a[name].(string)

	return s
}

// Bool returns the boolean argument name, or false if absent or mistyped.
func (a Arguments) Bool(name string) bool {
	b, _ := a[name].(bool)

	return b
}

// Int returns the numeric argument name truncated to an int.
func (a Arguments) Int(name string) int {
	switch v := a[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
