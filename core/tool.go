package core

import "encoding/json"

// ToolSchema describes a tool to a model or API client: its name, purpose and JSON Schema
// for the arguments it accepts.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}
