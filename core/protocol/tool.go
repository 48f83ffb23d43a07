package protocol

// Tool defines a function the model may call. Parameters uses JSON Schema
// to describe the function's input.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
