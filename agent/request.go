package agent

import (
	"encoding/json"

	"github.com/sahayak-labs/sahayak/core/protocol"
)

// wireTool is the nested tool declaration format for chat-completions.
type wireTool struct {
	Type     string        `json:"type"`
	Function protocol.Tool `json:"function"`
}

type toolsRequest struct {
	Model      string             `json:"model"`
	Messages   []protocol.Message `json:"messages"`
	MaxTokens  int                `json:"max_tokens,omitempty"`
	Tools      []wireTool         `json:"tools,omitempty"`
	ToolChoice string             `json:"tool_choice,omitempty"`
}

// buildToolsBody marshals a chat-completions request declaring the given
// tools. When tools are present, tool_choice is "auto": the model decides
// whether to answer in text or invoke a tool.
func buildToolsBody(model string, maxTokens int, messages []protocol.Message, tools []protocol.Tool) ([]byte, error) {
	req := toolsRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	if len(tools) > 0 {
		req.Tools = make([]wireTool, len(tools))
		for i, t := range tools {
			req.Tools[i] = wireTool{Type: "function", Function: t}
		}
		req.ToolChoice = "auto"
	}

	return json.Marshal(req)
}
