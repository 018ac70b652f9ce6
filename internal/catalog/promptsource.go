package catalog

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junction-mcp/junction/internal/client"
	"github.com/junction-mcp/junction/internal/skill"
)

// connectionPromptSource adapts one client.Connection to skill.PromptSource,
// the narrow view the prompt-skill detector needs, without the skill package
// depending on client.
type connectionPromptSource struct {
	conn *client.Connection
}

func (s *connectionPromptSource) ListPrompts(ctx context.Context) ([]skill.PromptInfo, error) {
	prompts, err := s.conn.Client.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]skill.PromptInfo, len(prompts))
	for i, p := range prompts {
		out[i] = skill.PromptInfo{Name: p.Name}
	}
	return out, nil
}

func (s *connectionPromptSource) GetPromptText(ctx context.Context, name string, args map[string]string) (string, error) {
	callArgs := make(map[string]interface{}, len(args))
	for k, v := range args {
		callArgs[k] = v
	}

	result, err := s.conn.Client.GetPrompt(ctx, name, callArgs)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, msg := range result.Messages {
		if text, ok := mcp.AsTextContent(msg.Content); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), nil
}
