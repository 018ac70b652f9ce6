package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// registerMetaTools advertises describe_tools and use_tool per §6's schemas.
// describe_tools' description is the rendered catalog (§4.I); it is computed
// once at startup, matching the "stable across runs" requirement — a
// reconnect or config reload would need a fresh Server to pick up changes.
func (s *Server) registerMetaTools(ctx context.Context) {
	describeTools := mcp.Tool{
		Name:        "describe_tools",
		Description: s.catalog.Render(ctx),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"toolNames": map[string]interface{}{
					"type":     "array",
					"items":    map[string]interface{}{"type": "string", "minLength": 1},
					"minItems": 1,
				},
			},
			Required: []string{"toolNames"},
		},
	}

	useTool := mcp.Tool{
		Name:        "use_tool",
		Description: "Invoke a downstream tool or skill resolved by describe_tools.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"toolName": map[string]interface{}{"type": "string", "minLength": 1},
				"toolArgs": map[string]interface{}{"type": "object"},
			},
			Required: []string{"toolName"},
		},
	}

	s.mcp.AddTools(
		mcpserver.ServerTool{Tool: describeTools, Handler: s.handleDescribeTools},
		mcpserver.ServerTool{Tool: useTool, Handler: s.handleUseTool},
	)
}

func (s *Server) handleDescribeTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]interface{})
	raw, _ := args["toolNames"].([]interface{})

	toolNames := make([]string, 0, len(raw))
	for _, v := range raw {
		if name, ok := v.(string); ok && name != "" {
			toolNames = append(toolNames, name)
		}
	}
	if len(toolNames) == 0 {
		return mcp.NewToolResultError("toolNames is required and must be a non-empty array of strings"), nil
	}

	result := s.catalog.Describe(ctx, toolNames)
	if result.Empty() {
		return mcp.NewToolResultError(fmt.Sprintf("none of the requested names were found: %s", strings.Join(result.NotFound, ", "))), nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode catalog result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleUseTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]interface{})

	toolName, _ := args["toolName"].(string)
	if toolName == "" {
		return mcp.NewToolResultError("toolName is required"), nil
	}

	toolArgs, _ := args["toolArgs"].(map[string]interface{})
	return s.catalog.UseTool(ctx, toolName, toolArgs), nil
}
