// Package client manages downstream MCP connections: dialing stdio, HTTP, and
// SSE transports behind one capability interface, and supervising the
// resulting fleet (the Client Manager, §4.G).
package client

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultConnectTimeout is the timeout connectToServer races dialing against
// when the caller does not specify one (§4.G).
const DefaultConnectTimeout = 10 * time.Second

// MCPClient is the capability contract every transport implementation
// satisfies, so the rest of the system never branches on transport kind.
type MCPClient interface {
	Initialize(ctx context.Context) error
	Close() error
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)
	ListResources(ctx context.Context) ([]mcp.Resource, error)
	ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error)
	ListPrompts(ctx context.Context) ([]mcp.Prompt, error)
	GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*mcp.GetPromptResult, error)
	Ping(ctx context.Context) error

	// HandshakeInstruction returns any instruction text the downstream server
	// advertised during Initialize, for servers that configure none explicitly.
	HandshakeInstruction() string
}
