package client

import (
	"context"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junction-mcp/junction/internal/apperrors"
	"github.com/junction-mcp/junction/pkg/logging"
	"github.com/junction-mcp/junction/pkg/oauth"
)

// SSEClient dials a downstream MCP server over Server-Sent Events.
type SSEClient struct {
	baseMCPClient
	url     string
	headers map[string]string
}

func NewSSEClient(url string, headers map[string]string) *SSEClient {
	if headers == nil {
		headers = make(map[string]string)
	}
	return &SSEClient{url: url, headers: headers}
}

func (c *SSEClient) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	logging.Debug("SSEClient", "connecting to %s", c.url)

	var opts []transport.ClientOption
	if len(c.headers) > 0 {
		opts = append(opts, transport.WithHeaders(c.headers))
	}

	mcpClient, err := client.NewSSEMCPClient(c.url, opts...)
	if err != nil {
		return apperrors.Wrap(apperrors.KindConnectFailed, "creating SSE client for "+c.url, err)
	}

	if err := mcpClient.Start(ctx); err != nil {
		if oauth.Is401Error(err.Error()) {
			return apperrors.Wrap(apperrors.KindConnectFailed, "authentication required for "+c.url, err)
		}
		return apperrors.Wrap(apperrors.KindConnectFailed, "starting SSE transport for "+c.url, err)
	}

	initResult, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo:      mcp.Implementation{Name: "junction", Version: "1.0.0"},
			Capabilities:    mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		_ = mcpClient.Close()
		if oauth.Is401Error(err.Error()) {
			return apperrors.Wrap(apperrors.KindConnectFailed, "authentication required for "+c.url, err)
		}
		return apperrors.Wrap(apperrors.KindConnectFailed, "initializing MCP handshake for "+c.url, err)
	}

	c.client = mcpClient
	c.connected = true
	c.handshakeInstruction = initResult.Instructions

	return nil
}

func (c *SSEClient) Close() error {
	return c.closeClient()
}

func (c *SSEClient) HandshakeInstruction() string {
	return c.handshakeInstructionText()
}

func (c *SSEClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return c.listTools(ctx)
}

func (c *SSEClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return c.callTool(ctx, name, args)
}

func (c *SSEClient) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	return c.listResources(ctx)
}

func (c *SSEClient) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return c.readResource(ctx, uri)
}

func (c *SSEClient) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return c.listPrompts(ctx)
}

func (c *SSEClient) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*mcp.GetPromptResult, error) {
	return c.getPrompt(ctx, name, args)
}

func (c *SSEClient) Ping(ctx context.Context) error {
	return c.ping(ctx)
}
