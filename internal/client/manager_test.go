package client

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junction-mcp/junction/internal/apperrors"
	"github.com/junction-mcp/junction/internal/config"
)

type fakeMCPClient struct {
	closed      bool
	instruction string
}

func (f *fakeMCPClient) Initialize(ctx context.Context) error {
	return nil
}

func (f *fakeMCPClient) Close() error {
	f.closed = true
	return nil
}

func (f *fakeMCPClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return nil, nil
}

func (f *fakeMCPClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	return nil, nil
}

func (f *fakeMCPClient) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	return nil, nil
}

func (f *fakeMCPClient) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return nil, nil
}

func (f *fakeMCPClient) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return nil, nil
}

func (f *fakeMCPClient) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*mcp.GetPromptResult, error) {
	return nil, nil
}

func (f *fakeMCPClient) Ping(ctx context.Context) error {
	return nil
}

func (f *fakeMCPClient) HandshakeInstruction() string {
	return f.instruction
}

func TestManager_GetClient_NotConnected(t *testing.T) {
	m := NewManager()
	_, err := m.GetClient("missing")
	require.Error(t, err)
	assert.True(t, apperrors.OfKind(err, apperrors.KindNotConnected))
}

func TestManager_IsConnectedAndGetAllClients(t *testing.T) {
	m := NewManager()
	fake := &fakeMCPClient{}
	m.connections["fs"] = &Connection{Name: "fs", Client: fake, Config: &config.ServerConfig{Name: "fs"}, connected: true}

	assert.True(t, m.IsConnected("fs"))
	assert.False(t, m.IsConnected("other"))

	all := m.GetAllClients()
	require.Len(t, all, 1)
	assert.Equal(t, "fs", all[0].Name)
}

func TestManager_DisconnectServerClosesClient(t *testing.T) {
	m := NewManager()
	fake := &fakeMCPClient{}
	m.connections["fs"] = &Connection{Name: "fs", Client: fake, Config: &config.ServerConfig{Name: "fs"}, connected: true}

	require.NoError(t, m.DisconnectServer("fs"))
	assert.True(t, fake.closed)
	assert.False(t, m.IsConnected("fs"))
}

func TestManager_DisconnectAllClosesEveryConnection(t *testing.T) {
	m := NewManager()
	a, b := &fakeMCPClient{}, &fakeMCPClient{}
	m.connections["a"] = &Connection{Name: "a", Client: a, Config: &config.ServerConfig{Name: "a"}, connected: true}
	m.connections["b"] = &Connection{Name: "b", Client: b, Config: &config.ServerConfig{Name: "b"}, connected: true}

	require.NoError(t, m.DisconnectAll())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Empty(t, m.GetAllClients())
}

func TestConnection_InstructionPrefersConfigured(t *testing.T) {
	conn := &Connection{
		Config: &config.ServerConfig{Instruction: "configured"},
		Client: &fakeMCPClient{instruction: "from-handshake"},
	}
	assert.Equal(t, "configured", conn.Instruction())
}

func TestConnection_InstructionFallsBackToHandshake(t *testing.T) {
	conn := &Connection{
		Config: &config.ServerConfig{},
		Client: &fakeMCPClient{instruction: "from-handshake"},
	}
	assert.Equal(t, "from-handshake", conn.Instruction())
}

func TestNewFromConfig_RejectsUnsupportedTransport(t *testing.T) {
	_, err := NewFromConfig(&config.ServerConfig{Transport: "carrier-pigeon"})
	require.Error(t, err)
	assert.True(t, apperrors.OfKind(err, apperrors.KindConfigInvalid))
}

func TestNewFromConfig_BuildsStdioClient(t *testing.T) {
	c, err := NewFromConfig(&config.ServerConfig{Transport: config.TransportStdio, Command: "echo"})
	require.NoError(t, err)
	_, ok := c.(*StdioClient)
	assert.True(t, ok)
}

func TestNewFromConfig_BuildsHTTPClient(t *testing.T) {
	c, err := NewFromConfig(&config.ServerConfig{Transport: config.TransportHTTP, URL: "https://example.com/mcp"})
	require.NoError(t, err)
	_, ok := c.(*StreamableHTTPClient)
	assert.True(t, ok)
}

func TestNewFromConfig_BuildsSSEClient(t *testing.T) {
	c, err := NewFromConfig(&config.ServerConfig{Transport: config.TransportSSE, URL: "https://example.com/sse"})
	require.NoError(t, err)
	_, ok := c.(*SSEClient)
	assert.True(t, ok)
}

func TestManager_ConnectToServer_RejectsDuplicateName(t *testing.T) {
	m := NewManager()
	m.connections["fs"] = &Connection{Name: "fs", connected: true}

	err := m.ConnectToServer(context.Background(), "fs", &config.ServerConfig{Transport: config.TransportStdio, Command: "echo"}, 0)
	require.Error(t, err)
}
