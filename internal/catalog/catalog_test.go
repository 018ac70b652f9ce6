package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junction-mcp/junction/internal/client"
	"github.com/junction-mcp/junction/internal/config"
	"github.com/junction-mcp/junction/internal/skill"
)

// fakeClient is a minimal client.MCPClient test double: a fixed tool/prompt
// set and canned call results, no real transport.
type fakeClient struct {
	tools   []mcp.Tool
	prompts []mcp.Prompt

	promptContent map[string]string
	callResult    *mcp.CallToolResult
	callErr       error
}

func (f *fakeClient) Initialize(ctx context.Context) error { return nil }
func (f *fakeClient) Close() error                         { return nil }

func (f *fakeClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return f.tools, nil
}

func (f *fakeClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	if f.callResult != nil {
		return f.callResult, nil
	}
	return mcp.NewToolResultText("ok:" + name), nil
}

func (f *fakeClient) ListResources(ctx context.Context) ([]mcp.Resource, error) { return nil, nil }
func (f *fakeClient) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return nil, nil
}

func (f *fakeClient) ListPrompts(ctx context.Context) ([]mcp.Prompt, error) {
	return f.prompts, nil
}

func (f *fakeClient) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Messages: []mcp.PromptMessage{
			{Role: "user", Content: mcp.TextContent{Type: "text", Text: f.promptContent[name]}},
		},
	}, nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) HandshakeInstruction() string   { return "" }

func newEngine(t *testing.T, conns map[string]*client.Connection, skillDir string) *Engine {
	t.Helper()
	manager := client.NewManagerWithConnections(conns)
	var paths []string
	if skillDir != "" {
		paths = []string{skillDir}
	}
	registry := skill.NewRegistry(t.TempDir(), paths)
	return NewEngine(manager, registry)
}

func writeSkill(t *testing.T, dir, name, description, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\nname: " + name + "\ndescription: " + description + "\n---\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
}

func TestEngine_Describe_PlainNameUniqueMatch(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {
			Name:   "fs",
			Client: &fakeClient{tools: []mcp.Tool{{Name: "read_file", Description: "reads a file"}}},
			Config: &config.ServerConfig{Name: "fs"},
		},
	}
	e := newEngine(t, conns, "")

	result := e.Describe(context.Background(), []string{"read_file"})
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "fs", result.Tools[0].Server)
	assert.Equal(t, "read_file", result.Tools[0].Tool.Name)
	assert.Contains(t, result.NextSteps, "For MCP tools: use use_tool with toolName and toolArgs to invoke.")
}

func TestEngine_Describe_PlainNameCollision_ReturnsEveryMatch(t *testing.T) {
	conns := map[string]*client.Connection{
		"a": {Name: "a", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "a"}},
		"b": {Name: "b", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "b"}},
	}
	e := newEngine(t, conns, "")

	result := e.Describe(context.Background(), []string{"search"})
	require.Len(t, result.Tools, 2)
	servers := []string{result.Tools[0].Server, result.Tools[1].Server}
	assert.ElementsMatch(t, []string{"a", "b"}, servers)
}

func TestEngine_Describe_ServerPrefixedLooksUpOneServerOnly(t *testing.T) {
	conns := map[string]*client.Connection{
		"a": {Name: "a", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "a"}},
		"b": {Name: "b", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "b"}},
	}
	e := newEngine(t, conns, "")

	result := e.Describe(context.Background(), []string{"a__search"})
	require.Len(t, result.Tools, 1)
	assert.Equal(t, "a", result.Tools[0].Server)
}

func TestEngine_Describe_BlacklistedToolIsExcluded(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {
			Name:   "fs",
			Client: &fakeClient{tools: []mcp.Tool{{Name: "delete_file"}}},
			Config: &config.ServerConfig{Name: "fs", ToolBlacklist: map[string]bool{"delete_file": true}},
		},
	}
	e := newEngine(t, conns, "")

	result := e.Describe(context.Background(), []string{"delete_file"})
	assert.True(t, result.Empty())
	assert.Equal(t, []string{"delete_file"}, result.NotFound)
}

func TestEngine_Describe_NothingFoundIsEmpty(t *testing.T) {
	e := newEngine(t, map[string]*client.Connection{}, "")
	result := e.Describe(context.Background(), []string{"nope"})
	assert.True(t, result.Empty())
	assert.Equal(t, []string{"nope"}, result.NotFound)
}

func TestEngine_Describe_FileSkillPrefixed(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "onboarding", "walks a new user through setup", "Step one. Step two.")
	e := newEngine(t, map[string]*client.Connection{}, dir)

	result := e.Describe(context.Background(), []string{"skill__onboarding"})
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "onboarding", result.Skills[0].Name)
	assert.Equal(t, "project", result.Skills[0].Location)
	assert.Contains(t, result.Skills[0].Instructions, `<command-message>The "onboarding" skill is loading</command-message>`)
	assert.Contains(t, result.Skills[0].Instructions, "Step one.")
	assert.Contains(t, result.NextSteps, "For skill, just follow skill's description to continue.")
}

func TestEngine_Describe_PlainNameFallsBackToSkill(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "onboarding", "walks a new user through setup", "content")
	e := newEngine(t, map[string]*client.Connection{}, dir)

	result := e.Describe(context.Background(), []string{"onboarding"})
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "onboarding", result.Skills[0].Name)
}

func TestEngine_Render_PrefixesOnlyCollidingToolNames(t *testing.T) {
	conns := map[string]*client.Connection{
		"a": {Name: "a", Client: &fakeClient{tools: []mcp.Tool{{Name: "unique", Description: "d1"}, {Name: "dup", Description: "d2"}}}, Config: &config.ServerConfig{Name: "a"}},
		"b": {Name: "b", Client: &fakeClient{tools: []mcp.Tool{{Name: "dup", Description: "d3"}}}, Config: &config.ServerConfig{Name: "b"}},
	}
	e := newEngine(t, conns, "")

	rendered := e.Render(context.Background())
	assert.Contains(t, rendered, "unique:")
	assert.Contains(t, rendered, "a__dup:")
	assert.Contains(t, rendered, "b__dup:")
	assert.NotContains(t, rendered, "\n  dup:")
}

func TestEngine_UseTool_ForwardsServerPrefixed(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {Name: "fs", Client: &fakeClient{}, Config: &config.ServerConfig{Name: "fs"}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "fs__read_file", nil)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Equal(t, "ok:read_file", text.Text)
}

func TestEngine_UseTool_BlacklistedToolRefused(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {Name: "fs", Client: &fakeClient{}, Config: &config.ServerConfig{Name: "fs", ToolBlacklist: map[string]bool{"delete_file": true}}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "fs__delete_file", nil)
	require.True(t, result.IsError)
	text, _ := mcp.AsTextContent(result.Content[0])
	assert.Contains(t, text.Text, "blacklisted")
}

func TestEngine_UseTool_UnknownServerListsAvailable(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {Name: "fs", Client: &fakeClient{}, Config: &config.ServerConfig{Name: "fs"}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "ghost__anything", nil)
	require.True(t, result.IsError)
	text, _ := mcp.AsTextContent(result.Content[0])
	assert.Contains(t, text.Text, "fs")
}

func TestEngine_UseTool_AmbiguousPlainNameDisambiguates(t *testing.T) {
	conns := map[string]*client.Connection{
		"a": {Name: "a", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "a"}},
		"b": {Name: "b", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "b"}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "search", nil)
	require.True(t, result.IsError)
	text, _ := mcp.AsTextContent(result.Content[0])
	assert.Contains(t, text.Text, "a__search")
	assert.Contains(t, text.Text, "b__search")
}

func TestEngine_UseTool_PlainNameSingleMatchForwards(t *testing.T) {
	conns := map[string]*client.Connection{
		"a": {Name: "a", Client: &fakeClient{tools: []mcp.Tool{{Name: "search"}}}, Config: &config.ServerConfig{Name: "a"}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "search", nil)
	assert.False(t, result.IsError)
}

func TestEngine_UseTool_SkillDispatchReturnsGuidance(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "onboarding", "walks a new user through setup", "content")
	e := newEngine(t, map[string]*client.Connection{}, dir)

	result := e.UseTool(context.Background(), "skill__onboarding", nil)
	assert.False(t, result.IsError)
	text, _ := mcp.AsTextContent(result.Content[0])
	assert.Contains(t, text.Text, "describe_tools")
	assert.Contains(t, text.Text, "skill__onboarding")
}

func TestEngine_UseTool_SkillNotFoundIsError(t *testing.T) {
	e := newEngine(t, map[string]*client.Connection{}, "")
	result := e.UseTool(context.Background(), "skill__nope", nil)
	assert.True(t, result.IsError)
}

func TestEngine_UseTool_DownstreamErrorWrapped(t *testing.T) {
	conns := map[string]*client.Connection{
		"fs": {Name: "fs", Client: &fakeClient{callErr: assertError{"boom"}}, Config: &config.ServerConfig{Name: "fs"}},
	}
	e := newEngine(t, conns, "")

	result := e.UseTool(context.Background(), "fs__read_file", nil)
	require.True(t, result.IsError)
	text, _ := mcp.AsTextContent(result.Content[0])
	assert.Contains(t, text.Text, "boom")
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
