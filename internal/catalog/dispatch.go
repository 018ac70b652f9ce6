package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junction-mcp/junction/internal/names"
)

// UseTool dispatches one requested tool name to the downstream it resolves
// to (§4.J). All downstream and resolution errors come back as a result with
// IsError set, never as a Go error — that mirrors how a real downstream tool
// call fails, so callers handle both the same way.
func (e *Engine) UseTool(ctx context.Context, toolName string, toolArgs map[string]interface{}) *mcp.CallToolResult {
	if strings.HasPrefix(toolName, names.SkillPrefix) {
		skillName := strings.TrimPrefix(toolName, names.SkillPrefix)
		sr, ok := e.lookupSkill(ctx, skillName)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no skill named %q was found", skillName))
		}
		return skillGuidanceResult(sr)
	}

	parsed := names.Parse(toolName)
	if parsed.Server != "" {
		return e.forwardToServer(ctx, parsed.Server, parsed.Actual, toolArgs)
	}

	models := e.buildServerModels(ctx)
	var onServers []string
	for _, m := range models {
		for _, t := range m.tools {
			if t.Name == toolName {
				onServers = append(onServers, m.name)
				break
			}
		}
	}

	switch len(onServers) {
	case 0:
		if sr, ok := e.lookupSkill(ctx, toolName); ok {
			return skillGuidanceResult(sr)
		}
		return mcp.NewToolResultError(fmt.Sprintf("no tool or skill named %q was found", toolName))
	case 1:
		return e.forwardToServer(ctx, onServers[0], toolName, toolArgs)
	default:
		forms := make([]string, len(onServers))
		for i, server := range onServers {
			forms[i] = names.WithServerPrefix(server, toolName)
		}
		return mcp.NewToolResultError(fmt.Sprintf(
			"%q is ambiguous across %d servers; use one of: %s", toolName, len(onServers), strings.Join(forms, ", "),
		))
	}
}

// forwardToServer calls toolName on server, refusing a blacklisted tool or an
// unknown server before ever touching the network.
func (e *Engine) forwardToServer(ctx context.Context, server, toolName string, args map[string]interface{}) *mcp.CallToolResult {
	conn, err := e.manager.GetClient(server)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"server %q not found; available servers: %s", server, strings.Join(e.connectedServerNames(), ", "),
		))
	}
	if conn.Config.IsBlacklisted(toolName) {
		return mcp.NewToolResultError(fmt.Sprintf("tool %q is blacklisted on server %q", toolName, server))
	}

	result, err := conn.Client.CallTool(ctx, toolName, args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("calling %s on %s failed: %v", toolName, server, err))
	}
	return result
}

func (e *Engine) connectedServerNames() []string {
	conns := e.manager.GetAllClients()
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.Name
	}
	sort.Strings(out)
	return out
}

// skillGuidanceResult builds the "this is a skill, not a tool" response
// use_tool gives back when a skill name is dispatched (§4.J).
func skillGuidanceResult(sr SkillResult) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(
		"%q is a skill, not a callable tool. Skills provide instructions rather than actions — call describe_tools with toolNames:[%q] to retrieve its content. Location: %s",
		sr.Name, names.WithSkillPrefix(sr.Name), sr.Location,
	))
}
