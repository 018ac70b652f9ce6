package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junction-mcp/junction/internal/names"
	pstrings "github.com/junction-mcp/junction/pkg/strings"
)

// Render produces the catalog rendering used as describe_tools' advertised
// description (§4.I "Catalog rendering"). The result is opaque to callers but
// stable across runs for the same configuration.
func (e *Engine) Render(ctx context.Context) string {
	models := e.buildServerModels(ctx)
	serverOrder, toolsByServer := serverToolNames(models)
	displayByServer, allDisplayNames := names.ToolDisplayNames(serverOrder, toolsByServer)

	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, m := range models {
		if len(m.tools) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", m.name)
		if m.omitDescription {
			display := make([]string, len(m.tools))
			for i, t := range m.tools {
				display[i] = displayByServer[m.name][t.Name]
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(display, ", "))
			continue
		}
		for _, t := range m.tools {
			desc := pstrings.TruncateDescription(t.Description, pstrings.DefaultDescriptionMaxLen)
			fmt.Fprintf(&b, "  %s: %s\n", displayByServer[m.name][t.Name], desc)
		}
	}

	skills := e.gatherSkills(ctx)
	if len(skills) > 0 {
		b.WriteString("\nSkills:\n")
		for _, s := range skills {
			fmt.Fprintf(&b, "  %s: %s\n", names.SkillDisplayName(s.name, allDisplayNames), s.description)
		}
	}

	return b.String()
}

func serverToolNames(models []serverModel) ([]string, map[string][]string) {
	serverOrder := make([]string, len(models))
	toolsByServer := make(map[string][]string, len(models))
	for i, m := range models {
		serverOrder[i] = m.name
		toolNames := make([]string, len(m.tools))
		for j, t := range m.tools {
			toolNames[j] = t.Name
		}
		toolsByServer[m.name] = toolNames
	}
	return serverOrder, toolsByServer
}

// Describe resolves requested names against the live catalog (§4.I "Lookup").
// Names are processed in order; every name yields either a tool match (one
// or more, on a plain-name collision), a skill match, or a "not found" entry.
func (e *Engine) Describe(ctx context.Context, requested []string) *DescribeToolsResult {
	models := e.buildServerModels(ctx)
	toolsByServer := make(map[string]map[string]mcp.Tool, len(models))
	var serverOrder []string
	for _, m := range models {
		serverOrder = append(serverOrder, m.name)
		lookup := make(map[string]mcp.Tool, len(m.tools))
		for _, t := range m.tools {
			lookup[t.Name] = t
		}
		toolsByServer[m.name] = lookup
	}

	result := &DescribeToolsResult{}
	var foundTool, foundSkill bool

	for _, reqName := range requested {
		if strings.HasPrefix(reqName, names.SkillPrefix) {
			skillName := strings.TrimPrefix(reqName, names.SkillPrefix)
			if sr, ok := e.lookupSkill(ctx, skillName); ok {
				result.Skills = append(result.Skills, sr)
				foundSkill = true
			} else {
				result.NotFound = append(result.NotFound, reqName)
			}
			continue
		}

		parsed := names.Parse(reqName)
		if parsed.Server != "" {
			if t, ok := toolsByServer[parsed.Server][parsed.Actual]; ok {
				result.Tools = append(result.Tools, ToolMatch{Server: parsed.Server, Tool: toolDescriptor(t)})
				foundTool = true
			} else {
				result.NotFound = append(result.NotFound, reqName)
			}
			continue
		}

		var matches []ToolMatch
		for _, server := range serverOrder {
			if t, ok := toolsByServer[server][reqName]; ok {
				matches = append(matches, ToolMatch{Server: server, Tool: toolDescriptor(t)})
			}
		}

		switch len(matches) {
		case 0:
			if sr, ok := e.lookupSkill(ctx, reqName); ok {
				result.Skills = append(result.Skills, sr)
				foundSkill = true
			} else {
				result.NotFound = append(result.NotFound, reqName)
			}
		default:
			result.Tools = append(result.Tools, matches...)
			foundTool = true
		}
	}

	if foundTool {
		result.NextSteps = append(result.NextSteps, "For MCP tools: use use_tool with toolName and toolArgs to invoke.")
	}
	if foundSkill {
		result.NextSteps = append(result.NextSteps, "For skill, just follow skill's description to continue.")
	}

	return result
}

// lookupSkill resolves name against the file-skill registry, then the
// prompt-skill cache, re-fetching the prompt's content for the latter so
// Instructions is populated (§4.I).
func (e *Engine) lookupSkill(ctx context.Context, name string) (SkillResult, bool) {
	if s, ok := e.skills.Get(name); ok {
		return SkillResult{
			Name:         s.Name,
			Location:     string(s.Location),
			Instructions: skillEnvelope(s.Name) + s.Content,
		}, true
	}

	cp, ok := e.detectorFor().FindByName(ctx, name)
	if !ok {
		return SkillResult{}, false
	}

	content, err := e.fetchPromptContent(ctx, cp.ServerName, cp.PromptName)
	if err != nil {
		content = ""
	}

	return SkillResult{
		Name:         cp.Name,
		Location:     promptSkillLocation(cp),
		Instructions: skillEnvelope(cp.Name) + content,
	}, true
}

func (e *Engine) fetchPromptContent(ctx context.Context, serverName, promptName string) (string, error) {
	conn, err := e.manager.GetClient(serverName)
	if err != nil {
		return "", err
	}
	src := &connectionPromptSource{conn: conn}
	return src.GetPromptText(ctx, promptName, nil)
}

func toolDescriptor(t mcp.Tool) ToolDescriptor {
	return ToolDescriptor{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
}
