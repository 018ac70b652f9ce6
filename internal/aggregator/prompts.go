package aggregator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/junction-mcp/junction/internal/client"
	"github.com/junction-mcp/junction/internal/names"
	"github.com/junction-mcp/junction/pkg/logging"
)

// refreshPrompts re-enumerates every connected server's prompts, concurrently
// (§5's concurrency policy, mirroring catalog's buildServerModels), excluding
// any prompt explicitly bound to a skill (those are surfaced by
// describe_tools instead, never as an invocable prompt), and reconciles the
// upstream-advertised set to match: newly visible prompts are added, ones no
// longer present are removed, under the same server__ collision-prefixing
// rule as tools (§4.K). mcp-go only exposes prompts/list as a batch snapshot
// registered via AddPrompts/DeletePrompts — it has no per-request hook a
// handler could attach to — so this is called at startup and again whenever
// the skill watcher fires, which is the only existing change signal in this
// process; handleGetPrompt still re-resolves every call against the live
// fleet regardless of when this last ran, so a get for a prompt this
// snapshot hasn't caught up to yet still succeeds.
func (s *Server) refreshPrompts(ctx context.Context) {
	type entry struct {
		server string
		prompt mcp.Prompt
	}

	serverNames := s.connectedServerNames()
	perServer := make([][]entry, len(serverNames))

	var g errgroup.Group
	for i, name := range serverNames {
		i, name := i, name
		g.Go(func() error {
			conn, err := s.manager.GetClient(name)
			if err != nil {
				return nil
			}

			prompts, err := conn.Client.ListPrompts(ctx)
			if err != nil {
				logging.Warn("Server", "listPrompts on %s failed: %v", name, err)
				return nil
			}

			var es []entry
			for _, p := range prompts {
				if pc, ok := conn.Config.Prompts[p.Name]; ok && pc.Skill != nil {
					continue
				}
				es = append(es, entry{server: name, prompt: p})
			}
			perServer[i] = es
			return nil
		})
	}
	_ = g.Wait()

	var entries []entry
	var serverOrder []string
	promptsByServer := make(map[string][]string)
	for i, es := range perServer {
		if len(es) == 0 {
			continue
		}
		serverOrder = append(serverOrder, serverNames[i])
		promptNames := make([]string, len(es))
		for j, e := range es {
			promptNames[j] = e.prompt.Name
		}
		promptsByServer[serverNames[i]] = promptNames
		entries = append(entries, es...)
	}

	displayByServer, _ := names.ToolDisplayNames(serverOrder, promptsByServer)

	desired := make(map[string]bool, len(entries))
	var toAdd []mcpserver.ServerPrompt
	for _, e := range entries {
		advertised := e.prompt
		advertised.Name = displayByServer[e.server][e.prompt.Name]
		desired[advertised.Name] = true
		toAdd = append(toAdd, mcpserver.ServerPrompt{Prompt: advertised, Handler: s.handleGetPrompt})
	}

	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	var toRemove []string
	for name := range s.registeredPrompts {
		if !desired[name] {
			toRemove = append(toRemove, name)
		}
	}

	if len(toRemove) > 0 {
		s.mcp.DeletePrompts(toRemove...)
	}
	if len(toAdd) > 0 {
		s.mcp.AddPrompts(toAdd...)
	}
	s.registeredPrompts = desired
}

// handleGetPrompt implements §4.K's getPrompt: parse the requested name; a
// server prefix forwards directly, a plain name is resolved against every
// connected client's current prompt list. A prompt bound to a skill in its
// server's config is never forwarded, by either form of name.
func (s *Server) handleGetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	requested := req.Params.Name
	callArgs := stringArgsToAny(req.Params.Arguments)

	parsed := names.Parse(requested)
	if parsed.Server != "" {
		conn, err := s.manager.GetClient(parsed.Server)
		if err != nil {
			return nil, fmt.Errorf("server %q not found", parsed.Server)
		}
		if pc, ok := conn.Config.Prompts[parsed.Actual]; ok && pc.Skill != nil {
			return nil, fmt.Errorf("no prompt named %q was found", requested)
		}
		return conn.Client.GetPrompt(ctx, parsed.Actual, callArgs)
	}

	var matches []*client.Connection
	for _, conn := range s.manager.GetAllClients() {
		if pc, ok := conn.Config.Prompts[requested]; ok && pc.Skill != nil {
			continue
		}
		prompts, err := conn.Client.ListPrompts(ctx)
		if err != nil {
			continue
		}
		for _, p := range prompts {
			if p.Name == requested {
				matches = append(matches, conn)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no prompt named %q was found", requested)
	case 1:
		return matches[0].Client.GetPrompt(ctx, requested, callArgs)
	default:
		forms := make([]string, len(matches))
		for i, conn := range matches {
			forms[i] = names.WithServerPrefix(conn.Name, requested)
		}
		return nil, fmt.Errorf("%q is ambiguous across %d servers; use one of: %s", requested, len(matches), strings.Join(forms, ", "))
	}
}

func (s *Server) connectedServerNames() []string {
	conns := s.manager.GetAllClients()
	out := make([]string, len(conns))
	for i, c := range conns {
		out[i] = c.Name
	}
	sort.Strings(out)
	return out
}

func stringArgsToAny(args map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
