package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/junction-mcp/junction/internal/client"
	"github.com/junction-mcp/junction/internal/skill"
	"github.com/junction-mcp/junction/pkg/logging"
)

// Engine renders the catalog and resolves requested names against it (§4.I,
// §4.J). It holds no state of its own beyond a lazily-built prompt-skill
// detector; every render/lookup re-derives the tool model from the client
// manager, so it always reflects the currently connected fleet.
type Engine struct {
	manager *client.Manager
	skills  *skill.Registry

	detectorOnce sync.Once
	detector     *skill.Detector
}

// NewEngine builds a catalog engine over manager's live connections and the
// file-backed skill registry.
func NewEngine(manager *client.Manager, skills *skill.Registry) *Engine {
	return &Engine{manager: manager, skills: skills}
}

// serverModel is one connected server's filtered, ordered tool list.
type serverModel struct {
	name            string
	omitDescription bool
	tools           []mcp.Tool
}

// buildServerModels lists tools on every connected server concurrently,
// applying each server's blacklist, and returns them sorted by server name
// for a rendering that is stable across runs of the same configuration (the
// client manager itself makes no ordering promise). A per-client listTools
// failure yields an empty tool list for that server and a logged warning;
// it never aborts the whole catalog (§5).
func (e *Engine) buildServerModels(ctx context.Context) []serverModel {
	conns := e.manager.GetAllClients()
	sort.Slice(conns, func(i, j int) bool { return conns[i].Name < conns[j].Name })

	models := make([]serverModel, len(conns))
	var g errgroup.Group
	for i, conn := range conns {
		i, conn := i, conn
		g.Go(func() error {
			tools, err := conn.Client.ListTools(ctx)
			if err != nil {
				logging.Warn("catalog", "listTools on %s failed: %v", conn.Name, err)
				tools = nil
			}

			filtered := make([]mcp.Tool, 0, len(tools))
			for _, t := range tools {
				if conn.Config.IsBlacklisted(t.Name) {
					continue
				}
				filtered = append(filtered, t)
			}

			models[i] = serverModel{
				name:            conn.Name,
				omitDescription: conn.Config.OmitToolDescription,
				tools:           filtered,
			}
			return nil
		})
	}
	_ = g.Wait()
	return models
}

// catalogSkill is one skill entry in the merged file ∪ prompt skill set.
type catalogSkill struct {
	name        string
	description string
	fileSkill   *skill.Skill
	promptSkill *skill.PromptSkill
}

// gatherSkills merges file-backed and prompt-backed skills, file-backed
// winning on a name collision (§4.I). Prompt-backed entries are sorted by
// (server, prompt) before merging so the result is deterministic despite the
// detector's source map having no fixed iteration order.
func (e *Engine) gatherSkills(ctx context.Context) []catalogSkill {
	seen := make(map[string]bool)
	var out []catalogSkill

	for _, s := range e.skills.List() {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		s := s
		out = append(out, catalogSkill{name: s.Name, description: s.Description, fileSkill: s})
	}

	detected := append([]skill.PromptSkill(nil), e.detectorFor().Detect(ctx)...)
	sort.Slice(detected, func(i, j int) bool {
		if detected[i].ServerName != detected[j].ServerName {
			return detected[i].ServerName < detected[j].ServerName
		}
		return detected[i].PromptName < detected[j].PromptName
	})
	for _, ps := range detected {
		if seen[ps.Name] {
			continue
		}
		seen[ps.Name] = true
		ps := ps
		out = append(out, catalogSkill{name: ps.Name, description: ps.Description, promptSkill: &ps})
	}

	return out
}

// detectorFor builds the prompt-skill detector, once, from the manager's
// connections at the time of first use.
func (e *Engine) detectorFor() *skill.Detector {
	e.detectorOnce.Do(func() {
		sources := make(map[string]skill.PromptSource)
		var configured []skill.ConfiguredPrompt

		for _, conn := range e.manager.GetAllClients() {
			sources[conn.Name] = &connectionPromptSource{conn: conn}
			for promptName, pc := range conn.Config.Prompts {
				if pc.Skill == nil {
					continue
				}
				configured = append(configured, skill.ConfiguredPrompt{
					ServerName:  conn.Name,
					PromptName:  promptName,
					Name:        pc.Skill.Name,
					Description: pc.Skill.Description,
					Folder:      pc.Skill.Folder,
				})
			}
		}

		e.detector = skill.NewDetector(sources, configured)
	})
	return e.detector
}

// skillEnvelope is the literal prefix every returned skill's instructions
// carry (§4.I).
func skillEnvelope(name string) string {
	return fmt.Sprintf("<command-message>The %q skill is loading</command-message>\n", name)
}

// promptSkillLocation is the configured folder if present, else the
// prompt:{server}/{prompt} reference (§4.I).
func promptSkillLocation(cp skill.ConfiguredPrompt) string {
	if cp.Folder != "" {
		return cp.Folder
	}
	return fmt.Sprintf("prompt:%s/%s", cp.ServerName, cp.PromptName)
}
