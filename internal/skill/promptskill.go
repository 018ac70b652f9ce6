package skill

import (
	"context"
	"sync"

	"github.com/junction-mcp/junction/pkg/logging"
)

// PromptSource is the narrow view of the Client Manager the detector needs:
// one connected client's prompt surface. Defined here, rather than depending
// on the client package, to keep the skill subsystem's only dependency on
// downstream connections behind this seam.
type PromptSource interface {
	ListPrompts(ctx context.Context) ([]PromptInfo, error)
	GetPromptText(ctx context.Context, name string, args map[string]string) (string, error)
}

// PromptInfo is the subset of a downstream prompt's metadata the detector needs.
type PromptInfo struct {
	Name string
}

// ConfiguredPrompt names a prompt already explicitly bound to a skill in server
// config (PromptConfig.Skill), which the detector must not re-detect.
type ConfiguredPrompt struct {
	ServerName  string
	PromptName  string
	Name        string
	Description string
	Folder      string
}

// Detector lazily enumerates downstream prompts and caches the ones whose
// content is valid skill front-matter (§4.H).
type Detector struct {
	sources    map[string]PromptSource
	configured []ConfiguredPrompt

	mu       sync.Mutex
	detected []PromptSkill
	byName   map[string]*PromptSkill
	done     bool
}

// NewDetector constructs a Detector over the given connected sources and the
// prompts already explicitly configured as skills (which are excluded from
// auto-detection).
func NewDetector(sources map[string]PromptSource, configured []ConfiguredPrompt) *Detector {
	return &Detector{sources: sources, configured: configured}
}

// Detect runs discovery on first call and returns the cached result on
// subsequent calls, until ClearCache is called.
func (d *Detector) Detect(ctx context.Context) []PromptSkill {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return d.detected
	}

	configuredNames := make(map[string]bool, len(d.configured))
	for _, c := range d.configured {
		configuredNames[c.ServerName+"/"+c.PromptName] = true
	}

	var detected []PromptSkill
	byName := make(map[string]*PromptSkill)

	for serverName, src := range d.sources {
		prompts, err := src.ListPrompts(ctx)
		if err != nil {
			logging.Warn("skill-detection", "listPrompts on %s failed: %v", serverName, err)
			continue
		}

		for _, p := range prompts {
			if configuredNames[serverName+"/"+p.Name] {
				continue
			}

			content, err := src.GetPromptText(ctx, p.Name, nil)
			if err != nil {
				logging.Warn("skill-detection", "getPrompt %s/%s failed: %v", serverName, p.Name, err)
				continue
			}

			fm, _ := ParseFrontMatter(content)
			if !IsValidSkillFrontMatter(fm) {
				continue
			}

			ps := PromptSkill{
				ServerName:  serverName,
				PromptName:  p.Name,
				Name:        fm["name"],
				Description: fm["description"],
			}
			if _, exists := byName[ps.Name]; exists {
				continue
			}
			detected = append(detected, ps)
			cp := ps
			byName[ps.Name] = &cp
		}
	}

	d.detected = detected
	d.byName = byName
	d.done = true
	return detected
}

// ClearCache forces the next Detect call to re-run discovery.
func (d *Detector) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = false
	d.detected = nil
	d.byName = nil
}

// FindByName searches first the explicitly configured prompts, then the
// auto-detected cache, as §4.H specifies.
func (d *Detector) FindByName(ctx context.Context, name string) (ConfiguredPrompt, bool) {
	for _, c := range d.configured {
		if c.Name == name {
			return c, true
		}
	}

	d.Detect(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if ps, ok := d.byName[name]; ok {
		return ConfiguredPrompt{
			ServerName:  ps.ServerName,
			PromptName:  ps.PromptName,
			Name:        ps.Name,
			Description: ps.Description,
		}, true
	}
	return ConfiguredPrompt{}, false
}
