package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/junction-mcp/junction/pkg/logging"
)

const skillFileName = "SKILL.md"

// Registry discovers and caches file-backed skills from a configured set of
// directories (§4.E). Safe for concurrent use.
type Registry struct {
	workDir string
	paths   []string

	mu     sync.RWMutex
	byName map[string]*Skill
	order  []*Skill
	loaded bool
}

// NewRegistry constructs a Registry over paths, each absolute or resolved
// relative to workDir.
func NewRegistry(workDir string, paths []string) *Registry {
	return &Registry{workDir: workDir, paths: paths}
}

// List returns every discovered skill, first-occurrence order across the
// configured paths. Discovery runs on first call and is cached thereafter.
func (r *Registry) List() []*Skill {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Skill, len(r.order))
	copy(out, r.order)
	return out
}

// Get looks up a skill by name in O(1).
func (r *Registry) Get(name string) (*Skill, bool) {
	r.ensureLoaded()
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// ClearCache invalidates the discovered set, forcing the next List/Get to
// rediscover from disk.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.byName = nil
	r.order = nil
}

func (r *Registry) ensureLoaded() {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return
	}

	byName := make(map[string]*Skill)
	var order []*Skill

	for _, p := range r.paths {
		dir := p
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(r.workDir, dir)
		}
		discoverPath(dir, byName, &order)
	}

	r.mu.Lock()
	r.byName = byName
	r.order = order
	r.loaded = true
	r.mu.Unlock()
}

// discoverPath walks one configured directory per §4.E: a direct child file
// named SKILL.md, or a direct child directory containing SKILL.md. I/O errors
// reading the directory itself are fatal only to this path, logged and
// skipped; malformed SKILL.md files are skipped with a warning.
func discoverPath(dir string, byName map[string]*Skill, order *[]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Warn("Skill", "reading skill directory %s failed: %v", dir, err)
		return
	}

	for _, entry := range entries {
		var candidate string
		switch {
		case !entry.IsDir() && entry.Name() == skillFileName:
			candidate = filepath.Join(dir, entry.Name())
		case entry.IsDir():
			nested := filepath.Join(dir, entry.Name(), skillFileName)
			if _, err := os.Stat(nested); err != nil {
				continue
			}
			candidate = nested
		default:
			continue
		}

		s, err := loadSkillFile(candidate)
		if err != nil {
			logging.Warn("Skill", "skipping malformed skill %s: %v", candidate, err)
			continue
		}

		if _, exists := byName[s.Name]; exists {
			continue
		}
		byName[s.Name] = s
		*order = append(*order, s)
	}
}

func loadSkillFile(path string) (*Skill, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	fm, body := ParseFrontMatter(string(raw))
	if !IsValidSkillFrontMatter(fm) {
		return nil, fmt.Errorf("%s has no valid skill front-matter", path)
	}

	return &Skill{
		Name:        fm["name"],
		Description: fm["description"],
		Location:    LocationProject,
		Content:     body,
		BasePath:    filepath.Dir(path),
	}, nil
}
