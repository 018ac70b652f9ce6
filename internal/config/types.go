package config

// Transport identifies how the Client Manager reaches a downstream MCP server.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
	TransportSSE   Transport = "sse"
)

// MergeStrategy controls how a remote config's server map is combined with the
// local one (§4.C).
type MergeStrategy string

const (
	MergeLocalPriority  MergeStrategy = "local-priority"
	MergeRemotePriority MergeStrategy = "remote-priority"
	MergeDeep           MergeStrategy = "merge-deep"
)

// PromptConfig optionally surfaces a downstream prompt as a skill instead of an
// invocable MCP prompt forwarded by the Server Facade.
type PromptConfig struct {
	Skill *SkillBinding `yaml:"skill,omitempty" json:"skill,omitempty"`
}

// SkillBinding names the skill a configured prompt should appear as in the catalog.
type SkillBinding struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Folder      string `yaml:"folder,omitempty" json:"folder,omitempty"`
}

// ServerConfig is the resolved, internal form of one downstream server entry —
// the output of the Config Schema & Transform (§4.A) and the sole input the
// Client Manager and catalog engine need.
type ServerConfig struct {
	Name      string
	Transport Transport

	// stdio
	Command string
	Args    []string
	Env     map[string]string

	// http / sse
	URL     string
	Headers map[string]string

	Instruction         string
	ToolBlacklist       map[string]bool
	OmitToolDescription bool
	Prompts             map[string]PromptConfig
	TimeoutMS           int
}

// IsBlacklisted reports whether toolName is on this server's blacklist.
func (s *ServerConfig) IsBlacklisted(toolName string) bool {
	return s.ToolBlacklist != nil && s.ToolBlacklist[toolName]
}

// RemoteConfigSource describes one remote document to fetch, validate, and merge
// into the local config (§4.B).
type RemoteConfigSource struct {
	URL           string
	Headers       map[string]string
	Validation    *ValidationRules
	Security      SecurityPolicy
	MergeStrategy MergeStrategy

	// UseCache, when true, serves a fresh (within-TTL) cached copy instead of
	// making a live request. It never disables the failure fallback path,
	// which always tries the cache regardless of this flag.
	UseCache bool
	// DisableCacheWrite, when true, skips writing a successful live fetch to
	// the disk cache. Writes occur unless this is set (§4.B).
	DisableCacheWrite bool
}

// ValidationRules are optional regex checks applied to the interpolated URL and
// to required interpolated header values.
type ValidationRules struct {
	URLPattern     string
	HeadersPattern map[string]string
}

// SecurityPolicy controls the SSRF guard for one remote source.
type SecurityPolicy struct {
	AllowPrivateIPs bool
	EnforceHTTPS    bool
}

// DefaultSecurityPolicy matches §4.B's stated defaults.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{AllowPrivateIPs: false, EnforceHTTPS: true}
}

// SkillsConfig names the directories the Skill Registry should walk.
type SkillsConfig struct {
	Paths []string
}

// ResolvedConfig is the fully merged, internal-shape configuration: the output of
// A + B + C, and the sole input to server startup (§2's "Startup flow").
type ResolvedConfig struct {
	Servers map[string]*ServerConfig
	Skills  SkillsConfig
}
