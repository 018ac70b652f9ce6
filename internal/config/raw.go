package config

// rawFile is the top-level shape of a local configuration file, exactly as described
// in §6: mcpServers, optional remoteConfigs, optional skills.paths.
type rawFile struct {
	MCPServers    map[string]rawServerEntry `yaml:"mcpServers" json:"mcpServers"`
	RemoteConfigs []rawRemoteSource         `yaml:"remoteConfigs,omitempty" json:"remoteConfigs,omitempty"`
	Skills        *rawSkills                `yaml:"skills,omitempty" json:"skills,omitempty"`
}

type rawSkills struct {
	Paths []string `yaml:"paths" json:"paths"`
}

// rawServerEntry accepts both the stdio shape ({command,args,env,...}) and the
// remote shape ({url,headers,type,...}) in a single struct; which one applies is
// inferred during transform (§4.A "Infer transport").
type rawServerEntry struct {
	Command string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	URL     string            `yaml:"url,omitempty" json:"url,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Type    string            `yaml:"type,omitempty" json:"type,omitempty"`

	Disabled    bool             `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Instruction string           `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	Timeout     int              `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Config      *rawServerConfig `yaml:"config,omitempty" json:"config,omitempty"`
}

type rawServerConfig struct {
	Instruction         string                     `yaml:"instruction,omitempty" json:"instruction,omitempty"`
	ToolBlacklist       []string                   `yaml:"toolBlacklist,omitempty" json:"toolBlacklist,omitempty"`
	OmitToolDescription bool                       `yaml:"omitToolDescription,omitempty" json:"omitToolDescription,omitempty"`
	Prompts             map[string]rawPromptConfig `yaml:"prompts,omitempty" json:"prompts,omitempty"`
}

type rawPromptConfig struct {
	Skill *SkillBinding `yaml:"skill,omitempty" json:"skill,omitempty"`
}

// rawRemoteSource mirrors RemoteConfigSource before interpolation.
type rawRemoteSource struct {
	URL               string              `yaml:"url" json:"url"`
	Headers           map[string]string   `yaml:"headers,omitempty" json:"headers,omitempty"`
	Validation        *rawValidationRules `yaml:"validation,omitempty" json:"validation,omitempty"`
	Security          *rawSecurityPolicy  `yaml:"security,omitempty" json:"security,omitempty"`
	MergeStrategy     string              `yaml:"mergeStrategy,omitempty" json:"mergeStrategy,omitempty"`
	UseCache          *bool               `yaml:"useCache,omitempty" json:"useCache,omitempty"`
	DisableCacheWrite bool                `yaml:"disableCacheWrite,omitempty" json:"disableCacheWrite,omitempty"`
}

type rawValidationRules struct {
	URLPattern     string            `yaml:"url_pattern,omitempty" json:"url_pattern,omitempty"`
	HeadersPattern map[string]string `yaml:"headers_pattern,omitempty" json:"headers_pattern,omitempty"`
}

type rawSecurityPolicy struct {
	AllowPrivateIPs bool  `yaml:"allowPrivateIPs,omitempty" json:"allowPrivateIPs,omitempty"`
	EnforceHTTPS    *bool `yaml:"enforceHttps,omitempty" json:"enforceHttps,omitempty"`
}
