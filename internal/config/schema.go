package config

import (
	"fmt"
	"regexp"

	"github.com/junction-mcp/junction/pkg/logging"
)

var envPlaceholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// interpolate substitutes ${VAR} placeholders in s using lookup. An undefined
// variable is left as the literal placeholder and a warning is logged (§4.A).
func interpolate(s string, lookup func(string) (string, bool)) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(match string) string {
		name := envPlaceholder.FindStringSubmatch(match)[1]
		if val, ok := lookup(name); ok {
			return val
		}
		logging.Warn("Config", "undefined environment variable %s, leaving %s literal", name, match)
		return match
	})
}

func interpolateMap(m map[string]string, lookup func(string) (string, bool)) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = interpolate(v, lookup)
	}
	return out
}

// transformServers converts the user-facing shape into the resolved internal shape
// (§4.A). Disabled entries are dropped silently; entries failing shape validation
// are collected into the returned ValidationErrors rather than aborting the pass.
func transformServers(raw map[string]rawServerEntry, lookup func(string) (string, bool)) (map[string]*ServerConfig, *ValidationErrors) {
	resolved := make(map[string]*ServerConfig, len(raw))
	verrs := &ValidationErrors{}

	for name, entry := range raw {
		if entry.Disabled {
			continue
		}

		sc, err := transformServerEntry(name, entry, lookup)
		if err != nil {
			verrs.Add(name, err.Error())
			continue
		}
		resolved[name] = sc
	}

	if verrs.HasErrors() {
		return resolved, verrs
	}
	return resolved, nil
}

func transformServerEntry(name string, entry rawServerEntry, lookup func(string) (string, bool)) (*ServerConfig, error) {
	command := interpolate(entry.Command, lookup)
	url := interpolate(entry.URL, lookup)

	if command == "" && url == "" {
		return nil, fmt.Errorf("entry must have either command or url")
	}
	if command != "" && url != "" {
		return nil, fmt.Errorf("entry cannot have both command and url")
	}

	sc := &ServerConfig{Name: name}

	switch {
	case command != "":
		sc.Transport = TransportStdio
		sc.Command = command
		args := make([]string, len(entry.Args))
		for i, a := range entry.Args {
			args[i] = interpolate(a, lookup)
		}
		sc.Args = args
		sc.Env = interpolateMap(entry.Env, lookup)
	case entry.Type == "sse":
		sc.Transport = TransportSSE
		sc.URL = url
		sc.Headers = interpolateMap(entry.Headers, lookup)
	default:
		sc.Transport = TransportHTTP
		sc.URL = url
		sc.Headers = interpolateMap(entry.Headers, lookup)
	}

	// Instruction precedence: top-level overrides nested config.instruction.
	instruction := ""
	if entry.Config != nil {
		instruction = entry.Config.Instruction
	}
	if entry.Instruction != "" {
		instruction = entry.Instruction
	}
	sc.Instruction = interpolate(instruction, lookup)

	sc.TimeoutMS = entry.Timeout

	if entry.Config != nil {
		if len(entry.Config.ToolBlacklist) > 0 {
			sc.ToolBlacklist = make(map[string]bool, len(entry.Config.ToolBlacklist))
			for _, t := range entry.Config.ToolBlacklist {
				sc.ToolBlacklist[t] = true
			}
		}
		sc.OmitToolDescription = entry.Config.OmitToolDescription

		if len(entry.Config.Prompts) > 0 {
			sc.Prompts = make(map[string]PromptConfig, len(entry.Config.Prompts))
			for pname, p := range entry.Config.Prompts {
				sc.Prompts[pname] = PromptConfig{Skill: p.Skill}
			}
		}
	}

	return sc, nil
}

// transformRemoteSources converts the raw remoteConfigs list into resolved
// RemoteConfigSource values. Interpolation happens eagerly here since the SSRF
// guard (§4.B) must run against the URL after interpolation.
func transformRemoteSources(raw []rawRemoteSource, lookup func(string) (string, bool)) []RemoteConfigSource {
	out := make([]RemoteConfigSource, 0, len(raw))
	for _, r := range raw {
		src := RemoteConfigSource{
			URL:               interpolate(r.URL, lookup),
			Headers:           interpolateMap(r.Headers, lookup),
			MergeStrategy:     MergeLocalPriority,
			Security:          DefaultSecurityPolicy(),
			UseCache:          true,
			DisableCacheWrite: r.DisableCacheWrite,
		}
		if r.UseCache != nil {
			src.UseCache = *r.UseCache
		}
		if r.MergeStrategy != "" {
			src.MergeStrategy = MergeStrategy(r.MergeStrategy)
		}
		if r.Validation != nil {
			src.Validation = &ValidationRules{
				URLPattern:     r.Validation.URLPattern,
				HeadersPattern: r.Validation.HeadersPattern,
			}
		}
		if r.Security != nil {
			src.Security.AllowPrivateIPs = r.Security.AllowPrivateIPs
			if r.Security.EnforceHTTPS != nil {
				src.Security.EnforceHTTPS = *r.Security.EnforceHTTPS
			}
		}
		out = append(out, src)
	}
	return out
}
