package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/junction-mcp/junction/pkg/logging"
)

// configFileNames are tried in order against the located directory, mirroring
// the "mcp-config.{yaml,yml,json}" naming from §6.
var configFileNames = []string{"mcp-config.yaml", "mcp-config.yml", "mcp-config.json"}

// LocateConfigFile finds the local configuration file: PROJECT_PATH if set,
// otherwise the current working directory, trying each candidate name in turn.
func LocateConfigFile() (string, error) {
	dir := os.Getenv("PROJECT_PATH")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}

	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no configuration file found in %s (tried %s)", dir, strings.Join(configFileNames, ", "))
}

// loadLocalFile reads and parses the local config file. YAML is parsed
// regardless of whether the file extension is .yaml, .yml, or .json — the
// YAML parser accepts JSON as a subset, so a single code path suffices.
func loadLocalFile(path string) (rawFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawFile{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parseRawBytes(data, path)
}

func parseRawBytes(data []byte, source string) (rawFile, error) {
	var rf rawFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return rawFile{}, fmt.Errorf("parsing %s: %w", source, err)
	}
	return rf, nil
}

// envLookup is the default ${VAR} resolver, backed by the process environment.
func envLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Load reads the local config file at path, resolves every remote config source
// it names, merges them per §4.C, and returns the fully resolved configuration.
func Load(path string) (*ResolvedConfig, error) {
	rf, err := loadLocalFile(path)
	if err != nil {
		return nil, err
	}
	return resolve(rf, envLookup)
}

func resolve(rf rawFile, lookup func(string) (string, bool)) (*ResolvedConfig, error) {
	localServers, verrs := transformServers(rf.MCPServers, lookup)
	if verrs != nil {
		// Shape-invalid entries are dropped with a warning rather than aborting
		// startup (§4.A: "collect without aborting").
		for _, e := range verrs.Errors {
			logging.Warn("Config", "dropping server %q: %s", e.Server, e.Message)
		}
	}

	skills := SkillsConfig{}
	if rf.Skills != nil {
		skills.Paths = rf.Skills.Paths
	}

	resolved := &ResolvedConfig{Servers: localServers, Skills: skills}

	if len(rf.RemoteConfigs) == 0 {
		return resolved, nil
	}

	cache, cacheErr := newDiskCache()
	if cacheErr != nil {
		cache = nil
	}

	// Sources are fetched concurrently, then merged in their configured order.
	sources := transformRemoteSources(rf.RemoteConfigs, lookup)
	fetched := make([]rawFile, len(sources))
	fetchErrs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src RemoteConfigSource) {
			defer wg.Done()
			fetched[i], fetchErrs[i] = fetchRemote(src, cache)
		}(i, src)
	}
	wg.Wait()

	for i, rawSrc := range sources {
		remoteRaw, err := fetched[i], fetchErrs[i]
		if err != nil {
			// A failed remote fetch is logged and skipped, never fatal (§4.C):
			// the local config, and any remote sources already merged, still load.
			logging.Warn("Config", "remote config %s failed, skipping: %v", rawSrc.URL, err)
			continue
		}
		remoteServers, remoteVerrs := transformServers(remoteRaw.MCPServers, lookup)
		if remoteVerrs != nil {
			for _, e := range remoteVerrs.Errors {
				logging.Warn("Config", "dropping remote server %q from %s: %s", e.Server, rawSrc.URL, e.Message)
			}
		}
		resolved.Servers = mergeServers(resolved.Servers, remoteServers, rawSrc.MergeStrategy)

		if remoteRaw.Skills != nil {
			resolved.Skills.Paths = append(resolved.Skills.Paths, remoteRaw.Skills.Paths...)
		}
	}

	return resolved, nil
}
