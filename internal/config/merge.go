package config

// mergeServers combines a remote server map into the accumulated local one
// according to strategy (§4.C). local is mutated in place when possible and
// returned.
//
//   - local-priority: a server name already present in local is left untouched;
//     only names absent from local are added from remote.
//   - remote-priority: a server name present in remote fully replaces any local
//     entry of the same name.
//   - merge-deep: for a name present in both, env and headers are merged key by
//     key with local values winning on conflict; every other field (transport,
//     command, url, blacklist, ...) is taken from local. Names present in only
//     one side are carried over unchanged.
func mergeServers(local, remote map[string]*ServerConfig, strategy MergeStrategy) map[string]*ServerConfig {
	if local == nil {
		local = make(map[string]*ServerConfig)
	}

	switch strategy {
	case MergeRemotePriority:
		for name, rs := range remote {
			local[name] = rs
		}
	case MergeDeep:
		for name, rs := range remote {
			ls, ok := local[name]
			if !ok {
				local[name] = rs
				continue
			}
			local[name] = deepMergeServer(ls, rs)
		}
	case MergeLocalPriority:
		fallthrough
	default:
		for name, rs := range remote {
			if _, ok := local[name]; !ok {
				local[name] = rs
			}
		}
	}

	return local
}

// deepMergeServer keeps every field of local except env and headers, which are
// merged key by key with local winning on conflict.
func deepMergeServer(local, remote *ServerConfig) *ServerConfig {
	merged := *local

	merged.Env = mergeStringMaps(remote.Env, local.Env)
	merged.Headers = mergeStringMaps(remote.Headers, local.Headers)

	return &merged
}

// mergeStringMaps returns a new map containing base's entries overlaid with
// override's, so a key present in both ends up with override's value.
func mergeStringMaps(base, override map[string]string) map[string]string {
	if base == nil && override == nil {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
