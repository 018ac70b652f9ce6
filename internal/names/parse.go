// Package names implements the flat tool/skill namespace: splitting a
// requested name back into its server/skill origin, and computing the
// collision-aware display names the catalog renders (§3 NameResolution, §4.F).
package names

import "strings"

// Parsed is the result of splitting a requested name on its first "__".
type Parsed struct {
	// Server is the prefix before the first "__", or "" if name carries no
	// server prefix.
	Server string
	// Actual is the remainder — the native tool/skill name.
	Actual string
}

// Parse splits name on the first occurrence of "__", provided that occurrence
// is not at position 0. "__" at position 0, or absent entirely, yields a
// Parsed with no server and Actual equal to the whole input.
func Parse(name string) Parsed {
	idx := strings.Index(name, "__")
	if idx <= 0 {
		return Parsed{Actual: name}
	}
	return Parsed{Server: name[:idx], Actual: name[idx+2:]}
}

// SkillPrefix is the namespace prefix used for a skill whose plain name
// collides with a displayed tool name.
const SkillPrefix = "skill__"

// WithServerPrefix builds the "{server}__{tool}" form used when a tool name
// collides across servers.
func WithServerPrefix(server, tool string) string {
	return server + "__" + tool
}

// WithSkillPrefix builds the "skill__{name}" form used when a skill name
// collides with a displayed tool name.
func WithSkillPrefix(name string) string {
	return SkillPrefix + name
}
