package names

// ToolDisplayNames computes the display name for every tool of every server,
// applying §3's collision rule: a tool name shown plain when unique across all
// connected servers, prefixed "{server}__{tool}" otherwise.
//
// serverOrder fixes iteration order (so catalog rendering is stable across
// runs for the same configuration); toolsByServer maps a server name to its
// native tool names in listing order.
//
// Returns, per server, a map from native tool name to display name, and the
// full set of display names produced (used by the caller to decide skill
// prefixing).
func ToolDisplayNames(serverOrder []string, toolsByServer map[string][]string) (displayByServer map[string]map[string]string, allDisplayNames map[string]bool) {
	counts := make(map[string]int)
	for _, server := range serverOrder {
		for _, tool := range toolsByServer[server] {
			counts[tool]++
		}
	}

	displayByServer = make(map[string]map[string]string, len(serverOrder))
	allDisplayNames = make(map[string]bool)

	for _, server := range serverOrder {
		tools := toolsByServer[server]
		display := make(map[string]string, len(tools))
		for _, tool := range tools {
			name := tool
			if counts[tool] > 1 {
				name = WithServerPrefix(server, tool)
			}
			display[tool] = name
			allDisplayNames[name] = true
		}
		displayByServer[server] = display
	}

	return displayByServer, allDisplayNames
}

// SkillDisplayName applies §3's skill collision rule: a skill name is shown
// plain unless it collides with a tool display name already computed by
// ToolDisplayNames, in which case it is prefixed "skill__".
func SkillDisplayName(skillName string, displayedToolNames map[string]bool) string {
	if displayedToolNames[skillName] {
		return WithSkillPrefix(skillName)
	}
	return skillName
}
