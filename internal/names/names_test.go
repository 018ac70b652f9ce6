package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_EmptyString(t *testing.T) {
	p := Parse("")
	assert.Equal(t, Parsed{Actual: ""}, p)
}

func TestParse_LeadingDoubleUnderscoreHasNoServer(t *testing.T) {
	p := Parse("__x")
	assert.Equal(t, Parsed{Actual: "__x"}, p)
}

func TestParse_SplitsOnFirstOccurrence(t *testing.T) {
	p := Parse("a__b__c")
	assert.Equal(t, Parsed{Server: "a", Actual: "b__c"}, p)
}

func TestParse_NoSeparatorIsPlainName(t *testing.T) {
	p := Parse("plain_tool")
	assert.Equal(t, Parsed{Actual: "plain_tool"}, p)
}

func TestParse_SkillPrefixedName(t *testing.T) {
	p := Parse("skill__onboarding")
	assert.Equal(t, Parsed{Server: "skill", Actual: "onboarding"}, p)
}

func TestToolDisplayNames_UniqueToolsStayPlain(t *testing.T) {
	servers := []string{"fs", "git"}
	tools := map[string][]string{
		"fs":  {"read_file"},
		"git": {"commit"},
	}
	byServer, all := ToolDisplayNames(servers, tools)
	assert.Equal(t, "read_file", byServer["fs"]["read_file"])
	assert.Equal(t, "commit", byServer["git"]["commit"])
	assert.True(t, all["read_file"])
	assert.True(t, all["commit"])
}

func TestToolDisplayNames_CollisionPrefixesBothSides(t *testing.T) {
	servers := []string{"fs", "backup"}
	tools := map[string][]string{
		"fs":     {"copy"},
		"backup": {"copy"},
	}
	byServer, all := ToolDisplayNames(servers, tools)
	assert.Equal(t, "fs__copy", byServer["fs"]["copy"])
	assert.Equal(t, "backup__copy", byServer["backup"]["copy"])
	assert.True(t, all["fs__copy"])
	assert.True(t, all["backup__copy"])
	assert.False(t, all["copy"])
}

func TestSkillDisplayName_PlainWhenNoCollision(t *testing.T) {
	displayed := map[string]bool{"read_file": true}
	assert.Equal(t, "onboarding", SkillDisplayName("onboarding", displayed))
}

func TestSkillDisplayName_PrefixedOnCollision(t *testing.T) {
	displayed := map[string]bool{"onboarding": true}
	assert.Equal(t, "skill__onboarding", SkillDisplayName("onboarding", displayed))
}
