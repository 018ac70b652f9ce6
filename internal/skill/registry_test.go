package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkillFile(t *testing.T, path, name, description, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := "---\nname: " + name + "\ndescription: " + description + "\n---\n" + body
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRegistry_DiscoversDirectFileAndNestedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSkillFile(t, filepath.Join(dir, "SKILL.md"), "top", "top skill", "top body")
	writeSkillFile(t, filepath.Join(dir, "nested", "SKILL.md"), "nested", "nested skill", "nested body")

	reg := NewRegistry(dir, []string{"."})
	skills := reg.List()

	names := map[string]*Skill{}
	for _, s := range skills {
		names[s.Name] = s
	}
	require.Contains(t, names, "top")
	require.Contains(t, names, "nested")
	assert.Equal(t, "top body", names["top"].Content)
}

func TestRegistry_FirstOccurrenceWins(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeSkillFile(t, filepath.Join(dirA, "SKILL.md"), "dup", "first", "first body")
	writeSkillFile(t, filepath.Join(dirB, "SKILL.md"), "dup", "second", "second body")

	reg := NewRegistry("", []string{dirA, dirB})
	s, ok := reg.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "first body", s.Content)
}

func TestRegistry_SkipsMalformedSkill(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("no front matter here"), 0o644))

	reg := NewRegistry(dir, []string{"."})
	assert.Empty(t, reg.List())
}

func TestRegistry_MissingDirectoryIsNotFatal(t *testing.T) {
	reg := NewRegistry("", []string{"/nonexistent/path/for/test"})
	assert.Empty(t, reg.List())
}

func TestRegistry_ClearCacheForcesRediscovery(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry(dir, []string{"."})
	assert.Empty(t, reg.List())

	writeSkillFile(t, filepath.Join(dir, "SKILL.md"), "added", "added later", "body")
	assert.Empty(t, reg.List(), "cache should still be stale")

	reg.ClearCache()
	_, ok := reg.Get("added")
	assert.True(t, ok)
}
