package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptSource struct {
	prompts   []PromptInfo
	listErr   error
	content   map[string]string
	fetchErrs map[string]error
}

func (f *fakePromptSource) ListPrompts(ctx context.Context) ([]PromptInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.prompts, nil
}

func (f *fakePromptSource) GetPromptText(ctx context.Context, name string, args map[string]string) (string, error) {
	if err, ok := f.fetchErrs[name]; ok {
		return "", err
	}
	return f.content[name], nil
}

func TestDetector_DetectsValidSkillFrontMatter(t *testing.T) {
	src := &fakePromptSource{
		prompts: []PromptInfo{{Name: "onboard"}},
		content: map[string]string{
			"onboard": "---\nname: onboarding\ndescription: gets you started\n---\nbody",
		},
	}
	det := NewDetector(map[string]PromptSource{"fs": src}, nil)

	detected := det.Detect(context.Background())
	require.Len(t, detected, 1)
	assert.Equal(t, "onboarding", detected[0].Name)
	assert.Equal(t, "fs", detected[0].ServerName)
	assert.Equal(t, "onboard", detected[0].PromptName)
}

func TestDetector_SkipsExplicitlyConfiguredPrompts(t *testing.T) {
	src := &fakePromptSource{
		prompts: []PromptInfo{{Name: "onboard"}},
		content: map[string]string{
			"onboard": "---\nname: onboarding\ndescription: gets you started\n---\nbody",
		},
	}
	configured := []ConfiguredPrompt{{ServerName: "fs", PromptName: "onboard", Name: "onboarding"}}
	det := NewDetector(map[string]PromptSource{"fs": src}, configured)

	detected := det.Detect(context.Background())
	assert.Empty(t, detected)
}

func TestDetector_ListAndFetchErrorsAreNotFatal(t *testing.T) {
	failing := &fakePromptSource{listErr: errors.New("boom")}
	working := &fakePromptSource{
		prompts:   []PromptInfo{{Name: "ok"}, {Name: "unreachable"}},
		content:   map[string]string{"ok": "---\nname: ok-skill\ndescription: works\n---\nbody"},
		fetchErrs: map[string]error{"unreachable": errors.New("fetch failed")},
	}
	det := NewDetector(map[string]PromptSource{"broken": failing, "fine": working}, nil)

	detected := det.Detect(context.Background())
	require.Len(t, detected, 1)
	assert.Equal(t, "ok-skill", detected[0].Name)
}

func TestDetector_FindByName_ConfiguredTakesPrecedence(t *testing.T) {
	configured := []ConfiguredPrompt{{ServerName: "fs", PromptName: "onboard", Name: "onboarding", Description: "configured"}}
	det := NewDetector(nil, configured)

	cp, ok := det.FindByName(context.Background(), "onboarding")
	require.True(t, ok)
	assert.Equal(t, "configured", cp.Description)
}

func TestDetector_FindByName_FallsBackToAutoDetected(t *testing.T) {
	src := &fakePromptSource{
		prompts: []PromptInfo{{Name: "onboard"}},
		content: map[string]string{
			"onboard": "---\nname: onboarding\ndescription: auto detected\n---\nbody",
		},
	}
	det := NewDetector(map[string]PromptSource{"fs": src}, nil)

	cp, ok := det.FindByName(context.Background(), "onboarding")
	require.True(t, ok)
	assert.Equal(t, "auto detected", cp.Description)
}

func TestDetector_ClearCacheForcesRedetection(t *testing.T) {
	src := &fakePromptSource{prompts: []PromptInfo{}}
	det := NewDetector(map[string]PromptSource{"fs": src}, nil)
	det.Detect(context.Background())

	src.prompts = []PromptInfo{{Name: "onboard"}}
	src.content = map[string]string{"onboard": "---\nname: onboarding\ndescription: d\n---\nbody"}

	assert.Empty(t, det.Detect(context.Background()), "still cached")

	det.ClearCache()
	assert.Len(t, det.Detect(context.Background()), 1)
}
