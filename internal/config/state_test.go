package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadState_NewFile(t *testing.T) {
	state := LoadState(filepath.Join(t.TempDir(), "skillset-state.json"))

	_, active := state.Active()
	assert.False(t, active)
	assert.Empty(t, state.SkillsetItems)
	assert.Empty(t, state.Pinned)
}

func TestLoadState_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"activeSkillset": "a", "skillsetItems": [`},
		{"not json", "hello"},
		{"wrong types", `{"activeSkillset": 3, "skillsetItems": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "skillset-state.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			state := LoadState(path)
			assert.Equal(t, NewState(), state)
		})
	}
}

func TestLoadState_Unreadable(t *testing.T) {
	// a directory where the file should be cannot be read
	path := filepath.Join(t.TempDir(), "skillset-state.json")
	require.NoError(t, os.MkdirAll(path, 0755))

	assert.Equal(t, NewState(), LoadState(path))
}

func TestSaveAndLoadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillset-state.json")

	state := NewState()
	state.SetActive("frontend")
	state.SkillsetItems = []string{"react-patterns", "ui-reviewer"}
	state.Pinned = []string{"my-notes"}

	require.NoError(t, SaveState(path, state))

	loaded := LoadState(path)
	name, ok := loaded.Active()
	require.True(t, ok)
	assert.Equal(t, "frontend", name)
	assert.Equal(t, []string{"react-patterns", "ui-reviewer"}, loaded.SkillsetItems)
	assert.Equal(t, []string{"my-notes"}, loaded.Pinned)
}

func TestSaveState_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillset-state.json")

	require.NoError(t, SaveState(path, &State{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"activeSkillset": null, "skillsetItems": [], "pinned": []}`, string(data))
}

func TestSaveState_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude", "skillset-state.json")

	require.NoError(t, SaveState(path, NewState()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveState_AtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "skillset-state.json")

	state := NewState()
	state.SetActive("a")
	state.SkillsetItems = []string{"x"}

	// Save multiple times to verify atomic writes don't leave temp files
	for i := 0; i < 5; i++ {
		require.NoError(t, SaveState(path, state), "iteration %d", i)
	}

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "skillset-state.json", entries[0].Name())
}

func TestSaveState_CrashBeforeRename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillset-state.json")

	prior := NewState()
	prior.SetActive("a")
	prior.SkillsetItems = []string{"x", "y"}
	prior.Pinned = []string{"y"}
	require.NoError(t, SaveState(path, prior))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// The temp file is fully written but the process dies before the rename.
	next := NewState()
	next.SetActive("b")
	next.SkillsetItems = []string{"y", "z"}
	tmp, err := writeTemp(path, []byte(`{"activeSkillset": "b", "skillsetItems": ["y", "z"`))
	require.NoError(t, err)
	assert.FileExists(t, tmp)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	loaded := LoadState(path)
	name, _ := loaded.Active()
	assert.Equal(t, "a", name)
	assert.Equal(t, []string{"x", "y"}, loaded.SkillsetItems)

	// The next successful save replaces the file completely.
	require.NoError(t, SaveState(path, next))
	name, _ = LoadState(path).Active()
	assert.Equal(t, "b", name)
}

func TestSaveState_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillset-state.json")

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			state := NewState()
			state.SetActive(fmt.Sprintf("set-%d", n))
			state.SkillsetItems = []string{fmt.Sprintf("item-%d", n)}
			if err := SaveState(path, state); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent SaveState() error = %v", err)
	}

	// Last writer wins, but the file is always a complete document.
	loaded := LoadState(path)
	name, ok := loaded.Active()
	require.True(t, ok)
	require.True(t, strings.HasPrefix(name, "set-"))
	assert.Equal(t, []string{"item-" + strings.TrimPrefix(name, "set-")}, loaded.SkillsetItems)
}

func TestState_PinUnpin(t *testing.T) {
	state := NewState()

	assert.Equal(t, []string{"a", "b"}, state.Pin("a", "b", "a"))
	assert.Nil(t, state.Pin("a"))
	assert.True(t, state.IsPinned("a"))
	assert.Equal(t, []string{"a", "b"}, state.Pinned)

	assert.Equal(t, []string{"a"}, state.Unpin("a", "zzz"))
	assert.False(t, state.IsPinned("a"))
	assert.Equal(t, []string{"b"}, state.Pinned)
	assert.Nil(t, state.Unpin("a"))
}

func TestState_Clone(t *testing.T) {
	state := NewState()
	state.SetActive("a")
	state.SkillsetItems = []string{"x"}
	state.Pinned = []string{"p"}

	c := state.Clone()
	c.SkillsetItems[0] = "changed"
	c.Pin("q")
	c.SetActive("b")

	name, _ := state.Active()
	assert.Equal(t, "a", name)
	assert.Equal(t, []string{"x"}, state.SkillsetItems)
	assert.Equal(t, []string{"p"}, state.Pinned)
}
