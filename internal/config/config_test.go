package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/repo"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"WorkspacePath", WorkspacePath, "/test/repo/.citecheck"},
		{"RulesPath", RulesPath, "/test/repo/.citecheck/rules.yml"},
		{"CachePath", CachePath, "/test/repo/.citecheck/cache"},
		{"DBPath", DBPath, "/test/repo/.citecheck/cache/rules.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(root))
		})
	}
}

func TestIsWorkspace(t *testing.T) {
	tmpDir := t.TempDir()

	// Not a workspace initially
	assert.False(t, IsWorkspace(tmpDir))

	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, WorkspaceDir), 0755))
	assert.True(t, IsWorkspace(tmpDir))
}

func TestIsWorkspace_FileNotDir(t *testing.T) {
	tmpDir := t.TempDir()

	// Create .citecheck as a file, not directory
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, WorkspaceDir), []byte("not a dir"), 0644))
	assert.False(t, IsWorkspace(tmpDir))
}

func TestFindWorkspace(t *testing.T) {
	// Create nested structure: /tmp/xxx/ws/.citecheck
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, "ws")
	nestedDir := filepath.Join(wsDir, "papers", "drafts")

	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(wsDir, WorkspaceDir), 0755))

	found, err := FindWorkspace(nestedDir)
	require.NoError(t, err)
	assert.Equal(t, wsDir, found)
}

func TestFindWorkspace_NotFound(t *testing.T) {
	_, err := FindWorkspace(t.TempDir())
	assert.ErrorIs(t, err, ErrNotWorkspace)
}

func TestInitWorkspace(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, InitWorkspace(tmpDir))
	assert.DirExists(t, CachePath(tmpDir))

	assert.Error(t, InitWorkspace(tmpDir), "existing workspace")
}

func TestStartDir(t *testing.T) {
	t.Setenv(RootEnv, "/some/root")
	got, err := StartDir()
	require.NoError(t, err)
	assert.Equal(t, "/some/root", got)

	t.Setenv(RootEnv, "")
	cwd, _ := os.Getwd()
	got, err = StartDir()
	require.NoError(t, err)
	assert.Equal(t, cwd, got)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/papers", filepath.Join(home, "papers")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
