// Package config handles workspace layout and global settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	WorkspaceDir = ".citecheck"
	RulesFile    = "rules.yml"
	CacheDir     = "cache"
	DBFile       = "rules.db"

	// RootEnv overrides the directory the workspace search starts from.
	RootEnv = "CITECHECK_ROOT"
)

// ErrNotWorkspace is returned when no .citecheck directory is found.
var ErrNotWorkspace = errors.New("not in a citecheck workspace (no .citecheck directory found)")

// WorkspacePath returns the path to the .citecheck directory from a root path.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDir)
}

// RulesPath returns the path to rules.yml from a root path.
func RulesPath(root string) string {
	return filepath.Join(root, WorkspaceDir, RulesFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir)
}

// DBPath returns the path to rules.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir, DBFile)
}

// IsWorkspace checks if the given path contains a citecheck workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(WorkspacePath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a citecheck workspace.
// Returns the workspace root path or ErrNotWorkspace.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotWorkspace
		}
		abs = parent
	}
}

// StartDir returns CITECHECK_ROOT when set, else the working directory.
func StartDir() (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		return ExpandPath(root), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// InitWorkspace creates the .citecheck directory and its cache directory.
// It fails if root already holds a workspace.
func InitWorkspace(root string) error {
	if IsWorkspace(root) {
		return fmt.Errorf("directory already contains a citecheck workspace: %s", root)
	}
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
