package policy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store loads and saves rules.
type Store interface {
	Load() (Rules, error)
	Save(Rules) error
}

// Update loads rules from s, applies patch and saves the result.
func Update(s Store, patch map[string]string) (Rules, error) {
	rules, err := s.Load()
	if err != nil {
		return Rules{}, fmt.Errorf("loading rules: %w", err)
	}
	rules, err = rules.Apply(patch)
	if err != nil {
		return Rules{}, err
	}
	if err := s.Save(rules); err != nil {
		return Rules{}, fmt.Errorf("saving rules: %w", err)
	}
	return rules, nil
}

// FileStore keeps rules in a YAML file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the rules file. A missing file is created with the default
// rules; fields absent from the file keep their defaults.
func (s *FileStore) Load() (Rules, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			rules := DefaultRules()
			if err := s.Save(rules); err != nil {
				return Rules{}, err
			}
			return rules, nil
		}
		return Rules{}, fmt.Errorf("reading rules: %w", err)
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}
	return rules, nil
}

// Save writes rules to the file, creating parent directories.
func (s *FileStore) Save(rules Rules) error {
	data, err := yaml.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("creating rules directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
