package urltpl

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store persists learned templates as a JSON file keyed
// exchange → promo type.
type Store struct {
	Path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the template file. A missing file is an empty set, not an
// error.
func (s *Store) Load() (map[string]map[string]*URLTemplate, error) {
	templates := make(map[string]map[string]*URLTemplate)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return templates, nil
		}
		return templates, err
	}

	if err := json.Unmarshal(data, &templates); err != nil {
		return make(map[string]map[string]*URLTemplate), err
	}
	return templates, nil
}

// Save writes the full template set atomically via a temp file rename.
func (s *Store) Save(templates map[string]map[string]*URLTemplate) error {
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
