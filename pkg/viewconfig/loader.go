package viewconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set holds the loaded views keyed by name.
type Set struct {
	views map[string]View
}

// NewSet builds a set from views, validating each one.
func NewSet(views ...View) (*Set, error) {
	s := &Set{views: make(map[string]View, len(views))}
	for _, v := range views {
		if err := s.add(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) add(v View) error {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return fmt.Errorf("%w: empty view name (file %s)", ErrInvalidView, v.Source)
	}
	if _, exists := s.views[name]; exists {
		return fmt.Errorf("%w: duplicate view %q (file %s)", ErrInvalidView, name, v.Source)
	}
	v.Name = name
	for i := range v.Columns {
		v.Columns[i].Label = SanitizeLabel(v.Columns[i].Label)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	s.views[name] = v
	return nil
}

// LoadFS walks fsys and parses every JSON or YAML view document. A nil fsys
// yields an empty set.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := &Set{views: make(map[string]View)}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isViewFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("viewconfig: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		for name, v := range doc.Views {
			v.Name = name
			v.Source = path
			if err := set.add(v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// View returns the named view.
func (s *Set) View(name string) (View, bool) {
	if s == nil {
		return View{}, false
	}
	v, ok := s.views[name]
	return v, ok
}

// Names returns the view names in sorted order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.views))
	for name := range s.views {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the set holds any views.
func (s *Set) Empty() bool {
	return s == nil || len(s.views) == 0
}

type documentFile struct {
	Views map[string]View `json:"views" yaml:"views"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("viewconfig: file %s is empty", source)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("viewconfig: parse %s: %w", source, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("viewconfig: parse %s: %w", source, err)
		}
	}
	return doc, nil
}

func isViewFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
