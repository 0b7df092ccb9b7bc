package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProjectExt is the extension of project files searched for next to a buffer.
const ProjectExt = ".sublime-project"

// Project is an editor project file: a list of folders plus free-form settings.
type Project struct {
	Path     string         `json:"-"`
	Folders  []Folder       `json:"folders"`
	Settings map[string]any `json:"settings"`
}

// Folder is one root folder of a project.
type Folder struct {
	Path string `json:"path"`
}

// LoadProject parses the project file at path.
func LoadProject(path string) (*Project, error) {
	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: failed to parse project: %w", path, err)
	}
	p.Path = path
	return &p, nil
}

// FindProject walks up from startDir and returns the first project file found.
func FindProject(startDir string) (string, bool) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		matches, _ := filepath.Glob(filepath.Join(dir, "*"+ProjectExt))
		if len(matches) > 0 {
			return matches[0], true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Setting returns a string-valued project setting. Missing keys and values of
// any other type are reported as absent.
func (p *Project) Setting(key string) (string, bool) {
	if p == nil || p.Settings == nil {
		return "", false
	}
	v, ok := p.Settings[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Root returns the first project folder, or "" when the project has none.
// Relative folders are taken relative to the project file.
func (p *Project) Root() string {
	if p == nil || len(p.Folders) == 0 || p.Folders[0].Path == "" {
		return ""
	}
	root := ExpandHome(p.Folders[0].Path)
	if !filepath.IsAbs(root) && p.Path != "" {
		root = filepath.Join(filepath.Dir(p.Path), root)
	}
	return root
}
