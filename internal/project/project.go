// Package project persists nesting projects as versioned JSON files under
// the user's home directory.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soumyadeepsahu/SVGnest/internal/engine"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// FormatVersion identifies the project file layout.
const FormatVersion = "1.0.0"

// Project is the top-level structure of a saved nesting project: the part
// list, the sheet, the search configuration, and optionally the last result.
type Project struct {
	Version   string            `json:"version"`
	Name      string            `json:"name"`
	SavedAt   string            `json:"saved_at,omitempty"`
	Parts     []model.Part      `json:"parts"`
	Container model.Container   `json:"container"`
	Config    engine.Config     `json:"config"`
	Result    *model.NestResult `json:"result,omitempty"`
}

// New returns an empty project with the default search configuration.
func New(name string) Project {
	return Project{
		Version: FormatVersion,
		Name:    name,
		Config:  engine.DefaultConfig(),
	}
}

// DefaultProjectDir returns the directory where projects are stored.
// On all platforms this is ~/.svgnest/
func DefaultProjectDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".svgnest")
}

// DefaultProjectPath returns the default path for the last-used project file.
func DefaultProjectPath() string {
	return filepath.Join(DefaultProjectDir(), "project.json")
}

// Save persists the project to the given path as JSON, creating any missing
// parent directories.
func Save(path string, p Project) error {
	if p.Version == "" {
		p.Version = FormatVersion
	}
	p.SavedAt = time.Now().UTC().Format(time.RFC3339)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project from the given path. A missing file is an error; use
// LoadOrCreate for first-run behavior.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Version == "" {
		return Project{}, fmt.Errorf("invalid project file: missing version field")
	}
	if p.Parts == nil {
		p.Parts = []model.Part{}
	}
	return p, nil
}

// LoadOrCreate loads the project at the default path, creating a fresh one
// if none exists yet. An existing file goes through the same validation as
// Load, so a corrupt file is an error rather than a silent reset.
func LoadOrCreate(name string) (Project, string, error) {
	path := DefaultProjectPath()
	p, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		p = New(name)
		if saveErr := Save(path, p); saveErr != nil {
			return p, path, saveErr
		}
		return p, path, nil
	}
	if err != nil {
		return Project{}, path, err
	}
	return p, path, nil
}
