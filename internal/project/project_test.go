package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soumyadeepsahu/SVGnest/internal/engine"
	"github.com/soumyadeepsahu/SVGnest/internal/geom"
	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

func buildTestProject() Project {
	p := New("bench parts")
	p.Parts = []model.Part{
		model.NewPart("Side Panel", geom.Polygon{
			{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 60}, {X: 0, Y: 60},
		}, 2),
	}
	p.Container = model.NewContainerSheet(500, 300, "mm")
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "project.json")
	original := buildTestProject()

	if err := Save(path, original); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if loaded.Name != "bench parts" {
		t.Errorf("name = %q, want %q", loaded.Name, "bench parts")
	}
	if loaded.Version != FormatVersion {
		t.Errorf("version = %q, want %q", loaded.Version, FormatVersion)
	}
	if loaded.SavedAt == "" {
		t.Error("SavedAt not set on save")
	}
	if len(loaded.Parts) != 1 || loaded.Parts[0].Quantity != 2 {
		t.Errorf("parts not preserved: %+v", loaded.Parts)
	}
	if len(loaded.Parts[0].Outline) != 4 {
		t.Errorf("outline not preserved: %v", loaded.Parts[0].Outline)
	}
	if loaded.Container.Width != 500 {
		t.Errorf("container width = %v, want 500", loaded.Container.Width)
	}
	if loaded.Config != engine.DefaultConfig() {
		t.Errorf("config not preserved: %+v", loaded.Config)
	}
}

func TestSavePreservesResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	p := buildTestProject()
	p.Result = &model.NestResult{
		Fitness:         6000,
		Utilization:     4,
		TotalInstances:  2,
		PlacedInstances: 2,
	}

	if err := Save(path, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Result == nil || loaded.Result.Fitness != 6000 {
		t.Errorf("result not preserved: %+v", loaded.Result)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(`{"name":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for file without version")
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadNormalizesNilParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(`{"version":"1.0.0","name":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Parts == nil {
		t.Error("Parts should never be nil after Load")
	}
}

func TestNewDefaults(t *testing.T) {
	p := New("fresh")
	if p.Version != FormatVersion {
		t.Errorf("version = %q", p.Version)
	}
	if p.Config != engine.DefaultConfig() {
		t.Errorf("expected default config, got %+v", p.Config)
	}
}

func TestLoadOrCreateCreatesFreshProject(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, path, err := LoadOrCreate("fresh")
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if p.Name != "fresh" || p.Version != FormatVersion {
		t.Errorf("unexpected fresh project: %+v", p)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("project file was not created: %v", err)
	}

	// A second call loads the saved file instead of recreating it.
	again, _, err := LoadOrCreate("other")
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if again.Name != "fresh" {
		t.Errorf("expected the saved project back, got %q", again.Name)
	}
}

func TestLoadOrCreateRejectsCorruptFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := DefaultProjectPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	// Parseable but missing the version field.
	if err := os.WriteFile(path, []byte(`{"name":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadOrCreate("fresh"); err == nil {
		t.Fatal("expected error for a project file without a version")
	}
}
