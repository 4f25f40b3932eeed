package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pubspec-tools/pubassist/internal/core"
)

// fakeRegistry serves canned latest versions; names absent from the map fail.
type fakeRegistry struct {
	latest       map[string]string
	descriptions map[string]string
}

func (f *fakeRegistry) LatestVersion(ctx context.Context, name string) (string, error) {
	v, ok := f.latest[name]
	if !ok {
		return "", errors.New("registry unavailable")
	}
	return v, nil
}

func (f *fakeRegistry) Details(ctx context.Context, name string) (*core.PackageDetails, error) {
	v, ok := f.latest[name]
	if !ok {
		return nil, errors.New("registry unavailable")
	}
	return &core.PackageDetails{
		Name:    name,
		Latest:  v,
		Pubspec: core.PubspecInfo{Description: f.descriptions[name]},
	}, nil
}

func TestCheckForUpdates(t *testing.T) {
	reg := &fakeRegistry{latest: map[string]string{
		"pkg_a": "1.2.0",
		"pkg_b": "2.0.0",
		"pkg_c": "0.9.0",
	}}
	e := New(reg)

	updates := e.CheckForUpdates(context.Background(), map[string]string{
		"pkg_a": "^1.0.0", // behind
		"pkg_b": "^2.0.0", // current
		"pkg_c": "^1.0.0", // declared ahead of registry
	})

	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1: %v", len(updates), updates)
	}
	if updates["pkg_a"] != "1.2.0" {
		t.Errorf("pkg_a update = %q, want 1.2.0", updates["pkg_a"])
	}
}

func TestCheckForUpdates_SkipsFailedLookups(t *testing.T) {
	reg := &fakeRegistry{latest: map[string]string{
		"alive": "2.0.0",
	}}
	e := New(reg)

	updates := e.CheckForUpdates(context.Background(), map[string]string{
		"alive": "^1.0.0",
		"gone":  "^1.0.0",
	})

	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1: %v", len(updates), updates)
	}
	if _, ok := updates["gone"]; ok {
		t.Error("failed lookup produced an update entry")
	}
}

func TestCheckForUpdates_Empty(t *testing.T) {
	e := New(&fakeRegistry{})

	updates := e.CheckForUpdates(context.Background(), nil)
	if len(updates) != 0 {
		t.Errorf("got %d updates for empty input", len(updates))
	}
}

func TestCheckForUpdates_CancelledContext(t *testing.T) {
	reg := &fakeRegistry{latest: map[string]string{"pkg_a": "9.9.9"}}
	e := New(reg, WithConcurrency(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	updates := e.CheckForUpdates(ctx, map[string]string{"pkg_a": "^1.0.0"})
	if len(updates) != 0 {
		t.Errorf("cancelled check still produced updates: %v", updates)
	}
}

func TestRefresh(t *testing.T) {
	dir := t.TempDir()
	content := `name: demo_app
dependencies:
  pkg_a: ^1.0.0
  pkg_b: ^2.0.0
dev_dependencies:
  pkg_t: ^1.0.0
`
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	reg := &fakeRegistry{
		latest: map[string]string{
			"pkg_a": "1.2.0",
			"pkg_b": "2.0.0",
			"pkg_t": "1.5.0",
		},
		descriptions: map[string]string{
			"pkg_a": "package a",
		},
	}
	e := New(reg)

	project := &core.Project{Path: dir}
	if err := e.Refresh(context.Background(), project); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if project.Name != "demo_app" {
		t.Errorf("project name = %q, want demo_app", project.Name)
	}
	if len(project.Dependencies) != 3 {
		t.Fatalf("got %d dependencies, want 3", len(project.Dependencies))
	}

	byName := make(map[string]core.DependencyInfo)
	for _, d := range project.Dependencies {
		byName[d.Name] = d
	}

	a := byName["pkg_a"]
	if !a.Outdated || a.Latest != "1.2.0" {
		t.Errorf("pkg_a state = outdated:%v latest:%q, want outdated 1.2.0", a.Outdated, a.Latest)
	}
	if a.Description != "package a" {
		t.Errorf("pkg_a description = %q", a.Description)
	}

	if byName["pkg_b"].Outdated {
		t.Error("pkg_b flagged outdated while current")
	}
	if !byName["pkg_t"].Dev {
		t.Error("pkg_t lost its dev flag")
	}
	if !byName["pkg_t"].Outdated {
		t.Error("pkg_t not flagged outdated")
	}
}

func TestRefresh_ManifestError(t *testing.T) {
	e := New(&fakeRegistry{})

	project := &core.Project{Path: t.TempDir()}
	if err := e.Refresh(context.Background(), project); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
