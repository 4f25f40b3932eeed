package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, root, rel, name string) string {
	t.Helper()

	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	content := "name: " + name + "\ndependencies:\n  http: ^1.0.0\n"
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "demo_app")
	writeProject(t, root, "packages/shared", "shared_lib")

	// Manifests under skipped directories are invisible.
	writeProject(t, root, "app/build", "generated")
	writeProject(t, root, "app/.dart_tool", "tool_state")

	projects, err := Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2: %+v", len(projects), projects)
	}

	// Sorted by path: app before packages/shared.
	if projects[0].Name != "demo_app" {
		t.Errorf("projects[0] = %q, want demo_app", projects[0].Name)
	}
	if projects[1].Name != "shared_lib" {
		t.Errorf("projects[1] = %q, want shared_lib", projects[1].Name)
	}

	if len(projects[0].Dependencies) != 1 || projects[0].Dependencies[0].Name != "http" {
		t.Errorf("dependencies not read: %+v", projects[0].Dependencies)
	}
}

func TestScan_MultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeProject(t, rootA, "one", "one")
	writeProject(t, rootB, "two", "two")

	projects, err := Scan(context.Background(), []string{rootA, rootB, filepath.Join(rootA, "missing")})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("got %d projects, want 2", len(projects))
	}
}

func TestScan_EmptyRoot(t *testing.T) {
	projects, err := Scan(context.Background(), []string{t.TempDir()})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("got %d projects in empty root", len(projects))
	}
}

func TestRefresh_ReplacesDependencies(t *testing.T) {
	root := t.TempDir()
	dir := writeProject(t, root, "app", "demo_app")

	projects, err := Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	project := projects[0]

	updated := "name: demo_app\ndependencies:\n  dio: ^5.0.0\n  collection: ^1.18.0\n"
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(updated), 0o644); err != nil {
		t.Fatalf("rewriting manifest: %v", err)
	}

	if err := Refresh(project); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(project.Dependencies) != 2 {
		t.Fatalf("got %d dependencies after refresh, want 2", len(project.Dependencies))
	}
	for _, d := range project.Dependencies {
		if d.Name == "http" {
			t.Error("stale dependency survived refresh")
		}
	}
}
