package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `name: demo_app
description: A demo application. # keep this comment
version: 1.0.0

environment:
  sdk: ">=3.0.0 <4.0.0"

dependencies:
  flutter:
    sdk: flutter
  http: ^1.0.0
  provider: ^6.0.0

dev_dependencies:
  test: ^1.24.0
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Name() != "demo_app" {
		t.Errorf("Name() = %q, want demo_app", m.Name())
	}
	if !m.UsesFlutter() {
		t.Error("UsesFlutter() = false for a flutter project")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := writeManifest(t, "name: [unclosed\n  dependencies:\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestDependencies_SkipsNonStringEntries(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	deps := m.Dependencies()

	// flutter's sdk map entry is skipped; http, provider, test remain.
	if len(deps) != 3 {
		t.Fatalf("got %d dependencies, want 3: %+v", len(deps), deps)
	}

	byName := make(map[string]string)
	devFlags := make(map[string]bool)
	for _, d := range deps {
		byName[d.Name] = d.Constraint
		devFlags[d.Name] = d.Dev
	}

	if _, ok := byName["flutter"]; ok {
		t.Error("sdk-sourced flutter entry should be skipped")
	}
	if byName["http"] != "^1.0.0" {
		t.Errorf("http constraint = %q, want ^1.0.0", byName["http"])
	}
	if devFlags["http"] {
		t.Error("http flagged as dev dependency")
	}
	if !devFlags["test"] {
		t.Error("test not flagged as dev dependency")
	}
}

func TestAddDependency_CoercesToCaret(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"bare version", "1.0.0", "^1.0.0"},
		{"caret kept", "^1.0.0", "^1.0.0"},
		{"tilde rewritten", "~1.0.0", "^1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeManifest(t, sampleManifest)

			if err := AddDependency(dir, "dio", tt.requested, false); err != nil {
				t.Fatalf("AddDependency failed: %v", err)
			}

			m, err := Load(dir)
			if err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			dep, ok := m.Lookup("dio")
			if !ok {
				t.Fatal("dio not found after add")
			}
			if dep.Constraint != tt.want {
				t.Errorf("constraint = %q, want %q", dep.Constraint, tt.want)
			}
		})
	}
}

func TestAddDependency_PreservesCommentsAndOrder(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	if err := AddDependency(dir, "collection", "1.18.0", false); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	text := string(raw)

	if !strings.Contains(text, "# keep this comment") {
		t.Error("comment lost on rewrite")
	}
	if !strings.Contains(text, "collection: ^1.18.0") {
		t.Errorf("new entry missing:\n%s", text)
	}

	// name stays the first key.
	if !strings.HasPrefix(text, "name: demo_app") {
		t.Errorf("key order changed:\n%s", text)
	}

	// Unrelated entries survive untouched.
	for _, want := range []string{"http: ^1.0.0", "provider: ^6.0.0", "test: ^1.24.0", "sdk: flutter"} {
		if !strings.Contains(text, want) {
			t.Errorf("lost %q on rewrite:\n%s", want, text)
		}
	}
}

func TestAddDependency_CreatesSection(t *testing.T) {
	dir := writeManifest(t, "name: bare_app\nversion: 0.1.0\n")

	if err := AddDependency(dir, "lints", "3.0.0", true); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	dep, ok := m.Lookup("lints")
	if !ok {
		t.Fatal("lints not found after add")
	}
	if !dep.Dev {
		t.Error("lints not in dev_dependencies")
	}
}

func TestSetDependency_EmptySectionBecomesMap(t *testing.T) {
	dir := writeManifest(t, "name: empty_sections\ndependencies:\n")

	if err := AddDependency(dir, "http", "1.0.0", false); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, ok := m.Lookup("http"); !ok {
		t.Fatal("http not found after add into empty section")
	}
}

func TestUpdateDependency_Overwrites(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	if err := UpdateDependency(dir, "http", "1.2.0", false); err != nil {
		t.Fatalf("UpdateDependency failed: %v", err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	dep, _ := m.Lookup("http")
	if dep.Constraint != "^1.2.0" {
		t.Errorf("constraint = %q, want ^1.2.0", dep.Constraint)
	}

	// Still one http entry.
	count := 0
	for _, d := range m.Dependencies() {
		if d.Name == "http" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("http declared %d times, want 1", count)
	}
}

func TestRemoveDependency(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	removed, err := RemoveDependency(dir, "provider", false)
	if err != nil {
		t.Fatalf("RemoveDependency failed: %v", err)
	}
	if !removed {
		t.Fatal("expected provider to be removed")
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, ok := m.Lookup("provider"); ok {
		t.Error("provider still present after remove")
	}
}

func TestRemoveDependency_MissingIsNotAnError(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	before, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}

	removed, err := RemoveDependency(dir, "no_such_pkg", false)
	if err != nil {
		t.Fatalf("RemoveDependency errored on missing key: %v", err)
	}
	if removed {
		t.Error("reported removal of a missing key")
	}

	// The file is untouched when nothing changed.
	after, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if string(before) != string(after) {
		t.Error("manifest rewritten despite no change")
	}
}

func TestRemoveDependency_WrongSection(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	// test lives in dev_dependencies; removing from dependencies is a miss.
	removed, err := RemoveDependency(dir, "test", false)
	if err != nil {
		t.Fatalf("RemoveDependency failed: %v", err)
	}
	if removed {
		t.Error("removed test from the wrong section")
	}
}

func TestSave_LeavesNoTempFile(t *testing.T) {
	dir := writeManifest(t, sampleManifest)

	if err := AddDependency(dir, "args", "2.4.2", false); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, Filename+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
