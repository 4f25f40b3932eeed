package conflict

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
)

func TestStaticDetector_ConstantOutput(t *testing.T) {
	d := StaticDetector{}

	first, err := d.Detect(context.Background(), "/some/project")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	second, err := d.Detect(context.Background(), "/another/project")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(first) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("detector output varies with input; the placeholder must be constant")
	}
	if first[0].Suggested == "" {
		t.Error("placeholder conflict has no suggested version")
	}
}

func TestAdvisor_Apply(t *testing.T) {
	dir := t.TempDir()
	content := `name: demo_app
dependencies:
  http: ^0.13.0
dev_dependencies:
  test: ^1.24.0
`
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	a := NewAdvisor(nil)
	conflicts, err := a.Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if err := a.Apply(dir, conflicts[0]); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	dep, ok := m.Lookup("http")
	if !ok {
		t.Fatal("http missing after Apply")
	}
	if dep.Constraint != "^1.2.0" {
		t.Errorf("constraint = %q, want ^1.2.0", dep.Constraint)
	}
	if dep.Dev {
		t.Error("http moved to dev_dependencies")
	}
}

func TestAdvisor_Apply_KeepsDevSection(t *testing.T) {
	dir := t.TempDir()
	content := `name: demo_app
dev_dependencies:
  mockito: ^5.0.0
`
	if err := os.WriteFile(filepath.Join(dir, "pubspec.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	a := NewAdvisor(nil)
	c := core.Conflict{Package: "mockito", Declared: "^5.0.0", Suggested: "5.5.0"}
	if err := a.Apply(dir, c); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	dep, ok := m.Lookup("mockito")
	if !ok || !dep.Dev {
		t.Error("dev entry lost its section")
	}
	if dep.Constraint != "^5.5.0" {
		t.Errorf("constraint = %q, want ^5.5.0", dep.Constraint)
	}
}

func TestRecoveryOptions(t *testing.T) {
	a := NewAdvisor(nil)

	opts := a.RecoveryOptions(errors.New("pub get exited with code 1"))
	if len(opts) != 3 {
		t.Fatalf("got %d options, want 3", len(opts))
	}
	if opts[0].Action != ActionRetryFetch {
		t.Errorf("first option = %v, want retry", opts[0].Action)
	}
	for _, o := range opts {
		if o.Label == "" {
			t.Error("option with empty label")
		}
	}
}
