package workspace

import (
	"context"
	"os"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()

	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("event channel closed while waiting")
		}
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
	return Event{}
}

func TestWatcher_ChangedAndRemoved(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "demo_app")

	projects, err := Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	w := NewWatcher(projects)
	w.SetInterval(10 * time.Millisecond)
	w.Start()
	defer w.Stop()

	// Bump the manifest's mtime well past the snapshot.
	manifestPath := projects[0].ManifestPath
	future := time.Now().Add(10 * time.Second)
	if err := os.Chtimes(manifestPath, future, future); err != nil {
		t.Fatalf("bumping mtime: %v", err)
	}

	ev := waitEvent(t, w)
	if ev.Kind != Changed {
		t.Fatalf("first event = %v, want Changed", ev.Kind)
	}
	if ev.Project.Name != "demo_app" {
		t.Errorf("event project = %q, want demo_app", ev.Project.Name)
	}

	if err := os.Remove(manifestPath); err != nil {
		t.Fatalf("removing manifest: %v", err)
	}

	ev = waitEvent(t, w)
	if ev.Kind != Removed {
		t.Fatalf("second event = %v, want Removed", ev.Kind)
	}
}

func TestWatcher_StopClosesEvents(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "demo_app")

	projects, err := Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	w := NewWatcher(projects)
	w.SetInterval(10 * time.Millisecond)
	w.Start()
	w.Stop()

	select {
	case _, ok := <-w.Events():
		if ok {
			// A tick may have slipped in before Stop; the channel must
			// still close afterwards.
			if _, ok := <-w.Events(); ok {
				t.Fatal("events channel did not close after Stop")
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("events channel did not close after Stop")
	}
}

func TestWatcher_QuietFileEmitsNothing(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "app", "demo_app")

	projects, err := Scan(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	w := NewWatcher(projects)
	w.SetInterval(10 * time.Millisecond)
	w.Start()
	defer w.Stop()

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for untouched manifest: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
