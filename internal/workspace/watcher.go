package workspace

import (
	"os"
	"sync"
	"time"

	"github.com/pubspec-tools/pubassist/internal/core"
)

// EventKind classifies a manifest change.
type EventKind int

const (
	// Changed means the manifest's mtime moved; the project should be
	// refreshed.
	Changed EventKind = iota
	// Removed means the manifest disappeared; the project should be
	// dropped. A removed project is no longer watched.
	Removed
)

func (k EventKind) String() string {
	if k == Removed {
		return "removed"
	}
	return "changed"
}

// Event is one observed manifest change.
type Event struct {
	Project *core.Project
	Kind    EventKind
}

// Watcher polls project manifests by mtime and delivers Events on a
// channel. It uses no filesystem notification API, so it works the same
// on every platform at the cost of the polling interval's latency.
type Watcher struct {
	mu       sync.Mutex
	projects map[string]*core.Project // keyed by manifest path
	mtimes   map[string]time.Time
	interval time.Duration
	events   chan Event
	stopCh   chan struct{}
	running  bool
	stopOnce sync.Once
}

// NewWatcher builds a watcher over the given projects with a 2s interval.
func NewWatcher(projects []*core.Project) *Watcher {
	w := &Watcher{
		projects: make(map[string]*core.Project, len(projects)),
		mtimes:   make(map[string]time.Time, len(projects)),
		interval: 2 * time.Second,
		events:   make(chan Event, 8),
		stopCh:   make(chan struct{}),
	}
	for _, p := range projects {
		w.projects[p.ManifestPath] = p
	}
	return w
}

// SetInterval overrides the polling interval. Call before Start.
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.interval = d
	}
}

// Events returns the channel change events arrive on. The channel closes
// after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling in a goroutine. Subsequent calls are no-ops.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.snapshotLocked()
	w.mu.Unlock()

	go w.loop()
}

// Stop halts polling and closes the event channel. Safe to call more than
// once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.stopCh)
	})
}

func (w *Watcher) loop() {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(w.events)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			for _, ev := range w.check() {
				select {
				case w.events <- ev:
				case <-w.stopCh:
					return
				}
			}
		}
	}
}

// check compares manifest mtimes against the snapshot and returns the
// resulting events. Removed projects leave the watch set.
func (w *Watcher) check() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	var events []Event
	for path, project := range w.projects {
		info, err := os.Stat(path)
		if err != nil {
			events = append(events, Event{Project: project, Kind: Removed})
			delete(w.projects, path)
			delete(w.mtimes, path)
			continue
		}

		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			events = append(events, Event{Project: project, Kind: Changed})
			w.mtimes[path] = info.ModTime()
		}
	}
	return events
}

// snapshotLocked records current mtimes. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for path := range w.projects {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
