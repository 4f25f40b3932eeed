// Package engine derives version state for declared dependencies: which are
// outdated and what the registry's newest versions are.
package engine

import (
	"context"
	"sync"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/version"
)

const defaultConcurrency = 15

// Registry is the registry surface the engine consumes.
type Registry interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	Details(ctx context.Context, name string) (*core.PackageDetails, error)
}

// Engine checks declared constraints against the registry.
type Engine struct {
	registry    Registry
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds the registry lookups in flight at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// New builds an engine over the given registry.
func New(reg Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:    reg,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckForUpdates looks up the latest version for every declared name in
// parallel and returns the names whose constraint is outdated, mapped to the
// newer version. Lookups that fail are skipped; a name missing from the
// result means up to date or unknown.
func (e *Engine) CheckForUpdates(ctx context.Context, declared map[string]string) map[string]string {
	updates := make(map[string]string)
	var mu sync.Mutex
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for name, constraint := range declared {
		wg.Add(1)
		go func(name, constraint string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			latest, err := e.registry.LatestVersion(ctx, name)
			if err != nil || latest == "" {
				return
			}
			if version.IsOutdated(constraint, latest) {
				mu.Lock()
				updates[name] = latest
				mu.Unlock()
			}
		}(name, constraint)
	}

	wg.Wait()
	return updates
}

// Refresh re-parses the project's manifest and replaces its dependency list
// wholesale, with Outdated, Latest, and Description attached from the
// registry. Per-dependency lookup failures leave that entry unflagged.
func (e *Engine) Refresh(ctx context.Context, project *core.Project) error {
	m, err := manifest.Load(project.Path)
	if err != nil {
		return err
	}
	if name := m.Name(); name != "" {
		project.Name = name
	}
	project.ManifestPath = m.Path()

	deps := m.Dependencies()

	type detail struct {
		latest      string
		description string
	}
	slots := make([]*detail, len(deps))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, dep := range deps {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			d, err := e.registry.Details(ctx, name)
			if err != nil || d == nil {
				return
			}
			slots[i] = &detail{latest: d.Latest, description: d.Pubspec.Description}
		}(i, dep.Name)
	}
	wg.Wait()

	for i := range deps {
		if slots[i] == nil {
			continue
		}
		deps[i].Latest = slots[i].latest
		deps[i].Description = slots[i].description
		deps[i].Outdated = version.IsOutdated(deps[i].Constraint, slots[i].latest)
	}

	project.Dependencies = deps
	return nil
}
