// Package workspace discovers pubspec projects under workspace roots and
// tracks their manifests for changes.
package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
)

// skipDirs are directory names never descended into during a scan, on top
// of hidden directories. build/ holds generated output, .dart_tool and
// .pub-cache are tool state.
var skipDirs = map[string]bool{
	"build": true,
}

// Scan walks every root concurrently and returns one Project per
// pubspec.yaml found, sorted by path. Roots that do not exist are skipped;
// unreadable manifests yield a project named after the directory.
func Scan(ctx context.Context, roots []string) ([]*core.Project, error) {
	var mu sync.Mutex
	var projects []*core.Project

	g, ctx := errgroup.WithContext(ctx)

	for _, root := range roots {
		g.Go(func() error {
			found, err := scanRoot(ctx, root)
			if err != nil {
				return err
			}
			mu.Lock()
			projects = append(projects, found...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Path < projects[j].Path
	})
	return projects, nil
}

func scanRoot(ctx context.Context, root string) ([]*core.Project, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil
	}

	var found []*core.Project

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != manifest.Filename {
			return nil
		}

		dir := filepath.Dir(path)
		project := &core.Project{
			Name:         filepath.Base(dir),
			Path:         dir,
			ManifestPath: path,
		}
		if m, err := manifest.Load(dir); err == nil {
			if name := m.Name(); name != "" {
				project.Name = name
			}
			project.Dependencies = m.Dependencies()
		}
		found = append(found, project)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Refresh re-parses the project's manifest and replaces its dependency list
// wholesale. Derived fields (outdated, latest) reset until the engine runs.
func Refresh(project *core.Project) error {
	m, err := manifest.Load(project.Path)
	if err != nil {
		return err
	}
	if name := m.Name(); name != "" {
		project.Name = name
	}
	project.ManifestPath = m.Path()
	project.Dependencies = m.Dependencies()
	return nil
}
