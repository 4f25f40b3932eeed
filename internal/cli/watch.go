package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/log"
	"github.com/pubspec-tools/pubassist/internal/ui"
	"github.com/pubspec-tools/pubassist/internal/workspace"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [roots...]",
	Short: "Watch manifests and re-check dependencies on change",
	Long: `Scan the given roots for projects, then poll their manifests.
Whenever a pubspec.yaml changes, its project is refreshed against the
registry and outdated dependencies are reported. Runs until interrupted.

Examples:
  pubassist watch
  pubassist watch ~/dev --interval 10s`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "manifest polling interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var found []*core.Project
	err := ui.WithSpinner("Scanning for projects...", func() error {
		var serr error
		found, serr = workspace.Scan(ctx, roots)
		return serr
	})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		ui.InfoMsg("No projects found under %v", roots)
		return nil
	}

	watcher := workspace.NewWatcher(found)
	watcher.SetInterval(watchInterval)
	watcher.Start()
	defer watcher.Stop()

	ui.InfoMsg("Watching %d project(s), polling every %s. Ctrl-C to stop.", len(found), watchInterval)

	for {
		select {
		case <-ctx.Done():
			ui.Println("")
			ui.InfoMsg("Stopped watching")
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			handleWatchEvent(ctx, ev)
		}
	}
}

func handleWatchEvent(ctx context.Context, ev workspace.Event) {
	switch ev.Kind {
	case workspace.Removed:
		ui.WarningMsg("%s removed, no longer watching %s", ev.Project.ManifestPath, ev.Project.Name)
	case workspace.Changed:
		ui.InfoMsg("%s changed", ev.Project.ManifestPath)
		if err := eng.Refresh(ctx, ev.Project); err != nil {
			log.Warn("refresh %s: %v", ev.Project.Name, err)
			ui.WarningMsg("Could not refresh %s: %v", ev.Project.Name, err)
			return
		}
		ui.PrintOutdated(ev.Project.Dependencies)
	}
}
