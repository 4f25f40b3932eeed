package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update [packages...]",
	Aliases: []string{"upgrade"},
	Short:   "Update declared constraints to the latest versions",
	Long: `Check declared dependencies against the registry and rewrite the
constraints of outdated ones to the latest published version. With package
arguments only those dependencies are considered.

Examples:
  pubassist update                   # Update everything outdated
  pubassist update http provider     # Update two packages`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project, err := loadProject()
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(args))
	for _, name := range args {
		wanted[name] = true
	}

	declared := make(map[string]string, len(project.Dependencies))
	devSection := make(map[string]bool, len(project.Dependencies))
	for _, dep := range project.Dependencies {
		if len(wanted) > 0 && !wanted[dep.Name] {
			continue
		}
		declared[dep.Name] = dep.Constraint
		devSection[dep.Name] = dep.Dev
		delete(wanted, dep.Name)
	}
	for name := range wanted {
		ui.WarningMsg("%s is not declared in %s", name, project.ManifestPath)
	}
	if len(declared) == 0 {
		ui.InfoMsg("Nothing to update")
		return nil
	}

	var updates map[string]string
	ui.WithSpinner("Checking for updates...", func() error {
		updates = eng.CheckForUpdates(ctx, declared)
		return nil
	})

	if len(updates) == 0 {
		ui.SuccessMsg("All dependencies are up to date")
		return nil
	}

	updated := 0
	for _, dep := range project.Dependencies {
		latest, ok := updates[dep.Name]
		if !ok {
			continue
		}
		if err := manifest.UpdateDependency(projectDir, dep.Name, latest, devSection[dep.Name]); err != nil {
			ui.ErrorMsg("Could not update %s: %v", dep.Name, err)
			continue
		}
		ui.InfoMsg("%s %s %s ^%s", dep.Name, dep.Constraint, ui.SymbolArrow, latest)
		updated++
	}

	if updated == 0 {
		return nil
	}
	ui.SuccessMsg("Updated %d of %d dependencies", updated, len(declared))

	maybePubGet(ctx)
	return nil
}
