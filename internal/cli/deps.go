package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/fetch"
	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var depsCmd = &cobra.Command{
	Use:   "deps [package[@version]]",
	Short: "List dependencies of the project or a published package",
	Long: `Without arguments, list the project's declared dependencies with
their latest published versions. With a package argument, list what that
published package itself requires.

Examples:
  pubassist deps                     # This project's dependencies
  pubassist deps dio                 # What dio's latest version requires
  pubassist deps http@0.13.6         # A specific published version`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		return printPackageDeps(ctx, args[0])
	}

	project, err := loadProject()
	if err != nil {
		return err
	}
	if len(project.Dependencies) == 0 {
		ui.InfoMsg("%s declares no dependencies", project.Name)
		return nil
	}

	err = ui.WithSpinner("Checking "+project.Name+"...", func() error {
		return eng.Refresh(ctx, project)
	})
	if err != nil {
		return err
	}

	ui.PrintDependencies(project.Dependencies)
	return nil
}

func printPackageDeps(ctx context.Context, spec string) error {
	name, ver, err := fetch.SplitSpec(spec)
	if err != nil {
		return err
	}

	var deps []core.Dependency
	err = ui.WithSpinner("Fetching "+name+"...", func() error {
		if ver == "" {
			var rerr error
			if ver, rerr = reg.LatestVersion(ctx, name); rerr != nil {
				return rerr
			}
		}
		var ferr error
		deps, ferr = reg.FetchDependencies(ctx, name, ver)
		return ferr
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			ui.ErrorMsg("Package %s not found on %s", name, reg.BaseURL())
			return nil
		}
		return err
	}

	if len(deps) == 0 {
		ui.InfoMsg("%s %s has no dependencies", name, ver)
		return nil
	}

	ui.HeaderMsg("%s %s dependencies", name, ver)
	table := ui.NewTable([]string{"PACKAGE", "REQUIREMENT", ""})
	for _, d := range deps {
		marker := ""
		if d.Dev {
			marker = "(dev)"
		}
		table.AddRow([]string{d.Name, d.Requirements, marker})
	}
	table.Render()
	return nil
}
