package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/ui"
	"github.com/pubspec-tools/pubassist/internal/workspace"
)

var projectsCmd = &cobra.Command{
	Use:   "projects [roots...]",
	Short: "List Dart and Flutter projects under the given roots",
	Long: `Walk the given directories (the current directory by default) and
list every project owning a pubspec.yaml. Hidden directories and common
build output are skipped.

Examples:
  pubassist projects
  pubassist projects ~/dev ~/work`,
	RunE: runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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
		ui.InfoMsg("No projects found")
		return nil
	}

	ui.PrintProjects(found)
	ui.MutedMsg("%d project(s)", len(found))
	return nil
}
