package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/ui"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List dependencies with newer published versions",
	Long: `Compare every declared constraint against the latest version on
the registry and print the ones that are behind. Dependencies the registry
cannot answer for are treated as current.`,
	Args: cobra.NoArgs,
	RunE: runOutdated,
}

func runOutdated(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

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

	if n := ui.PrintOutdated(project.Dependencies); n > 0 {
		ui.MutedMsg("Run 'pubassist update' to rewrite the constraints")
	}
	return nil
}
