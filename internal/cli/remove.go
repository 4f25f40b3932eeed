package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var removeDev bool

var removeCmd = &cobra.Command{
	Use:     "remove <package>",
	Aliases: []string{"rm"},
	Short:   "Remove a dependency from pubspec.yaml",
	Long: `Remove a package from the manifest. Removing a package that is
not declared is a warning, not an error.

Examples:
  pubassist remove http
  pubassist remove lints --dev`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeDev, "dev", "d", false, "remove from dev_dependencies")
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	removed, err := manifest.RemoveDependency(projectDir, name, removeDev)
	if err != nil {
		return err
	}
	if !removed {
		ui.WarningMsg("%s is not declared in %s", name, manifestSection(removeDev))
		return nil
	}
	ui.SuccessMsg("Removed %s from %s", name, manifestSection(removeDev))

	maybePubGet(ctx)
	return nil
}
