package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/ui"
	"github.com/pubspec-tools/pubassist/internal/version"
)

var addDev bool

var addCmd = &cobra.Command{
	Use:   "add <package> [version]",
	Short: "Add a dependency to pubspec.yaml",
	Long: `Add a package to the manifest. Without an explicit version the
latest published version is looked up and written as a caret constraint.
After the write, pub get runs unless disabled in config or by --skip-get.

Examples:
  pubassist add http                 # ^latest
  pubassist add provider 6.1.0       # ^6.1.0
  pubassist add lints --dev          # dev_dependencies section`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&addDev, "dev", "d", false, "add to dev_dependencies")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	ver := ""
	if len(args) == 2 {
		ver = args[1]
	} else {
		err := ui.WithSpinner("Resolving latest version of "+name+"...", func() error {
			var rerr error
			ver, rerr = reg.LatestVersion(ctx, name)
			return rerr
		})
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				ui.ErrorMsg("Package %s not found on %s", name, reg.BaseURL())
				return nil
			}
			return err
		}
		if ver == "" {
			ui.ErrorMsg("%s has no published versions", name)
			return nil
		}
	}

	if err := manifest.AddDependency(projectDir, name, ver, addDev); err != nil {
		return err
	}
	ui.SuccessMsg("Added %s %s to %s", name, version.NormalizeConstraint(ver), manifestSection(addDev))

	maybePubGet(ctx)
	return nil
}
