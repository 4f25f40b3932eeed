package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/ui"
)

var conflictsApply bool

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Report version conflicts between dependencies",
	Long: `Detect version conflicts between the project's declared
dependencies and print suggested resolutions. With --apply, each suggestion
is offered interactively and written to the manifest when accepted.

Examples:
  pubassist conflicts
  pubassist conflicts --apply`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	conflictsCmd.Flags().BoolVar(&conflictsApply, "apply", false, "offer to write suggested versions into the manifest")
}

func runConflicts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project, err := loadProject()
	if err != nil {
		return err
	}

	conflicts, err := advisor.Detect(ctx, project.Path)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		ui.SuccessMsg("No conflicts detected in %s", project.Name)
		return nil
	}

	ui.PrintConflicts(conflicts)

	if !conflictsApply {
		ui.MutedMsg("Run 'pubassist conflicts --apply' to write the suggestions")
		return nil
	}

	applied := 0
	for _, c := range conflicts {
		ok, perr := ui.Confirm("Pin "+c.Package+" to ^"+c.Suggested+"?", true)
		if perr != nil {
			return perr
		}
		if !ok {
			continue
		}
		if err := advisor.Apply(project.Path, c); err != nil {
			ui.ErrorMsg("Could not apply %s %s: %v", c.Package, c.Suggested, err)
			continue
		}
		ui.SuccessMsg("%s pinned to ^%s", c.Package, c.Suggested)
		applied++
	}

	if applied > 0 {
		maybePubGet(ctx)
	}
	return nil
}
