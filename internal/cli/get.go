package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/pubget"
)

var (
	getTool   string
	getDryRun bool
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Run pub get for the project",
	Long: `Run the SDK's dependency fetch for the project. The flutter tool
is used when the manifest depends on the Flutter SDK, dart otherwise. On
failure a list of recovery options is offered; nothing runs without being
chosen.

Examples:
  pubassist get
  pubassist get --tool fvm           # Run through a version manager
  pubassist get --dry-run            # Print the command only`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&getTool, "tool", "", "tool binary to run instead of flutter/dart")
	getCmd.Flags().BoolVarP(&getDryRun, "dry-run", "n", false, "print the command without running it")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project, err := loadProject()
	if err != nil {
		return err
	}

	var opts []pubget.Option
	if getTool != "" {
		opts = append(opts, pubget.WithTool(getTool))
	}
	if getDryRun {
		opts = append(opts, pubget.WithDryRun(true))
	}
	if cfg.Output.Verbose {
		opts = append(opts, pubget.WithVerbose(true))
	}
	if len(opts) > 0 {
		runner = pubget.New(opts...)
	}

	if getDryRun {
		return runner.Run(ctx, project)
	}

	return fetchDependencies(ctx, project)
}
