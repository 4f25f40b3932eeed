package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/client"
	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/log"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <package>",
	Short: "Show package details and score",
	Long: `Show the registry record for a package: description, score data,
SDK constraints, recent versions and its registry links.

Examples:
  pubassist info http
  pubassist info provider`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	var (
		pkg     *core.Package
		details *core.PackageDetails
	)
	err := ui.WithSpinner("Fetching "+name+"...", func() error {
		var ierr error
		pkg, ierr = reg.Info(ctx, name)
		if ierr != nil {
			return ierr
		}
		details, ierr = reg.Details(ctx, name)
		return ierr
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			ui.ErrorMsg("Package %s not found on %s", name, reg.BaseURL())
			return nil
		}
		log.Warn("info %s failed: %v", name, err)
		ui.ErrorMsg("Registry unavailable: %v", err)
		return nil
	}

	ui.PrintPackageInfo(pkg, details)
	printLinks(name, details.Latest)
	return nil
}

func printLinks(name, version string) {
	urls := client.BuildURLs(reg.URLs(), name, version)

	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ui.HeaderMsg("Links")
	for _, k := range keys {
		fmt.Printf("  %s: %s\n", ui.Cyan(k), urls[k])
	}
}
