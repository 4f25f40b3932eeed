package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/log"
	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/pub"
	"github.com/pubspec-tools/pubassist/internal/ui"
	"github.com/pubspec-tools/pubassist/internal/version"
)

var (
	searchPage    int
	searchLimit   int
	searchMode    string
	searchInstall bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search pub.dev for packages",
	Long: `Search the package registry and print the results with their
score data. Results can be filtered to packages supporting a single SDK.

Examples:
  pubassist search http                 # Search everything
  pubassist search state -m flutter     # Only Flutter-compatible packages
  pubassist search json -p 2            # Second page of results
  pubassist search dio --install        # Pick a result and add it`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "result page to fetch")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "max results (overrides the configured cap)")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "", "SDK filter: all, dart or flutter")
	searchCmd.Flags().BoolVarP(&searchInstall, "install", "i", false, "offer to add a result to pubspec.yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	mode := cfg.Mode()
	if searchMode != "" {
		m, ok := core.ParseSearchMode(searchMode)
		if !ok {
			ui.WarningMsg("Unknown mode %q, searching all packages", searchMode)
		}
		mode = m
	}

	query := pub.ApplyMode(args[0], mode)

	target := reg
	if searchLimit > 0 {
		target = pub.New(cfg.Registry.BaseURL, httpClient,
			pub.WithCache(appCache),
			pub.WithMaxResults(searchLimit),
		)
	}

	var packages []core.Package
	err := ui.WithSpinner("Searching "+target.BaseURL()+"...", func() error {
		var serr error
		packages, serr = target.Search(ctx, query, searchPage)
		return serr
	})
	if err != nil {
		// Registry trouble degrades to an empty result set.
		log.Warn("search %q failed: %v", query, err)
		ui.ErrorMsg("Registry unavailable: %v", err)
		return nil
	}

	if len(packages) == 0 {
		ui.InfoMsg("No packages found for %q", args[0])
		return nil
	}

	ui.PrintPackages(packages)

	if !searchInstall {
		return nil
	}
	return installFromResults(ctx, packages)
}

// installFromResults lets the user pick one search result and writes it
// into the manifest with a constraint of their choosing.
func installFromResults(ctx context.Context, packages []core.Package) error {
	pkg, err := ui.SelectPackage(packages, "Add which package?")
	if err != nil {
		return nil
	}

	constraint, err := ui.ChooseConstraint(pkg.Latest)
	if err != nil {
		return nil
	}

	dev, err := ui.Confirm("Add to dev_dependencies?", false)
	if err != nil {
		return err
	}

	if err := manifest.AddDependency(projectDir, pkg.Name, constraint, dev); err != nil {
		return err
	}
	ui.SuccessMsg("Added %s %s to %s", pkg.Name, version.NormalizeConstraint(constraint), manifestSection(dev))

	maybePubGet(ctx)
	return nil
}

func manifestSection(dev bool) string {
	if dev {
		return "dev_dependencies"
	}
	return "dependencies"
}
