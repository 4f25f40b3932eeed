// Package cli implements the command-line interface for pubassist.
package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/client"
	"github.com/pubspec-tools/pubassist/internal/cache"
	"github.com/pubspec-tools/pubassist/internal/config"
	"github.com/pubspec-tools/pubassist/internal/conflict"
	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/engine"
	"github.com/pubspec-tools/pubassist/internal/log"
	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/pub"
	"github.com/pubspec-tools/pubassist/internal/pubget"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var (
	// Global flags
	cfgFile    string
	projectDir string
	verbose    bool
	noColor    bool
	skipGet    bool

	// Global state
	cfg        *config.Config
	httpClient *client.Client
	reg        *pub.Registry
	eng        *engine.Engine
	appCache   *cache.Cache
	runner     *pubget.Runner
	advisor    *conflict.Advisor
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pubassist",
	Short: "Dependency assistant for Dart and Flutter projects",
	Long: `Pubassist keeps pubspec.yaml dependencies healthy. It searches
pub.dev, edits manifests without clobbering comments, checks declared
constraints against the latest published versions, and runs pub get
with recovery suggestions when resolution fails.

Examples:
  pubassist search http               # Search pub.dev
  pubassist add provider              # Add latest provider to pubspec.yaml
  pubassist outdated                  # Compare declared constraints to latest
  pubassist watch ~/dev               # Re-check projects as manifests change`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCache != nil {
			appCache.Close()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "directory", "C", ".", "project directory containing pubspec.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&skipGet, "skip-get", false, "do not run pub get after manifest changes")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(conflictsCmd)
	rootCmd.AddCommand(cacheCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initializeApp sets up the application state.
func initializeApp() error {
	// Load configuration
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if skipGet {
		cfg.Pub.AutoRunPubGet = false
	}

	// Initialize UI and logging
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)
	if cfg.Output.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	// A broken cache never blocks the registry; fall back to disabled.
	appCache = cache.Disabled()
	if cfg.Cache.Enabled {
		if err := config.EnsureDataDir(); err != nil {
			log.Warn("cache unavailable: %v", err)
		} else if store, err := cache.OpenBolt(config.CachePath()); err != nil {
			log.Warn("cache unavailable: %v", err)
		} else if c, err := cache.New(store, cfg.CacheTTL()); err != nil {
			store.Close()
			log.Warn("cache unavailable: %v", err)
		} else {
			appCache = c
		}
	}

	// Initialize registry and engine
	httpClient = client.NewClient(client.WithTimeout(cfg.Timeout()))
	reg = pub.New(cfg.Registry.BaseURL, httpClient,
		pub.WithCache(appCache),
		pub.WithMaxResults(cfg.Registry.MaxSearchResults),
	)
	eng = engine.New(reg)
	advisor = conflict.NewAdvisor(nil)

	var runnerOpts []pubget.Option
	if cfg.Output.Verbose {
		runnerOpts = append(runnerOpts, pubget.WithVerbose(true))
	}
	runner = pubget.New(runnerOpts...)

	return nil
}

// loadProject reads the manifest in the target directory into a project.
func loadProject() (*core.Project, error) {
	m, err := manifest.Load(projectDir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		abs = projectDir
	}
	name := m.Name()
	if name == "" {
		name = filepath.Base(abs)
	}
	return &core.Project{
		Name:         name,
		Path:         abs,
		ManifestPath: m.Path(),
		Dependencies: m.Dependencies(),
	}, nil
}

// maybePubGet runs pub get after a manifest write when configured to.
func maybePubGet(ctx context.Context) {
	if !cfg.Pub.AutoRunPubGet {
		return
	}
	project, err := loadProject()
	if err != nil {
		log.Warn("skipping pub get: %v", err)
		return
	}
	fetchDependencies(ctx, project)
}

// fetchDependencies runs pub get and, on failure, prompts for a recovery
// path. Nothing is retried or rewritten without the user choosing it.
func fetchDependencies(ctx context.Context, project *core.Project) error {
	err := ui.WithSpinner("Resolving dependencies...", func() error {
		return runner.Run(ctx, project)
	})
	if err == nil {
		ui.SuccessMsg("Dependencies resolved for %s", project.Name)
		return nil
	}

	ui.ErrorMsg("pub get failed: %v", err)

	for {
		options := advisor.RecoveryOptions(err)
		labels := make([]string, 0, len(options)+1)
		for _, o := range options {
			labels = append(labels, o.Label)
		}
		labels = append(labels, "Do nothing")

		idx, _, serr := ui.Select("How do you want to proceed?", labels)
		if serr != nil || idx >= len(options) {
			return err
		}

		switch options[idx].Action {
		case conflict.ActionRetryFetch:
			rerr := ui.WithSpinner("Resolving dependencies...", func() error {
				return runner.Run(ctx, project)
			})
			if rerr == nil {
				ui.SuccessMsg("Dependencies resolved for %s", project.Name)
				return nil
			}
			err = rerr
			ui.ErrorMsg("pub get failed again: %v", err)
		case conflict.ActionApplySuggestions:
			if n := applySuggestions(ctx, project.Path); n == 0 {
				ui.InfoMsg("No suggestions to apply")
			}
		case conflict.ActionOpenManifest:
			ui.InfoMsg("Manifest: %s", project.ManifestPath)
			return err
		}
	}
}

// applySuggestions writes every detected conflict's suggested version into
// the manifest and returns how many were applied.
func applySuggestions(ctx context.Context, dir string) int {
	conflicts, err := advisor.Detect(ctx, dir)
	if err != nil {
		ui.WarningMsg("Conflict detection failed: %v", err)
		return 0
	}

	applied := 0
	for _, c := range conflicts {
		if err := advisor.Apply(dir, c); err != nil {
			ui.WarningMsg("Could not apply %s %s: %v", c.Package, c.Suggested, err)
			continue
		}
		ui.SuccessMsg("%s pinned to ^%s", c.Package, c.Suggested)
		applied++
	}
	return applied
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pubassist version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("pubassist version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
