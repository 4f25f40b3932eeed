package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pubspec-tools/pubassist/fetch"
	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/log"
	"github.com/pubspec-tools/pubassist/internal/pub"
	"github.com/pubspec-tools/pubassist/internal/ui"
)

var (
	fetchOutput string
	fetchHead   bool
	fetchToken  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <package[@version]>",
	Short: "Download a package archive",
	Long: `Download a package's .tar.gz archive from the registry. Accepts a
plain name (latest version), name@version, or a pub purl. A purl carrying a
repository_url qualifier is fetched from that registry instead of the
configured one.

Examples:
  pubassist fetch http                                   # Latest http
  pubassist fetch http@0.13.6 -o /tmp                    # Specific version
  pubassist fetch pkg:pub/provider@6.1.0
  pubassist fetch 'pkg:pub/secret@1.0.0?repository_url=https://pub.corp.example.com'`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", ".", "directory to save the archive into")
	fetchCmd.Flags().BoolVar(&fetchHead, "head", false, "check size and type without downloading")
	fetchCmd.Flags().StringVar(&fetchToken, "token", "", "bearer token for private registries (defaults to $PUB_TOKEN)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	spec := args[0]

	target := reg
	if strings.HasPrefix(spec, "pkg:") {
		p, err := core.ParsePURL(spec)
		if err != nil {
			return err
		}
		if repo := core.RepositoryURL(p); repo != "" {
			log.Debug("fetching from repository_url %s", repo)
			target = pub.New(repo, httpClient)
		}
	}

	var info *fetch.ArtifactInfo
	err := ui.WithSpinner("Resolving "+spec+"...", func() error {
		var rerr error
		info, rerr = fetch.NewResolver(target).Resolve(ctx, spec)
		return rerr
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			ui.ErrorMsg("Package not found on %s", target.BaseURL())
			return nil
		}
		return err
	}

	token := fetchToken
	if token == "" {
		token = os.Getenv("PUB_TOKEN")
	}
	var opts []fetch.Option
	if token != "" {
		opts = append(opts, fetch.WithToken(token))
	}
	fetcher := fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(opts...))

	if fetchHead {
		size, contentType, err := fetcher.Head(ctx, info.URL)
		if err != nil {
			return fmt.Errorf("checking %s: %w", info.URL, err)
		}
		ui.InfoMsg("%s %s", info.Name, info.Version)
		ui.MutedMsg("  URL:  %s", info.URL)
		ui.MutedMsg("  Size: %s", formatBytes(size))
		if contentType != "" {
			ui.MutedMsg("  Type: %s", contentType)
		}
		return nil
	}

	var written int64
	err = ui.WithSpinner("Downloading "+info.Filename+"...", func() error {
		artifact, ferr := fetcher.Fetch(ctx, info.URL)
		if ferr != nil {
			return ferr
		}
		written, ferr = fetch.Save(artifact, fetchOutput, info.Filename)
		return ferr
	})
	if err != nil {
		switch {
		case errors.Is(err, fetch.ErrNotFound):
			ui.ErrorMsg("Archive for %s %s not found", info.Name, info.Version)
			return nil
		case errors.Is(err, fetch.ErrRateLimited):
			return fmt.Errorf("rate limited by %s: %w", target.BaseURL(), err)
		default:
			return err
		}
	}

	ui.SuccessMsg("Saved %s/%s (%s)", fetchOutput, info.Filename, formatBytes(written))
	return nil
}

func formatBytes(n int64) string {
	if n < 0 {
		return "unknown size"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
