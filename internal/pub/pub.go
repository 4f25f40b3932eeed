// Package pub provides the pub.dev registry client.
package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/git-pkgs/vers"

	"github.com/pubspec-tools/pubassist/client"
	"github.com/pubspec-tools/pubassist/internal/cache"
	"github.com/pubspec-tools/pubassist/internal/core"
)

const (
	// DefaultURL is the public pub.dev registry.
	DefaultURL = "https://pub.dev"

	// DefaultMaxResults caps search results unless configured otherwise;
	// HardMaxResults is the ceiling no configuration can exceed.
	DefaultMaxResults = 20
	HardMaxResults    = 50

	searchTTL  = 1800 * time.Second
	detailsTTL = 3600 * time.Second
)

// Registry is a pub.dev API client. Every read goes through the cache first;
// responses are cached with per-kind TTLs. Each operation issues single GETs
// with no retry.
type Registry struct {
	baseURL    string
	client     *client.Client
	cache      *cache.Cache
	maxResults int
	urls       *URLs
}

// Option configures a Registry.
type Option func(*Registry)

// WithCache attaches a response cache. Without it the registry runs uncached.
func WithCache(c *cache.Cache) Option {
	return func(r *Registry) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithMaxResults sets the search result cap, clamped to HardMaxResults.
func WithMaxResults(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// New builds a registry client against baseURL (DefaultURL when empty).
func New(baseURL string, c *client.Client, opts ...Option) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if c == nil {
		c = client.DefaultClient()
	}
	r := &Registry{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     c,
		cache:      cache.Disabled(),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxResults > HardMaxResults {
		r.maxResults = HardMaxResults
	}
	r.urls = &URLs{baseURL: r.baseURL}
	return r
}

// BaseURL returns the registry base this client talks to.
func (r *Registry) BaseURL() string {
	return r.baseURL
}

// URLs returns the URL builder for this registry.
func (r *Registry) URLs() client.URLBuilder {
	return r.urls
}

type packageResponse struct {
	Name     string        `json:"name"`
	Latest   versionInfo   `json:"latest"`
	Versions []versionInfo `json:"versions"`
}

type versionInfo struct {
	Version   string    `json:"version"`
	Published time.Time `json:"published"`
	Pubspec   pubspec   `json:"pubspec"`
}

type pubspec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Homepage    string            `json:"homepage"`
	Repository  string            `json:"repository"`
	Environment map[string]string `json:"environment"`
	Deps        map[string]any    `json:"dependencies"`
	DevDeps     map[string]any    `json:"dev_dependencies"`
}

type scoreResponse struct {
	GrantedPoints   int      `json:"grantedPoints"`
	MaxPoints       int      `json:"maxPoints"`
	LikeCount       int      `json:"likeCount"`
	PopularityScore float64  `json:"popularityScore"`
	Tags            []string `json:"tags"`
}

// Score is the pub.dev scorecard for one package.
type Score struct {
	GrantedPoints int
	MaxPoints     int
	Likes         int
	Popularity    int // 0-100
	Tags          []string
}

// Details fetches the package record for name, serving from the cache when a
// live entry exists. A 404 maps to NotFoundError; other failures surface as-is.
func (r *Registry) Details(ctx context.Context, name string) (*core.PackageDetails, error) {
	key := "package:" + name
	if data, ok := r.cache.Get(key); ok {
		var details core.PackageDetails
		if err := json.Unmarshal(data, &details); err == nil {
			return &details, nil
		}
	}

	url := fmt.Sprintf("%s/api/packages/%s", r.baseURL, name)

	var resp packageResponse
	if err := r.client.GetJSON(ctx, url, &resp); err != nil {
		if httpErr, ok := err.(*core.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Name: name}
		}
		return nil, err
	}

	details := toDetails(name, &resp)

	if data, err := json.Marshal(details); err == nil {
		_ = r.cache.SetTTL(key, data, detailsTTL)
	}
	return details, nil
}

func toDetails(name string, resp *packageResponse) *core.PackageDetails {
	if resp.Name != "" {
		name = resp.Name
	}

	versions := make([]string, len(resp.Versions))
	for i, v := range resp.Versions {
		versions[i] = v.Version
	}

	// Some mirrors omit the latest block; fall back to the highest
	// published version.
	latest := resp.Latest.Version
	if latest == "" {
		latest = highestVersion(versions)
	}

	spec := resp.Latest.Pubspec
	return &core.PackageDetails{
		Name:   name,
		Latest: latest,
		Pubspec: core.PubspecInfo{
			Description: spec.Description,
			Homepage:    spec.Homepage,
			Repository:  spec.Repository,
			Environment: spec.Environment,
		},
		Versions: versions,
	}
}

// highestVersion returns the largest version by semver comparison.
func highestVersion(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	latest := versions[0]
	for _, v := range versions[1:] {
		if vers.Compare(v, latest) > 0 {
			latest = v
		}
	}
	return latest
}

// Score fetches the pub.dev scorecard for name. Scores ride along inside
// hydrated search entries, so they are not cached on their own.
func (r *Registry) Score(ctx context.Context, name string) (*Score, error) {
	url := fmt.Sprintf("%s/api/packages/%s/score", r.baseURL, name)

	var resp scoreResponse
	if err := r.client.GetJSON(ctx, url, &resp); err != nil {
		if httpErr, ok := err.(*core.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Name: name}
		}
		return nil, err
	}

	return &Score{
		GrantedPoints: resp.GrantedPoints,
		MaxPoints:     resp.MaxPoints,
		Likes:         resp.LikeCount,
		Popularity:    int(resp.PopularityScore*100 + 0.5),
		Tags:          resp.Tags,
	}, nil
}

// LatestVersion returns the newest published version of name.
func (r *Registry) LatestVersion(ctx context.Context, name string) (string, error) {
	details, err := r.Details(ctx, name)
	if err != nil {
		return "", err
	}
	return details.Latest, nil
}

// FetchDependencies lists the requirements declared by one published version.
func (r *Registry) FetchDependencies(ctx context.Context, name, version string) ([]core.Dependency, error) {
	url := fmt.Sprintf("%s/api/packages/%s/versions/%s", r.baseURL, name, version)

	var resp versionInfo
	if err := r.client.GetJSON(ctx, url, &resp); err != nil {
		if httpErr, ok := err.(*core.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &core.NotFoundError{Name: name, Version: version}
		}
		return nil, err
	}

	var deps []core.Dependency

	for depName, req := range resp.Pubspec.Deps {
		deps = append(deps, core.Dependency{
			Name:         depName,
			Requirements: formatRequirement(req),
		})
	}

	for depName, req := range resp.Pubspec.DevDeps {
		deps = append(deps, core.Dependency{
			Name:         depName,
			Requirements: formatRequirement(req),
			Dev:          true,
		})
	}

	return deps, nil
}

// formatRequirement renders a pubspec requirement value. Plain versions pass
// through; git/hosted/path sources collapse to a tagged reference.
func formatRequirement(req any) string {
	switch v := req.(type) {
	case string:
		return v
	case map[string]any:
		if ver, ok := v["version"].(string); ok {
			return ver
		}
		if git, ok := v["git"]; ok {
			if gitMap, ok := git.(map[string]any); ok {
				if url, ok := gitMap["url"].(string); ok {
					return "git:" + url
				}
			}
			if gitStr, ok := git.(string); ok {
				return "git:" + gitStr
			}
		}
		if hosted, ok := v["hosted"]; ok {
			if hostedMap, ok := hosted.(map[string]any); ok {
				if name, ok := hostedMap["name"].(string); ok {
					return "hosted:" + name
				}
			}
		}
		if path, ok := v["path"].(string); ok {
			return "path:" + path
		}
	}
	return ""
}

// URLs builds the user-facing links for a package.
type URLs struct {
	baseURL string
}

func (u *URLs) Registry(name, version string) string {
	if version != "" {
		return fmt.Sprintf("%s/packages/%s/versions/%s", u.baseURL, name, version)
	}
	return fmt.Sprintf("%s/packages/%s", u.baseURL, name)
}

func (u *URLs) Download(name, version string) string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s/packages/%s/versions/%s.tar.gz", u.baseURL, name, version)
}

func (u *URLs) Documentation(name, version string) string {
	if version != "" {
		return fmt.Sprintf("%s/documentation/%s/%s/", u.baseURL, name, version)
	}
	return fmt.Sprintf("%s/documentation/%s/latest/", u.baseURL, name)
}

func (u *URLs) PURL(name, version string) string {
	if version != "" {
		return fmt.Sprintf("pkg:pub/%s@%s", name, version)
	}
	return fmt.Sprintf("pkg:pub/%s", name)
}
