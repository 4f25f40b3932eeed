// Package pubassist provides the engine behind a pubspec.yaml assistant:
// a pub.dev registry client with response caching, structure-preserving
// pubspec.yaml editing, and a version-state engine that flags outdated
// dependencies.
//
// Basic usage:
//
//	reg := pubassist.NewRegistry("", pubassist.DefaultClient())
//	pkg, err := reg.Details(context.Background(), "http")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(pkg.Name, pkg.Latest)
//
// Attach a persistent cache to keep registry reads off the network:
//
//	c, err := pubassist.OpenCache("/tmp/pubassist.db", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//	reg = pubassist.NewRegistry("", nil, pubassist.WithCache(c))
package pubassist

import (
	"time"

	"github.com/pubspec-tools/pubassist/client"
	"github.com/pubspec-tools/pubassist/internal/cache"
	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/engine"
	"github.com/pubspec-tools/pubassist/internal/manifest"
	"github.com/pubspec-tools/pubassist/internal/pub"
)

// Re-export types from internal/core
type (
	// Package represents one search result hydrated with package and score data.
	Package = core.Package

	// PackageDetails holds the per-package record the registry serves.
	PackageDetails = core.PackageDetails

	// PubspecInfo is the manifest snippet embedded in package responses.
	PubspecInfo = core.PubspecInfo

	// Dependency is one requirement listed by a published package version.
	Dependency = core.Dependency

	// DependencyInfo describes one dependency a project declares.
	DependencyInfo = core.DependencyInfo

	// Project is a workspace project owning one pubspec manifest.
	Project = core.Project

	// Conflict describes a version conflict and its suggested fix.
	Conflict = core.Conflict

	// SearchMode selects the SDK filter applied to registry searches.
	SearchMode = core.SearchMode

	// PURL represents a parsed Package URL.
	PURL = core.PURL
)

// Re-export types from client
type (
	// Client is the HTTP client used to query the registry API.
	Client = client.Client

	// URLBuilder constructs public URLs for a package.
	URLBuilder = client.URLBuilder
)

// Re-export constants
const (
	ModeAll     = core.ModeAll
	ModeDart    = core.ModeDart
	ModeFlutter = core.ModeFlutter

	// DefaultURL is the public pub.dev registry.
	DefaultURL = pub.DefaultURL

	// DefaultMaxResults caps search results unless configured otherwise.
	DefaultMaxResults = pub.DefaultMaxResults

	// HardMaxResults is the ceiling no configuration can exceed.
	HardMaxResults = pub.HardMaxResults
)

// Re-export errors
var ErrNotFound = core.ErrNotFound

// Error types
type (
	HTTPError      = core.HTTPError
	NotFoundError  = core.NotFoundError
	RateLimitError = core.RateLimitError
)

// Registry is a pub.dev API client.
type Registry = pub.Registry

// RegistryOption configures a Registry.
type RegistryOption = pub.Option

// WithCache attaches a response cache to a Registry.
var WithCache = pub.WithCache

// WithMaxResults sets the search result cap, clamped to HardMaxResults.
var WithMaxResults = pub.WithMaxResults

// NewRegistry builds a registry client against baseURL (DefaultURL when
// empty). If c is nil, DefaultClient() is used.
func NewRegistry(baseURL string, c *Client, opts ...RegistryOption) *Registry {
	return pub.New(baseURL, c, opts...)
}

// DefaultClient returns a client with sensible defaults: a 10s timeout and
// the pubassist User-Agent.
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Option configures a Client.
type Option = client.Option

// WithTimeout sets the per-request timeout.
var WithTimeout = client.WithTimeout

// WithUserAgent sets the User-Agent header.
var WithUserAgent = client.WithUserAgent

// BuildURLs returns a map of all non-empty URLs for a package.
// Keys are "registry", "download", "docs", and "purl".
func BuildURLs(urls URLBuilder, name, version string) map[string]string {
	return client.BuildURLs(urls, name, version)
}

// Cache is a TTL response cache with optional persistence.
type Cache = cache.Cache

// OpenCache opens a persistent cache stored at path. A ttl of zero uses the
// default of one hour.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	store, err := cache.OpenBolt(path)
	if err != nil {
		return nil, err
	}
	return cache.New(store, ttl)
}

// MemoryCache returns an in-memory cache that is lost on close.
func MemoryCache(ttl time.Duration) *Cache {
	c, _ := cache.New(cache.NopStore{}, ttl)
	return c
}

// Engine derives update state for declared dependencies.
type Engine = engine.Engine

// EngineOption configures an Engine.
type EngineOption = engine.Option

// WithConcurrency bounds the engine's parallel registry lookups.
var WithConcurrency = engine.WithConcurrency

// NewEngine creates a version-state engine backed by the given registry.
func NewEngine(reg *Registry, opts ...EngineOption) *Engine {
	return engine.New(reg, opts...)
}

// Manifest is a parsed pubspec.yaml that can be edited and written back
// without disturbing comments or key order.
type Manifest = manifest.Manifest

// LoadManifest reads the pubspec.yaml in dir.
func LoadManifest(dir string) (*Manifest, error) {
	return manifest.Load(dir)
}

// AddDependency inserts or updates a dependency in dir's pubspec.yaml,
// coercing the version to a caret constraint.
func AddDependency(dir, name, version string, dev bool) error {
	return manifest.AddDependency(dir, name, version, dev)
}

// RemoveDependency deletes a dependency from dir's pubspec.yaml. It reports
// whether the dependency was present.
func RemoveDependency(dir, name string, dev bool) (bool, error) {
	return manifest.RemoveDependency(dir, name, dev)
}

// ParseSearchMode validates a mode string; empty maps to ModeAll.
func ParseSearchMode(s string) (SearchMode, bool) {
	return core.ParseSearchMode(s)
}

// ApplyMode appends the mode's sdk qualifier to a search query.
func ApplyMode(query string, mode SearchMode) string {
	return pub.ApplyMode(query, mode)
}

// ParsePURL parses a Package URL string, accepting only the pub type.
// Supports both package purls (pkg:pub/http) and version purls
// (pkg:pub/http@1.2.0).
func ParsePURL(s string) (*PURL, error) {
	return core.ParsePURL(s)
}

// NewPURL builds a pub purl string, with an optional version.
func NewPURL(name, version string) string {
	return core.NewPURL(name, version)
}
