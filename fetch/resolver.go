package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pubspec-tools/pubassist/client"
	"github.com/pubspec-tools/pubassist/internal/core"
)

var ErrNoDownloadURL = errors.New("no download URL available")

// Registry provides the version and URL lookups the resolver needs. It is
// satisfied by pub.Registry.
type Registry interface {
	LatestVersion(ctx context.Context, name string) (string, error)
	URLs() client.URLBuilder
}

// Resolver turns a package spec into a downloadable archive location.
type Resolver struct {
	registry Registry
}

// NewResolver creates a resolver backed by the given registry.
func NewResolver(reg Registry) *Resolver {
	return &Resolver{registry: reg}
}

// ArtifactInfo describes a downloadable package archive.
type ArtifactInfo struct {
	Name     string
	Version  string
	URL      string
	Filename string
}

// Resolve returns the download URL and filename for a package spec. The spec
// is either a plain name ("http"), a name with a version ("http@1.2.0"), or a
// pub purl ("pkg:pub/http@1.2.0"). When no version is given, the registry's
// latest version is used.
func (r *Resolver) Resolve(ctx context.Context, spec string) (*ArtifactInfo, error) {
	name, version, err := SplitSpec(spec)
	if err != nil {
		return nil, err
	}

	if version == "" {
		version, err = r.registry.LatestVersion(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolving latest version of %s: %w", name, err)
		}
		if version == "" {
			return nil, fmt.Errorf("%s has no published versions", name)
		}
	}

	url := r.registry.URLs().Download(name, version)
	if url == "" {
		return nil, fmt.Errorf("%w for %s %s", ErrNoDownloadURL, name, version)
	}

	return &ArtifactInfo{
		Name:     name,
		Version:  version,
		URL:      url,
		Filename: fmt.Sprintf("%s-%s.tar.gz", name, version),
	}, nil
}

// SplitSpec parses a package spec into name and optional version. Purl specs
// are validated as pub purls.
func SplitSpec(spec string) (name, version string, err error) {
	if strings.HasPrefix(spec, "pkg:") {
		p, err := core.ParsePURL(spec)
		if err != nil {
			return "", "", err
		}
		return p.FullName(), p.Version, nil
	}

	if idx := strings.LastIndex(spec, "@"); idx > 0 {
		return spec[:idx], spec[idx+1:], nil
	}
	if spec == "" {
		return "", "", fmt.Errorf("empty package spec")
	}
	return spec, "", nil
}
