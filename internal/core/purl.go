package core

import (
	"fmt"

	"github.com/git-pkgs/purl"
)

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string, accepting only the pub type.
// Supports both package purls (pkg:pub/http) and version purls
// (pkg:pub/http@1.2.0). A repository_url qualifier targets a private
// hosted registry.
func ParsePURL(s string) (*PURL, error) {
	p, err := purl.Parse(s)
	if err != nil {
		return nil, err
	}
	if p.Type != "pub" {
		return nil, fmt.Errorf("unsupported purl type %q, expected pub", p.Type)
	}
	return p, nil
}

// NewPURL builds a pub purl string, with an optional version.
func NewPURL(name, version string) string {
	if version != "" {
		return fmt.Sprintf("pkg:pub/%s@%s", name, version)
	}
	return fmt.Sprintf("pkg:pub/%s", name)
}

// RepositoryURL returns the repository_url qualifier of a parsed purl,
// empty when the purl points at the public registry.
func RepositoryURL(p *PURL) string {
	return p.Qualifier("repository_url")
}
