// Package core provides the shared data model for the pubassist engine.
package core

// SearchMode selects the SDK filter applied to registry searches.
type SearchMode string

const (
	ModeAll     SearchMode = "all"
	ModeDart    SearchMode = "dart"
	ModeFlutter SearchMode = "flutter"
)

// Qualifier returns the pub.dev search qualifier for the mode, empty for ModeAll.
func (m SearchMode) Qualifier() string {
	switch m {
	case ModeDart:
		return "sdk:dart"
	case ModeFlutter:
		return "sdk:flutter"
	default:
		return ""
	}
}

// ParseSearchMode validates a mode string from configuration or flags.
// An empty string maps to ModeAll.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case ModeAll, ModeDart, ModeFlutter:
		return SearchMode(s), true
	case "":
		return ModeAll, true
	}
	return ModeAll, false
}

// Package represents one search result hydrated with package and score data.
type Package struct {
	Name        string
	Latest      string
	Description string
	Homepage    string
	Repository  string
	Popularity  int // 0-100
	Likes       int
	PubPoints   int
	MaxPoints   int
	Tags        []string
	Flutter     bool
	Dart        bool
}

// PackageDetails holds the per-package record the registry serves, one per name.
type PackageDetails struct {
	Name     string
	Latest   string
	Pubspec  PubspecInfo
	Versions []string // ascending registry order
}

// PubspecInfo is the manifest snippet embedded in package responses.
type PubspecInfo struct {
	Description string
	Homepage    string
	Repository  string
	Environment map[string]string // "sdk", "flutter" constraints
}

// Dependency is one requirement listed by a published package version.
type Dependency struct {
	Name         string
	Requirements string
	Dev          bool
}

// DependencyInfo describes one dependency a project declares in its manifest.
// Outdated and Latest are derived by the version-state engine and stay zero
// until a registry check has run.
type DependencyInfo struct {
	Name        string
	Constraint  string
	Dev         bool
	Outdated    bool
	Latest      string
	Description string
}

// Project is a workspace project owning one pubspec manifest. The dependency
// list is replaced wholesale on refresh, never diffed.
type Project struct {
	Name         string
	Path         string
	ManifestPath string
	Dependencies []DependencyInfo
}

// Conflict describes a version conflict between dependency constraints and a
// suggested replacement that would clear it.
type Conflict struct {
	Package       string
	Declared      string
	ConflictsWith string
	Suggested     string
	Reason        string
}
