// Package conflict reports version conflicts between declared dependencies
// and offers remediation paths. Detection is pluggable; the built-in
// detector is a placeholder until a real constraint solver exists.
package conflict

import (
	"context"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/manifest"
)

// Detector finds conflicts for a project. Implementations that actually
// solve constraint sets plug in here; everything above this interface
// treats the returned conflicts uniformly.
type Detector interface {
	Detect(ctx context.Context, projectDir string) ([]core.Conflict, error)
}

// StaticDetector returns the same canned conflict for every project. It
// does not read the manifest; it exists so the advisor surface and its
// callers are exercisable end to end before a real solver lands.
type StaticDetector struct{}

func (StaticDetector) Detect(ctx context.Context, projectDir string) ([]core.Conflict, error) {
	return []core.Conflict{
		{
			Package:       "http",
			Declared:      "^0.13.0",
			ConflictsWith: "dio ^5.0.0 (requires http ^1.0.0)",
			Suggested:     "1.2.0",
			Reason:        "declared constraint excludes the version other dependencies require",
		},
	}, nil
}

// RecoveryAction identifies one remediation path after a failed fetch.
type RecoveryAction int

const (
	ActionRetryFetch RecoveryAction = iota
	ActionApplySuggestions
	ActionOpenManifest
)

// RecoveryOption is a user-choosable remediation. Nothing runs
// automatically; the caller prompts and executes the chosen action.
type RecoveryOption struct {
	Label  string
	Action RecoveryAction
}

// Advisor wraps a Detector and applies chosen fixes through the manifest.
type Advisor struct {
	detector Detector
}

// NewAdvisor builds an advisor; a nil detector falls back to StaticDetector.
func NewAdvisor(d Detector) *Advisor {
	if d == nil {
		d = StaticDetector{}
	}
	return &Advisor{detector: d}
}

// Detect runs the configured detector for the project.
func (a *Advisor) Detect(ctx context.Context, projectDir string) ([]core.Conflict, error) {
	return a.detector.Detect(ctx, projectDir)
}

// Apply writes the conflict's suggested version into the project manifest,
// in whichever section currently declares the package (regular when it is
// not declared at all).
func (a *Advisor) Apply(projectDir string, c core.Conflict) error {
	m, err := manifest.Load(projectDir)
	if err != nil {
		return err
	}

	dev := false
	if dep, ok := m.Lookup(c.Package); ok {
		dev = dep.Dev
	}
	return manifest.UpdateDependency(projectDir, c.Package, c.Suggested, dev)
}

// RecoveryOptions lists the remediation paths offered after a failed
// post-write fetch, in the order they are presented.
func (a *Advisor) RecoveryOptions(err error) []RecoveryOption {
	return []RecoveryOption{
		{Label: "Retry pub get", Action: ActionRetryFetch},
		{Label: "Apply suggested versions", Action: ActionApplySuggestions},
		{Label: "Open pubspec.yaml", Action: ActionOpenManifest},
	}
}
