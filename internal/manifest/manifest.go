// Package manifest reads and edits pubspec.yaml files. Edits operate on the
// parsed node tree so comments and key order survive a rewrite; lookups for
// editor-style collaborators use the line scanner in range.go.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/version"
)

// Filename is the manifest file name inside a project directory.
const Filename = "pubspec.yaml"

// Section names for the two dependency maps.
const (
	SectionDependencies    = "dependencies"
	SectionDevDependencies = "dev_dependencies"
)

// Manifest is one parsed pubspec document.
type Manifest struct {
	path string
	doc  yaml.Node
}

// Load reads and parses dir/pubspec.yaml. A missing or malformed file is an
// error; callers abort rather than write a partial manifest.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// Parse parses manifest bytes without binding them to a file.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m.doc); err != nil {
		return nil, err
	}
	return &m, nil
}

// Path returns the file the manifest was loaded from, empty for Parse.
func (m *Manifest) Path() string {
	return m.path
}

// Name returns the package name declared by the manifest.
func (m *Manifest) Name() string {
	root := m.mapping(false)
	if root == nil {
		return ""
	}
	if v := findValue(root, "name"); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return ""
}

// Dependencies returns the string-valued entries of both dependency sections
// in declaration order. Entries with git/path/sdk map values are skipped.
func (m *Manifest) Dependencies() []core.DependencyInfo {
	var deps []core.DependencyInfo
	deps = append(deps, m.sectionDeps(SectionDependencies, false)...)
	deps = append(deps, m.sectionDeps(SectionDevDependencies, true)...)
	return deps
}

func (m *Manifest) sectionDeps(section string, dev bool) []core.DependencyInfo {
	root := m.mapping(false)
	if root == nil {
		return nil
	}
	sec := findValue(root, section)
	if sec == nil || sec.Kind != yaml.MappingNode {
		return nil
	}

	var deps []core.DependencyInfo
	for i := 0; i+1 < len(sec.Content); i += 2 {
		key, val := sec.Content[i], sec.Content[i+1]
		if val.Kind != yaml.ScalarNode || val.Tag != "!!str" {
			continue
		}
		deps = append(deps, core.DependencyInfo{
			Name:       key.Value,
			Constraint: val.Value,
			Dev:        dev,
		})
	}
	return deps
}

// Lookup finds a declared dependency by name in either section.
func (m *Manifest) Lookup(name string) (core.DependencyInfo, bool) {
	for _, d := range m.Dependencies() {
		if d.Name == name {
			return d, true
		}
	}
	return core.DependencyInfo{}, false
}

// UsesFlutter reports whether the manifest declares the flutter SDK
// dependency, which decides between `flutter pub get` and `dart pub get`.
func (m *Manifest) UsesFlutter() bool {
	root := m.mapping(false)
	if root == nil {
		return false
	}
	sec := findValue(root, SectionDependencies)
	if sec == nil || sec.Kind != yaml.MappingNode {
		return false
	}
	return findValue(sec, "flutter") != nil
}

// SetDependency upserts name in the chosen section. The constraint is always
// written in caret form; see version.NormalizeConstraint.
func (m *Manifest) SetDependency(name, ver string, dev bool) {
	sec := m.ensureSection(sectionName(dev))
	constraint := version.NormalizeConstraint(ver)

	if v := findValue(sec, name); v != nil {
		v.SetString(constraint)
		return
	}

	sec.Content = append(sec.Content,
		scalarNode(name),
		scalarNode(constraint),
	)
}

// RemoveDependency deletes name from the chosen section, reporting whether
// the entry existed. A missing entry is not an error; callers warn instead.
func (m *Manifest) RemoveDependency(name string, dev bool) bool {
	root := m.mapping(false)
	if root == nil {
		return false
	}
	sec := findValue(root, sectionName(dev))
	if sec == nil || sec.Kind != yaml.MappingNode {
		return false
	}

	for i := 0; i+1 < len(sec.Content); i += 2 {
		if sec.Content[i].Value == name {
			sec.Content = append(sec.Content[:i], sec.Content[i+2:]...)
			return true
		}
	}
	return false
}

// Encode serializes the document with pubspec's two-space indentation.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&m.doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the manifest back to its file atomically via tmp+rename, so a
// failed write never leaves a truncated pubspec behind.
func (m *Manifest) Save() error {
	if m.path == "" {
		return fmt.Errorf("manifest has no backing file")
	}

	data, err := m.Encode()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

// AddDependency sets name to the caret form of ver in dir's manifest and
// saves it. Callers run the post-write fetch and refresh the project.
func AddDependency(dir, name, ver string, dev bool) error {
	m, err := Load(dir)
	if err != nil {
		return err
	}
	m.SetDependency(name, ver, dev)
	return m.Save()
}

// UpdateDependency overwrites an existing constraint. It is AddDependency
// under another name: writes are idempotent upserts.
func UpdateDependency(dir, name, ver string, dev bool) error {
	return AddDependency(dir, name, ver, dev)
}

// RemoveDependency deletes name from dir's manifest. The returned bool
// reports whether the entry existed; the file is only rewritten when it did.
func RemoveDependency(dir, name string, dev bool) (bool, error) {
	m, err := Load(dir)
	if err != nil {
		return false, err
	}
	if !m.RemoveDependency(name, dev) {
		return false, nil
	}
	return true, m.Save()
}

func sectionName(dev bool) string {
	if dev {
		return SectionDevDependencies
	}
	return SectionDependencies
}

// mapping returns the document's top-level mapping node. With create set,
// an empty or missing document grows one.
func (m *Manifest) mapping(create bool) *yaml.Node {
	if m.doc.Kind == 0 || len(m.doc.Content) == 0 {
		if !create {
			return nil
		}
		root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		m.doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
		return root
	}

	root := m.doc.Content[0]
	if root.Kind != yaml.MappingNode {
		if !create {
			return nil
		}
		*root = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return root
}

// ensureSection returns the named section's mapping node, creating the
// section (or converting an empty one) as needed.
func (m *Manifest) ensureSection(section string) *yaml.Node {
	root := m.mapping(true)

	if v := findValue(root, section); v != nil {
		if v.Kind != yaml.MappingNode {
			// `dependencies:` with no entries parses as a null scalar.
			*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		return v
	}

	val := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content, scalarNode(section), val)
	return val
}

// findValue returns the value node for key inside a mapping, or nil.
func findValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalarNode(value string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(value)
	return n
}
