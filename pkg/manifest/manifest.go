package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the manifest lives unless configured otherwise.
const DefaultPath = ".cstsgen/manifest.yaml"

// Settings are the generator options a snapshot was produced with. Paths are
// left out; they differ between machines.
type Settings struct {
	EnumSuffix          string   `yaml:"enum_suffix" json:"enum_suffix"`
	ExcludeDeprecated   bool     `yaml:"exclude_deprecated,omitempty" json:"exclude_deprecated,omitempty"`
	ExcludeTypes        []string `yaml:"exclude_types,omitempty" json:"exclude_types,omitempty"`
	ExcludeByAttributes []string `yaml:"exclude_by_attributes,omitempty" json:"exclude_by_attributes,omitempty"`
	Strict              bool     `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// Stats summarize what a snapshot was generated from.
type Stats struct {
	Files        int      `yaml:"files" json:"files"`
	Declarations int      `yaml:"declarations" json:"declarations"`
	Enums        int      `yaml:"enums" json:"enums"`
	Skipped      []string `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Snapshot represents a generated declaration file snapshot entry in the manifest.
type Snapshot struct {
	Name     string   `yaml:"name" json:"name"`
	Version  string   `yaml:"version" json:"version"`
	File     string   `yaml:"file" json:"file"`
	Settings Settings `yaml:"settings" json:"settings"`
	Stats    Stats    `yaml:"stats" json:"stats"`
}

// Manifest tracks the lifecycle of generated declaration snapshots.
type Manifest struct {
	CurrentVersion  string     `yaml:"current_version" json:"current_version"`
	PreviousVersion string     `yaml:"previous_version" json:"previous_version"`
	Snapshots       []Snapshot `yaml:"snapshots" json:"snapshots"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "unmarshal manifest %s", path)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// AddSnapshot records a snapshot, updating version pointers and de-duplicating
// existing entries that share the same name and version. Re-recording the
// current version leaves the previous pointer alone.
func (m *Manifest) AddSnapshot(s Snapshot) {
	if m.CurrentVersion != "" && m.CurrentVersion != s.Version {
		m.PreviousVersion = m.CurrentVersion
	}
	m.CurrentVersion = s.Version

	for i := range m.Snapshots {
		if m.Snapshots[i].Name == s.Name && m.Snapshots[i].Version == s.Version {
			m.Snapshots[i] = s
			return
		}
	}

	m.Snapshots = append(m.Snapshots, s)
}

// Lookup returns the snapshot recorded for version.
func (m *Manifest) Lookup(version string) (Snapshot, bool) {
	for _, s := range m.Snapshots {
		if s.Version == version {
			return s, true
		}
	}
	return Snapshot{}, false
}

// SnapshotFile returns the path associated with the provided version, if present.
func (m *Manifest) SnapshotFile(version string) string {
	s, _ := m.Lookup(version)
	return s.File
}

// Changes describes how the settings and stats of s differ from prev, one
// line per difference. It explains a diff that no source edit accounts for.
func (s Snapshot) Changes(prev Snapshot) []string {
	var out []string
	changed := func(key string, from, to any) {
		out = append(out, fmt.Sprintf("%s: %v -> %v", key, from, to))
	}

	a, b := prev.Settings, s.Settings
	if a.EnumSuffix != b.EnumSuffix {
		changed("enum_suffix", a.EnumSuffix, b.EnumSuffix)
	}
	if a.ExcludeDeprecated != b.ExcludeDeprecated {
		changed("exclude_deprecated", a.ExcludeDeprecated, b.ExcludeDeprecated)
	}
	if !slices.Equal(a.ExcludeTypes, b.ExcludeTypes) {
		changed("exclude_types", a.ExcludeTypes, b.ExcludeTypes)
	}
	if !slices.Equal(a.ExcludeByAttributes, b.ExcludeByAttributes) {
		changed("exclude_by_attributes", a.ExcludeByAttributes, b.ExcludeByAttributes)
	}
	if a.Strict != b.Strict {
		changed("strict", a.Strict, b.Strict)
	}

	x, y := prev.Stats, s.Stats
	if x.Files != y.Files {
		changed("files", x.Files, y.Files)
	}
	if x.Declarations != y.Declarations {
		changed("declarations", x.Declarations, y.Declarations)
	}
	if x.Enums != y.Enums {
		changed("enums", x.Enums, y.Enums)
	}
	if !slices.Equal(x.Skipped, y.Skipped) {
		changed("skipped", x.Skipped, y.Skipped)
	}
	return out
}
