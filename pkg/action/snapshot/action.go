package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/cstsgen/pkg/action/generate"
	"github.com/cmmoran/cstsgen/pkg/manifest"
	"github.com/cmmoran/cstsgen/pkg/parser"
)

var (
	// ErrNoHistory is returned by DiffCurrentWithPrevious until two versions
	// have been recorded.
	ErrNoHistory = errors.New("no current/previous snapshots recorded")

	errBadVersion      = errors.New("snapshot version must be a non-empty single path element")
	errMissingSnapshot = errors.New("snapshot not found in manifest")
)

// Generate writes the current declarations, copies them into the snapshot
// directory next to the manifest and records the copy. It returns the
// snapshot file path.
func Generate(ctx context.Context, opts *parser.Options, manifestPath, snapshotName, snapshotVersion string) (string, error) {
	if snapshotVersion == "" || snapshotVersion == "." || snapshotVersion == ".." ||
		strings.ContainsAny(snapshotVersion, `/\`) {
		return "", errors.Wrapf(errBadVersion, "%q", snapshotVersion)
	}
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	r, err := generate.Run(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.OutFile)
	if err != nil {
		return "", errors.Wrap(err, "read generated file")
	}

	snapFile := filepath.Join(filepath.Dir(manifestPath), "snapshots", snapshotVersion, filepath.Base(r.OutFile))
	if err = os.MkdirAll(filepath.Dir(snapFile), 0o755); err != nil {
		return "", errors.Wrap(err, "create snapshot directory")
	}
	if err = os.WriteFile(snapFile, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write snapshot")
	}

	m.AddSnapshot(manifest.Snapshot{
		Name:     snapshotName,
		Version:  snapshotVersion,
		File:     filepath.Clean(snapFile),
		Settings: settingsOf(opts),
		Stats: manifest.Stats{
			Files:        r.Files,
			Declarations: r.Declarations,
			Enums:        r.Enums,
			Skipped:      r.Skipped,
		},
	})

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return snapFile, nil
}

// settingsOf reads the options after generate.Run normalized them.
func settingsOf(opts *parser.Options) manifest.Settings {
	return manifest.Settings{
		EnumSuffix:          opts.EnumSuffix,
		ExcludeDeprecated:   opts.ExcludeDeprecated,
		ExcludeTypes:        slices.Clone(opts.ExcludeTypes),
		ExcludeByAttributes: slices.Clone(opts.ExcludeByAttributes),
		Strict:              opts.Strict,
	}
}

// Comparison is the difference between the current and previous snapshots.
type Comparison struct {
	Previous manifest.Snapshot
	Current  manifest.Snapshot
	// Changes lists setting and stats differences, see manifest.Snapshot.Changes.
	Changes []string
	// Diff is the line diff of the two files, empty when they are identical.
	Diff string
}

// Identical reports whether nothing changed between the two snapshots.
func (c *Comparison) Identical() bool { return c.Diff == "" && len(c.Changes) == 0 }

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and previous
// snapshots and compares their settings, stats and file contents.
func DiffCurrentWithPrevious(manifestPath string) (*Comparison, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return nil, ErrNoHistory
	}

	current, okCurrent := m.Lookup(m.CurrentVersion)
	previous, okPrevious := m.Lookup(m.PreviousVersion)
	if !okCurrent || !okPrevious {
		return nil, errors.Wrapf(errMissingSnapshot, "%s or %s", m.PreviousVersion, m.CurrentVersion)
	}

	currentData, err := os.ReadFile(current.File)
	if err != nil {
		return nil, errors.Wrap(err, "read current snapshot")
	}

	previousData, err := os.ReadFile(previous.File)
	if err != nil {
		return nil, errors.Wrap(err, "read previous snapshot")
	}

	return &Comparison{
		Previous: previous,
		Current:  current,
		Changes:  current.Changes(previous),
		Diff:     Diff(string(previousData), string(currentData)),
	}, nil
}

// Diff compares two generated files line by line.
func Diff(previous, current string) string {
	return cmp.Diff(strings.Split(previous, "\n"), strings.Split(current, "\n"))
}
