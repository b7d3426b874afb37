package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	in := sources(t, modelSource)
	out := filepath.Join(t.TempDir(), "typedefs.d.ts")

	_, err := run(t, "check", in, out)
	require.True(t, errors.Is(err, ErrOutOfDate), "a missing output file is out of date")

	_, err = run(t, in, out)
	require.NoError(t, err)

	stdout, err := run(t, "check", in, out)
	require.NoError(t, err)
	require.Contains(t, stdout, "is up to date")

	require.NoError(t, os.WriteFile(filepath.Join(in, "Models.cs"), []byte(`
namespace MyApp.Models
{
    public class User
    {
        public int Name { get; set; }
    }
}
`), 0o644))
	stdout, err = run(t, "check", in, out)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfDate))
	require.Contains(t, stdout, "name: number;")
}

func TestSnapshotAndDiff(t *testing.T) {
	in := sources(t, modelSource)
	work := t.TempDir()
	out := filepath.Join(work, "typedefs.d.ts")
	manifestPath := filepath.Join(work, ".cstsgen", "manifest.yaml")

	stdout, err := run(t, "snapshot", in, out, "--manifest", manifestPath, "--version", "v1")
	require.NoError(t, err)
	require.Contains(t, stdout, "recorded api v1")

	_, err = run(t, "diff", "--manifest", manifestPath)
	require.Error(t, err, "one snapshot has nothing to compare with")

	_, err = run(t, "snapshot", in, out, "--manifest", manifestPath, "--version", "v2")
	require.NoError(t, err)
	stdout, err = run(t, "diff", "--manifest", manifestPath)
	require.NoError(t, err)
	require.Contains(t, stdout, "snapshots are identical")

	_, err = run(t, "snapshot", in, out, "--manifest", manifestPath, "--version", "v3", "--enum-suffix", "Kind")
	require.NoError(t, err)
	stdout, err = run(t, "diff", "--manifest", manifestPath)
	require.NoError(t, err)
	require.Contains(t, stdout, "v2 -> v3")
	require.Contains(t, stdout, "enum_suffix: Enum -> Kind")
	require.Contains(t, stdout, "RoleKind")

	_, err = run(t, "snapshot", in, out, "--manifest", manifestPath)
	require.Error(t, err, "--version is required")
}
