package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cstsgen/pkg/action/generate"
)

const modelSource = `
namespace MyApp.Models
{
    public class User
    {
        public string Name { get; set; }
        public Role Role { get; set; }
    }

    public enum Role { Admin, Member }
}
`

// run executes a fresh command tree the way main does, minus os.Exit.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--level=error"))
	err := root.ExecuteContext(context.Background())
	if err != nil {
		reportError(&out, root, err)
	}
	return out.String(), err
}

func sources(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Models.cs"), []byte(body), 0o644))
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRootGenerates(t *testing.T) {
	in := sources(t, modelSource)
	out := filepath.Join(t.TempDir(), "typedefs.d.ts")

	stdout, err := run(t, in, out)
	require.NoError(t, err)
	require.Contains(t, stdout, "wrote "+out)
	require.Contains(t, stdout, "1 declarations, 1 enums from 1 files")

	got := readFile(t, out)
	require.Contains(t, got, "    export interface User {\n      name: string;\n      role: Role;\n    }\n")
	require.Contains(t, got, "    export enum RoleEnum { Admin, Member }\n")
}

func TestRootEnvironmentFallback(t *testing.T) {
	in := sources(t, modelSource)
	out := filepath.Join(t.TempDir(), "env.d.ts")
	t.Setenv("CSTSGEN_SOURCE_DIRECTORY", in)
	t.Setenv("CSTSGEN_DEFINITIONS_PATH", out)

	_, err := run(t)
	require.NoError(t, err)
	require.FileExists(t, out)
}

func TestRootArgumentsBeatEnvironment(t *testing.T) {
	in := sources(t, modelSource)
	out := filepath.Join(t.TempDir(), "args.d.ts")
	t.Setenv("CSTSGEN_SOURCE_DIRECTORY", filepath.Join(t.TempDir(), "elsewhere"))
	t.Setenv("CSTSGEN_DEFINITIONS_PATH", filepath.Join(t.TempDir(), "env.d.ts"))

	_, err := run(t, in, out)
	require.NoError(t, err)
	require.FileExists(t, out)
}

func TestRootDisabled(t *testing.T) {
	in := sources(t, modelSource)
	out := filepath.Join(t.TempDir(), "typedefs.d.ts")

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CSTSGEN_GENERATE_DEFINITIONS", "false")
		stdout, err := run(t, in, out)
		require.NoError(t, err)
		require.Contains(t, stdout, "disabled")
		require.NoFileExists(t, out)
	})

	t.Run("flag", func(t *testing.T) {
		_, err := run(t, in, out, "--disable")
		require.NoError(t, err)
		require.NoFileExists(t, out)
	})
}

func TestRootMissingInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	stdout, err := run(t, missing, filepath.Join(t.TempDir(), "out.d.ts"))
	require.Error(t, err)
	require.True(t, errors.Is(err, generate.ErrInputNotFound))
	require.Contains(t, stdout, "error: ")
	require.Contains(t, stdout, "hint: ")
	require.Contains(t, stdout, "Usage:")
}

func TestRootTooManyArguments(t *testing.T) {
	_, err := run(t, "a", "b", "c")
	require.Error(t, err)
}

func TestRootConfigFiles(t *testing.T) {
	in := sources(t, modelSource+`
namespace MyApp.Models
{
    public class Audit
    {
        [JsonIgnore]
        public string Raw { get; set; }
        public string By { get; set; }
    }
}
`)
	out := filepath.Join(t.TempDir(), "typedefs.d.ts")
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	override := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(base, []byte("enum_suffix: Kind\nexclude_types:\n  - User\n"), 0o644))
	require.NoError(t, os.WriteFile(override, []byte("exclude_by_attributes:\n  - JsonIgnore\n"), 0o644))

	_, err := run(t, in, out, "--config", base, "--config", override)
	require.NoError(t, err)

	got := readFile(t, out)
	require.Contains(t, got, "export enum RoleKind { Admin, Member }")
	require.NotContains(t, got, "export interface User")
	require.Contains(t, got, "      by: string;")
	require.NotContains(t, got, "raw")
}

func TestRootBadConfigFile(t *testing.T) {
	_, err := run(t, sources(t, modelSource), "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolveOptions(t *testing.T) {
	v := viper.New()
	root := NewRootCommand(v)
	t.Setenv("CSTSGEN_ENUM_SUFFIX", "Values")
	t.Setenv("CSTSGEN_WORKERS", "3")
	require.NoError(t, root.PersistentFlags().Set("exclude-types", "A,b"))
	require.NoError(t, root.PersistentFlags().Set("strict", "true"))

	opts, err := resolveOptions(v, []string{"src", "out/defs.d.ts"})
	require.NoError(t, err)
	require.Equal(t, "Values", opts.EnumSuffix)
	require.Equal(t, 3, opts.Workers)
	require.True(t, opts.Strict)
	require.Equal(t, []string{"a", "b"}, opts.ExcludeTypes)
	require.True(t, filepath.IsAbs(opts.InDir))
	require.Equal(t, "src", filepath.Base(opts.InDir))
	require.Equal(t, "defs.d.ts", filepath.Base(opts.OutFile))
	require.False(t, disabled(v))
}

func TestResolveOptionsDefaults(t *testing.T) {
	v := viper.New()
	NewRootCommand(v)

	opts, err := resolveOptions(v, nil)
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(wd), opts.InDir)
	require.Equal(t, filepath.Join(wd, "typedefs.d.ts"), opts.OutFile)
	require.Equal(t, "Enum", opts.EnumSuffix)
}

func TestGenerateSubcommandMatchesRoot(t *testing.T) {
	in := sources(t, modelSource)
	dir := t.TempDir()
	viaRoot := filepath.Join(dir, "root.d.ts")
	viaSub := filepath.Join(dir, "sub.d.ts")

	_, err := run(t, in, viaRoot)
	require.NoError(t, err)
	_, err = run(t, "generate", in, viaSub)
	require.NoError(t, err)
	require.Equal(t, readFile(t, viaRoot), readFile(t, viaSub))
}
