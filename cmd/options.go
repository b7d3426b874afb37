package cmd

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cstsgen/internal/emitter"
	"github.com/cmmoran/cstsgen/pkg/parser"
)

const envPrefix = "CSTSGEN"

// Keys shared by flags, config files and the environment. The option keys
// match the mapstructure tags of parser.Options.
const (
	keyInDir               = "in_dir"
	keyOutFile             = "out_file"
	keyEnumSuffix          = "enum_suffix"
	keyExcludeDeprecated   = "exclude_deprecated"
	keyExcludeTypes        = "exclude_types"
	keyExcludeByAttributes = "exclude_by_attributes"
	keyWorkers             = "workers"
	keyStrict              = "strict"
	keyGenerate            = "generate_definitions"
	keyDisable             = "disable"
)

func configureViper(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	// names used by existing build integrations
	_ = v.BindEnv(keyInDir, envPrefix+"_SOURCE_DIRECTORY", envPrefix+"_IN_DIR")
	_ = v.BindEnv(keyOutFile, envPrefix+"_DEFINITIONS_PATH", envPrefix+"_OUT_FILE")
	_ = v.BindEnv(keyGenerate, envPrefix+"_GENERATE_DEFINITIONS")
	v.SetDefault(keyGenerate, true)
}

// bindOptionFlags registers the generation flags on c, persistent so every
// subcommand shares them, and binds each to its viper key.
func bindOptionFlags(c *cobra.Command, v *viper.Viper) {
	pf := c.PersistentFlags()
	pf.BoolP("exclude-deprecated", "d", false, "exclude [Obsolete] declarations and members")
	pf.StringSliceP("exclude-types", "t", []string{}, "exclude named types (simple or namespace-qualified, case-insensitive)")
	pf.StringSliceP("exclude-attributes", "A", []string{}, "exclude declarations and members carrying any of these attributes, ex: JsonIgnore")
	pf.String("enum-suffix", emitter.DefaultEnumSuffix, "suffix of the numeric enum emitted next to each string union")
	pf.IntP("workers", "w", 0, "parallel parse workers (0 means one per CPU)")
	pf.Bool("strict", false, "skip files with syntax errors instead of keeping what parsed")
	pf.Bool("disable", false, "do nothing; same as CSTSGEN_GENERATE_DEFINITIONS=false")

	for key, flag := range map[string]string{
		keyExcludeDeprecated:   "exclude-deprecated",
		keyExcludeTypes:        "exclude-types",
		keyExcludeByAttributes: "exclude-attributes",
		keyEnumSuffix:          "enum-suffix",
		keyWorkers:             "workers",
		keyStrict:              "strict",
		keyDisable:             "disable",
	} {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}
}

// resolveOptions merges defaults, config files, environment, flags and the
// positional arguments, in increasing priority.
func resolveOptions(v *viper.Viper, args []string) (*parser.Options, error) {
	opts := parser.NewOptions()
	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "decode options")
	}
	if len(args) > 0 {
		opts.InDir = args[0]
	}
	if len(args) > 1 {
		opts.OutFile = args[1]
	}
	opts.Normalize()
	return opts, nil
}

func disabled(v *viper.Viper) bool {
	return v.GetBool(keyDisable) || !v.GetBool(keyGenerate)
}
