package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cstsgen/internal/logger"
	"github.com/cmmoran/cstsgen/pkg/action/generate"
)

var version = "dev"

type rootFlags struct {
	configFiles []string
	level       string
	jsonLog     bool
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(viper.GetViper())
	if err := root.ExecuteContext(ctx); err != nil {
		reportError(root.ErrOrStderr(), root, err)
		stop()
		os.Exit(1)
	}
}

// NewRootCommand returns the cstsgen command tree reading configuration
// through v. The root command itself generates the definitions file.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	var rf rootFlags

	rootCmd := &cobra.Command{
		Use:   "cstsgen [input-directory] [output-file]",
		Short: "generate TypeScript declarations from C# sources",
		Long: `Scan a C# source tree for classes, structs, records and enums and write
a TypeScript declaration file describing their shape.

The input directory defaults to the parent of the working directory and the
output file to ./typedefs.d.ts. CSTSGEN_SOURCE_DIRECTORY and
CSTSGEN_DEFINITIONS_PATH are used when the arguments are omitted, and
CSTSGEN_GENERATE_DEFINITIONS=false turns the command into a no-op.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return initConfig(v, &rf)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c, v, args)
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rf.level, "level", "l", "info", "log level (trace, debug, info, warn, error)")
	pf.BoolVar(&rf.jsonLog, "json-log", false, "log as JSON instead of console text")
	pf.StringSliceVar(&rf.configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")

	configureViper(v)
	bindOptionFlags(rootCmd, v)

	rootCmd.AddCommand(
		NewGenerateCommand(v),
		NewCheckCommand(v),
		NewSnapshotCommand(v),
		NewDiffCommand(),
	)
	return rootCmd
}

// initConfig sets up logging and reads config files.
func initConfig(v *viper.Viper, rf *rootFlags) error {
	if err := logger.Initialize(rf.level, rf.jsonLog); err != nil {
		return err
	}
	log := logger.Named("config")

	if len(rf.configFiles) > 0 {
		// Use config file from the flag.
		v.SetConfigFile(rf.configFiles[0])
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cstsgen")
		v.SetConfigType("yaml")
		v.SetConfigName("cstsgen")
	}

	if err := v.ReadInConfig(); err == nil {
		log.Infow("using config file", "config", v.ConfigFileUsed())
	} else {
		var notFound viper.ConfigFileNotFoundError
		if len(rf.configFiles) > 0 || !errors.As(err, &notFound) {
			return errors.Wrapf(err, "read config %s", v.ConfigFileUsed())
		}
		log.Debugw("no config file found")
	}
	if len(rf.configFiles) > 1 {
		for _, file := range rf.configFiles[1:] {
			configBytes, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrap(err, "read config")
			}
			if err = v.MergeConfig(bytes.NewReader(configBytes)); err != nil {
				return errors.Wrapf(err, "merge config %s", file)
			}
			log.Infow("merged config file", "file", file)
		}
	}
	if len(version) > 0 {
		v.Set("version", version)
	}
	return nil
}

func reportError(w io.Writer, root *cobra.Command, err error) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(w, "error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		_, _ = fmt.Fprintf(w, "hint: %s\n", hint)
	}
	if errors.Is(err, generate.ErrInputNotFound) {
		_, _ = fmt.Fprint(w, root.UsageString())
	}
}
