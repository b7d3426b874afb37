package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cstsgen/internal/logger"
	"github.com/cmmoran/cstsgen/pkg/action/generate"
)

func NewGenerateCommand(v *viper.Viper) *cobra.Command {
	// generateCmd represents the cstsgen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate [input-directory] [output-file]",
		Short: "generate the definitions file",
		Long:  "Generate the TypeScript definitions file; the same as running cstsgen without a subcommand",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runGenerate(c, v, args)
		},
	}
	return generateCmd
}

func runGenerate(c *cobra.Command, v *viper.Viper, args []string) error {
	if disabled(v) {
		logger.Logger.Infow("definition generation disabled")
		_, _ = fmt.Fprintln(c.OutOrStdout(), color.YellowString("definition generation disabled, nothing written"))
		return nil
	}
	opts, err := resolveOptions(v, args)
	if err != nil {
		return err
	}
	r, err := generate.Run(c.Context(), opts)
	if err != nil {
		return err
	}
	printReport(c.OutOrStdout(), r)
	return nil
}

func printReport(w io.Writer, r *generate.Report) {
	_, _ = fmt.Fprintln(w, color.GreenString("wrote %s (%s)", r.OutFile, humanize.Bytes(uint64(r.Bytes))))
	_, _ = fmt.Fprintf(w, "%d declarations, %d enums from %d files\n", r.Declarations, r.Enums, r.Files)
	if len(r.Skipped) > 0 {
		_, _ = fmt.Fprintln(w, color.YellowString("skipped %d file(s): %s", len(r.Skipped), strings.Join(r.Skipped, ", ")))
	}
}
