package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cstsgen/pkg/action/generate"
	"github.com/cmmoran/cstsgen/pkg/action/snapshot"
)

// ErrOutOfDate is returned by check when the output file differs from what
// would be generated.
var ErrOutOfDate = errors.New("generated definitions are out of date")

func NewCheckCommand(v *viper.Viper) *cobra.Command {
	// checkCmd represents the cstsgen check command
	var checkCmd = &cobra.Command{
		Use:   "check [input-directory] [output-file]",
		Short: "verify the definitions file is current",
		Long:  "Regenerate the definitions in memory and compare them with the existing output file without writing anything",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := resolveOptions(v, args)
			if err != nil {
				return err
			}
			want, _, err := generate.Render(c.Context(), opts)
			if err != nil {
				return err
			}
			have, err := os.ReadFile(opts.OutFile)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return errors.Wrapf(err, "read %s", opts.OutFile)
			}
			if diff := snapshot.Diff(string(have), want); diff != "" {
				_, _ = fmt.Fprintln(c.OutOrStdout(), diff)
				return errors.Wrapf(ErrOutOfDate, "%s", opts.OutFile)
			}
			_, _ = fmt.Fprintln(c.OutOrStdout(), color.GreenString("%s is up to date", opts.OutFile))
			return nil
		},
	}
	return checkCmd
}
