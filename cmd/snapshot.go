package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/cstsgen/pkg/action/snapshot"
	"github.com/cmmoran/cstsgen/pkg/manifest"
)

func NewSnapshotCommand(v *viper.Viper) *cobra.Command {
	var manifestPath, name, snapshotVersion string

	// snapshotCmd represents the cstsgen snapshot command
	var snapshotCmd = &cobra.Command{
		Use:   "snapshot [input-directory] [output-file]",
		Short: "generate and record a versioned snapshot",
		Long:  "Generate the definitions file, keep a copy under the manifest directory and record it as the current version",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := resolveOptions(v, args)
			if err != nil {
				return err
			}
			file, err := snapshot.Generate(c.Context(), opts, manifestPath, name, snapshotVersion)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.OutOrStdout(), color.GreenString("recorded %s %s at %s", name, snapshotVersion, file))
			return nil
		},
	}
	snapshotCmd.Flags().StringVarP(&manifestPath, "manifest", "m", manifest.DefaultPath, "manifest file")
	snapshotCmd.Flags().StringVarP(&name, "name", "n", "api", "snapshot name")
	snapshotCmd.Flags().StringVar(&snapshotVersion, "version", "", "snapshot version, ex: v1.2.0")
	_ = snapshotCmd.MarkFlagRequired("version")

	return snapshotCmd
}

func NewDiffCommand() *cobra.Command {
	var manifestPath string

	// diffCmd represents the cstsgen diff command
	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "show changes between the two latest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			comparison, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			if comparison.Identical() {
				_, _ = fmt.Fprintln(out, color.GreenString("snapshots are identical"))
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s -> %s\n", comparison.Previous.Version, comparison.Current.Version)
			for _, change := range comparison.Changes {
				_, _ = fmt.Fprintln(out, color.YellowString("  %s", change))
			}
			if comparison.Diff != "" {
				_, _ = fmt.Fprintln(out, comparison.Diff)
			}
			return nil
		},
	}
	diffCmd.Flags().StringVarP(&manifestPath, "manifest", "m", manifest.DefaultPath, "manifest file")

	return diffCmd
}
