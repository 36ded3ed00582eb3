package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell"
)

func newBuildCmd(flags *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Generate the site and write it to a directory",
		Long: `build renders every feed, template and interpolated page and copies the
static files of the content directory into --out. Extension-less pages are
written as <path>/index.html so that any static file host can serve them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			app := inkwell.New(cfg, inkwell.WithLogger(logger))
			if err := app.Generate(cmd.Context()); err != nil {
				return err
			}
			n, err := app.Export(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dist", "output directory")
	return cmd
}
