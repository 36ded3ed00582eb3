package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/scaffold"
)

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <project-name>",
		Short: "Create a new inkwell site",
		Example: `  inkwell new myblog
  inkwell new ~/sites/my-notes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Clean(args[0])
			name := filepath.Base(dir)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Creating new inkwell site: %s\n\n", name)
			created, err := scaffold.Write(dir, scaffold.NewData(name, time.Now()))
			for _, f := range created {
				fmt.Fprintf(out, "  created %s\n", filepath.Join(dir, f))
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  inkwell serve")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Add posts to public/_posts and pages to public, then restart the server.")
			return nil
		},
	}
}
