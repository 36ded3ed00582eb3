// Command inkwell serves, builds and scaffolds inkwell sites.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/inkwell/config"
)

// version is set at build time via ldflags.
var version = "dev"

type globalFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "inkwell",
		Short: "A content site server built on templates, interpolated pages and feeds",
		Long: `inkwell renders feeds of front-matter items into pages, indexes and RSS
at startup and serves them next to the templates, interpolated pages and
static files of a content directory.

Configuration is read from inkwell.yaml (or --config). Every key can be
overridden with an INKWELL_ environment variable, e.g. INKWELL_ADDR=:9000.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default is ./inkwell.yaml)")
	root.PersistentFlags().StringVarP(&flags.logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(flags),
		newBuildCmd(flags),
		newStatsCmd(flags),
		newNewCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the configuration and builds the logger for a command.
func (f *globalFlags) load() (*config.Site, *slog.Logger, error) {
	level, err := parseLevel(f.logLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkwell version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version)
		},
	}
}
