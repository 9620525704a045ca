// Package cli implements the tagstamp command-line interface.
//
// Commands:
//   - serve: run the HTTP API
//   - stamp: watermark photos on disk or by URL in parallel
//
// Every command reads an optional TOML file given with --config and logs
// through charmbracelet/log; --verbose switches to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/tagstamp/internal/config"
	"github.com/youruser/tagstamp/internal/logging"
)

var version = "dev"

// SetVersion sets the string printed by --version.
func SetVersion(v string) { version = v }

// globals are the persistent flags and what PersistentPreRunE derives from them.
type globals struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

// Execute runs the tagstamp CLI.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:          "tagstamp",
		Short:        "tagstamp stamps agent identity tags onto listing photos",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			if g.verbose {
				level = logging.DebugLevel
			}
			g.cfg = cfg
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(logOut, level)))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(g))
	root.AddCommand(newStampCmd(g))
	return root
}
