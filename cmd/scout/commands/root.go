// Package commands implements the CLI commands for scout.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/scout/internal/app"
	"go.trai.ch/scout/internal/build"
)

// CLI represents the command line interface for scout.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "scout",
		Short:         "A caching control plane for repository scans",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// The flag value itself is consumed by the config loader before cobra
	// parses anything; registering it here keeps it out of cobra's unknown
	// flag handling and in the help output.
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file (default: nearest scout.yaml)")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newBatchCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut redirects command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}
