package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the result cache",
	}

	cmd.AddCommand(c.newCacheStatsCmd())
	cmd.AddCommand(c.newCacheInvalidateCmd())
	cmd.AddCommand(c.newCacheClearCmd())
	return cmd
}

func (c *CLI) newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print control plane statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.MarshalIndent(c.components.Orchestrator.Stats(), "", "  ")
			if err != nil {
				return zerr.Wrap(err, "failed to encode statistics")
			}
			cmd.Println(string(data))
			return nil
		},
	}
}

func (c *CLI) newCacheInvalidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invalidate <repository>",
		Short: "Drop cached reports for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var removed int
			if pattern, _ := cmd.Flags().GetBool("pattern"); pattern {
				removed = c.components.Orchestrator.InvalidatePattern(args[0])
			} else {
				removed = c.components.Orchestrator.InvalidateRepository(args[0])
			}
			cmd.Printf("invalidated %d entries\n", removed)
			return nil
		},
	}

	cmd.Flags().Bool("pattern", false, "Treat the argument as a '*' wildcard pattern over cache keys")
	return cmd
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the result cache and the validator cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed := c.components.Orchestrator.ClearCaches()
			cmd.Printf("cleared %d entries\n", removed)
			return nil
		},
	}
}
