package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <repository>",
		Short: "Scan a repository and print its report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.scanOptions(cmd)
			if err != nil {
				return err
			}

			report, err := c.components.Orchestrator.Scan(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			withStats, _ := cmd.Flags().GetBool("stats")
			return c.printJSON(cmd, report, withStats)
		},
	}

	addScanFlags(cmd)
	cmd.Flags().Bool("stats", false, "Append control plane statistics to the output")
	return cmd
}

// addScanFlags registers the scan option flags shared by scan and batch.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("top", 0, "Number of ranked files to report (default from config)")
	cmd.Flags().StringSlice("include", nil, "Only scan files matching these glob patterns")
	cmd.Flags().StringSlice("exclude", nil, "Skip files matching these glob patterns")
	cmd.Flags().Int64("max-file-size", 0, "Skip files larger than this many bytes (default from config)")
}

// scanOptions layers command line flags over the configured scan defaults.
func (c *CLI) scanOptions(cmd *cobra.Command) (domain.ScanOptions, error) {
	opts := c.components.Config.Scan

	if cmd.Flags().Changed("top") {
		top, _ := cmd.Flags().GetInt("top")
		if top <= 0 {
			return domain.ScanOptions{}, zerr.With(zerr.New("top must be positive"), "top", top)
		}
		opts.TopFiles = top
	}
	if cmd.Flags().Changed("include") {
		opts.Include, _ = cmd.Flags().GetStringSlice("include")
	}
	if cmd.Flags().Changed("exclude") {
		opts.Exclude, _ = cmd.Flags().GetStringSlice("exclude")
	}
	if cmd.Flags().Changed("max-file-size") {
		size, _ := cmd.Flags().GetInt64("max-file-size")
		if size < 0 {
			return domain.ScanOptions{}, zerr.With(zerr.New("max-file-size must not be negative"), "max_file_size", size)
		}
		opts.MaxFileSize = size
	}

	return opts, nil
}

func (c *CLI) printJSON(cmd *cobra.Command, report *domain.ScanReport, withStats bool) error {
	out := any(report)
	if withStats {
		out = struct {
			Report *domain.ScanReport `json:"report"`
			Stats  any                `json:"stats"`
		}{Report: report, Stats: c.components.Orchestrator.Stats()}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode report")
	}

	cmd.Println(string(data))
	return nil
}
