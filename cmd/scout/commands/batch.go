package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/zerr"
)

const timeRounding = time.Millisecond

func (c *CLI) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <repository>...",
		Short: "Scan several repositories through the bounded queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.scanOptions(cmd)
			if err != nil {
				return err
			}

			// Mirror queue activity onto the progrock tape for the duration
			// of the batch.
			cancelTelemetry := c.components.Orchestrator.Subscribe(c.components.Telemetry.Observe)
			defer cancelTelemetry()
			defer func() { _ = c.components.Telemetry.Close() }()

			results, err := c.components.Orchestrator.ScanBatch(cmd.Context(), args, opts)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					cmd.PrintErrf("%s: %v\n", res.Path, res.Err)
					continue
				}
				cmd.Println(summaryLine(res))
			}

			if failed > 0 {
				err := zerr.With(zerr.Wrap(domain.ErrScanFailed, "batch finished with failures"), "failed", failed)
				return zerr.With(err, "total", len(results))
			}
			return nil
		},
	}

	addScanFlags(cmd)
	return cmd
}

func summaryLine(res domain.RepoResult) string {
	r := res.Report
	return fmt.Sprintf("%s: %d files, %d bytes, %d languages (%s)",
		res.Path, r.Files, r.Bytes, len(r.Languages), r.Duration.Round(timeRounding))
}
