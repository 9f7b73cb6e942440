package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/scout/cmd/scout/commands"
	"go.trai.ch/scout/internal/adapters/cache"
	"go.trai.ch/scout/internal/adapters/config"
	"go.trai.ch/scout/internal/adapters/fs"
	"go.trai.ch/scout/internal/adapters/logger"
	"go.trai.ch/scout/internal/adapters/pathcheck"
	"go.trai.ch/scout/internal/adapters/scan"
	"go.trai.ch/scout/internal/adapters/telemetry"
	"go.trai.ch/scout/internal/app"
	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/engine/coalesce"
	"go.trai.ch/scout/internal/engine/queue"
)

// newCLI builds a CLI over real components, with output captured.
func newCLI(t *testing.T) (*commands.CLI, *bytes.Buffer) {
	t.Helper()

	orchestrator := app.NewOrchestrator(
		pathcheck.New(16),
		cache.NewStore(0),
		coalesce.New(0, 0),
		queue.New(2, 0, queue.RunJob),
		scan.NewRepoScanner(fs.NewWalker()),
		logger.New(),
		time.Minute,
	)
	t.Cleanup(orchestrator.Close)

	cli := commands.New(&app.Components{
		Orchestrator: orchestrator,
		Logger:       logger.New(),
		Telemetry:    telemetry.New(),
		Config:       config.Default(),
	})

	var out bytes.Buffer
	cli.SetOut(&out)
	return cli, &out
}

func writeRepo(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0o600))
	return root
}

func TestScanCommand(t *testing.T) {
	cli, out := newCLI(t)
	repo := writeRepo(t)

	cli.SetArgs([]string{"scan", repo})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), `"files": 2`)
	assert.Contains(t, out.String(), `"repository"`)
}

func TestScanCommand_WithStats(t *testing.T) {
	cli, out := newCLI(t)
	repo := writeRepo(t)

	cli.SetArgs([]string{"scan", "--stats", repo})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), `"report"`)
	assert.Contains(t, out.String(), `"coalescer"`)
}

func TestScanCommand_InvalidPath(t *testing.T) {
	cli, _ := newCLI(t)

	cli.SetArgs([]string{"scan", ""})
	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestScanCommand_RejectsBadTop(t *testing.T) {
	cli, _ := newCLI(t)
	repo := writeRepo(t)

	cli.SetArgs([]string{"scan", "--top", "-1", repo})
	assert.Error(t, cli.Execute(context.Background()))
}

func TestBatchCommand(t *testing.T) {
	cli, out := newCLI(t)
	repo := writeRepo(t)
	other := writeRepo(t)

	cli.SetArgs([]string{"batch", repo, other})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), repo+": 2 files")
	assert.Contains(t, out.String(), other+": 2 files")
}

func TestBatchCommand_PartialFailure(t *testing.T) {
	cli, _ := newCLI(t)
	repo := writeRepo(t)
	missing := filepath.Join(t.TempDir(), "gone")

	cli.SetArgs([]string{"batch", repo, missing})
	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrScanFailed)
}

func TestCacheStatsCommand(t *testing.T) {
	cli, out := newCLI(t)

	cli.SetArgs([]string{"cache", "stats"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), `"cache"`)
	assert.Contains(t, out.String(), `"queue"`)
}

func TestCacheInvalidateCommand(t *testing.T) {
	cli, out := newCLI(t)
	repo := writeRepo(t)

	cli.SetArgs([]string{"scan", repo})
	require.NoError(t, cli.Execute(context.Background()))

	out.Reset()
	cli.SetArgs([]string{"cache", "invalidate", repo})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), "invalidated 1 entries")
}

func TestCacheClearCommand(t *testing.T) {
	cli, out := newCLI(t)

	cli.SetArgs([]string{"cache", "clear"})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, out.String(), "cleared 0 entries")
}
