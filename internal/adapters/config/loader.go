// Package config provides the configuration loader for scout.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.trai.ch/scout/internal/core/domain"
	"go.trai.ch/scout/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file scout looks for.
const FileName = "scout.yaml"

// Config holds the resolved runtime configuration.
type Config struct {
	// CacheTTL is the default lifetime of cached scan results.
	CacheTTL time.Duration
	// CachePruneInterval is the cadence of the cache's background expiry sweep.
	CachePruneInterval time.Duration
	// ValidatorCacheSize bounds the path validator's result cache.
	ValidatorCacheSize int
	// CoalescerMaxAge is the age past which a stuck in-flight request is
	// forgotten.
	CoalescerMaxAge time.Duration
	// CoalescerSweepInterval is the cadence of the coalescer's leak sweep.
	CoalescerSweepInterval time.Duration
	// QueueConcurrency is the number of scans processed in parallel.
	QueueConcurrency int
	// TaskTimeout bounds the processing time of a single queued scan.
	TaskTimeout time.Duration
	// Scan carries the default scan options, overridable per invocation.
	Scan domain.ScanOptions
}

// Default returns the configuration used when no scout.yaml is found.
func Default() Config {
	return Config{
		CacheTTL:               15 * time.Minute,
		CachePruneInterval:     time.Minute,
		ValidatorCacheSize:     1024,
		CoalescerMaxAge:        5 * time.Minute,
		CoalescerSweepInterval: 30 * time.Second,
		QueueConcurrency:       runtime.NumCPU(),
		TaskTimeout:            2 * time.Minute,
		Scan: domain.ScanOptions{
			TopFiles: domain.DefaultTopFiles,
		},
	}
}

// Loader resolves the runtime configuration from a scout.yaml file.
type Loader struct {
	FS     FileSystem
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given filesystem and logger.
func NewLoader(fs FileSystem, logger ports.Logger) *Loader {
	return &Loader{FS: fs, Logger: logger}
}

// Load resolves the configuration for the given working directory. It walks
// upward from cwd looking for scout.yaml; an absent file is not an error and
// yields the defaults.
func (l *Loader) Load(cwd string) (Config, error) {
	path, found := l.findConfiguration(cwd)
	if !found {
		return Default(), nil
	}
	return l.LoadFile(path)
}

// LoadFile loads the configuration from an explicitly named file. Unlike
// Load, a missing file is an error: the caller asked for that file.
func (l *Loader) LoadFile(path string) (Config, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}

	cfg, err := l.apply(file)
	if err != nil {
		return Config{}, zerr.With(err, "path", path)
	}

	l.Logger.Info(fmt.Sprintf("loaded configuration from %s", path))
	return cfg, nil
}

// PathOverride extracts the value of the root --config flag from raw command
// line arguments. The configuration node runs before cobra parses flags, so
// the override has to be picked out of os.Args directly. An empty string
// means no override was given.
func PathOverride(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, "--config="); ok {
			return value
		}
	}
	return ""
}

// findConfiguration walks from cwd toward the filesystem root and returns
// the first scout.yaml it encounters.
func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := l.FS.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// apply layers the file's values over the defaults. Absent fields keep their
// defaults; present fields are validated.
func (l *Loader) apply(file File) (Config, error) {
	cfg := Default()

	if err := overrideDuration(&cfg.CacheTTL, file.Cache.TTL, "cache.ttl"); err != nil {
		return Config{}, err
	}
	if err := overrideDuration(&cfg.CachePruneInterval, file.Cache.PruneInterval, "cache.pruneInterval"); err != nil {
		return Config{}, err
	}
	if err := overrideDuration(&cfg.CoalescerMaxAge, file.Coalescer.MaxAge, "coalescer.maxAge"); err != nil {
		return Config{}, err
	}
	if err := overrideDuration(&cfg.CoalescerSweepInterval, file.Coalescer.SweepInterval, "coalescer.sweepInterval"); err != nil {
		return Config{}, err
	}
	if err := overrideDuration(&cfg.TaskTimeout, file.Queue.TaskTimeout, "queue.taskTimeout"); err != nil {
		return Config{}, err
	}

	if file.Validator.CacheSize != nil {
		if *file.Validator.CacheSize <= 0 {
			return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "validator.cacheSize must be positive"), "value", *file.Validator.CacheSize)
		}
		cfg.ValidatorCacheSize = *file.Validator.CacheSize
	}
	if file.Queue.Concurrency != nil {
		if *file.Queue.Concurrency <= 0 {
			return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "queue.concurrency must be positive"), "value", *file.Queue.Concurrency)
		}
		cfg.QueueConcurrency = *file.Queue.Concurrency
	}

	if len(file.Scan.Include) > 0 {
		cfg.Scan.Include = file.Scan.Include
	}
	if len(file.Scan.Exclude) > 0 {
		cfg.Scan.Exclude = file.Scan.Exclude
	}
	if file.Scan.MaxFileSize != nil {
		if *file.Scan.MaxFileSize < 0 {
			return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "scan.maxFileSize must not be negative"), "value", *file.Scan.MaxFileSize)
		}
		cfg.Scan.MaxFileSize = *file.Scan.MaxFileSize
	}
	if file.Scan.TopFiles != nil {
		if *file.Scan.TopFiles <= 0 {
			return Config{}, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "scan.topFiles must be positive"), "value", *file.Scan.TopFiles)
		}
		cfg.Scan.TopFiles = *file.Scan.TopFiles
	}

	return cfg, nil
}

// overrideDuration parses raw into dst when raw is non-empty. Negative
// durations are rejected; zero disables the timer concerned.
func overrideDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "field", field)
	}
	if d < 0 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "duration must not be negative"), "field", field), "value", raw)
	}

	*dst = d
	return nil
}
