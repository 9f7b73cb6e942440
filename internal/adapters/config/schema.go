package config

// File represents the structure of the scout.yaml configuration file.
// Durations are YAML strings in Go duration syntax ("15m", "30s"). Pointer
// fields distinguish "absent" from an explicit zero.
type File struct {
	Cache     CacheDTO     `yaml:"cache"`
	Validator ValidatorDTO `yaml:"validator"`
	Coalescer CoalescerDTO `yaml:"coalescer"`
	Queue     QueueDTO     `yaml:"queue"`
	Scan      ScanDTO      `yaml:"scan"`
}

// CacheDTO configures the result cache.
type CacheDTO struct {
	TTL           string `yaml:"ttl"`
	PruneInterval string `yaml:"pruneInterval"`
}

// ValidatorDTO configures the path validator.
type ValidatorDTO struct {
	CacheSize *int `yaml:"cacheSize"`
}

// CoalescerDTO configures the request coalescer.
type CoalescerDTO struct {
	MaxAge        string `yaml:"maxAge"`
	SweepInterval string `yaml:"sweepInterval"`
}

// QueueDTO configures the scan queue.
type QueueDTO struct {
	Concurrency *int   `yaml:"concurrency"`
	TaskTimeout string `yaml:"taskTimeout"`
}

// ScanDTO configures default scan behavior, overridable per invocation on
// the command line.
type ScanDTO struct {
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	MaxFileSize *int64   `yaml:"maxFileSize"`
	TopFiles    *int     `yaml:"topFiles"`
}
