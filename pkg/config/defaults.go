package config

// Workload defaults.
const (
	DefaultInitialLength = 200
	DefaultSteps         = 100
	DefaultMaxEdit       = 16
	DefaultReadsPerStep  = 8
	DefaultSeed          = 1
	DefaultRuns          = 1
	DefaultParallel      = 4

	// MaxLength bounds the initial length and the per-edit size of a workload.
	MaxLength = 10_000_000
)

// Lazy list defaults.
const (
	DefaultAnchorInterval = 0
	DefaultSeedLimit      = 64
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = FormatText
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)
