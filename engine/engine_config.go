package engine

import (
	"rpgexec/logging"
)

// Default limits applied when the configuration leaves them at zero
const (
	DefaultMaxCallDepth = 64
)

// ExecutionEngineConfig contains configuration for the execution engine
type ExecutionEngineConfig struct {
	// Trace emits every execution log entry through the logger at debug level
	Trace bool
	// IterationLimit caps DO, DOW and DOU loops; zero means no cap
	IterationLimit int
	// MaxCallDepth bounds nested program calls; zero selects DefaultMaxCallDepth
	// and a negative value disables the check
	MaxCallDepth int
	// Logger receives trace and call diagnostics; nil discards them
	Logger logging.Logger
}

// withDefaults returns the configuration with zero values replaced
func (c ExecutionEngineConfig) withDefaults() ExecutionEngineConfig {
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	if c.Logger == nil {
		c.Logger = logging.NewNullLogger()
	}
	return c
}
