// Package config loads the engine and logging configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rpgexec/engine"
	"rpgexec/logging"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Engine   EngineConfig    `json:"engine" yaml:"engine"`
	Logging  LoggingConfig   `json:"logging" yaml:"logging"`
	Programs []ProgramConfig `json:"programs,omitempty" yaml:"programs,omitempty"`
}

// EngineConfig contains execution engine configuration
type EngineConfig struct {
	Trace          bool `json:"trace" yaml:"trace"`
	IterationLimit int  `json:"iteration_limit" yaml:"iteration_limit"`
	MaxCallDepth   int  `json:"max_call_depth" yaml:"max_call_depth"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// ProgramConfig declares a Lua-scripted program callable by name
type ProgramConfig struct {
	Name      string   `json:"name" yaml:"name"`
	Script    string   `json:"script" yaml:"script"`
	Params    []string `json:"params,omitempty" yaml:"params,omitempty"`
	Transient bool     `json:"transient,omitempty" yaml:"transient,omitempty"`
}

// Logging formats and outputs understood by NewLogger
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatSimple = "simple"
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxCallDepth: engine.DefaultMaxCallDepth,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
			Output: OutputStderr,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file gives the
// defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	path = expandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	// relative script paths are relative to the config file
	dir := filepath.Dir(path)
	for i := range config.Programs {
		if script := config.Programs[i].Script; script != "" && !filepath.IsAbs(script) {
			config.Programs[i].Script = filepath.Join(dir, script)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the values a file could get wrong
func (c *Config) Validate() error {
	if c.Engine.IterationLimit < 0 {
		return fmt.Errorf("engine.iteration_limit must not be negative, got %d", c.Engine.IterationLimit)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", FormatText, FormatJSON, FormatSimple:
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}

	seen := make(map[string]bool, len(c.Programs))
	for _, p := range c.Programs {
		key := strings.ToUpper(p.Name)
		if key == "" {
			return fmt.Errorf("program without a name")
		}
		if p.Script == "" {
			return fmt.Errorf("program %s has no script", p.Name)
		}
		if seen[key] {
			return fmt.Errorf("program %s declared twice", p.Name)
		}
		seen[key] = true
	}
	return nil
}

// EngineConfig returns the engine settings with logger attached
func (c *Config) EngineConfig(logger logging.Logger) engine.ExecutionEngineConfig {
	return engine.ExecutionEngineConfig{
		Trace:          c.Engine.Trace,
		IterationLimit: c.Engine.IterationLimit,
		MaxCallDepth:   c.Engine.MaxCallDepth,
		Logger:         logger,
	}
}

// NewLogger builds the logger described by the logging section
func (c *Config) NewLogger() (*logging.DefaultLogger, error) {
	var loggerConfig logging.LoggerConfig
	loggerConfig.ApplyLogLevel(c.Logging.Level)

	switch strings.ToLower(c.Logging.Format) {
	case FormatJSON:
		loggerConfig.Formatters = []logging.Formatter{logging.NewJSONFormatter()}
	case FormatSimple:
		loggerConfig.Formatters = []logging.Formatter{logging.NewSimpleFormatter()}
	default:
		loggerConfig.Formatters = []logging.Formatter{logging.NewTextFormatter()}
	}

	outputs := strings.Split(c.Logging.Output, ",")
	writers := make([]logging.Writer, 0, len(outputs))
	for _, output := range outputs {
		writer, err := newWriter(strings.TrimSpace(output))
		if err != nil {
			for _, opened := range writers {
				opened.Close()
			}
			return nil, err
		}
		writers = append(writers, writer)
	}
	if len(writers) == 1 {
		loggerConfig.Writers = writers
	} else {
		loggerConfig.Writers = []logging.Writer{logging.NewMultiWriter(writers...)}
	}

	return logging.NewDefaultLoggerWithConfig(loggerConfig), nil
}

// newWriter opens one entry of the comma-separated logging output
func newWriter(output string) (logging.Writer, error) {
	switch strings.ToLower(output) {
	case "", OutputStderr:
		return logging.NewConsoleWriterWithFile(os.Stderr), nil
	case OutputStdout:
		return logging.NewConsoleWriter(), nil
	}
	writer, err := logging.NewFileWriter(expandHome(output))
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %s: %w", output, err)
	}
	return writer, nil
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
