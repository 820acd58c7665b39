package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// JSONFormatter formats log entries as JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	// Create a map for the JSON output
	output := make(map[string]interface{})

	// Add basic fields
	output["timestamp"] = entry.Timestamp.Format(time.RFC3339)
	output["level"] = entry.Level.String()
	output["message"] = entry.Message

	// Add optional fields if they exist
	if entry.Caller != "" {
		output["caller"] = entry.Caller
	}

	if entry.Component != "" {
		output["component"] = entry.Component
	}

	if entry.Program != "" {
		output["program"] = entry.Program
	}

	if entry.Error != nil {
		output["error"] = entry.Error.Error()
	}

	if entry.Stack != "" {
		output["stack"] = entry.Stack
	}

	// Add fields if they exist
	if len(entry.Fields) > 0 {
		output["fields"] = entry.Fields
	}

	data, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// GetName returns the name of the formatter
func (f *JSONFormatter) GetName() string {
	return "json"
}

// TextFormatter formats log entries as plain text
type TextFormatter struct {
	// IncludeTimestamp controls whether to include the timestamp
	IncludeTimestamp bool
	// IncludeCaller controls whether to include the caller information
	IncludeCaller bool
	// IncludeLevel controls whether to include the log level
	IncludeLevel bool
	// ColorOutput controls whether to use ANSI color codes
	ColorOutput bool
}

// NewTextFormatter creates a new text formatter with default settings
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		IncludeTimestamp: true,
		IncludeCaller:    true,
		IncludeLevel:     true,
		ColorOutput:      false,
	}
}

// NewTextFormatterWithOptions creates a new text formatter with custom options
func NewTextFormatterWithOptions(includeTimestamp, includeCaller, includeLevel, colorOutput bool) *TextFormatter {
	return &TextFormatter{
		IncludeTimestamp: includeTimestamp,
		IncludeCaller:    includeCaller,
		IncludeLevel:     includeLevel,
		ColorOutput:      colorOutput,
	}
}

// Format formats a log entry as plain text
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	var output string

	// Add timestamp if enabled
	if f.IncludeTimestamp {
		output += fmt.Sprintf("[%s] ", entry.Timestamp.Format("2006-01-02 15:04:05.000"))
	}

	// Add level if enabled
	if f.IncludeLevel {
		levelStr := entry.Level.String()
		if f.ColorOutput {
			levelStr = f.colorizeLevel(levelStr, entry.Level)
		}
		output += fmt.Sprintf("[%s] ", levelStr)
	}

	// Add component if it exists
	if entry.Component != "" {
		output += fmt.Sprintf("[%s] ", entry.Component)
	}

	if entry.Program != "" {
		output += fmt.Sprintf("[%s] ", entry.Program)
	}

	// Add the message
	output += entry.Message

	// Add position information if available
	if line, ok := entry.Fields["line"].(int); ok {
		if col, ok := entry.Fields["column"].(int); ok {
			output += fmt.Sprintf(" (at line %d, col %d)", line, col)
		} else {
			output += fmt.Sprintf(" (at line %d)", line)
		}
	}

	// Add caller if enabled
	if f.IncludeCaller && entry.Caller != "" {
		output += fmt.Sprintf(" (caller: %s)", entry.Caller)
	}

	// Add error if it exists
	if entry.Error != nil {
		output += fmt.Sprintf(" (error: %s)", entry.Error.Error())
	}

	// Add fields if they exist
	if len(entry.Fields) > 0 {
		output += " " + f.formatFields(entry.Fields)
	}

	// Add stack trace if it exists
	if entry.Stack != "" {
		output += "\n" + entry.Stack
	}

	// Add newline
	output += "\n"

	return []byte(output), nil
}

// GetName returns the name of the formatter
func (f *TextFormatter) GetName() string {
	return "text"
}

// formatFields formats the fields map as a string, keys sorted
func (f *TextFormatter) formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%v", key, fields[key])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// colorizeLevel adds ANSI color codes to the level string
func (f *TextFormatter) colorizeLevel(level string, logLevel LogLevel) string {
	if !f.ColorOutput {
		return level
	}

	switch logLevel {
	case LevelDebug:
		return fmt.Sprintf("\x1b[36m%s\x1b[0m", level) // Cyan
	case LevelInfo:
		return fmt.Sprintf("\x1b[32m%s\x1b[0m", level) // Green
	case LevelWarning:
		return fmt.Sprintf("\x1b[33m%s\x1b[0m", level) // Yellow
	case LevelError:
		return fmt.Sprintf("\x1b[31m%s\x1b[0m", level) // Red
	case LevelFatal:
		return fmt.Sprintf("\x1b[35m%s\x1b[0m", level) // Magenta
	default:
		return level
	}
}

// SimpleFormatter formats log entries in a simple, minimal format
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new simple formatter
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// Format formats a log entry in a simple format
func (f *SimpleFormatter) Format(entry *LogEntry) ([]byte, error) {
	output := fmt.Sprintf("%s %s %s",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		entry.Level.String(),
		entry.Message)

	// Add error if it exists
	if entry.Error != nil {
		output += fmt.Sprintf(" (error: %s)", entry.Error.Error())
	}

	output += "\n"
	return []byte(output), nil
}

// GetName returns the name of the formatter
func (f *SimpleFormatter) GetName() string {
	return "simple"
}
