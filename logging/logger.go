package logging

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"rpgexec/errors"
)

// LogLevel represents the severity level of a log entry
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configuration string to a level
func ParseLevel(levelStr string) (LogLevel, bool) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning", "warn":
		return LevelWarning, true
	case "error":
		return LevelError, true
	case "fatal":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// LogField represents a key-value pair for structured logging
type LogField struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Stack     string                 `json:"stack,omitempty"`
	Error     error                  `json:"error,omitempty"`
	Component string                 `json:"component,omitempty"`
	Program   string                 `json:"program,omitempty"`
}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(msg string, fields ...LogField)

	// Info logs an info message
	Info(msg string, fields ...LogField)

	// Warn logs a warning message
	Warn(msg string, fields ...LogField)

	// Error logs an error message
	Error(msg string, fields ...LogField)

	// ErrorExecution logs an execution error with its code and position
	ErrorExecution(err error, fields ...LogField)

	// WithFields returns a new logger with the specified fields
	WithFields(fields ...LogField) Logger

	// WithError returns a new logger with the specified error
	WithError(err error) Logger

	// WithContext returns a new logger carrying the program of ctx, if any
	WithContext(ctx context.Context) Logger

	// WithComponent returns a new logger with the specified component
	WithComponent(component string) Logger

	// WithProgram returns a new logger tagged with a program name
	WithProgram(program string) Logger

	// SetLevel sets the minimum log level
	SetLevel(level LogLevel)

	// GetLevel returns the current minimum log level
	GetLevel() LogLevel

	// Enabled reports whether a message at level would be written
	Enabled(level LogLevel) bool
}

// Formatter defines the interface for log formatting
type Formatter interface {
	// Format formats a log entry into a byte slice
	Format(entry *LogEntry) ([]byte, error)

	// GetName returns the name of the formatter
	GetName() string
}

// Writer defines the interface for log output
type Writer interface {
	// Write writes the formatted log entry
	Write(data []byte) error

	// Flush flushes any buffered data
	Flush() error

	// Close closes the writer
	Close() error

	// GetName returns the name of the writer
	GetName() string
}

type programKey struct{}

// ContextWithProgram returns a context naming the program being executed
func ContextWithProgram(ctx context.Context, program string) context.Context {
	return context.WithValue(ctx, programKey{}, program)
}

// ProgramFromContext returns the program stored by ContextWithProgram
func ProgramFromContext(ctx context.Context) (string, bool) {
	program, ok := ctx.Value(programKey{}).(string)
	return program, ok
}

// DefaultLogger is the default implementation of Logger
type DefaultLogger struct {
	level      LogLevel
	fields     map[string]interface{}
	error      error
	component  string
	program    string
	formatters []Formatter
	writers    []Writer
	callerSkip int
}

// NewNullLogger creates a logger that discards everything
func NewNullLogger() *DefaultLogger {
	return NewDefaultLoggerWithConfig(LoggerConfig{
		Level:   LevelFatal,
		Writers: []Writer{NewNullWriter()},
	})
}

// NewDefaultLoggerWithConfig creates a new default logger with configuration
func NewDefaultLoggerWithConfig(config LoggerConfig) *DefaultLogger {
	logger := &DefaultLogger{
		level:      config.Level,
		fields:     make(map[string]interface{}),
		formatters: config.Formatters,
		writers:    config.Writers,
		callerSkip: config.CallerSkip,
	}

	if logger.formatters == nil {
		logger.formatters = []Formatter{NewJSONFormatter()}
	}

	if logger.writers == nil {
		logger.writers = []Writer{NewConsoleWriter()}
	}

	if logger.callerSkip == 0 {
		logger.callerSkip = 2
	}

	return logger
}

// LoggerConfig contains configuration for the logger
type LoggerConfig struct {
	Level      LogLevel
	Formatters []Formatter
	Writers    []Writer
	CallerSkip int
}

// ApplyLogLevel applies log level from string configuration
func (lc *LoggerConfig) ApplyLogLevel(levelStr string) {
	lc.Level, _ = ParseLevel(levelStr)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, fields ...LogField) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, fields ...LogField) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, fields ...LogField) {
	l.log(LevelWarning, msg, fields...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, fields ...LogField) {
	l.log(LevelError, msg, fields...)
}

// ErrorExecution logs an execution error with position information
func (l *DefaultLogger) ErrorExecution(err error, fields ...LogField) {
	if execErr, ok := errors.AsExecutionError(err); ok {
		posFields := append(fields,
			LogField{Key: "error_code", Value: execErr.Code},
			LogField{Key: "error_type", Value: string(execErr.Type)},
			LogField{Key: "line", Value: execErr.Line},
			LogField{Key: "column", Value: execErr.Col})
		if execErr.Program != "" {
			posFields = append(posFields, LogField{Key: "program", Value: execErr.Program})
		}
		l.log(LevelError, execErr.Error(), posFields...)
		return
	}
	errorFields := append(fields, LogField{Key: "error", Value: err.Error()})
	l.log(LevelError, err.Error(), errorFields...)
}

// WithFields returns a new logger with the specified fields
func (l *DefaultLogger) WithFields(fields ...LogField) Logger {
	newLogger := l.copy()
	for _, field := range fields {
		newLogger.fields[field.Key] = field.Value
	}
	return newLogger
}

// WithError returns a new logger with the specified error
func (l *DefaultLogger) WithError(err error) Logger {
	newLogger := l.copy()
	newLogger.error = err
	return newLogger
}

// WithContext returns a new logger with the program carried by ctx
func (l *DefaultLogger) WithContext(ctx context.Context) Logger {
	newLogger := l.copy()
	if ctx != nil {
		if program, ok := ProgramFromContext(ctx); ok {
			newLogger.program = program
		}
	}
	return newLogger
}

// WithComponent returns a new logger with the specified component
func (l *DefaultLogger) WithComponent(component string) Logger {
	newLogger := l.copy()
	newLogger.component = component
	return newLogger
}

// WithProgram returns a new logger with the specified program
func (l *DefaultLogger) WithProgram(program string) Logger {
	newLogger := l.copy()
	newLogger.program = program
	return newLogger
}

// SetLevel sets the minimum log level
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.level = level
}

// GetLevel returns the current minimum log level
func (l *DefaultLogger) GetLevel() LogLevel {
	return l.level
}

// Enabled reports whether level passes the minimum level
func (l *DefaultLogger) Enabled(level LogLevel) bool {
	return level >= l.level
}

// Close flushes and closes every writer
func (l *DefaultLogger) Close() error {
	l.flush()
	var firstErr error
	for _, writer := range l.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// log is the internal logging method
func (l *DefaultLogger) log(level LogLevel, msg string, fields ...LogField) {
	if level < l.level {
		return
	}

	entry := &LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Fields:    make(map[string]interface{}),
		Caller:    l.getCaller(),
		Component: l.component,
		Program:   l.program,
		Error:     l.error,
	}

	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, field := range fields {
		entry.Fields[field.Key] = field.Value
	}

	if level >= LevelError {
		entry.Stack = l.getStackTrace()
	}

	for _, formatter := range l.formatters {
		data, err := formatter.Format(entry)
		if err != nil {
			l.writeToAllWriters([]byte(fmt.Sprintf("Failed to format log entry: %v - Original message: %s\n", err, msg)))
			continue
		}
		l.writeToAllWriters(data)
	}
}

// writeToAllWriters writes data to all writers
func (l *DefaultLogger) writeToAllWriters(data []byte) {
	for _, writer := range l.writers {
		if err := writer.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write log: %v\n", err)
		}
	}
}

// flush flushes all writers
func (l *DefaultLogger) flush() {
	for _, writer := range l.writers {
		if err := writer.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to flush log writer: %v\n", err)
		}
	}
}

// copy creates a copy of the logger
func (l *DefaultLogger) copy() *DefaultLogger {
	newLogger := &DefaultLogger{
		level:      l.level,
		fields:     make(map[string]interface{}, len(l.fields)),
		error:      l.error,
		component:  l.component,
		program:    l.program,
		formatters: l.formatters,
		writers:    l.writers,
		callerSkip: l.callerSkip,
	}
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	return newLogger
}

// getCaller returns the caller information
func (l *DefaultLogger) getCaller() string {
	_, file, line, ok := runtime.Caller(l.callerSkip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// getStackTrace returns the stack trace
func (l *DefaultLogger) getStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// StringField creates a new string field
func StringField(key, value string) LogField {
	return LogField{Key: key, Value: value}
}

// IntField creates a new int field
func IntField(key string, value int) LogField {
	return LogField{Key: key, Value: value}
}

// BoolField creates a new bool field
func BoolField(key string, value bool) LogField {
	return LogField{Key: key, Value: value}
}

// DurationField creates a new duration field
func DurationField(key string, value time.Duration) LogField {
	return LogField{Key: key, Value: value.String()}
}
