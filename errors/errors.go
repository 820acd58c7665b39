package errors

import (
	"fmt"
	"strings"
	"time"

	"rpgexec/ast"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeRuntime    ErrorType = "RUNTIME"
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeSystem     ErrorType = "SYSTEM"
	ErrorTypeUser       ErrorType = "USER"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityWarning ErrorSeverity = "WARNING"
	SeverityError   ErrorSeverity = "ERROR"
	SeverityFatal   ErrorSeverity = "FATAL"
)

// ExecutionError represents a structured error with detailed information
type ExecutionError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Program   string                 `json:"program,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Col       int                    `json:"col,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Severity  ErrorSeverity          `json:"severity"`
	Type      ErrorType              `json:"type"`
	Cause     error                  `json:"-"`
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	var builder strings.Builder

	// Format: [TYPE][CODE] message
	builder.WriteString(fmt.Sprintf("[%s][%s] %s", e.Type, e.Code, e.Message))

	if e.Program != "" {
		builder.WriteString(fmt.Sprintf(" in %s", e.Program))
	}
	if e.Line > 0 {
		builder.WriteString(fmt.Sprintf(" line %d col %d", e.Line, e.Col))
	}
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}

	return builder.String()
}

// Unwrap returns the underlying error
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *ExecutionError) Is(target error) bool {
	if other, ok := target.(*ExecutionError); ok {
		return e.Code == other.Code && e.Type == other.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *ExecutionError) WithContext(key string, value interface{}) *ExecutionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithProgram sets the program unit the error occurred in
func (e *ExecutionError) WithProgram(program string) *ExecutionError {
	e.Program = program
	return e
}

// WithPosition sets the line and column for the error
func (e *ExecutionError) WithPosition(pos ast.Position) *ExecutionError {
	e.Line = pos.Line
	e.Col = pos.Column
	return e
}

// Wrap wraps another error
func (e *ExecutionError) Wrap(err error) *ExecutionError {
	e.Cause = err
	return e
}

// NewRuntimeError creates a new runtime error
func NewRuntimeError(code, message string) *ExecutionError {
	return &ExecutionError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Severity:  SeverityFatal,
		Type:      ErrorTypeRuntime,
		Context:   make(map[string]interface{}),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *ExecutionError {
	return &ExecutionError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Severity:  SeverityWarning,
		Type:      ErrorTypeValidation,
		Context:   make(map[string]interface{}),
	}
}

// NewSystemError creates a new system error
func NewSystemError(code, message string) *ExecutionError {
	return &ExecutionError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Severity:  SeverityError,
		Type:      ErrorTypeSystem,
		Context:   make(map[string]interface{}),
	}
}

// NewRuntimeErrorWithPosition creates a new runtime error located in a program
func NewRuntimeErrorWithPosition(program, code, message string, pos ast.Position) *ExecutionError {
	return NewRuntimeError(code, message).WithProgram(program).WithPosition(pos)
}

// WrapError wraps an existing error into a fatal runtime ExecutionError
func WrapError(err error, code, message string) *ExecutionError {
	return NewRuntimeError(code, message).Wrap(err)
}

// AsExecutionError converts an error to ExecutionError if possible
func AsExecutionError(err error) (*ExecutionError, bool) {
	if execErr, ok := err.(*ExecutionError); ok {
		return execErr, true
	}
	return nil, false
}
