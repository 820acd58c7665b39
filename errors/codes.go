package errors

import "fmt"

// Error codes raised by the execution engine. Every one of them aborts the
// program unit being executed.
const (
	CodeUnresolvedReference    = "UNRESOLVED_REFERENCE"
	CodeTypeMismatch           = "TYPE_MISMATCH"
	CodeNotImplemented         = "NOT_IMPLEMENTED"
	CodeAssignmentPrecondition = "ASSIGNMENT_PRECONDITION"
	CodeProgramNotFound        = "PROGRAM_NOT_FOUND"
	CodeCodecRange             = "CODEC_RANGE"
	CodeInvalidPackedData      = "INVALID_PACKED_DATA"
	CodeInvalidIndex           = "INVALID_INDEX"
	CodeDivisionByZero         = "DIVISION_BY_ZERO"
	CodeCallDepthExceeded      = "CALL_DEPTH_EXCEEDED"
	CodeStatementFailed        = "STATEMENT_FAILED"
	CodeExecutionCancelled     = "EXECUTION_CANCELLED"
	CodeProgramFailed          = "PROGRAM_FAILED"
)

// Sentinels for errors.Is. Matching is by code and type only.
var (
	ErrUnresolvedReference    = NewRuntimeError(CodeUnresolvedReference, "cannot resolve value")
	ErrTypeMismatch           = NewRuntimeError(CodeTypeMismatch, "type mismatch")
	ErrNotImplemented         = NewRuntimeError(CodeNotImplemented, "not implemented")
	ErrAssignmentPrecondition = NewRuntimeError(CodeAssignmentPrecondition, "value not assignable")
	ErrProgramNotFound        = NewRuntimeError(CodeProgramNotFound, "program not found")
	ErrCodecRange             = NewRuntimeError(CodeCodecRange, "value out of range")
	ErrInvalidPackedData      = NewRuntimeError(CodeInvalidPackedData, "invalid packed data")
	ErrInvalidIndex           = NewRuntimeError(CodeInvalidIndex, "invalid index")
	ErrDivisionByZero         = NewRuntimeError(CodeDivisionByZero, "division by zero")
	ErrCallDepthExceeded      = NewRuntimeError(CodeCallDepthExceeded, "call depth exceeded")
	ErrStatementFailed        = NewRuntimeError(CodeStatementFailed, "statement failed")
	ErrExecutionCancelled     = NewRuntimeError(CodeExecutionCancelled, "execution cancelled")
	ErrProgramFailed          = NewRuntimeError(CodeProgramFailed, "program failed")
)

// NewUnresolvedReferenceError reports a name with no binding
func NewUnresolvedReferenceError(name string) *ExecutionError {
	return NewRuntimeError(CodeUnresolvedReference, fmt.Sprintf("cannot resolve value %s", name)).
		WithContext("name", name)
}

// NewTypeMismatchError reports an operation between incompatible value kinds
func NewTypeMismatchError(format string, args ...interface{}) *ExecutionError {
	return NewRuntimeError(CodeTypeMismatch, fmt.Sprintf(format, args...))
}

// NewNotImplementedError reports a construct the engine does not support
func NewNotImplementedError(construct string) *ExecutionError {
	return NewRuntimeError(CodeNotImplemented, fmt.Sprintf("not implemented: %s", construct)).
		WithContext("construct", construct)
}

// NewAssignmentPreconditionError reports a value the target type cannot hold
func NewAssignmentPreconditionError(target string, value, targetType fmt.Stringer) *ExecutionError {
	return NewRuntimeError(CodeAssignmentPrecondition,
		fmt.Sprintf("%s is not assignable to %s of type %s", value, target, targetType))
}

// NewProgramNotFoundError reports a missing call target
func NewProgramNotFoundError(name string) *ExecutionError {
	return NewRuntimeError(CodeProgramNotFound, fmt.Sprintf("program %s not found", name)).
		WithContext("program", name)
}

// NewCodecRangeError reports a value too large for a binary or packed layout
func NewCodecRangeError(format string, args ...interface{}) *ExecutionError {
	return NewRuntimeError(CodeCodecRange, fmt.Sprintf(format, args...))
}
