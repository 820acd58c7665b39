package engine

import (
	"fmt"

	"rpgexec/ast"
	"rpgexec/values"
)

// LogEntry is one event of the execution log
type LogEntry interface {
	// Program returns the program unit the event happened in
	Program() string
	String() string
	logEntry()
}

// ExpressionEvaluationLogEntry records the value an expression evaluated to
type ExpressionEvaluationLogEntry struct {
	ProgramName string
	Expression  ast.Expression
	Value       values.Value
}

func (e *ExpressionEvaluationLogEntry) logEntry()       {}
func (e *ExpressionEvaluationLogEntry) Program() string { return e.ProgramName }
func (e *ExpressionEvaluationLogEntry) String() string {
	return fmt.Sprintf("eval %s -> %s", e.Expression, e.Value)
}

// SubroutineExecutionLogEntry records entry into a subroutine
type SubroutineExecutionLogEntry struct {
	ProgramName string
	Subroutine  string
}

func (e *SubroutineExecutionLogEntry) logEntry()       {}
func (e *SubroutineExecutionLogEntry) Program() string { return e.ProgramName }
func (e *SubroutineExecutionLogEntry) String() string  { return "exsr " + e.Subroutine }

// AssignmentLogEntry records a write to the symbol table
type AssignmentLogEntry struct {
	ProgramName string
	Target      string
	Value       values.Value
}

func (e *AssignmentLogEntry) logEntry()       {}
func (e *AssignmentLogEntry) Program() string { return e.ProgramName }
func (e *AssignmentLogEntry) String() string {
	return fmt.Sprintf("assign %s = %s", e.Target, e.Value)
}

// CallLogEntry records a call to another program
type CallLogEntry struct {
	ProgramName string
	Callee      string
	Depth       int
}

func (e *CallLogEntry) logEntry()       {}
func (e *CallLogEntry) Program() string { return e.ProgramName }
func (e *CallLogEntry) String() string  { return fmt.Sprintf("call %s depth %d", e.Callee, e.Depth) }

// ExecutionLog is the ordered, append-only record of an execution
type ExecutionLog struct {
	entries []LogEntry
}

// Append adds an entry at the end of the log
func (l *ExecutionLog) Append(entry LogEntry) {
	l.entries = append(l.entries, entry)
}

// Entries returns every entry in order
func (l *ExecutionLog) Entries() []LogEntry {
	return l.entries
}

// Len returns the number of entries
func (l *ExecutionLog) Len() int { return len(l.entries) }

// Concise returns the log without the expression evaluations whose value is
// the one recorded by the nearest earlier evaluation of the same expression
// text
func (l *ExecutionLog) Concise() []LogEntry {
	last := make(map[string]values.Value)
	concise := make([]LogEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		eval, ok := entry.(*ExpressionEvaluationLogEntry)
		if !ok {
			concise = append(concise, entry)
			continue
		}
		text := eval.Expression.String()
		previous, seen := last[text]
		last[text] = eval.Value
		if seen && values.Equal(previous, eval.Value) {
			continue
		}
		concise = append(concise, entry)
	}
	return concise
}
