// Package engine is the tree-walking interpreter of resolved RPG program
// units: it initializes the symbol table, executes statements, evaluates
// expressions and calls other programs through a SystemInterface.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/logging"
	"rpgexec/symbols"
	"rpgexec/values"
)

// ExecutionEngine executes one program unit. The symbol table survives
// between Execute calls so that a later call can overlay new parameter
// values onto the state left by the previous one.
type ExecutionEngine struct {
	system     SystemInterface
	config     ExecutionEngineConfig
	logger     logging.Logger
	log        *ExecutionLog
	program    *ast.Program
	table      *symbols.Table
	indicators map[int]bool
}

// NewExecutionEngine creates an engine that displays and calls programs
// through system
func NewExecutionEngine(system SystemInterface, config ExecutionEngineConfig) *ExecutionEngine {
	config = config.withDefaults()
	return &ExecutionEngine{
		system:     system,
		config:     config,
		logger:     config.Logger.WithComponent("engine"),
		log:        &ExecutionLog{},
		indicators: make(map[int]bool),
	}
}

// Execute runs program. With reinitialization every data definition gets
// its value from initialValues, else from its initializer, else its blank
// value; without it initialValues are laid over the state of the previous
// execution of the same program.
func (e *ExecutionEngine) Execute(ctx context.Context, program *ast.Program, initialValues map[string]values.Value, reinitialization bool) error {
	ctx = logging.ContextWithProgram(ctx, program.Name)
	if reinitialization || e.table == nil || e.program != program {
		if err := e.initialize(ctx, program); err != nil {
			return err
		}
	}
	if err := e.applyValues(initialValues); err != nil {
		return err
	}

	if !e.config.Trace {
		_, err := e.executeStatements(ctx, program.Statements)
		return err
	}

	logger := e.logger.WithContext(ctx)
	logger.Debug("executing program",
		logging.IntField("statements", len(program.Statements)),
		logging.IntField("depth", CallDepth(ctx)))
	start := time.Now()
	_, err := e.executeStatements(ctx, program.Statements)
	logger.Debug("program finished",
		logging.DurationField("elapsed", time.Since(start)),
		logging.BoolField("failed", err != nil))
	return err
}

// initialize creates a fresh symbol table and runs the initializers of
// every definition
func (e *ExecutionEngine) initialize(ctx context.Context, program *ast.Program) error {
	table, err := symbols.NewTable(program.Name, program.DataDefinitions)
	if err != nil {
		return err
	}
	e.program = program
	e.table = table
	e.indicators = make(map[int]bool)

	for _, def := range program.DataDefinitions {
		if def.Initializer == nil {
			continue
		}
		value, err := e.evaluateExpression(ctx, def.Initializer)
		if err != nil {
			return errors.NewRuntimeErrorWithPosition(program.Name, errors.CodeStatementFailed,
				fmt.Sprintf("failed initializing %s", def.Name), def.Pos).Wrap(err)
		}
		if err := e.table.Set(def.Name, value); err != nil {
			return errors.NewRuntimeErrorWithPosition(program.Name, errors.CodeStatementFailed,
				fmt.Sprintf("failed initializing %s", def.Name), def.Pos).Wrap(err)
		}
	}
	return nil
}

// applyValues writes caller-supplied values. Top-level definitions are
// written before data structure fields so that a field value is not
// overwritten by its container.
func (e *ExecutionEngine) applyValues(initialValues map[string]values.Value) error {
	names := make([]string, 0, len(initialValues))
	for name := range initialValues {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := e.table.Contains(names[i]), e.table.Contains(names[j])
		if ti != tj {
			return ti
		}
		return strings.ToUpper(names[i]) < strings.ToUpper(names[j])
	})
	for _, name := range names {
		if err := e.table.Set(name, initialValues[name]); err != nil {
			return err
		}
	}
	return nil
}

// Program returns the program unit last executed
func (e *ExecutionEngine) Program() *ast.Program { return e.program }

// Log returns the execution log
func (e *ExecutionEngine) Log() *ExecutionLog { return e.log }

// Table returns the symbol table of the last execution
func (e *ExecutionEngine) Table() *symbols.Table { return e.table }

// Value returns the current value of a variable or field
func (e *ExecutionEngine) Value(name string) (values.Value, error) {
	if e.table == nil {
		return nil, errors.NewUnresolvedReferenceError(name)
	}
	return e.table.Get(name)
}

// Indicator returns the state of *INnn
func (e *ExecutionEngine) Indicator(index int) bool {
	return e.indicators[index]
}

// record appends an entry to the execution log and traces it
func (e *ExecutionEngine) record(entry LogEntry) {
	e.log.Append(entry)
	if e.config.Trace {
		e.logger.WithProgram(entry.Program()).Debug(entry.String())
	}
}

func (e *ExecutionEngine) programName() string {
	if e.program == nil {
		return ""
	}
	return e.program.Name
}

// executeStatements runs statements in order until one raises a control
// signal
func (e *ExecutionEngine) executeStatements(ctx context.Context, statements []ast.Statement) (ControlSignal, error) {
	for _, stmt := range statements {
		signal, err := e.executeStatement(ctx, stmt)
		if err != nil {
			return SignalNormal, err
		}
		if signal != SignalNormal {
			return signal, nil
		}
	}
	return SignalNormal, nil
}

// executeStatement runs one statement. A failure is wrapped once with the
// text and position of the innermost statement of this program that failed.
func (e *ExecutionEngine) executeStatement(ctx context.Context, stmt ast.Statement) (ControlSignal, error) {
	signal, err := e.dispatchStatement(ctx, stmt)
	if err == nil {
		return signal, nil
	}
	if execErr, ok := errors.AsExecutionError(err); ok &&
		execErr.Code == errors.CodeStatementFailed && execErr.Program == e.programName() {
		return SignalNormal, err
	}
	return SignalNormal, errors.NewRuntimeErrorWithPosition(e.programName(), errors.CodeStatementFailed,
		fmt.Sprintf("failed executing %s", stmt), stmt.Position()).Wrap(err)
}

func (e *ExecutionEngine) dispatchStatement(ctx context.Context, stmt ast.Statement) (ControlSignal, error) {
	switch s := stmt.(type) {
	case *ast.EvalStatement:
		return SignalNormal, e.executeEval(ctx, s)
	case *ast.IfStatement:
		return e.executeIfStatement(ctx, s)
	case *ast.SelectStatement:
		return e.executeSelectStatement(ctx, s)
	case *ast.ForStatement:
		return e.executeForStatement(ctx, s)
	case *ast.DoStatement:
		return e.executeDoStatement(ctx, s)
	case *ast.DoWhileStatement:
		return e.executeDoWhileStatement(ctx, s)
	case *ast.DoUntilStatement:
		return e.executeDoUntilStatement(ctx, s)
	case *ast.LeaveStatement:
		return SignalLeave, nil
	case *ast.IterStatement:
		return SignalIter, nil
	case *ast.ReturnStatement:
		return SignalReturn, nil
	case *ast.ExecuteSubroutineStatement:
		return e.executeSubroutine(ctx, s)
	case *ast.CallStatement:
		return SignalNormal, e.executeCall(ctx, s)
	case *ast.ClearStatement:
		return SignalNormal, e.executeClear(ctx, s)
	case *ast.DisplayStatement:
		return SignalNormal, e.executeDisplay(ctx, s)
	default:
		return SignalNormal, errors.NewNotImplementedError(fmt.Sprintf("statement %T", stmt))
	}
}

// executeDisplay renders a value and sends it to the display sink
func (e *ExecutionEngine) executeDisplay(ctx context.Context, stmt *ast.DisplayStatement) error {
	value, err := e.evaluateExpression(ctx, stmt.Value)
	if err != nil {
		return err
	}
	text, err := values.FormatValueForDisplay(value)
	if err != nil {
		return err
	}
	e.system.Display(text)
	return nil
}
