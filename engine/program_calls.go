package engine

import (
	"context"
	"fmt"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/logging"
	"rpgexec/values"
)

// executeSubroutine runs a subroutine of the current program. It shares the
// program storage and its control signals reach the caller unchanged.
func (e *ExecutionEngine) executeSubroutine(ctx context.Context, stmt *ast.ExecuteSubroutineStatement) (ControlSignal, error) {
	sub, ok := e.program.Subroutine(stmt.Subroutine)
	if !ok {
		return SignalNormal, errors.NewUnresolvedReferenceError(stmt.Subroutine).WithProgram(e.programName())
	}
	e.record(&SubroutineExecutionLogEntry{ProgramName: e.programName(), Subroutine: sub.Name})
	return e.executeStatements(ctx, sub.Statements)
}

// executeCall runs another program. Arguments bind to the callee parameters
// by position and every parameter value is copied back to its argument when
// the callee returns.
func (e *ExecutionEngine) executeCall(ctx context.Context, stmt *ast.CallStatement) error {
	nameValue, err := e.evaluateExpression(ctx, stmt.Program)
	if err != nil {
		return err
	}
	nameStr, ok := nameValue.(values.StrValue)
	if !ok {
		return errors.NewTypeMismatchError("program name %s evaluated to %s %s", stmt.Program, nameValue.Kind(), nameValue)
	}
	name := strings.TrimSpace(nameStr.Content())

	program, ok := e.system.FindProgram(name)
	if !ok {
		return errors.NewProgramNotFoundError(name)
	}

	depth := CallDepth(ctx) + 1
	if e.config.MaxCallDepth > 0 && depth > e.config.MaxCallDepth {
		return errors.NewRuntimeError(errors.CodeCallDepthExceeded,
			fmt.Sprintf("calling %s would nest %d programs, limit is %d", name, depth, e.config.MaxCallDepth))
	}

	params := program.Params()
	if len(stmt.Params) > len(params) {
		return errors.NewTypeMismatchError("%s declares %d parameters, called with %d", name, len(params), len(stmt.Params))
	}
	args := make(map[string]values.Value, len(stmt.Params))
	for i, p := range stmt.Params {
		value, err := e.evaluateExpression(ctx, p.Target)
		if err != nil {
			return err
		}
		args[params[i]] = value
	}

	e.record(&CallLogEntry{ProgramName: e.programName(), Callee: name, Depth: depth})
	e.logger.WithContext(ctx).Debug("calling program",
		logging.StringField("callee", name),
		logging.IntField("depth", depth))

	results, err := program.Execute(withCallDepth(ctx, depth), e.system, args)
	if err != nil {
		return err
	}

	for i, p := range stmt.Params {
		if i >= len(results) {
			break
		}
		if err := e.assign(ctx, p.Target, results[i]); err != nil {
			return err
		}
	}
	return nil
}
