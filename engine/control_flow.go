package engine

import (
	"context"
	"fmt"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/values"

	"github.com/shopspring/decimal"
)

// ControlSignal tells the enclosing construct how execution continues
// after a statement
type ControlSignal int

const (
	// SignalNormal continues with the next statement
	SignalNormal ControlSignal = iota
	// SignalLeave exits the innermost loop
	SignalLeave
	// SignalIter skips to the next pass of the innermost loop
	SignalIter
	// SignalReturn ends the program unit
	SignalReturn
)

func (s ControlSignal) String() string {
	switch s {
	case SignalNormal:
		return "normal"
	case SignalLeave:
		return "leave"
	case SignalIter:
		return "iter"
	case SignalReturn:
		return "return"
	default:
		return "unknown"
	}
}

// checkContext stops execution once ctx is done
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapError(err, errors.CodeExecutionCancelled, "execution cancelled")
	}
	return nil
}

// evaluateCondition evaluates an expression that must yield a boolean
func (e *ExecutionEngine) evaluateCondition(ctx context.Context, expr ast.Expression) (bool, error) {
	value, err := e.evaluateExpression(ctx, expr)
	if err != nil {
		return false, err
	}
	b, ok := value.(values.BoolValue)
	if !ok {
		return false, errors.NewTypeMismatchError("condition %s evaluated to %s %s, expected a boolean", expr, value.Kind(), value)
	}
	return b.Value, nil
}

// evaluateNumber evaluates an expression that must yield an integer or a
// decimal
func (e *ExecutionEngine) evaluateNumber(ctx context.Context, expr ast.Expression) (decimal.Decimal, error) {
	value, err := e.evaluateExpression(ctx, expr)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, ok := values.AsDecimal(value)
	if !ok {
		return decimal.Decimal{}, errors.NewTypeMismatchError("%s evaluated to %s %s, expected a number", expr, value.Kind(), value)
	}
	return d, nil
}

// runLoopBody executes one pass of a loop body. It reports whether the
// loop must stop and the signal to hand to the enclosing construct.
func (e *ExecutionEngine) runLoopBody(ctx context.Context, body []ast.Statement) (bool, ControlSignal, error) {
	signal, err := e.executeStatements(ctx, body)
	if err != nil {
		return true, SignalNormal, err
	}
	switch signal {
	case SignalLeave:
		return true, SignalNormal, nil
	case SignalReturn:
		return true, SignalReturn, nil
	default:
		return false, SignalNormal, nil
	}
}

// capReached reports whether a loop has used up the configured iteration cap
func (e *ExecutionEngine) capReached(passes int) bool {
	return e.config.IterationLimit > 0 && passes >= e.config.IterationLimit
}

// executeIfStatement runs the first branch whose condition holds
func (e *ExecutionEngine) executeIfStatement(ctx context.Context, stmt *ast.IfStatement) (ControlSignal, error) {
	holds, err := e.evaluateCondition(ctx, stmt.Condition)
	if err != nil {
		return SignalNormal, err
	}
	if holds {
		return e.executeStatements(ctx, stmt.Body)
	}

	for _, elseIf := range stmt.ElseIfs {
		holds, err := e.evaluateCondition(ctx, elseIf.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if holds {
			return e.executeStatements(ctx, elseIf.Body)
		}
	}

	if stmt.HasElse() {
		return e.executeStatements(ctx, stmt.Else.Body)
	}
	return SignalNormal, nil
}

// executeSelectStatement runs the first WHEN whose condition holds, else OTHER
func (e *ExecutionEngine) executeSelectStatement(ctx context.Context, stmt *ast.SelectStatement) (ControlSignal, error) {
	for _, c := range stmt.Cases {
		holds, err := e.evaluateCondition(ctx, c.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if holds {
			return e.executeStatements(ctx, c.Body)
		}
	}
	if stmt.Other != nil {
		return e.executeStatements(ctx, stmt.Other.Body)
	}
	return SignalNormal, nil
}

// executeForStatement runs an ascending FOR loop. The end value is
// evaluated again before every pass.
func (e *ExecutionEngine) executeForStatement(ctx context.Context, stmt *ast.ForStatement) (ControlSignal, error) {
	start, err := e.evaluateExpression(ctx, stmt.Start)
	if err != nil {
		return SignalNormal, err
	}
	if err := e.assign(ctx, stmt.Index, start); err != nil {
		return SignalNormal, err
	}

	step := decimal.NewFromInt(1)
	if stmt.By != nil {
		if step, err = e.evaluateNumber(ctx, stmt.By); err != nil {
			return SignalNormal, err
		}
		if step.Sign() <= 0 {
			return SignalNormal, errors.NewNotImplementedError(fmt.Sprintf("FOR with step %s", step))
		}
	}

	for {
		if err := checkContext(ctx); err != nil {
			return SignalNormal, err
		}
		end, err := e.evaluateNumber(ctx, stmt.End)
		if err != nil {
			return SignalNormal, err
		}
		current, err := e.evaluateNumber(ctx, stmt.Index)
		if err != nil {
			return SignalNormal, err
		}
		if current.GreaterThan(end) {
			return SignalNormal, nil
		}

		stop, signal, err := e.runLoopBody(ctx, stmt.Body)
		if stop {
			return signal, err
		}

		current, err = e.evaluateNumber(ctx, stmt.Index)
		if err != nil {
			return SignalNormal, err
		}
		if err := e.assign(ctx, stmt.Index, numberValue(current.Add(step))); err != nil {
			return SignalNormal, err
		}
	}
}

// executeDoStatement runs a bounded DO loop. The counter is the index
// variable when there is one, otherwise an implicit counter starting at the
// start limit. The iteration cap is checked independently of the limits.
func (e *ExecutionEngine) executeDoStatement(ctx context.Context, stmt *ast.DoStatement) (ControlSignal, error) {
	counter := decimal.NewFromInt(1)
	if stmt.StartLimit != nil {
		var err error
		if counter, err = e.evaluateNumber(ctx, stmt.StartLimit); err != nil {
			return SignalNormal, err
		}
	}
	if stmt.Index != nil {
		if err := e.assign(ctx, stmt.Index, numberValue(counter)); err != nil {
			return SignalNormal, err
		}
	}

	for passes := 0; ; passes++ {
		if err := checkContext(ctx); err != nil {
			return SignalNormal, err
		}
		if stmt.Index != nil {
			var err error
			if counter, err = e.evaluateNumber(ctx, stmt.Index); err != nil {
				return SignalNormal, err
			}
		}
		end, err := e.evaluateNumber(ctx, stmt.EndLimit)
		if err != nil {
			return SignalNormal, err
		}
		if counter.GreaterThan(end) || e.capReached(passes) {
			return SignalNormal, nil
		}

		stop, signal, err := e.runLoopBody(ctx, stmt.Body)
		if stop {
			return signal, err
		}

		if stmt.Index != nil {
			if counter, err = e.evaluateNumber(ctx, stmt.Index); err != nil {
				return SignalNormal, err
			}
		}
		counter = counter.Add(decimal.NewFromInt(1))
		if stmt.Index != nil {
			if err := e.assign(ctx, stmt.Index, numberValue(counter)); err != nil {
				return SignalNormal, err
			}
		}
	}
}

// executeDoWhileStatement runs the body while the condition holds
func (e *ExecutionEngine) executeDoWhileStatement(ctx context.Context, stmt *ast.DoWhileStatement) (ControlSignal, error) {
	for passes := 0; ; passes++ {
		if err := checkContext(ctx); err != nil {
			return SignalNormal, err
		}
		if e.capReached(passes) {
			return SignalNormal, nil
		}
		holds, err := e.evaluateCondition(ctx, stmt.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if !holds {
			return SignalNormal, nil
		}

		stop, signal, err := e.runLoopBody(ctx, stmt.Body)
		if stop {
			return signal, err
		}
	}
}

// executeDoUntilStatement runs the body at least once, until the condition
// holds
func (e *ExecutionEngine) executeDoUntilStatement(ctx context.Context, stmt *ast.DoUntilStatement) (ControlSignal, error) {
	for passes := 0; ; passes++ {
		if err := checkContext(ctx); err != nil {
			return SignalNormal, err
		}
		if e.capReached(passes) {
			return SignalNormal, nil
		}

		stop, signal, err := e.runLoopBody(ctx, stmt.Body)
		if stop {
			return signal, err
		}

		holds, err := e.evaluateCondition(ctx, stmt.Condition)
		if err != nil {
			return SignalNormal, err
		}
		if holds {
			return SignalNormal, nil
		}
	}
}
