package engine

import (
	"context"
	"fmt"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/symbols"
	"rpgexec/values"
)

// executeEval evaluates the right-hand side and writes it to the target.
// *ZERO takes the zero value of the target type.
func (e *ExecutionEngine) executeEval(ctx context.Context, stmt *ast.EvalStatement) error {
	if _, ok := stmt.Expression.(*ast.ZeroLiteral); ok {
		return e.assignZero(ctx, stmt.Target)
	}
	value, err := e.evaluateExpression(ctx, stmt.Expression)
	if err != nil {
		return err
	}
	return e.assign(ctx, stmt.Target, value)
}

func (e *ExecutionEngine) assignZero(ctx context.Context, target ast.AssignableExpression) error {
	switch target.(type) {
	case *ast.DataRefExpr, *ast.ArrayAccessExpr:
		ref, err := e.reference(ctx, target)
		if err != nil {
			return err
		}
		zero, err := values.Zero(ast.ElementType(ref.Type()))
		if err != nil {
			return err
		}
		return e.assignRef(target, ref, zero)
	}
	return e.assign(ctx, target, values.NewInt(0))
}

// assign writes value to an assignable expression
func (e *ExecutionEngine) assign(ctx context.Context, target ast.AssignableExpression, value values.Value) error {
	switch t := target.(type) {
	case *ast.DataRefExpr, *ast.ArrayAccessExpr:
		ref, err := e.reference(ctx, target)
		if err != nil {
			return err
		}
		return e.assignRef(target, ref, value)
	case *ast.PredefinedIndicatorExpr:
		b, ok := value.(values.BoolValue)
		if !ok {
			return errors.NewTypeMismatchError("cannot assign %s %s to %s", value.Kind(), value, t)
		}
		e.indicators[t.Index] = b.Value
		e.recordAssignment(target, value)
		return nil
	case *ast.BuiltinFunctionCall:
		if strings.ToUpper(t.Name) != ast.BuiltinSubst {
			return errors.NewNotImplementedError("assignment to " + t.Name)
		}
		return e.assignSubst(ctx, t, value)
	default:
		return errors.NewNotImplementedError(fmt.Sprintf("assignment to %s", target))
	}
}

// assignRef writes value through ref. A scalar written to a whole array
// fills every element.
func (e *ExecutionEngine) assignRef(target ast.Expression, ref symbols.Ref, value values.Value) error {
	if at, ok := ref.Type().(ast.ArrayType); ok {
		if _, isArray := value.(*values.ArrayValue); !isArray {
			element, err := values.Coerce(value, at.Element)
			if err != nil {
				return err
			}
			elements := make([]values.Value, at.Count)
			for i := range elements {
				elements[i] = element
			}
			value = values.NewArray(at.Element, elements...)
		}
	}
	if err := symbols.Assign(ref, value); err != nil {
		return err
	}
	stored, err := ref.Get()
	if err != nil {
		return err
	}
	e.recordAssignment(target, stored)
	return nil
}

// assignSubst replaces the %SUBST window of a string variable. The value
// is padded with blanks or truncated to the window.
func (e *ExecutionEngine) assignSubst(ctx context.Context, call *ast.BuiltinFunctionCall, value values.Value) error {
	if len(call.Args) < 2 || len(call.Args) > 3 {
		return errors.NewTypeMismatchError("%%SUBST takes 2 to 3 arguments, got %d", len(call.Args))
	}
	replacement, ok := value.(values.StrValue)
	if !ok {
		return errors.NewTypeMismatchError("cannot assign %s %s to %s", value.Kind(), value, call)
	}
	ref, err := e.reference(ctx, call.Arg(0))
	if err != nil {
		return err
	}
	s, err := e.stringArg(ctx, call.Arg(0))
	if err != nil {
		return err
	}
	from, to, err := e.substWindow(ctx, call, len(s))
	if err != nil {
		return err
	}

	text := replacement.Content()
	width := to - from
	if len(text) > width {
		text = text[:width]
	} else {
		text += strings.Repeat(" ", width-len(text))
	}
	return e.assignRef(call.Arg(0), ref, values.NewStr(s[:from]+text+s[to:]))
}

func (e *ExecutionEngine) recordAssignment(target ast.Expression, value values.Value) {
	e.record(&AssignmentLogEntry{
		ProgramName: e.programName(),
		Target:      target.String(),
		Value:       values.Clone(value),
	})
}

// executeClear resets a variable, an array element or an indicator
func (e *ExecutionEngine) executeClear(ctx context.Context, stmt *ast.ClearStatement) error {
	switch target := stmt.Value.(type) {
	case *ast.DataRefExpr, *ast.ArrayAccessExpr:
		ref, err := e.reference(ctx, target)
		if err != nil {
			return err
		}
		blank, err := values.Blank(ref.Type())
		if err != nil {
			return err
		}
		return e.assignRef(target, ref, blank)
	case *ast.PredefinedIndicatorExpr:
		return e.assign(ctx, target, values.NewBool(false))
	default:
		return errors.NewNotImplementedError(fmt.Sprintf("CLEAR of %s", stmt.Value))
	}
}
