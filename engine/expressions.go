package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/symbols"
	"rpgexec/values"

	"github.com/shopspring/decimal"
)

// evaluateExpression computes the value of expr and records it in the
// execution log
func (e *ExecutionEngine) evaluateExpression(ctx context.Context, expr ast.Expression) (values.Value, error) {
	value, err := e.interpret(ctx, expr)
	if err != nil {
		return nil, atPosition(err, expr.Position())
	}
	e.record(&ExpressionEvaluationLogEntry{
		ProgramName: e.programName(),
		Expression:  expr,
		Value:       values.Clone(value),
	})
	return value, nil
}

func (e *ExecutionEngine) interpret(ctx context.Context, expr ast.Expression) (values.Value, error) {
	switch n := expr.(type) {
	case *ast.StringLiteral:
		return values.NewStr(n.Value), nil
	case *ast.IntLiteral:
		return values.NewInt(n.Value), nil
	case *ast.DecimalLiteral:
		return values.NewDecimal(n.Value), nil
	case *ast.BooleanLiteral:
		return values.NewBool(n.Value), nil
	case *ast.BlanksLiteral:
		return values.BlanksValue{}, nil
	case *ast.HiValLiteral:
		return values.HiValValue{}, nil
	case *ast.ZeroLiteral:
		return values.NewInt(0), nil
	case *ast.DataRefExpr, *ast.ArrayAccessExpr:
		ref, err := e.reference(ctx, expr)
		if err != nil {
			return nil, err
		}
		return ref.Get()
	case *ast.PredefinedIndicatorExpr:
		return values.NewBool(e.indicators[n.Index]), nil
	case *ast.BinaryExpression:
		return e.evaluateBinaryExpression(ctx, n)
	case *ast.UnaryExpression:
		return e.evaluateUnaryExpression(ctx, n)
	case *ast.BuiltinFunctionCall:
		return e.evaluateBuiltin(ctx, n)
	default:
		return nil, errors.NewNotImplementedError(fmt.Sprintf("expression %T", expr))
	}
}

// reference resolves a data reference or an array element to a symbol
// table reference
func (e *ExecutionEngine) reference(ctx context.Context, expr ast.Expression) (symbols.Ref, error) {
	switch n := expr.(type) {
	case *ast.DataRefExpr:
		ref, err := e.table.Resolve(n.Name)
		if err != nil {
			return nil, atPosition(err, n.Pos)
		}
		return ref, nil
	case *ast.ArrayAccessExpr:
		array, err := e.reference(ctx, n.Array)
		if err != nil {
			return nil, err
		}
		index, err := e.evaluateIndex(ctx, n.Index)
		if err != nil {
			return nil, err
		}
		ref, err := symbols.Element(array, index)
		if err != nil {
			return nil, atPosition(err, n.Pos)
		}
		return ref, nil
	default:
		return nil, errors.NewNotImplementedError(fmt.Sprintf("reference to %s", expr))
	}
}

// evaluateIndex evaluates an expression that must yield a whole number
func (e *ExecutionEngine) evaluateIndex(ctx context.Context, expr ast.Expression) (int, error) {
	d, err := e.evaluateNumber(ctx, expr)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, errors.NewRuntimeError(errors.CodeInvalidIndex, fmt.Sprintf("index %s is not a whole number", d))
	}
	return int(d.IntPart()), nil
}

func (e *ExecutionEngine) evaluateBinaryExpression(ctx context.Context, n *ast.BinaryExpression) (values.Value, error) {
	op := strings.ToUpper(n.Operator)

	// AND and OR do not evaluate the right operand when the left one decides
	switch op {
	case ast.OpAnd, ast.OpOr:
		left, err := e.evaluateCondition(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		if (op == ast.OpAnd && !left) || (op == ast.OpOr && left) {
			return values.NewBool(left), nil
		}
		right, err := e.evaluateCondition(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		return values.NewBool(right), nil
	}

	left, err := e.evaluateExpression(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluateExpression(ctx, n.Right)
	if err != nil {
		return nil, err
	}

	switch op {
	case ast.OpEqual, ast.OpDifferent:
		eq, err := areEquals(left, right)
		if err != nil {
			return nil, err
		}
		return values.NewBool(eq == (op == ast.OpEqual)), nil
	case ast.OpGreater, ast.OpGreaterEqual, ast.OpLess, ast.OpLessEqual:
		c, err := Compare(left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case ast.OpGreater:
			return values.NewBool(c == Greater), nil
		case ast.OpGreaterEqual:
			return values.NewBool(c != Smaller), nil
		case ast.OpLess:
			return values.NewBool(c == Smaller), nil
		default:
			return values.NewBool(c != Greater), nil
		}
	case ast.OpPlus:
		if ls, ok := left.(values.StrValue); ok {
			rs, ok := right.(values.StrValue)
			if !ok {
				return nil, errors.NewTypeMismatchError("cannot add %s %s to a string", right.Kind(), right)
			}
			return values.NewStr(ls.Content() + rs.Content()), nil
		}
		return arithmetic(op, left, right)
	case ast.OpMinus, ast.OpMult, ast.OpDiv:
		return arithmetic(op, left, right)
	default:
		return nil, errors.NewNotImplementedError("operator " + n.Operator)
	}
}

// arithmetic applies a numeric operator. Integer operands give an integer
// except for division.
func arithmetic(op string, left, right values.Value) (values.Value, error) {
	l, lok := values.AsDecimal(left)
	r, rok := values.AsDecimal(right)
	if !lok || !rok {
		return nil, errors.NewTypeMismatchError("cannot apply %s to %s %s and %s %s", op, left.Kind(), left, right.Kind(), right)
	}
	_, lint := left.(values.IntValue)
	_, rint := right.(values.IntValue)

	var result decimal.Decimal
	switch op {
	case ast.OpPlus:
		result = l.Add(r)
	case ast.OpMinus:
		result = l.Sub(r)
	case ast.OpMult:
		result = l.Mul(r)
	case ast.OpDiv:
		if r.IsZero() {
			return nil, errors.NewRuntimeError(errors.CodeDivisionByZero, fmt.Sprintf("%s / %s", left, right))
		}
		return values.NewDecimal(l.Div(r)), nil
	}
	if lint && rint && values.FitsInt(result) {
		return values.NewInt(result.IntPart()), nil
	}
	return values.NewDecimal(result), nil
}

func (e *ExecutionEngine) evaluateUnaryExpression(ctx context.Context, n *ast.UnaryExpression) (values.Value, error) {
	switch strings.ToUpper(n.Operator) {
	case ast.OpNot:
		b, err := e.evaluateCondition(ctx, n.Operand)
		if err != nil {
			return nil, err
		}
		return values.NewBool(!b), nil
	case ast.OpNegate:
		v, err := e.evaluateExpression(ctx, n.Operand)
		if err != nil {
			return nil, err
		}
		switch num := v.(type) {
		case values.IntValue:
			if num.Value == math.MinInt64 {
				return values.NewDecimal(decimal.NewFromInt(num.Value).Neg()), nil
			}
			return values.NewInt(-num.Value), nil
		case values.DecimalValue:
			return values.NewDecimal(num.Value.Neg()), nil
		}
		return nil, errors.NewTypeMismatchError("cannot negate %s %s", v.Kind(), v)
	default:
		return nil, errors.NewNotImplementedError("operator " + n.Operator)
	}
}

// numberValue returns an integer value when d has no fractional part
func numberValue(d decimal.Decimal) values.Value {
	if values.FitsInt(d) {
		return values.NewInt(d.IntPart())
	}
	return values.NewDecimal(d)
}

// atPosition attaches pos to an execution error that has none yet
func atPosition(err error, pos ast.Position) error {
	execErr, ok := errors.AsExecutionError(err)
	if !ok || execErr.Line > 0 || pos.Line == 0 {
		return err
	}
	return execErr.WithPosition(pos)
}
