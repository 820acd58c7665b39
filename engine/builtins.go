package engine

import (
	"context"
	"fmt"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/values"

	"github.com/shopspring/decimal"
)

// builtinArity gives the minimum and maximum argument count of every
// built-in function
var builtinArity = map[string][2]int{
	ast.BuiltinSubst: {2, 3},
	ast.BuiltinXlate: {3, 4},
	ast.BuiltinTrim:  {1, 2},
	ast.BuiltinTrimR: {1, 2},
	ast.BuiltinTrimL: {1, 2},
	ast.BuiltinScan:  {2, 3},
	ast.BuiltinLen:   {1, 1},
	ast.BuiltinDec:   {3, 3},
	ast.BuiltinElem:  {1, 1},
}

func (e *ExecutionEngine) evaluateBuiltin(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	name := strings.ToUpper(call.Name)
	arity, ok := builtinArity[name]
	if !ok {
		return nil, errors.NewNotImplementedError("built-in function " + call.Name)
	}
	if len(call.Args) < arity[0] || len(call.Args) > arity[1] {
		return nil, errors.NewTypeMismatchError("%s takes %d to %d arguments, got %d", name, arity[0], arity[1], len(call.Args))
	}

	switch name {
	case ast.BuiltinSubst:
		return e.evaluateSubst(ctx, call)
	case ast.BuiltinXlate:
		return e.evaluateXlate(ctx, call)
	case ast.BuiltinTrim, ast.BuiltinTrimR, ast.BuiltinTrimL:
		return e.evaluateTrim(ctx, name, call)
	case ast.BuiltinScan:
		return e.evaluateScan(ctx, call)
	case ast.BuiltinLen:
		return e.evaluateLen(ctx, call)
	case ast.BuiltinDec:
		return e.evaluateDec(ctx, call)
	default:
		return e.evaluateElem(ctx, call)
	}
}

// stringArg evaluates a string argument. Padding reads as blanks, the way
// a fixed-length field looks to RPG code.
func (e *ExecutionEngine) stringArg(ctx context.Context, expr ast.Expression) (string, error) {
	v, err := e.evaluateExpression(ctx, expr)
	if err != nil {
		return "", err
	}
	s, ok := v.(values.StrValue)
	if !ok {
		return "", errors.NewTypeMismatchError("%s evaluated to %s %s, expected a string", expr, v.Kind(), v)
	}
	return strings.ReplaceAll(s.Value, string(values.PadChar), " "), nil
}

// substWindow returns the 0-based bounds of %SUBST over a string of the
// given length
func (e *ExecutionEngine) substWindow(ctx context.Context, call *ast.BuiltinFunctionCall, length int) (int, int, error) {
	start, err := e.evaluateIndex(ctx, call.Arg(1))
	if err != nil {
		return 0, 0, err
	}
	if start < 1 || start > length {
		return 0, 0, errors.NewRuntimeError(errors.CodeInvalidIndex,
			fmt.Sprintf("%%SUBST start %d out of range 1..%d", start, length))
	}
	end := length
	if call.Arg(2) != nil {
		n, err := e.evaluateIndex(ctx, call.Arg(2))
		if err != nil {
			return 0, 0, err
		}
		if n < 0 || start-1+n > length {
			return 0, 0, errors.NewRuntimeError(errors.CodeInvalidIndex,
				fmt.Sprintf("%%SUBST length %d from %d exceeds %d", n, start, length))
		}
		end = start - 1 + n
	}
	return start - 1, end, nil
}

func (e *ExecutionEngine) evaluateSubst(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	s, err := e.stringArg(ctx, call.Arg(0))
	if err != nil {
		return nil, err
	}
	from, to, err := e.substWindow(ctx, call, len(s))
	if err != nil {
		return nil, err
	}
	return values.NewStr(s[from:to]), nil
}

func (e *ExecutionEngine) evaluateXlate(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	from, err := e.stringArg(ctx, call.Arg(0))
	if err != nil {
		return nil, err
	}
	to, err := e.stringArg(ctx, call.Arg(1))
	if err != nil {
		return nil, err
	}
	s, err := e.stringArg(ctx, call.Arg(2))
	if err != nil {
		return nil, err
	}
	start := 1
	if call.Arg(3) != nil {
		if start, err = e.evaluateIndex(ctx, call.Arg(3)); err != nil {
			return nil, err
		}
		if start < 1 || start > len(s)+1 {
			return nil, errors.NewRuntimeError(errors.CodeInvalidIndex,
				fmt.Sprintf("%%XLATE start %d out of range 1..%d", start, len(s)))
		}
	}

	out := []byte(s)
	for i := start - 1; i < len(out); i++ {
		if k := strings.IndexByte(from, out[i]); k >= 0 && k < len(to) {
			out[i] = to[k]
		}
	}
	return values.NewStr(string(out)), nil
}

func (e *ExecutionEngine) evaluateTrim(ctx context.Context, name string, call *ast.BuiltinFunctionCall) (values.Value, error) {
	s, err := e.stringArg(ctx, call.Arg(0))
	if err != nil {
		return nil, err
	}
	cutset := " "
	if call.Arg(1) != nil {
		if cutset, err = e.stringArg(ctx, call.Arg(1)); err != nil {
			return nil, err
		}
	}
	switch name {
	case ast.BuiltinTrimR:
		return values.NewStr(strings.TrimRight(s, cutset)), nil
	case ast.BuiltinTrimL:
		return values.NewStr(strings.TrimLeft(s, cutset)), nil
	default:
		return values.NewStr(strings.Trim(s, cutset)), nil
	}
}

// evaluateScan returns the 1-based position of the first occurrence at or
// after the start position, or 0
func (e *ExecutionEngine) evaluateScan(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	search, err := e.stringArg(ctx, call.Arg(0))
	if err != nil {
		return nil, err
	}
	s, err := e.stringArg(ctx, call.Arg(1))
	if err != nil {
		return nil, err
	}
	start := 1
	if call.Arg(2) != nil {
		if start, err = e.evaluateIndex(ctx, call.Arg(2)); err != nil {
			return nil, err
		}
		if start < 1 || start > len(s) {
			return nil, errors.NewRuntimeError(errors.CodeInvalidIndex,
				fmt.Sprintf("%%SCAN start %d out of range 1..%d", start, len(s)))
		}
	}
	if search == "" {
		return values.NewInt(0), nil
	}
	if i := strings.Index(s[start-1:], search); i >= 0 {
		return values.NewInt(int64(start + i)), nil
	}
	return values.NewInt(0), nil
}

// evaluateLen gives the declared length of a variable, or the length of a
// computed string
func (e *ExecutionEngine) evaluateLen(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	arg := call.Arg(0)
	switch arg.(type) {
	case *ast.DataRefExpr, *ast.ArrayAccessExpr:
		ref, err := e.reference(ctx, arg)
		if err != nil {
			return nil, err
		}
		switch t := ref.Type().(type) {
		case ast.StringType:
			return values.NewInt(int64(t.Length)), nil
		case ast.NumberType:
			return values.NewInt(int64(t.Length)), nil
		case ast.DataStructureType:
			return values.NewInt(int64(t.TotalSize)), nil
		}
		return nil, errors.NewTypeMismatchError("%%LEN of %s of type %s", ref.Name(), ref.Type())
	}

	v, err := e.evaluateExpression(ctx, arg)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(values.StrValue); ok {
		return values.NewInt(int64(s.Len())), nil
	}
	return nil, errors.NewTypeMismatchError("%%LEN of %s %s", v.Kind(), v)
}

// evaluateDec converts a number or numeric text to a decimal with the given
// digits, truncating extra decimal positions
func (e *ExecutionEngine) evaluateDec(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	v, err := e.evaluateExpression(ctx, call.Arg(0))
	if err != nil {
		return nil, err
	}
	digits, err := e.evaluateIndex(ctx, call.Arg(1))
	if err != nil {
		return nil, err
	}
	decimals, err := e.evaluateIndex(ctx, call.Arg(2))
	if err != nil {
		return nil, err
	}
	if digits < 1 || decimals < 0 || decimals > digits {
		return nil, errors.NewTypeMismatchError("%%DEC with %d digits and %d decimals", digits, decimals)
	}

	var d decimal.Decimal
	switch val := v.(type) {
	case values.StrValue:
		if d, err = decimal.NewFromString(strings.TrimSpace(val.Content())); err != nil {
			return nil, errors.NewTypeMismatchError("%%DEC of non numeric text %s", val)
		}
	default:
		var ok bool
		if d, ok = values.AsDecimal(v); !ok {
			return nil, errors.NewTypeMismatchError("%%DEC of %s %s", v.Kind(), v)
		}
	}

	d = d.Truncate(int32(decimals))
	limit := decimal.New(1, int32(digits-decimals))
	if d.Abs().GreaterThanOrEqual(limit) {
		return nil, errors.NewCodecRangeError("%s does not fit %d digits with %d decimals", d, digits, decimals)
	}
	return values.NewDecimal(d), nil
}

func (e *ExecutionEngine) evaluateElem(ctx context.Context, call *ast.BuiltinFunctionCall) (values.Value, error) {
	arg := call.Arg(0)
	if _, ok := arg.(*ast.DataRefExpr); ok {
		ref, err := e.reference(ctx, arg)
		if err != nil {
			return nil, err
		}
		if t, ok := ref.Type().(ast.ArrayType); ok {
			return values.NewInt(int64(t.Count)), nil
		}
		return nil, errors.NewTypeMismatchError("%%ELEM of %s of type %s", ref.Name(), ref.Type())
	}

	v, err := e.evaluateExpression(ctx, arg)
	if err != nil {
		return nil, err
	}
	if a, ok := v.(*values.ArrayValue); ok {
		return values.NewInt(int64(a.Len())), nil
	}
	return nil, errors.NewTypeMismatchError("%%ELEM of %s %s", v.Kind(), v)
}
