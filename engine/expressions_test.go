package engine

import (
	"context"
	"math"
	goerrors "errors"
	"testing"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/values"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// evaluate runs a single expression in a program declaring defs
func evaluate(t *testing.T, expr ast.Expression, defs ...*ast.DataDefinition) (values.Value, error) {
	t.Helper()
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	require.NoError(t, e.Execute(context.Background(), &ast.Program{Name: "EXPR", DataDefinitions: defs}, nil, true))
	return e.evaluateExpression(context.Background(), expr)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     values.Value
		expected Comparison
	}{
		{"int below hival", values.NewInt(100), values.HiValValue{}, Smaller},
		{"hival above int", values.HiValValue{}, values.NewInt(100), Greater},
		{"hival above string", values.HiValValue{}, values.NewStr("zzz"), Greater},
		{"hival equals hival", values.HiValValue{}, values.HiValValue{}, Equal},
		{"ints", values.NewInt(1), values.NewInt(2), Smaller},
		{"int and decimal", values.NewInt(2), values.NewDecimal(mustDecimal("2.00")), Equal},
		{"decimals", values.NewDecimal(mustDecimal("3.5")), values.NewDecimal(mustDecimal("-3.5")), Greater},
		{"strings", values.NewStr("ABC"), values.NewStr("ABD"), Smaller},
		{"strings padded with blanks", values.NewStr("AB"), values.NewStr("AB   "), Equal},
		{"shorter string below", values.NewStr("AB"), values.NewStr("AB0"), Smaller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestHiValIsNeverSmaller(t *testing.T) {
	for _, v := range []values.Value{
		values.NewInt(-5), values.NewInt(999999), values.NewDecimal(mustDecimal("1e20")),
		values.NewStr(""), values.NewStr("\xff\xff"), values.HiValValue{},
	} {
		c, err := Compare(values.HiValValue{}, v)
		require.NoError(t, err)
		assert.NotEqual(t, Smaller, c, "*HIVAL vs %s", v)
	}
}

func TestCompareIncompatibleKinds(t *testing.T) {
	_, err := Compare(values.NewInt(1), values.NewStr("1"))
	assert.True(t, goerrors.Is(err, errors.ErrTypeMismatch))

	_, err = Compare(values.NewBool(true), values.NewInt(1))
	assert.True(t, goerrors.Is(err, errors.ErrNotImplemented))
}

func TestBlanksEquality(t *testing.T) {
	eq, err := areEquals(values.BlanksValue{}, values.NewStr("    "))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = areEquals(values.NewStr(" x "), values.BlanksValue{})
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = areEquals(values.BlanksValue{}, values.NewInt(0))
	assert.True(t, goerrors.Is(err, errors.ErrTypeMismatch))
}

func TestExpressions(t *testing.T) {
	s := &ast.DataDefinition{Name: "S", Type: ast.StringType{Length: 6}, Initializer: str("AB")}
	arr := &ast.DataDefinition{Name: "ARR", Type: ast.ArrayType{Element: ast.NumberType{Length: 2}, Count: 4}}

	tests := []struct {
		name     string
		expr     ast.Expression
		expected values.Value
	}{
		{"concatenation", bin(str("AB"), ast.OpPlus, str("CD")), values.NewStr("ABCD")},
		{"integer sum", bin(num(2), ast.OpPlus, num(3)), values.NewInt(5)},
		{"decimal product", bin(num(2), ast.OpMult, &ast.DecimalLiteral{Value: mustDecimal("1.5")}), values.NewDecimal(mustDecimal("3"))},
		{"division", bin(num(7), ast.OpDiv, num(2)), values.NewDecimal(mustDecimal("3.5"))},
		{"negation", &ast.UnaryExpression{Operator: ast.OpNegate, Operand: num(4)}, values.NewInt(-4)},
		{"not", &ast.UnaryExpression{Operator: ast.OpNot, Operand: boolean(false)}, values.NewBool(true)},
		{"different", bin(num(1), ast.OpDifferent, num(2)), values.NewBool(true)},
		{"less or equal", bin(num(2), ast.OpLessEqual, num(2)), values.NewBool(true)},
		{"and", bin(boolean(true), "and", boolean(false)), values.NewBool(false)},
		{"or", bin(boolean(false), ast.OpOr, boolean(true)), values.NewBool(true)},
		{"blank comparison", bin(ref("S"), ast.OpEqual, &ast.BlanksLiteral{}), values.NewBool(false)},
		{"unset indicator", indicator(99), values.NewBool(false)},
		{"zero", &ast.ZeroLiteral{}, values.NewInt(0)},
		{"scan found", builtin(ast.BuiltinScan, str("B"), str("ABC")), values.NewInt(2)},
		{"scan missing", builtin(ast.BuiltinScan, str("Z"), str("ABC")), values.NewInt(0)},
		{"scan from start", builtin(ast.BuiltinScan, str("A"), str("ABCA"), num(2)), values.NewInt(4)},
		{"subst", builtin(ast.BuiltinSubst, str("ABCDEF"), num(2), num(3)), values.NewStr("BCD")},
		{"subst to end", builtin(ast.BuiltinSubst, str("ABCDEF"), num(4)), values.NewStr("DEF")},
		{"subst of padded field", builtin(ast.BuiltinSubst, ref("S"), num(2), num(3)), values.NewStr("B  ")},
		{"trim", builtin(ast.BuiltinTrim, str("  A B  ")), values.NewStr("A B")},
		{"trimr", builtin(ast.BuiltinTrimR, ref("S")), values.NewStr("AB")},
		{"triml", builtin(ast.BuiltinTrimL, str("00012"), str("0")), values.NewStr("12")},
		{"xlate", builtin(ast.BuiltinXlate, str("abc"), str("ABC"), str("a-b-c-d")), values.NewStr("A-B-C-d")},
		{"len of variable", builtin(ast.BuiltinLen, ref("S")), values.NewInt(6)},
		{"len of expression", builtin(ast.BuiltinLen, bin(str("AB"), ast.OpPlus, str("C"))), values.NewInt(3)},
		{"dec of text", builtin(ast.BuiltinDec, str(" 12.345 "), num(5), num(2)), values.NewDecimal(mustDecimal("12.34"))},
		{"dec of number", builtin(ast.BuiltinDec, num(42), num(3), num(0)), values.NewDecimal(mustDecimal("42"))},
		{"elem", builtin(ast.BuiltinElem, ref("ARR")), values.NewInt(4)},
		{"array element", &ast.ArrayAccessExpr{Array: ref("ARR"), Index: num(4)}, values.NewInt(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := evaluate(t, tt.expr, s, arr)
			require.NoError(t, err)
			assert.True(t, values.Equal(tt.expected, v), "expected %s, got %s", tt.expected, v)
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	arr := &ast.DataDefinition{Name: "ARR", Type: ast.ArrayType{Element: ast.NumberType{Length: 2}, Count: 4}}

	tests := []struct {
		name     string
		expr     ast.Expression
		expected error
	}{
		{"division by zero", bin(num(1), ast.OpDiv, num(0)), errors.ErrDivisionByZero},
		{"string plus number", bin(str("A"), ast.OpPlus, num(1)), errors.ErrTypeMismatch},
		{"number minus string", bin(num(1), ast.OpMinus, str("A")), errors.ErrTypeMismatch},
		{"unknown variable", ref("NOPE"), errors.ErrUnresolvedReference},
		{"index out of range", &ast.ArrayAccessExpr{Array: ref("ARR"), Index: num(5)}, errors.ErrInvalidIndex},
		{"index zero", &ast.ArrayAccessExpr{Array: ref("ARR"), Index: num(0)}, errors.ErrInvalidIndex},
		{"subst beyond end", builtin(ast.BuiltinSubst, str("ABC"), num(2), num(5)), errors.ErrInvalidIndex},
		{"dec overflow", builtin(ast.BuiltinDec, num(1000), num(3), num(0)), errors.ErrCodecRange},
		{"unknown builtin", builtin("%FOO", num(1)), errors.ErrNotImplemented},
		{"wrong arity", builtin(ast.BuiltinLen), errors.ErrTypeMismatch},
		{"not of number", &ast.UnaryExpression{Operator: ast.OpNot, Operand: num(1)}, errors.ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluate(t, tt.expr, arr)
			require.Error(t, err)
			assert.True(t, goerrors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	// the right operand would fail with an unresolved reference
	_, err := evaluate(t, bin(boolean(false), ast.OpAnd, ref("NOPE")))
	require.NoError(t, err)
	_, err = evaluate(t, bin(boolean(true), ast.OpOr, ref("NOPE")))
	require.NoError(t, err)
}

func TestEvaluationsAreLogged(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	require.NoError(t, e.Execute(context.Background(), &ast.Program{
		Name:       "LOGGED",
		Statements: []ast.Statement{dsply(bin(num(1), ast.OpPlus, num(2)))},
	}, nil, true))

	var logged []string
	for _, entry := range e.Log().Entries() {
		logged = append(logged, entry.String())
	}
	expected := []string{"eval 1 -> 1", "eval 2 -> 2", "eval 1 + 2 -> 3"}
	if diff := cmp.Diff(expected, logged); diff != "" {
		t.Errorf("execution log mismatch (-want +got):\n%s", diff)
	}
}

func TestIntegerArithmeticLeavesInt64AsDecimal(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expression
		expected string
	}{
		{"sum", bin(num(math.MaxInt64), ast.OpPlus, num(1)), "9223372036854775808"},
		{"difference", bin(num(math.MinInt64), ast.OpMinus, num(1)), "-9223372036854775809"},
		{"product", bin(num(math.MaxInt64), ast.OpMult, num(2)), "18446744073709551614"},
		{"negation", &ast.UnaryExpression{Operator: ast.OpNegate, Operand: num(math.MinInt64)}, "9223372036854775808"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := evaluate(t, tt.expr)
			require.NoError(t, err)
			d, ok := v.(values.DecimalValue)
			require.True(t, ok, "expected a decimal, got %s %s", v.Kind(), v)
			assert.Equal(t, tt.expected, d.Value.String())
		})
	}

	v, err := evaluate(t, bin(num(math.MaxInt64-1), ast.OpPlus, num(1)))
	require.NoError(t, err)
	assert.Equal(t, values.NewInt(math.MaxInt64), v)
}
