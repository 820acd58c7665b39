package engine

import (
	"bytes"
	"context"
	"math"
	goerrors "errors"
	"strings"
	"testing"

	"rpgexec/ast"
	"rpgexec/errors"
	"rpgexec/logging"
	"rpgexec/values"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSystem collects display output and serves programs from a map
type testSystem struct {
	displayed []string
	programs  map[string]Program
}

func newTestSystem() *testSystem {
	return &testSystem{programs: make(map[string]Program)}
}

func (s *testSystem) Display(text string) { s.displayed = append(s.displayed, text) }

func (s *testSystem) FindProgram(name string) (Program, bool) {
	p, ok := s.programs[strings.ToUpper(name)]
	return p, ok
}

// funcProgram is a callable program backed by a Go function
type funcProgram struct {
	params []string
	fn     func(ctx context.Context, args map[string]values.Value) ([]values.Value, error)
}

func (p *funcProgram) Params() []string { return p.params }

func (p *funcProgram) Execute(ctx context.Context, _ SystemInterface, args map[string]values.Value) ([]values.Value, error) {
	return p.fn(ctx, args)
}

// astProgram runs an AST with a fresh engine on every call
type astProgram struct {
	program *ast.Program
	config  ExecutionEngineConfig
}

func (p *astProgram) Params() []string { return p.program.Params }

func (p *astProgram) Execute(ctx context.Context, sys SystemInterface, args map[string]values.Value) ([]values.Value, error) {
	e := NewExecutionEngine(sys, p.config)
	if err := e.Execute(ctx, p.program, args, true); err != nil {
		return nil, err
	}
	results := make([]values.Value, len(p.program.Params))
	for i, name := range p.program.Params {
		v, err := e.Value(name)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

func ref(name string) *ast.DataRefExpr { return &ast.DataRefExpr{Name: name} }
func str(s string) *ast.StringLiteral { return &ast.StringLiteral{Value: s} }
func num(i int64) *ast.IntLiteral { return &ast.IntLiteral{Value: i} }
func boolean(b bool) *ast.BooleanLiteral { return &ast.BooleanLiteral{Value: b} }
func indicator(i int) *ast.PredefinedIndicatorExpr { return &ast.PredefinedIndicatorExpr{Index: i} }

func bin(left ast.Expression, op string, right ast.Expression) *ast.BinaryExpression {
	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
}

func builtin(name string, args ...ast.Expression) *ast.BuiltinFunctionCall {
	return &ast.BuiltinFunctionCall{Name: name, Args: args}
}

func eval(target ast.AssignableExpression, expr ast.Expression) *ast.EvalStatement {
	return &ast.EvalStatement{Target: target, Expression: expr}
}

func dsply(expr ast.Expression) *ast.DisplayStatement {
	return &ast.DisplayStatement{Value: expr}
}

func intVar(name string) *ast.DataDefinition {
	return &ast.DataDefinition{Name: name, Type: ast.NumberType{Length: 9}}
}

func strVar(name string, length int) *ast.DataDefinition {
	return &ast.DataDefinition{Name: name, Type: ast.StringType{Length: length}}
}

func run(t *testing.T, sys *testSystem, config ExecutionEngineConfig, program *ast.Program) *ExecutionEngine {
	t.Helper()
	e := NewExecutionEngine(sys, config)
	require.NoError(t, e.Execute(context.Background(), program, nil, true))
	return e
}

func requireValue(t *testing.T, e *ExecutionEngine, name string, expected values.Value) {
	t.Helper()
	v, err := e.Value(name)
	require.NoError(t, err)
	assert.True(t, values.Equal(expected, v), "%s: expected %s, got %s", name, expected, v)
}

func TestDisplayGoesToSystem(t *testing.T) {
	sys := newTestSystem()
	run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name:            "HELLO",
		DataDefinitions: []*ast.DataDefinition{strVar("MSG", 10)},
		Statements: []ast.Statement{
			eval(ref("MSG"), str("Hello")),
			dsply(ref("MSG")),
			dsply(bin(num(2), ast.OpMult, num(21))),
			dsply(boolean(true)),
		},
	})
	assert.Equal(t, []string{"Hello", "42", "1"}, sys.displayed)
}

func TestInitializersAndInitialValues(t *testing.T) {
	program := &ast.Program{
		Name: "INZ",
		DataDefinitions: []*ast.DataDefinition{
			{Name: "A", Type: ast.NumberType{Length: 5}, Initializer: num(7)},
			{Name: "B", Type: ast.NumberType{Length: 5}, Initializer: bin(ref("A"), ast.OpPlus, num(1))},
			strVar("C", 3),
		},
	}
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	require.NoError(t, e.Execute(context.Background(), program, map[string]values.Value{"C": values.NewStr("XY")}, true))

	requireValue(t, e, "A", values.NewInt(7))
	requireValue(t, e, "B", values.NewInt(8))
	requireValue(t, e, "C", values.NewStr("XY"))
}

func TestExecuteWithoutReinitializationKeepsState(t *testing.T) {
	program := &ast.Program{
		Name:            "COUNTER",
		DataDefinitions: []*ast.DataDefinition{intVar("N"), intVar("STEP")},
		Statements:      []ast.Statement{eval(ref("N"), bin(ref("N"), ast.OpPlus, ref("STEP")))},
	}
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	ctx := context.Background()

	require.NoError(t, e.Execute(ctx, program, map[string]values.Value{"STEP": values.NewInt(2)}, true))
	require.NoError(t, e.Execute(ctx, program, map[string]values.Value{"STEP": values.NewInt(3)}, false))
	requireValue(t, e, "N", values.NewInt(5))

	require.NoError(t, e.Execute(ctx, program, map[string]values.Value{"STEP": values.NewInt(1)}, true))
	requireValue(t, e, "N", values.NewInt(1))
}

func TestDoLoopStopsAtIterationLimit(t *testing.T) {
	program := &ast.Program{
		Name:            "CAPPED",
		DataDefinitions: []*ast.DataDefinition{intVar("N")},
		Statements: []ast.Statement{
			&ast.DoStatement{
				EndLimit: num(100),
				Body:     []ast.Statement{eval(ref("N"), bin(ref("N"), ast.OpPlus, num(1)))},
			},
		},
	}

	e := run(t, newTestSystem(), ExecutionEngineConfig{IterationLimit: 5}, program)
	requireValue(t, e, "N", values.NewInt(5))

	e = run(t, newTestSystem(), ExecutionEngineConfig{}, program)
	requireValue(t, e, "N", values.NewInt(100))
}

func TestDoLoopWithIndex(t *testing.T) {
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name:            "DOIDX",
		DataDefinitions: []*ast.DataDefinition{intVar("I"), intVar("SUM")},
		Statements: []ast.Statement{
			&ast.DoStatement{
				StartLimit: num(3),
				EndLimit:   num(6),
				Index:      ref("I"),
				Body:       []ast.Statement{eval(ref("SUM"), bin(ref("SUM"), ast.OpPlus, ref("I")))},
			},
		},
	})
	requireValue(t, e, "SUM", values.NewInt(3+4+5+6))
	requireValue(t, e, "I", values.NewInt(7))
}

func TestForLoopWithLeaveAndIter(t *testing.T) {
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name:            "FORLOOP",
		DataDefinitions: []*ast.DataDefinition{intVar("I"), intVar("SUM")},
		Statements: []ast.Statement{
			&ast.ForStatement{
				Index: ref("I"),
				Start: num(1),
				End:   num(10),
				Body: []ast.Statement{
					&ast.IfStatement{Condition: bin(ref("I"), ast.OpEqual, num(3)), Body: []ast.Statement{&ast.IterStatement{}}},
					&ast.IfStatement{Condition: bin(ref("I"), ast.OpEqual, num(6)), Body: []ast.Statement{&ast.LeaveStatement{}}},
					eval(ref("SUM"), bin(ref("SUM"), ast.OpPlus, ref("I"))),
				},
			},
		},
	})
	requireValue(t, e, "SUM", values.NewInt(1+2+4+5))
	requireValue(t, e, "I", values.NewInt(6))
}

func TestForLoopWithStep(t *testing.T) {
	sys := newTestSystem()
	run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name:            "FORBY",
		DataDefinitions: []*ast.DataDefinition{intVar("I")},
		Statements: []ast.Statement{
			&ast.ForStatement{Index: ref("I"), Start: num(1), By: num(3), End: num(10), Body: []ast.Statement{dsply(ref("I"))}},
		},
	})
	assert.Equal(t, []string{"1", "4", "7", "10"}, sys.displayed)
}

func TestDoWhileAndDoUntil(t *testing.T) {
	sys := newTestSystem()
	e := run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name:            "WHILE",
		DataDefinitions: []*ast.DataDefinition{intVar("N"), intVar("M")},
		Statements: []ast.Statement{
			&ast.DoWhileStatement{
				Condition: bin(ref("N"), ast.OpLess, num(3)),
				Body:      []ast.Statement{eval(ref("N"), bin(ref("N"), ast.OpPlus, num(1)))},
			},
			&ast.DoUntilStatement{
				Condition: bin(ref("M"), ast.OpGreaterEqual, num(0)),
				Body:      []ast.Statement{dsply(str("once"))},
			},
		},
	})
	requireValue(t, e, "N", values.NewInt(3))
	assert.Equal(t, []string{"once"}, sys.displayed)
}

func TestSelectRunsFirstMatchingCase(t *testing.T) {
	program := func(n int64) *ast.Program {
		return &ast.Program{
			Name:            "SEL",
			DataDefinitions: []*ast.DataDefinition{intVar("N")},
			Statements: []ast.Statement{
				eval(ref("N"), num(n)),
				&ast.SelectStatement{
					Cases: []*ast.SelectCase{
						{Condition: bin(ref("N"), ast.OpLess, num(10)), Body: []ast.Statement{dsply(str("small"))}},
						{Condition: bin(ref("N"), ast.OpLess, num(100)), Body: []ast.Statement{dsply(str("medium"))}},
					},
					Other: &ast.SelectOther{Body: []ast.Statement{dsply(str("large"))}},
				},
			},
		}
	}
	for n, expected := range map[int64]string{5: "small", 50: "medium", 500: "large"} {
		sys := newTestSystem()
		run(t, sys, ExecutionEngineConfig{}, program(n))
		assert.Equal(t, []string{expected}, sys.displayed)
	}
}

func TestIfElseIfElse(t *testing.T) {
	sys := newTestSystem()
	run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name: "IFS",
		Statements: []ast.Statement{
			&ast.IfStatement{
				Condition: bin(num(1), ast.OpGreater, num(2)),
				Body:      []ast.Statement{dsply(str("if"))},
				ElseIfs: []*ast.ElseIfClause{
					{Condition: bin(num(1), ast.OpEqual, num(2)), Body: []ast.Statement{dsply(str("elseif1"))}},
					{Condition: bin(num(1), ast.OpLess, num(2)), Body: []ast.Statement{dsply(str("elseif2"))}},
				},
				Else: &ast.ElseClause{Body: []ast.Statement{dsply(str("else"))}},
			},
		},
	})
	assert.Equal(t, []string{"elseif2"}, sys.displayed)
}

func TestSubroutineAndReturn(t *testing.T) {
	sys := newTestSystem()
	e := run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name:            "SUBR",
		DataDefinitions: []*ast.DataDefinition{intVar("N")},
		Statements: []ast.Statement{
			&ast.ExecuteSubroutineStatement{Subroutine: "incr"},
			&ast.ExecuteSubroutineStatement{Subroutine: "INCR"},
			dsply(ref("N")),
			&ast.ReturnStatement{},
			dsply(str("unreachable")),
		},
		Subroutines: []*ast.Subroutine{
			{Name: "INCR", Statements: []ast.Statement{eval(ref("N"), bin(ref("N"), ast.OpPlus, num(1)))}},
		},
	})
	assert.Equal(t, []string{"2"}, sys.displayed)

	var subroutines int
	for _, entry := range e.Log().Entries() {
		if _, ok := entry.(*SubroutineExecutionLogEntry); ok {
			subroutines++
		}
	}
	assert.Equal(t, 2, subroutines)
}

func TestAssignments(t *testing.T) {
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name: "ASSIGN",
		DataDefinitions: []*ast.DataDefinition{
			{Name: "ARR", Type: ast.ArrayType{Element: ast.NumberType{Length: 3}, Count: 3}},
			strVar("S", 10),
			{Name: "P", Type: ast.NumberType{Length: 7, DecimalDigits: 2}},
		},
		Statements: []ast.Statement{
			eval(ref("ARR"), num(9)),
			eval(&ast.ArrayAccessExpr{Array: ref("ARR"), Index: num(2)}, num(5)),
			eval(ref("S"), str("ABCDEFGHIJ")),
			eval(builtin(ast.BuiltinSubst, ref("S"), num(3), num(2)), str("x")),
			eval(indicator(50), boolean(true)),
			eval(ref("P"), &ast.DecimalLiteral{Value: mustDecimal("12.349")}),
		},
	})

	requireValue(t, e, "ARR", values.NewArray(ast.NumberType{Length: 3}, values.NewInt(9), values.NewInt(5), values.NewInt(9)))
	requireValue(t, e, "S", values.NewStr("ABx EFGHIJ"))
	requireValue(t, e, "P", values.NewDecimal(mustDecimal("12.34")))
	assert.True(t, e.Indicator(50))
	assert.False(t, e.Indicator(51))
}

func TestZeroAndClear(t *testing.T) {
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name: "CLR",
		DataDefinitions: []*ast.DataDefinition{
			{Name: "N", Type: ast.NumberType{Length: 5}, Initializer: num(12)},
			{Name: "S", Type: ast.StringType{Length: 4}, Initializer: str("AB")},
			{Name: "Z", Type: ast.StringType{Length: 3}},
		},
		Statements: []ast.Statement{
			eval(ref("N"), &ast.ZeroLiteral{}),
			&ast.ClearStatement{Value: ref("S")},
			eval(ref("Z"), &ast.ZeroLiteral{}),
		},
	})
	requireValue(t, e, "N", values.NewInt(0))
	s, err := e.Value("S")
	require.NoError(t, err)
	assert.True(t, s.(values.StrValue).IsBlank())
	requireValue(t, e, "Z", values.NewStr("000"))
}

func TestAssignmentThatDoesNotFitFails(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(context.Background(), &ast.Program{
		Name:            "OVERFLOW",
		DataDefinitions: []*ast.DataDefinition{{Name: "N", Type: ast.NumberType{Length: 2}}},
		Statements:      []ast.Statement{eval(ref("N"), num(123))},
	}, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrAssignmentPrecondition))
	assert.True(t, goerrors.Is(err, errors.ErrStatementFailed))
}

func TestCallCopiesParametersBack(t *testing.T) {
	sys := newTestSystem()
	var gotDepth int
	sys.programs["DOUBLE"] = &funcProgram{
		params: []string{"IN", "OUT"},
		fn: func(ctx context.Context, args map[string]values.Value) ([]values.Value, error) {
			gotDepth = CallDepth(ctx)
			in := args["IN"].(values.IntValue)
			return []values.Value{in, values.NewInt(in.Value * 2)}, nil
		},
	}

	e := run(t, sys, ExecutionEngineConfig{}, &ast.Program{
		Name:            "CALLER",
		DataDefinitions: []*ast.DataDefinition{intVar("A"), intVar("B")},
		Statements: []ast.Statement{
			eval(ref("A"), num(21)),
			&ast.CallStatement{
				Program: str("double"),
				Params:  []*ast.CallParam{{Target: ref("A")}, {Target: ref("B")}},
			},
		},
	})
	requireValue(t, e, "B", values.NewInt(42))
	assert.Equal(t, 1, gotDepth)

	var calls []*CallLogEntry
	for _, entry := range e.Log().Entries() {
		if c, ok := entry.(*CallLogEntry); ok {
			calls = append(calls, c)
		}
	}
	require.Len(t, calls, 1)
	assert.Equal(t, "double", calls[0].Callee)
	assert.Equal(t, "CALLER", calls[0].Program())
}

func TestCallOfUnknownProgram(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(context.Background(), &ast.Program{
		Name:       "CALLER",
		Statements: []ast.Statement{&ast.CallStatement{Program: str("MISSING"), Pos: ast.Position{Line: 4, Column: 7}}},
	}, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrProgramNotFound))

	execErr, ok := errors.AsExecutionError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeStatementFailed, execErr.Code)
	assert.Equal(t, "CALLER", execErr.Program)
	assert.Equal(t, 4, execErr.Line)
	assert.Contains(t, execErr.Message, "CALL 'MISSING'")
}

func TestRecursiveCallHitsDepthLimit(t *testing.T) {
	sys := newTestSystem()
	config := ExecutionEngineConfig{MaxCallDepth: 3}
	sys.programs["SELF"] = &astProgram{
		config: config,
		program: &ast.Program{
			Name:       "SELF",
			Statements: []ast.Statement{&ast.CallStatement{Program: str("SELF")}},
		},
	}

	e := NewExecutionEngine(sys, config)
	err := e.Execute(context.Background(), sys.programs["SELF"].(*astProgram).program, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrCallDepthExceeded))
}

func TestNestedErrorsWrapOncePerProgram(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(context.Background(), &ast.Program{
		Name: "NESTED",
		Statements: []ast.Statement{
			&ast.IfStatement{
				Condition: boolean(true),
				Body:      []ast.Statement{dsply(ref("NOPE"))},
			},
		},
	}, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrUnresolvedReference))

	execErr, ok := errors.AsExecutionError(err)
	require.True(t, ok)
	assert.Contains(t, execErr.Message, "DSPLY NOPE")
	inner, ok := execErr.Cause.(*errors.ExecutionError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeUnresolvedReference, inner.Code)
}

func TestCancelledContextStopsLoops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(ctx, &ast.Program{
		Name:       "FOREVER",
		Statements: []ast.Statement{&ast.DoWhileStatement{Condition: boolean(true)}},
	}, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrExecutionCancelled))
	assert.True(t, goerrors.Is(err, context.Canceled))
}

func TestConditionMustBeBoolean(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(context.Background(), &ast.Program{
		Name:       "BADIF",
		Statements: []ast.Statement{&ast.IfStatement{Condition: num(1)}},
	}, nil, true)
	assert.True(t, goerrors.Is(err, errors.ErrTypeMismatch))
}

func TestConciseLogDropsRepeatedEvaluations(t *testing.T) {
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name:            "CONCISE",
		DataDefinitions: []*ast.DataDefinition{intVar("N")},
		Statements: []ast.Statement{
			dsply(ref("N")),
			dsply(ref("N")),
			eval(ref("N"), num(1)),
			dsply(ref("N")),
		},
	})

	var evaluations []string
	for _, entry := range e.Log().Concise() {
		if ev, ok := entry.(*ExpressionEvaluationLogEntry); ok && ev.Expression.String() == "N" {
			evaluations = append(evaluations, ev.Value.String())
		}
	}
	assert.Equal(t, []string{"0", "1"}, evaluations)
	assert.Greater(t, e.Log().Len(), len(e.Log().Concise()))
}

func TestTraceWritesLogEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewDefaultLoggerWithConfig(logging.LoggerConfig{
		Level:      logging.LevelDebug,
		Formatters: []logging.Formatter{logging.NewTextFormatterWithOptions(false, false, true, false)},
		Writers:    []logging.Writer{logging.NewStreamWriter(&buf)},
	})

	run(t, newTestSystem(), ExecutionEngineConfig{Trace: true, Logger: logger}, &ast.Program{
		Name:            "TRACED",
		DataDefinitions: []*ast.DataDefinition{intVar("N")},
		Statements: []ast.Statement{
			&ast.ExecuteSubroutineStatement{Subroutine: "SET"},
		},
		Subroutines: []*ast.Subroutine{
			{Name: "SET", Statements: []ast.Statement{eval(ref("N"), num(3))}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] [engine] [TRACED] exsr SET")
	assert.Contains(t, out, "[DEBUG] [engine] [TRACED] eval 3 -> 3")
	assert.Contains(t, out, "executing program")
}

func TestTraceOffLogsNothingFromEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewDefaultLoggerWithConfig(logging.LoggerConfig{
		Level:   logging.LevelDebug,
		Writers: []logging.Writer{logging.NewStreamWriter(&buf)},
	})

	run(t, newTestSystem(), ExecutionEngineConfig{Logger: logger}, &ast.Program{
		Name:            "QUIET",
		DataDefinitions: []*ast.DataDefinition{intVar("N")},
		Statements:      []ast.Statement{eval(ref("N"), num(3))},
	})
	assert.NotContains(t, buf.String(), "eval 3")
}

func TestAssignmentBeyondInt64Fails(t *testing.T) {
	e := NewExecutionEngine(newTestSystem(), ExecutionEngineConfig{})
	err := e.Execute(context.Background(), &ast.Program{
		Name:            "WIDE",
		DataDefinitions: []*ast.DataDefinition{{Name: "N", Type: ast.NumberType{Length: 19}}},
		Statements:      []ast.Statement{eval(ref("N"), bin(num(math.MaxInt64), ast.OpPlus, num(1)))},
	}, nil, true)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrAssignmentPrecondition))
	requireValue(t, e, "N", values.NewInt(0))
}

func TestLoggedArrayValuesKeepTheirHistory(t *testing.T) {
	arrayType := ast.ArrayType{Element: ast.NumberType{Length: 3}, Count: 3}
	e := run(t, newTestSystem(), ExecutionEngineConfig{}, &ast.Program{
		Name: "HISTORY",
		DataDefinitions: []*ast.DataDefinition{
			{Name: "ARR", Type: arrayType},
			{Name: "CPY", Type: arrayType},
		},
		Statements: []ast.Statement{
			eval(ref("CPY"), ref("ARR")),
			eval(&ast.ArrayAccessExpr{Array: ref("ARR"), Index: num(1)}, num(7)),
			eval(ref("CPY"), ref("ARR")),
		},
	})

	arrayEvaluations := func(entries []LogEntry) []string {
		var got []string
		for _, entry := range entries {
			if ev, ok := entry.(*ExpressionEvaluationLogEntry); ok && ev.Expression.String() == "ARR" {
				got = append(got, ev.Value.String())
			}
		}
		return got
	}
	expected := []string{"[0, 0, 0]", "[7, 0, 0]"}
	if diff := cmp.Diff(expected, arrayEvaluations(e.Log().Entries())); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected, arrayEvaluations(e.Log().Concise())); diff != "" {
		t.Errorf("concise log mismatch (-want +got):\n%s", diff)
	}

	var assigned []string
	for _, entry := range e.Log().Entries() {
		if a, ok := entry.(*AssignmentLogEntry); ok && a.Target == "CPY" {
			assigned = append(assigned, a.Value.String())
		}
	}
	assert.Equal(t, expected, assigned)
}
