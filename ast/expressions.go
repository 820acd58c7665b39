package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// StringLiteral is a quoted character literal
type StringLiteral struct {
	Value string
	Pos   Position
}

func (n *StringLiteral) expressionMarker()  {}
func (n *StringLiteral) Position() Position { return n.Pos }
func (n *StringLiteral) String() string {
	return "'" + strings.ReplaceAll(n.Value, "'", "''") + "'"
}

// IntLiteral is an integer literal
type IntLiteral struct {
	Value int64
	Pos   Position
}

func (n *IntLiteral) expressionMarker()  {}
func (n *IntLiteral) Position() Position { return n.Pos }
func (n *IntLiteral) String() string     { return strconv.FormatInt(n.Value, 10) }

// DecimalLiteral is a numeric literal with decimal digits
type DecimalLiteral struct {
	Value decimal.Decimal
	Pos   Position
}

func (n *DecimalLiteral) expressionMarker()  {}
func (n *DecimalLiteral) Position() Position { return n.Pos }
func (n *DecimalLiteral) String() string     { return n.Value.String() }

// BooleanLiteral is *ON or *OFF
type BooleanLiteral struct {
	Value bool
	Pos   Position
}

func (n *BooleanLiteral) expressionMarker()  {}
func (n *BooleanLiteral) Position() Position { return n.Pos }
func (n *BooleanLiteral) String() string {
	if n.Value {
		return "*ON"
	}
	return "*OFF"
}

// BlanksLiteral is the figurative constant *BLANKS
type BlanksLiteral struct {
	Pos Position
}

func (n *BlanksLiteral) expressionMarker()  {}
func (n *BlanksLiteral) Position() Position { return n.Pos }
func (n *BlanksLiteral) String() string     { return "*BLANKS" }

// HiValLiteral is the figurative constant *HIVAL
type HiValLiteral struct {
	Pos Position
}

func (n *HiValLiteral) expressionMarker()  {}
func (n *HiValLiteral) Position() Position { return n.Pos }
func (n *HiValLiteral) String() string     { return "*HIVAL" }

// ZeroLiteral is the figurative constant *ZERO
type ZeroLiteral struct {
	Pos Position
}

func (n *ZeroLiteral) expressionMarker()  {}
func (n *ZeroLiteral) Position() Position { return n.Pos }
func (n *ZeroLiteral) String() string     { return "*ZERO" }

// DataRefExpr references a data definition or a data structure field by name
type DataRefExpr struct {
	Name string
	Pos  Position
}

func (n *DataRefExpr) expressionMarker()  {}
func (n *DataRefExpr) assignableMarker()  {}
func (n *DataRefExpr) Position() Position { return n.Pos }
func (n *DataRefExpr) String() string     { return n.Name }

// ArrayAccessExpr reads one element of an array. Index is 1-based.
type ArrayAccessExpr struct {
	Array Expression
	Index Expression
	Pos   Position
}

func (n *ArrayAccessExpr) expressionMarker()  {}
func (n *ArrayAccessExpr) assignableMarker()  {}
func (n *ArrayAccessExpr) Position() Position { return n.Pos }
func (n *ArrayAccessExpr) String() string {
	return fmt.Sprintf("%s(%s)", n.Array, n.Index)
}

// PredefinedIndicatorExpr references the indicator *INnn
type PredefinedIndicatorExpr struct {
	Index int
	Pos   Position
}

func (n *PredefinedIndicatorExpr) expressionMarker()  {}
func (n *PredefinedIndicatorExpr) assignableMarker()  {}
func (n *PredefinedIndicatorExpr) Position() Position { return n.Pos }
func (n *PredefinedIndicatorExpr) String() string     { return fmt.Sprintf("*IN%02d", n.Index) }

// Binary operators understood by the engine
const (
	OpEqual        = "="
	OpDifferent    = "<>"
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpPlus         = "+"
	OpMinus        = "-"
	OpMult         = "*"
	OpDiv          = "/"
	OpAnd          = "AND"
	OpOr           = "OR"
)

// BinaryExpression is an operator applied to two operands
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
	Pos      Position
}

func (n *BinaryExpression) expressionMarker()  {}
func (n *BinaryExpression) Position() Position { return n.Pos }
func (n *BinaryExpression) String() string {
	return fmt.Sprintf("%s %s %s", n.Left, n.Operator, n.Right)
}

// Unary operators understood by the engine
const (
	OpNot    = "NOT"
	OpNegate = "-"
)

// UnaryExpression is an operator applied to one operand
type UnaryExpression struct {
	Operator string
	Operand  Expression
	Pos      Position
}

func (n *UnaryExpression) expressionMarker()  {}
func (n *UnaryExpression) Position() Position { return n.Pos }
func (n *UnaryExpression) String() string {
	if n.Operator == OpNot {
		return "NOT " + n.Operand.String()
	}
	return n.Operator + n.Operand.String()
}

// Built-in functions understood by the engine
const (
	BuiltinSubst = "%SUBST"
	BuiltinXlate = "%XLATE"
	BuiltinTrim  = "%TRIM"
	BuiltinTrimR = "%TRIMR"
	BuiltinTrimL = "%TRIML"
	BuiltinScan  = "%SCAN"
	BuiltinLen   = "%LEN"
	BuiltinDec   = "%DEC"
	BuiltinElem  = "%ELEM"
)

// BuiltinFunctionCall is a call of an RPG built-in function such as %SUBST.
// Only %SUBST may be the target of an assignment.
type BuiltinFunctionCall struct {
	Name string
	Args []Expression
	Pos  Position
}

func (n *BuiltinFunctionCall) expressionMarker()  {}
func (n *BuiltinFunctionCall) assignableMarker()  {}
func (n *BuiltinFunctionCall) Position() Position { return n.Pos }
func (n *BuiltinFunctionCall) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, " : "))
}

// Arg returns the i-th argument or nil when absent
func (n *BuiltinFunctionCall) Arg(i int) Expression {
	if i < len(n.Args) {
		return n.Args[i]
	}
	return nil
}
