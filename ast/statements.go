package ast

import (
	"fmt"
	"strings"
)

// EvalStatement assigns the value of Expression to Target
type EvalStatement struct {
	Target     AssignableExpression
	Expression Expression
	Pos        Position
}

func (n *EvalStatement) statementMarker()   {}
func (n *EvalStatement) Position() Position { return n.Pos }
func (n *EvalStatement) String() string {
	return fmt.Sprintf("EVAL %s = %s", n.Target, n.Expression)
}

// ElseIfClause is one ELSEIF branch of an IfStatement
type ElseIfClause struct {
	Condition Expression
	Body      []Statement
	Pos       Position
}

// ElseClause is the ELSE branch of an IfStatement
type ElseClause struct {
	Body []Statement
	Pos  Position
}

// IfStatement is IF / ELSEIF / ELSE / ENDIF
type IfStatement struct {
	Condition Expression
	Body      []Statement
	ElseIfs   []*ElseIfClause
	Else      *ElseClause // optional
	Pos       Position
}

func (n *IfStatement) statementMarker()   {}
func (n *IfStatement) Position() Position { return n.Pos }
func (n *IfStatement) String() string     { return "IF " + n.Condition.String() }

// HasElse reports whether the statement has an ELSE branch
func (n *IfStatement) HasElse() bool { return n.Else != nil }

// SelectCase is one WHEN branch
type SelectCase struct {
	Condition Expression
	Body      []Statement
	Pos       Position
}

// SelectOther is the OTHER branch
type SelectOther struct {
	Body []Statement
	Pos  Position
}

// SelectStatement is SELECT / WHEN / OTHER / ENDSL
type SelectStatement struct {
	Cases []*SelectCase
	Other *SelectOther // optional
	Pos   Position
}

func (n *SelectStatement) statementMarker()   {}
func (n *SelectStatement) Position() Position { return n.Pos }
func (n *SelectStatement) String() string {
	return fmt.Sprintf("SELECT (%d cases)", len(n.Cases))
}

// ForStatement is FOR Index = Start [BY By] TO End. Only ascending loops exist.
type ForStatement struct {
	Index *DataRefExpr
	Start Expression
	End   Expression
	By    Expression // optional, 1 when absent
	Body  []Statement
	Pos   Position
}

func (n *ForStatement) statementMarker()   {}
func (n *ForStatement) Position() Position { return n.Pos }
func (n *ForStatement) String() string {
	s := fmt.Sprintf("FOR %s = %s", n.Index, n.Start)
	if n.By != nil {
		s += " BY " + n.By.String()
	}
	return s + " TO " + n.End.String()
}

// DoStatement is DO with an optional index, start limit and an end limit
type DoStatement struct {
	EndLimit   Expression
	Index      *DataRefExpr // optional
	StartLimit Expression   // optional, 1 when absent
	Body       []Statement
	Pos        Position
}

func (n *DoStatement) statementMarker()   {}
func (n *DoStatement) Position() Position { return n.Pos }
func (n *DoStatement) String() string {
	var b strings.Builder
	b.WriteString("DO ")
	b.WriteString(n.EndLimit.String())
	if n.Index != nil {
		b.WriteString(" ")
		b.WriteString(n.Index.String())
	}
	return b.String()
}

// DoWhileStatement is DOW: the body runs while Condition holds
type DoWhileStatement struct {
	Condition Expression
	Body      []Statement
	Pos       Position
}

func (n *DoWhileStatement) statementMarker()   {}
func (n *DoWhileStatement) Position() Position { return n.Pos }
func (n *DoWhileStatement) String() string     { return "DOW " + n.Condition.String() }

// DoUntilStatement is DOU: the body runs at least once, until Condition holds
type DoUntilStatement struct {
	Condition Expression
	Body      []Statement
	Pos       Position
}

func (n *DoUntilStatement) statementMarker()   {}
func (n *DoUntilStatement) Position() Position { return n.Pos }
func (n *DoUntilStatement) String() string     { return "DOU " + n.Condition.String() }

// LeaveStatement exits the innermost loop
type LeaveStatement struct {
	Pos Position
}

func (n *LeaveStatement) statementMarker()   {}
func (n *LeaveStatement) Position() Position { return n.Pos }
func (n *LeaveStatement) String() string     { return "LEAVE" }

// IterStatement skips to the next iteration of the innermost loop
type IterStatement struct {
	Pos Position
}

func (n *IterStatement) statementMarker()   {}
func (n *IterStatement) Position() Position { return n.Pos }
func (n *IterStatement) String() string     { return "ITER" }

// ReturnStatement ends the program unit
type ReturnStatement struct {
	Pos Position
}

func (n *ReturnStatement) statementMarker()   {}
func (n *ReturnStatement) Position() Position { return n.Pos }
func (n *ReturnStatement) String() string     { return "RETURN" }

// ExecuteSubroutineStatement is EXSR
type ExecuteSubroutineStatement struct {
	Subroutine string
	Pos        Position
}

func (n *ExecuteSubroutineStatement) statementMarker()   {}
func (n *ExecuteSubroutineStatement) Position() Position { return n.Pos }
func (n *ExecuteSubroutineStatement) String() string     { return "EXSR " + n.Subroutine }

// CallParam is one PARM of a CALL
type CallParam struct {
	Target AssignableExpression
	Pos    Position
}

// CallStatement calls another program by name
type CallStatement struct {
	Program Expression
	Params  []*CallParam
	Pos     Position
}

func (n *CallStatement) statementMarker()   {}
func (n *CallStatement) Position() Position { return n.Pos }
func (n *CallStatement) String() string {
	params := make([]string, len(n.Params))
	for i, p := range n.Params {
		params[i] = p.Target.String()
	}
	return fmt.Sprintf("CALL %s (%s)", n.Program, strings.Join(params, ", "))
}

// ClearStatement resets a variable to its blank value
type ClearStatement struct {
	Value Expression
	Pos   Position
}

func (n *ClearStatement) statementMarker()   {}
func (n *ClearStatement) Position() Position { return n.Pos }
func (n *ClearStatement) String() string     { return "CLEAR " + n.Value.String() }

// DisplayStatement is DSPLY
type DisplayStatement struct {
	Value Expression
	Pos   Position
}

func (n *DisplayStatement) statementMarker()   {}
func (n *DisplayStatement) Position() Position { return n.Pos }
func (n *DisplayStatement) String() string     { return "DSPLY " + n.Value.String() }
