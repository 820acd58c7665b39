// Package ast holds the resolved representation of an RPG program unit as it
// is handed to the execution engine. The front-end that builds these nodes
// lives outside this module.
package ast

import "fmt"

// Position is a location in the program source
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position carries a line number
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Node is the common interface of every AST node
type Node interface {
	Position() Position
	String() string
}

// Statement is an executable node
type Statement interface {
	Node
	statementMarker()
}

// Expression is an evaluable node
type Expression interface {
	Node
	expressionMarker()
}

// AssignableExpression marks expressions that may appear on the left side of
// an assignment
type AssignableExpression interface {
	Expression
	assignableMarker()
}
