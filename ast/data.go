package ast

import (
	"fmt"
	"strings"
)

// FieldDefinition is a field of a data structure. EndOffset is exclusive.
type FieldDefinition struct {
	Name        string
	Type        Type
	StartOffset int
	EndOffset   int
}

// Size returns the number of bytes the field covers in its container
func (f FieldDefinition) Size() int {
	return f.EndOffset - f.StartOffset
}

// ElementSize returns the size of one element of an array field, or the
// field size for scalar fields
func (f FieldDefinition) ElementSize() int {
	if at, ok := f.Type.(ArrayType); ok && at.Count > 0 {
		return f.Size() / at.Count
	}
	return f.Size()
}

func (f FieldDefinition) String() string {
	return fmt.Sprintf("%s[%d,%d) %s", f.Name, f.StartOffset, f.EndOffset, f.Type)
}

// DataDefinition is a top-level declaration of a program unit
type DataDefinition struct {
	Name        string
	Type        Type
	Initializer Expression // INZ clause, optional
	Pos         Position
}

// Position returns the position of the declaration
func (d *DataDefinition) Position() Position { return d.Pos }

func (d *DataDefinition) String() string {
	return fmt.Sprintf("%s %s", d.Name, d.Type)
}

// Subroutine is a named block of statements sharing the program storage
type Subroutine struct {
	Name       string
	Statements []Statement
	Pos        Position
}

// Program is a resolved program unit
type Program struct {
	Name            string
	DataDefinitions []*DataDefinition
	// Params lists the entry parameters in declaration order
	Params      []string
	Statements  []Statement
	Subroutines []*Subroutine
}

// Subroutine returns the subroutine with the given name
func (p *Program) Subroutine(name string) (*Subroutine, bool) {
	for _, s := range p.Subroutines {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

// DataDefinition returns the top-level definition with the given name
func (p *Program) DataDefinition(name string) (*DataDefinition, bool) {
	for _, d := range p.DataDefinitions {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return nil, false
}
