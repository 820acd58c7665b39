package ast

import (
	"fmt"
	"strings"
)

// Type is the declared type of a data definition or field
type Type interface {
	// Size returns the number of bytes the type occupies in a record
	Size() int
	String() string
	typeMarker()
}

// StringType is a fixed-length character field
type StringType struct {
	Length int
}

func (t StringType) typeMarker() {}

// Size returns the declared length
func (t StringType) Size() int { return t.Length }

func (t StringType) String() string { return fmt.Sprintf("StringType(%d)", t.Length) }

// NumberFormat is the in-record layout of a numeric field
type NumberFormat int

const (
	// FormatZoned stores one digit per byte
	FormatZoned NumberFormat = iota
	// FormatPacked stores two digits per byte plus a sign nibble
	FormatPacked
	// FormatBinary stores a scaled two's-complement integer sized by digits
	FormatBinary
	// FormatInteger stores a two's-complement integer sized by RPG integer length
	FormatInteger
)

// String returns the RPG data type letter of the format
func (f NumberFormat) String() string {
	switch f {
	case FormatZoned:
		return "S"
	case FormatPacked:
		return "P"
	case FormatBinary:
		return "B"
	case FormatInteger:
		return "I"
	default:
		return "?"
	}
}

// NumberType is a numeric field with Length total digits of which
// DecimalDigits are after the decimal point
type NumberType struct {
	Length        int
	DecimalDigits int
	Format        NumberFormat
}

func (t NumberType) typeMarker() {}

// IsInteger reports whether the type carries no decimal digits
func (t NumberType) IsInteger() bool { return t.DecimalDigits == 0 }

// Size returns the number of bytes of the in-record layout
func (t NumberType) Size() int {
	switch t.Format {
	case FormatPacked:
		return (t.Length + 2) / 2
	case FormatBinary:
		switch {
		case t.Length <= 4:
			return 2
		case t.Length <= 9:
			return 4
		default:
			return 8
		}
	case FormatInteger:
		switch {
		case t.Length <= 3:
			return 1
		case t.Length <= 5:
			return 2
		case t.Length <= 10:
			return 4
		default:
			return 8
		}
	default:
		return t.Length
	}
}

func (t NumberType) String() string {
	return fmt.Sprintf("NumberType(%d%s%d)", t.Length, t.Format, t.DecimalDigits)
}

// BooleanType is an indicator-like one byte flag
type BooleanType struct{}

func (t BooleanType) typeMarker() {}

// Size returns 1
func (t BooleanType) Size() int { return 1 }

func (t BooleanType) String() string { return "BooleanType" }

// ArrayType is a fixed number of elements of the same type
type ArrayType struct {
	Element Type
	Count   int
}

func (t ArrayType) typeMarker() {}

// Size returns the size of all the elements
func (t ArrayType) Size() int { return t.Element.Size() * t.Count }

func (t ArrayType) String() string {
	return fmt.Sprintf("ArrayType(%s, %d)", t.Element, t.Count)
}

// DataStructureType is a contiguous storage area whose fields are byte
// windows into it
type DataStructureType struct {
	Fields    []FieldDefinition
	TotalSize int
}

func (t DataStructureType) typeMarker() {}

// Size returns the declared total size
func (t DataStructureType) Size() int { return t.TotalSize }

func (t DataStructureType) String() string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return fmt.Sprintf("DataStructureType(%d: %s)", t.TotalSize, strings.Join(names, ", "))
}

// Field returns the field with the given name, case-insensitively
func (t DataStructureType) Field(name string) (FieldDefinition, bool) {
	for _, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Validate checks that fields are ordered by declaration, do not overlap and
// fit in the declared total size
func (t DataStructureType) Validate() error {
	previousEnd := 0
	for _, f := range t.Fields {
		if f.StartOffset < 0 || f.EndOffset < f.StartOffset {
			return fmt.Errorf("field %s has invalid range [%d, %d)", f.Name, f.StartOffset, f.EndOffset)
		}
		if f.StartOffset < previousEnd {
			return fmt.Errorf("field %s at [%d, %d) overlaps the previous field", f.Name, f.StartOffset, f.EndOffset)
		}
		if f.EndOffset > t.TotalSize {
			return fmt.Errorf("field %s ends at %d past the total size %d", f.Name, f.EndOffset, t.TotalSize)
		}
		previousEnd = f.EndOffset
	}
	return nil
}

// ElementType returns the element type of an array, or the type itself
func ElementType(t Type) Type {
	if at, ok := t.(ArrayType); ok {
		return at.Element
	}
	return t
}
