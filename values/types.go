// Package values implements the runtime value model of the RPG engine: a
// closed set of value kinds, the coercion rules applied on every write and
// the type-appropriate blank defaults.
package values

import (
	"fmt"
	"strconv"
	"strings"

	"rpgexec/ast"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a Value
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindBool
	KindArray
	KindStruct
	KindBlanks
	KindHiVal
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindBlanks:
		return "*BLANKS"
	case KindHiVal:
		return "*HIVAL"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	valueMarker()
}

// PadChar pads fixed-length strings
const PadChar = '\x00'

// StrValue is a fixed-length string; its length is the length of Value
type StrValue struct {
	Value string
}

// NewStr creates a string value
func NewStr(s string) StrValue { return StrValue{Value: s} }

func (v StrValue) valueMarker() {}

// Kind returns KindString
func (v StrValue) Kind() Kind { return KindString }

func (v StrValue) String() string { return "'" + v.Content() + "'" }

// Len returns the fixed length of the string, padding included
func (v StrValue) Len() int { return len(v.Value) }

// Content returns the text up to the first pad character
func (v StrValue) Content() string {
	if i := strings.IndexByte(v.Value, PadChar); i >= 0 {
		return v.Value[:i]
	}
	return v.Value
}

// IsBlank reports whether the string holds only spaces and padding
func (v StrValue) IsBlank() bool {
	for i := 0; i < len(v.Value); i++ {
		if v.Value[i] != ' ' && v.Value[i] != PadChar {
			return false
		}
	}
	return true
}

// Key returns a hash key consistent with Equal
func (v StrValue) Key() string { return "S" + v.Content() }

// IntValue is a signed integer
type IntValue struct {
	Value int64
}

// NewInt creates an integer value
func NewInt(i int64) IntValue { return IntValue{Value: i} }

func (v IntValue) valueMarker() {}

// Kind returns KindInt
func (v IntValue) Kind() Kind { return KindInt }

func (v IntValue) String() string { return strconv.FormatInt(v.Value, 10) }

// DecimalValue is an exact fixed-point number
type DecimalValue struct {
	Value decimal.Decimal
}

// NewDecimal creates a decimal value
func NewDecimal(d decimal.Decimal) DecimalValue { return DecimalValue{Value: d} }

func (v DecimalValue) valueMarker() {}

// Kind returns KindDecimal
func (v DecimalValue) Kind() Kind { return KindDecimal }

func (v DecimalValue) String() string { return v.Value.String() }

// BoolValue is an indicator-like boolean
type BoolValue struct {
	Value bool
}

// NewBool creates a boolean value
func NewBool(b bool) BoolValue { return BoolValue{Value: b} }

func (v BoolValue) valueMarker() {}

// Kind returns KindBool
func (v BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) String() string {
	if v.Value {
		return "*ON"
	}
	return "*OFF"
}

// ArrayValue is an ordered sequence of values of the same type. It is a
// container: the symbol table mutates its elements in place.
type ArrayValue struct {
	Elements    []Value
	ElementType ast.Type
}

// NewArray creates an array value
func NewArray(elementType ast.Type, elements ...Value) *ArrayValue {
	return &ArrayValue{Elements: elements, ElementType: elementType}
}

func (v *ArrayValue) valueMarker() {}

// Kind returns KindArray
func (v *ArrayValue) Kind() Kind { return KindArray }

// Len returns the number of elements
func (v *ArrayValue) Len() int { return len(v.Elements) }

func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// StructValue holds a data structure as a value per field
type StructValue struct {
	Type   ast.DataStructureType
	Fields map[string]Value
}

// NewStruct creates a struct value with every field set to its blank value
func NewStruct(t ast.DataStructureType) (*StructValue, error) {
	fields := make(map[string]Value, len(t.Fields))
	for _, f := range t.Fields {
		blank, err := Blank(f.Type)
		if err != nil {
			return nil, err
		}
		fields[strings.ToUpper(f.Name)] = blank
	}
	return &StructValue{Type: t, Fields: fields}, nil
}

func (v *StructValue) valueMarker() {}

// Kind returns KindStruct
func (v *StructValue) Kind() Kind { return KindStruct }

// Field returns the value of a field
func (v *StructValue) Field(name string) (Value, bool) {
	f, ok := v.Fields[strings.ToUpper(name)]
	return f, ok
}

// SetField replaces the value of a field
func (v *StructValue) SetField(name string, value Value) {
	v.Fields[strings.ToUpper(name)] = value
}

func (v *StructValue) String() string {
	parts := make([]string, 0, len(v.Type.Fields))
	for _, f := range v.Type.Fields {
		value, _ := v.Field(f.Name)
		parts = append(parts, fmt.Sprintf("%s=%s", f.Name, value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// BlanksValue is the *BLANKS sentinel, resolved to a default on coercion
type BlanksValue struct{}

func (v BlanksValue) valueMarker() {}

// Kind returns KindBlanks
func (v BlanksValue) Kind() Kind { return KindBlanks }

func (v BlanksValue) String() string { return "*BLANKS" }

// HiValValue is the *HIVAL sentinel, greater than any other value
type HiValValue struct{}

func (v HiValValue) valueMarker() {}

// Kind returns KindHiVal
func (v HiValValue) Kind() Kind { return KindHiVal }

func (v HiValValue) String() string { return "*HIVAL" }

// Blanks is the shared *BLANKS value
var Blanks Value = BlanksValue{}

// HiVal is the shared *HIVAL value
var HiVal Value = HiValValue{}

// Clone returns a copy of v that shares no container with it. Scalars are
// immutable and returned as is.
func Clone(v Value) Value {
	switch val := v.(type) {
	case *ArrayValue:
		elements := make([]Value, len(val.Elements))
		for i, e := range val.Elements {
			elements[i] = Clone(e)
		}
		return NewArray(val.ElementType, elements...)
	case *StructValue:
		fields := make(map[string]Value, len(val.Fields))
		for k, f := range val.Fields {
			fields[k] = Clone(f)
		}
		return &StructValue{Type: val.Type, Fields: fields}
	default:
		return v
	}
}
