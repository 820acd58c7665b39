package values

import (
	"fmt"
	"math"
	"strings"

	"rpgexec/ast"
	"rpgexec/errors"

	"github.com/shopspring/decimal"
)

// Coerce converts v to a value of type t. Blanks and HiVal are resolved to a
// concrete value of t, strings are fixed to the declared length, numbers are
// brought to the declared decimal digits. Values already of the right shape
// pass through. Any other pairing is not implemented.
func Coerce(v Value, t ast.Type) (Value, error) {
	switch val := v.(type) {
	case BlanksValue:
		return Blank(t)
	case HiValValue:
		return HiValOf(t)
	case StrValue:
		switch tt := t.(type) {
		case ast.StringType:
			return NewStr(fixLength(val.Value, tt.Length, PadChar)), nil
		case ast.DataStructureType:
			return NewStr(fixLength(val.Value, tt.TotalSize, ' ')), nil
		}
	case IntValue:
		if tt, ok := t.(ast.NumberType); ok {
			if tt.IsInteger() {
				return val, nil
			}
			return NewDecimal(decimal.NewFromInt(val.Value)), nil
		}
	case DecimalValue:
		if tt, ok := t.(ast.NumberType); ok {
			truncated := val.Value.Truncate(int32(tt.DecimalDigits))
			if tt.IsInteger() {
				if !FitsInt(truncated) {
					return nil, errors.NewRuntimeError(errors.CodeAssignmentPrecondition,
						fmt.Sprintf("%s exceeds the 64-bit integer range of %s", val, t))
				}
				return NewInt(truncated.IntPart()), nil
			}
			return NewDecimal(truncated), nil
		}
	case BoolValue:
		if _, ok := t.(ast.BooleanType); ok {
			return val, nil
		}
	case *ArrayValue:
		if tt, ok := t.(ast.ArrayType); ok {
			elements := make([]Value, tt.Count)
			for i := range elements {
				if i >= len(val.Elements) {
					blank, err := Blank(tt.Element)
					if err != nil {
						return nil, err
					}
					elements[i] = blank
					continue
				}
				coerced, err := Coerce(val.Elements[i], tt.Element)
				if err != nil {
					return nil, err
				}
				elements[i] = coerced
			}
			return NewArray(tt.Element, elements...), nil
		}
	case *StructValue:
		if tt, ok := t.(ast.DataStructureType); ok {
			copied := &StructValue{Type: tt, Fields: make(map[string]Value, len(val.Fields))}
			for k, f := range val.Fields {
				copied.Fields[k] = f
			}
			return copied, nil
		}
	}
	return nil, errors.NewNotImplementedError(fmt.Sprintf("coercion of %s %s to %s", v.Kind(), v, t))
}

var (
	minInt = decimal.NewFromInt(math.MinInt64)
	maxInt = decimal.NewFromInt(math.MaxInt64)
)

// FitsInt reports whether d is a whole number an IntValue can hold
func FitsInt(d decimal.Decimal) bool {
	return d.IsInteger() && !d.LessThan(minInt) && !d.GreaterThan(maxInt)
}

// AssignableTo reports whether v can be stored in a variable of type t
// without further conversion
func AssignableTo(v Value, t ast.Type) bool {
	switch val := v.(type) {
	case BlanksValue, HiValValue:
		return true
	case StrValue:
		switch tt := t.(type) {
		case ast.StringType:
			return val.Len() <= tt.Length
		case ast.DataStructureType:
			return val.Len() <= tt.TotalSize
		}
	case IntValue:
		if tt, ok := t.(ast.NumberType); ok {
			return integerDigits(decimal.NewFromInt(val.Value)) <= tt.Length-tt.DecimalDigits
		}
	case DecimalValue:
		if tt, ok := t.(ast.NumberType); ok {
			return !tt.IsInteger() && integerDigits(val.Value) <= tt.Length-tt.DecimalDigits
		}
	case BoolValue:
		_, ok := t.(ast.BooleanType)
		return ok
	case *ArrayValue:
		if tt, ok := t.(ast.ArrayType); ok {
			if len(val.Elements) != tt.Count {
				return false
			}
			for _, e := range val.Elements {
				if !AssignableTo(e, tt.Element) {
					return false
				}
			}
			return true
		}
	case *StructValue:
		_, ok := t.(ast.DataStructureType)
		return ok
	}
	return false
}

// Blank returns the value a variable of type t holds when cleared
func Blank(t ast.Type) (Value, error) {
	switch tt := t.(type) {
	case ast.StringType:
		return NewStr(strings.Repeat(" ", tt.Length)), nil
	case ast.DataStructureType:
		return NewStr(strings.Repeat(" ", tt.TotalSize)), nil
	case ast.NumberType:
		if tt.IsInteger() {
			return NewInt(0), nil
		}
		return NewDecimal(decimal.New(0, -int32(tt.DecimalDigits))), nil
	case ast.BooleanType:
		return NewBool(false), nil
	case ast.ArrayType:
		elements := make([]Value, tt.Count)
		for i := range elements {
			blank, err := Blank(tt.Element)
			if err != nil {
				return nil, err
			}
			elements[i] = blank
		}
		return NewArray(tt.Element, elements...), nil
	}
	return nil, errors.NewNotImplementedError(fmt.Sprintf("blank value for %T", t))
}

// Zero returns the value of *ZERO for type t
func Zero(t ast.Type) (Value, error) {
	switch tt := t.(type) {
	case ast.NumberType:
		return Blank(tt)
	case ast.StringType:
		return NewStr(strings.Repeat("0", tt.Length)), nil
	case ast.ArrayType:
		elements := make([]Value, tt.Count)
		for i := range elements {
			z, err := Zero(tt.Element)
			if err != nil {
				return nil, err
			}
			elements[i] = z
		}
		return NewArray(tt.Element, elements...), nil
	}
	return nil, errors.NewNotImplementedError(fmt.Sprintf("*ZERO for %s", t))
}

// HiValOf returns the concrete value of *HIVAL for type t
func HiValOf(t ast.Type) (Value, error) {
	switch tt := t.(type) {
	case ast.StringType:
		return NewStr(strings.Repeat("\xff", tt.Length)), nil
	case ast.DataStructureType:
		return NewStr(strings.Repeat("\xff", tt.TotalSize)), nil
	case ast.NumberType:
		nines := decimal.New(1, int32(tt.Length)).Sub(decimal.New(1, 0))
		if tt.IsInteger() {
			return NewInt(nines.IntPart()), nil
		}
		return NewDecimal(nines.Shift(-int32(tt.DecimalDigits))), nil
	case ast.ArrayType:
		elements := make([]Value, tt.Count)
		for i := range elements {
			h, err := HiValOf(tt.Element)
			if err != nil {
				return nil, err
			}
			elements[i] = h
		}
		return NewArray(tt.Element, elements...), nil
	}
	return nil, errors.NewNotImplementedError(fmt.Sprintf("*HIVAL for %s", t))
}

// Equal reports structural equality. Strings compare up to their padding;
// integers and decimals compare numerically.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av.Content() == bv.Content()
	case IntValue, DecimalValue:
		ad, _ := AsDecimal(a)
		bd, ok := AsDecimal(b)
		return ok && ad.Equal(bd)
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Value == bv.Value
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *StructValue:
		bv, ok := b.(*StructValue)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for k, f := range av.Fields {
			other, ok := bv.Fields[k]
			if !ok || !Equal(f, other) {
				return false
			}
		}
		return true
	case BlanksValue:
		_, ok := b.(BlanksValue)
		return ok
	case HiValValue:
		_, ok := b.(HiValValue)
		return ok
	}
	return false
}

// AsDecimal returns the numeric value of an integer or decimal
func AsDecimal(v Value) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case IntValue:
		return decimal.NewFromInt(n.Value), true
	case DecimalValue:
		return n.Value, true
	}
	return decimal.Decimal{}, false
}

// fixLength pads s with pad or truncates it to length bytes
func fixLength(s string, length int, pad byte) string {
	if len(s) >= length {
		return s[:length]
	}
	return s + strings.Repeat(string(pad), length-len(s))
}

// integerDigits returns the number of digits before the decimal point
func integerDigits(d decimal.Decimal) int {
	intPart := d.Abs().Truncate(0)
	if intPart.IsZero() {
		return 0
	}
	return len(intPart.String())
}
