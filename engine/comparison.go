package engine

import (
	"fmt"
	"strings"

	"rpgexec/errors"
	"rpgexec/values"
)

// Comparison is the outcome of ordering two values
type Comparison int

const (
	Smaller Comparison = iota - 1
	Equal
	Greater
)

func (c Comparison) String() string {
	switch c {
	case Smaller:
		return "SMALLER"
	case Equal:
		return "EQUAL"
	default:
		return "GREATER"
	}
}

// Compare orders two values. *HIVAL is greater than anything but itself,
// numbers compare numerically and strings compare with the shorter one
// padded with blanks.
func Compare(a, b values.Value) (Comparison, error) {
	_, aHi := a.(values.HiValValue)
	_, bHi := b.(values.HiValValue)
	switch {
	case aHi && bHi:
		return Equal, nil
	case aHi:
		return Greater, nil
	case bHi:
		return Smaller, nil
	}

	ad, aNum := values.AsDecimal(a)
	bd, bNum := values.AsDecimal(b)
	as, aStr := a.(values.StrValue)
	bs, bStr := b.(values.StrValue)
	switch {
	case aNum && bNum:
		return Comparison(ad.Cmp(bd)), nil
	case aStr && bStr:
		return compareStrings(as.Content(), bs.Content()), nil
	case aNum && bStr, aStr && bNum:
		return Equal, errors.NewTypeMismatchError("cannot compare %s %s with %s %s", a.Kind(), a, b.Kind(), b)
	}

	return Equal, errors.NewNotImplementedError(fmt.Sprintf("comparison of %s with %s", a.Kind(), b.Kind()))
}

func compareStrings(a, b string) Comparison {
	if len(a) < len(b) {
		a += strings.Repeat(" ", len(b)-len(a))
	} else if len(b) < len(a) {
		b += strings.Repeat(" ", len(a)-len(b))
	}
	return Comparison(strings.Compare(a, b))
}

// areEquals implements the = operator. *BLANKS equals any string holding
// only blanks; booleans compare by value; everything else goes through
// Compare.
func areEquals(a, b values.Value) (bool, error) {
	if _, ok := a.(values.BlanksValue); ok {
		return isBlank(b)
	}
	if _, ok := b.(values.BlanksValue); ok {
		return isBlank(a)
	}
	if ab, ok := a.(values.BoolValue); ok {
		if bb, ok := b.(values.BoolValue); ok {
			return ab.Value == bb.Value, nil
		}
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == Equal, nil
}

func isBlank(v values.Value) (bool, error) {
	switch val := v.(type) {
	case values.BlanksValue:
		return true, nil
	case values.StrValue:
		return val.IsBlank(), nil
	}
	return false, errors.NewTypeMismatchError("cannot compare *BLANKS with %s %s", v.Kind(), v)
}
