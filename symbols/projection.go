package symbols

import (
	"fmt"
	"strings"

	"rpgexec/ast"
	"rpgexec/codec"
	"rpgexec/errors"
	"rpgexec/values"
)

// fieldRef projects one field out of the data structure held by entry. The
// container is either a record string, a StructValue or an array of either;
// an array container projects the field out of every element.
type fieldRef struct {
	entry *entry
	field ast.FieldDefinition
}

func (r *fieldRef) Name() string { return r.field.Name }

func (r *fieldRef) Type() ast.Type {
	if at, ok := r.entry.def.Type.(ast.ArrayType); ok {
		return ast.ArrayType{Element: r.field.Type, Count: at.Count}
	}
	return r.field.Type
}

func (r *fieldRef) Get() (values.Value, error) {
	if arr, ok := r.entry.value.(*values.ArrayValue); ok {
		projected := make([]values.Value, len(arr.Elements))
		for i, container := range arr.Elements {
			v, err := readField(container, r.field)
			if err != nil {
				return nil, err
			}
			projected[i] = v
		}
		return values.NewArray(r.field.Type, projected...), nil
	}
	return readField(r.entry.value, r.field)
}

func (r *fieldRef) Set(value values.Value) error {
	if err := checkAssignable(r, value); err != nil {
		return err
	}
	arr, ok := r.entry.value.(*values.ArrayValue)
	if !ok {
		updated, err := writeField(r.entry.value, r.field, value)
		if err != nil {
			return err
		}
		r.entry.value = updated
		return nil
	}

	projected, ok := value.(*values.ArrayValue)
	if !ok || projected.Len() != arr.Len() {
		return errors.NewAssignmentPreconditionError(r.Name(), value, r.Type())
	}
	containers := make([]values.Value, arr.Len())
	for i, container := range arr.Elements {
		updated, err := writeField(container, r.field, projected.Elements[i])
		if err != nil {
			return err
		}
		containers[i] = updated
	}
	copy(arr.Elements, containers)
	return nil
}

func readField(container values.Value, f ast.FieldDefinition) (values.Value, error) {
	switch c := container.(type) {
	case values.StrValue:
		window, err := fieldWindow(c.Value, f)
		if err != nil {
			return nil, err
		}
		return decodeField(window, f.Type)
	case *values.StructValue:
		v, ok := c.Field(f.Name)
		if !ok {
			return nil, errors.NewUnresolvedReferenceError(f.Name)
		}
		return v, nil
	default:
		return nil, errors.NewTypeMismatchError("cannot project field %s out of %s", f.Name, container.Kind())
	}
}

// writeField returns a new container with the byte range of f replaced by
// the encoding of value. Bytes outside the range are left as they were and
// container itself is not modified.
func writeField(container values.Value, f ast.FieldDefinition, value values.Value) (values.Value, error) {
	switch c := container.(type) {
	case values.StrValue:
		if _, err := fieldWindow(c.Value, f); err != nil {
			return nil, err
		}
		encoded, err := encodeField(value, f.Type, f.Size())
		if err != nil {
			return nil, err
		}
		return values.NewStr(c.Value[:f.StartOffset] + encoded + c.Value[f.EndOffset:]), nil
	case *values.StructValue:
		updated := values.Clone(c).(*values.StructValue)
		updated.SetField(f.Name, value)
		return updated, nil
	default:
		return nil, errors.NewTypeMismatchError("cannot project field %s out of %s", f.Name, container.Kind())
	}
}

func fieldWindow(record string, f ast.FieldDefinition) (string, error) {
	if f.StartOffset < 0 || f.EndOffset > len(record) || f.StartOffset > f.EndOffset {
		return "", errors.NewRuntimeError(errors.CodeInvalidIndex,
			fmt.Sprintf("field %s at [%d, %d) lies outside a record of %d bytes", f.Name, f.StartOffset, f.EndOffset, len(record)))
	}
	return record[f.StartOffset:f.EndOffset], nil
}

func decodeField(window string, t ast.Type) (values.Value, error) {
	switch tt := t.(type) {
	case ast.StringType, ast.DataStructureType:
		return values.NewStr(window), nil
	case ast.BooleanType:
		return values.NewBool(strings.HasPrefix(window, "1")), nil
	case ast.NumberType:
		data := []byte(window)
		if size := tt.Size(); len(data) > size {
			data = data[:size]
		}
		d, err := codec.DecodeNumber(data, tt)
		if err != nil {
			return nil, err
		}
		if tt.IsInteger() {
			return values.NewInt(d.IntPart()), nil
		}
		return values.NewDecimal(d), nil
	case ast.ArrayType:
		if tt.Count == 0 {
			return values.NewArray(tt.Element), nil
		}
		size := len(window) / tt.Count
		elements := make([]values.Value, tt.Count)
		for i := range elements {
			v, err := decodeField(window[i*size:(i+1)*size], tt.Element)
			if err != nil {
				return nil, err
			}
			elements[i] = v
		}
		return values.NewArray(tt.Element, elements...), nil
	default:
		return nil, errors.NewNotImplementedError(fmt.Sprintf("field of type %s", t))
	}
}

// encodeField renders value into exactly size bytes. Strings drop their
// NUL padding and are padded with blanks inside a record.
func encodeField(value values.Value, t ast.Type, size int) (string, error) {
	var encoded string
	switch v := value.(type) {
	case values.StrValue:
		encoded = strings.TrimRight(v.Value, string(values.PadChar))
	case values.BoolValue:
		encoded = "0"
		if v.Value {
			encoded = "1"
		}
	case values.IntValue, values.DecimalValue:
		nt, ok := t.(ast.NumberType)
		if !ok {
			return "", errors.NewTypeMismatchError("number %s in a field of type %s", value, t)
		}
		d, _ := values.AsDecimal(v)
		data, err := codec.EncodeNumber(d, nt)
		if err != nil {
			return "", err
		}
		encoded = string(data)
	case *values.ArrayValue:
		at, ok := t.(ast.ArrayType)
		if !ok || at.Count == 0 {
			return "", errors.NewTypeMismatchError("array %s in a field of type %s", value, t)
		}
		var b strings.Builder
		for _, e := range v.Elements {
			part, err := encodeField(e, at.Element, size/at.Count)
			if err != nil {
				return "", err
			}
			b.WriteString(part)
		}
		encoded = b.String()
	default:
		return "", errors.NewNotImplementedError(fmt.Sprintf("storing %s in a record", value.Kind()))
	}

	if len(encoded) > size {
		if _, numeric := t.(ast.NumberType); numeric {
			return "", errors.NewCodecRangeError("%s needs %d bytes, field has %d", value, len(encoded), size)
		}
		return encoded[:size], nil
	}
	return encoded + strings.Repeat(" ", size-len(encoded)), nil
}

