package codec

import (
	"rpgexec/ast"

	"github.com/shopspring/decimal"
)

// EncodeNumber lays value out in the record format of t
func EncodeNumber(value decimal.Decimal, t ast.NumberType) ([]byte, error) {
	switch t.Format {
	case ast.FormatPacked:
		return EncodePacked(value, t.Length, t.DecimalDigits)
	case ast.FormatBinary, ast.FormatInteger:
		return EncodeBinary(value, t.Size(), t.DecimalDigits)
	default:
		return EncodeZoned(value, t.Length, t.DecimalDigits)
	}
}

// DecodeNumber reads a value laid out in the record format of t. A packed
// or zoned window holding only blanks or NULs decodes to zero; binary
// windows have no unset pattern.
func DecodeNumber(data []byte, t ast.NumberType) (decimal.Decimal, error) {
	if t.Format != ast.FormatBinary && t.Format != ast.FormatInteger && isUnset(data) {
		return decimal.New(0, -int32(t.DecimalDigits)), nil
	}
	switch t.Format {
	case ast.FormatPacked:
		return DecodeFromDS(data, t.Length, t.DecimalDigits)
	case ast.FormatBinary, ast.FormatInteger:
		return DecodeBinary(data, t.Size(), t.DecimalDigits)
	default:
		return DecodeZoned(data, t.DecimalDigits)
	}
}

func isUnset(data []byte) bool {
	for _, b := range data {
		if b != ' ' && b != 0 {
			return false
		}
	}
	return true
}
