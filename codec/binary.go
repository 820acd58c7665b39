// Package codec translates decimal values to and from the fixed-width byte
// layouts RPG uses inside records: plain binary, packed decimal and zoned
// decimal.
package codec

import (
	"fmt"

	"rpgexec/errors"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/shopspring/decimal"
)

// binaryBits returns the segment size for a supported binary width
func binaryBits(byteLength int) (uint, error) {
	switch byteLength {
	case 1, 2, 4, 8:
		return uint(byteLength * 8), nil
	default:
		return 0, errors.NewNotImplementedError(fmt.Sprintf("binary field of %d bytes", byteLength))
	}
}

// signedRange returns the smallest and largest integer of a byteLength wide
// two's-complement field
func signedRange(byteLength int) (decimal.Decimal, decimal.Decimal) {
	half := decimal.New(2, 0).Pow(decimal.New(int64(byteLength*8-1), 0))
	return half.Neg(), half.Sub(decimal.New(1, 0))
}

// EncodeBinary encodes value, scaled by 10^decimalDigits, as a big-endian
// two's-complement integer of byteLength bytes. Digits beyond decimalDigits
// are truncated.
func EncodeBinary(value decimal.Decimal, byteLength, decimalDigits int) ([]byte, error) {
	bits, err := binaryBits(byteLength)
	if err != nil {
		return nil, err
	}

	scaled := value.Shift(int32(decimalDigits)).Truncate(0)
	minValue, maxValue := signedRange(byteLength)
	if scaled.LessThan(minValue) || scaled.GreaterThan(maxValue) {
		return nil, errors.NewCodecRangeError("%s does not fit a %d byte binary field with %d decimal digits",
			value, byteLength, decimalDigits)
	}

	builder := funbit.NewBuilder()
	funbit.AddInteger(builder, scaled.IntPart(),
		funbit.WithSize(bits), funbit.WithSigned(true), funbit.WithEndianness("big"))
	bitstring, err := funbit.Build(builder)
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeCodecRange, "failed to build binary field")
	}
	return bitstring.ToBytes(), nil
}

// DecodeBinary decodes a big-endian two's-complement integer of byteLength
// bytes and scales it down by 10^decimalDigits
func DecodeBinary(data []byte, byteLength, decimalDigits int) (decimal.Decimal, error) {
	bits, err := binaryBits(byteLength)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(data) != byteLength {
		return decimal.Decimal{}, errors.NewCodecRangeError("binary field expects %d bytes, got %d", byteLength, len(data))
	}

	var raw int
	matcher := funbit.NewMatcher()
	funbit.Integer(matcher, &raw,
		funbit.WithSize(bits), funbit.WithSigned(true), funbit.WithEndianness("big"))
	if _, err := funbit.Match(matcher, funbit.NewBitStringFromBytes(data)); err != nil {
		return decimal.Decimal{}, errors.WrapError(err, errors.CodeCodecRange, "failed to decode binary field")
	}
	return decimal.New(int64(raw), -int32(decimalDigits)), nil
}
