package codec

import (
	"fmt"
	"strings"

	"rpgexec/errors"

	"github.com/funvibe/funbit/pkg/funbit"
	"github.com/shopspring/decimal"
)

// Sign nibbles of the packed layout
const (
	SignPositive = 0x0F
	SignNegative = 0x0D
	// signNegativeAlt is the alternate negative sign accepted when decoding
	signNegativeAlt = 0x0B
)

// PackedLength returns the bytes a packed field of totalDigits occupies
func PackedLength(totalDigits int) int {
	return (totalDigits + 2) / 2
}

// EncodeToDS encodes value as packed decimal with decimalDigits after the
// point. The layout holds totalDigits digits; a value with more integer
// digits widens the layout to fit them so that decoding reproduces it.
func EncodeToDS(value decimal.Decimal, totalDigits, decimalDigits int) ([]byte, error) {
	digits := scaledDigits(value, decimalDigits)
	width := totalDigits
	if len(digits) > width {
		width = len(digits)
	}
	return buildPacked(digits, value.Sign() < 0, width)
}

// EncodePacked encodes value into exactly PackedLength(totalDigits) bytes.
// A value with more digits than totalDigits is a range error.
func EncodePacked(value decimal.Decimal, totalDigits, decimalDigits int) ([]byte, error) {
	digits := scaledDigits(value, decimalDigits)
	if len(digits) > totalDigits {
		return nil, errors.NewCodecRangeError("%s does not fit a packed field of %d digits with %d decimal digits",
			value, totalDigits, decimalDigits)
	}
	return buildPacked(digits, value.Sign() < 0, totalDigits)
}

// DecodeFromDS decodes packed decimal bytes. totalDigits is the declared
// width; longer input produced by EncodeToDS is accepted.
func DecodeFromDS(data []byte, totalDigits, decimalDigits int) (decimal.Decimal, error) {
	if len(data) == 0 || len(data) < PackedLength(totalDigits) {
		return decimal.Decimal{}, errors.NewRuntimeError(errors.CodeInvalidPackedData,
			fmt.Sprintf("packed field of %d digits needs %d bytes, got %d", totalDigits, PackedLength(totalDigits), len(data)))
	}

	nibbles := make([]uint, len(data)*2)
	matcher := funbit.NewMatcher()
	for i := range nibbles {
		funbit.Integer(matcher, &nibbles[i], funbit.WithSize(4), funbit.WithSigned(false))
	}
	if _, err := funbit.Match(matcher, funbit.NewBitStringFromBytes(data)); err != nil {
		return decimal.Decimal{}, errors.WrapError(err, errors.CodeInvalidPackedData, "failed to split packed field")
	}

	var b strings.Builder
	sign := nibbles[len(nibbles)-1]
	switch sign {
	case SignNegative, signNegativeAlt:
		b.WriteByte('-')
	case 0x0A, 0x0C, 0x0E, SignPositive:
	default:
		return decimal.Decimal{}, errors.NewRuntimeError(errors.CodeInvalidPackedData,
			fmt.Sprintf("invalid sign nibble %X", sign))
	}
	for _, n := range nibbles[:len(nibbles)-1] {
		if n > 9 {
			return decimal.Decimal{}, errors.NewRuntimeError(errors.CodeInvalidPackedData,
				fmt.Sprintf("invalid digit nibble %X", n))
		}
		b.WriteByte(byte('0' + n))
	}

	result, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Decimal{}, errors.WrapError(err, errors.CodeInvalidPackedData, "failed to read packed digits")
	}
	return result.Shift(-int32(decimalDigits)), nil
}

// scaledDigits returns the digits of |value| * 10^decimalDigits without
// leading zeros
func scaledDigits(value decimal.Decimal, decimalDigits int) string {
	scaled := value.Abs().Shift(int32(decimalDigits)).Truncate(0)
	if scaled.IsZero() {
		return ""
	}
	return scaled.String()
}

// buildPacked lays out digits right aligned in a field of width digits
// followed by the sign nibble
func buildPacked(digits string, negative bool, width int) ([]byte, error) {
	nibbleCount := PackedLength(width)*2 - 1
	padded := strings.Repeat("0", nibbleCount-len(digits)) + digits

	builder := funbit.NewBuilder()
	for i := 0; i < len(padded); i++ {
		funbit.AddInteger(builder, int64(padded[i]-'0'), funbit.WithSize(4), funbit.WithSigned(false))
	}
	sign := int64(SignPositive)
	if negative && digits != "" {
		sign = SignNegative
	}
	funbit.AddInteger(builder, sign, funbit.WithSize(4), funbit.WithSigned(false))

	bitstring, err := funbit.Build(builder)
	if err != nil {
		return nil, errors.WrapError(err, errors.CodeCodecRange, "failed to build packed field")
	}
	return bitstring.ToBytes(), nil
}
