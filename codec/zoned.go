package codec

import (
	"fmt"
	"strings"

	"rpgexec/errors"

	"github.com/shopspring/decimal"
)

// negativeZoned maps the last digit of a negative zoned number to its
// overpunched character
const negativeZoned = "}JKLMNOPQR"

// EncodeZoned encodes value as totalDigits characters, one digit each.
// A negative sign is overpunched on the last digit.
func EncodeZoned(value decimal.Decimal, totalDigits, decimalDigits int) ([]byte, error) {
	digits := scaledDigits(value, decimalDigits)
	if len(digits) > totalDigits {
		return nil, errors.NewCodecRangeError("%s does not fit a zoned field of %d digits with %d decimal digits",
			value, totalDigits, decimalDigits)
	}
	out := []byte(strings.Repeat("0", totalDigits-len(digits)) + digits)
	if value.Sign() < 0 && digits != "" && len(out) > 0 {
		last := len(out) - 1
		out[last] = negativeZoned[out[last]-'0']
	}
	return out, nil
}

// DecodeZoned reads zoned decimal bytes. Leading blanks count as zeros.
func DecodeZoned(data []byte, decimalDigits int) (decimal.Decimal, error) {
	if len(data) == 0 {
		return decimal.Decimal{}, errors.NewRuntimeError(errors.CodeInvalidPackedData, "empty zoned field")
	}
	var b strings.Builder
	negative := false
	for i, c := range data {
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == ' ' && i < len(data)-1:
			b.WriteByte('0')
		case i == len(data)-1 && strings.IndexByte(negativeZoned, c) >= 0:
			negative = true
			b.WriteByte(byte('0' + strings.IndexByte(negativeZoned, c)))
		default:
			return decimal.Decimal{}, errors.NewRuntimeError(errors.CodeInvalidPackedData,
				fmt.Sprintf("invalid zoned character %q at %d", c, i))
		}
	}
	result, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Decimal{}, errors.WrapError(err, errors.CodeInvalidPackedData, "failed to read zoned digits")
	}
	if negative {
		result = result.Neg()
	}
	return result.Shift(-int32(decimalDigits)), nil
}
