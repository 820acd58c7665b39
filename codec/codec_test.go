package codec

import (
	goerrors "errors"
	"testing"

	"rpgexec/ast"
	"rpgexec/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTripTwoBytes(t *testing.T) {
	for v := int64(-9999); v <= 9999; v++ {
		encoded, err := EncodeBinary(decimal.NewFromInt(v), 2, 0)
		require.NoError(t, err)
		require.Len(t, encoded, 2)

		decoded, err := DecodeBinary(encoded, 2, 0)
		require.NoError(t, err)
		require.Truef(t, decoded.Equal(decimal.NewFromInt(v)), "round trip of %d gave %s", v, decoded)
	}
}

func TestBinaryRoundTripFourBytes(t *testing.T) {
	check := func(v int64) {
		encoded, err := EncodeBinary(decimal.NewFromInt(v), 4, 0)
		require.NoError(t, err)
		require.Len(t, encoded, 4)

		decoded, err := DecodeBinary(encoded, 4, 0)
		require.NoError(t, err)
		require.Truef(t, decoded.Equal(decimal.NewFromInt(v)), "round trip of %d gave %s", v, decoded)
	}
	for v := int64(-999999999); v <= 999999999; v += 99991 {
		check(v)
	}
	for _, v := range []int64{-999999999, -1, 0, 1, 999999999, -2147483648, 2147483647} {
		check(v)
	}
}

func TestBinaryLayout(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		byteLength    int
		decimalDigits int
		want          []byte
	}{
		{"one", "1", 2, 0, []byte{0x00, 0x01}},
		{"minus one", "-1", 2, 0, []byte{0xFF, 0xFF}},
		{"smallest two bytes", "-32768", 2, 0, []byte{0x80, 0x00}},
		{"scaled", "12.34", 4, 2, []byte{0x00, 0x00, 0x04, 0xD2}},
		{"truncated fraction", "12.349", 4, 2, []byte{0x00, 0x00, 0x04, 0xD2}},
		{"one byte", "-2", 1, 0, []byte{0xFE}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeBinary(decimal.RequireFromString(tt.value), tt.byteLength, tt.decimalDigits)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EncodeBinary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBinaryDecodeScaled(t *testing.T) {
	got, err := DecodeBinary([]byte{0xFF, 0xFF, 0xFB, 0x2E}, 4, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("-12.34")), "got %s", got)
}

func TestBinaryOutOfRange(t *testing.T) {
	_, err := EncodeBinary(decimal.NewFromInt(32768), 2, 0)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))

	_, err = EncodeBinary(decimal.NewFromInt(-32769), 2, 0)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))

	_, err = EncodeBinary(decimal.RequireFromString("327.68"), 2, 2)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))

	_, err = EncodeBinary(decimal.NewFromInt(2147483648), 4, 0)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))
}

func TestBinaryUnsupportedWidth(t *testing.T) {
	_, err := EncodeBinary(decimal.NewFromInt(1), 3, 0)
	assert.True(t, goerrors.Is(err, errors.ErrNotImplemented))

	_, err = DecodeBinary([]byte{0, 1}, 4, 0)
	assert.Error(t, err)
}

func TestPackedRoundTrip(t *testing.T) {
	check := func(v int64) {
		encoded, err := EncodeToDS(decimal.NewFromInt(v), 5, 0)
		require.NoError(t, err)
		require.LessOrEqual(t, len(encoded), 7)

		decoded, err := DecodeFromDS(encoded, 5, 0)
		require.NoError(t, err)
		require.Truef(t, decoded.Equal(decimal.NewFromInt(v)), "round trip of %d gave %s", v, decoded)
	}
	for v := int64(-9999999); v <= 9999999; v += 97 {
		check(v)
	}
	for _, v := range []int64{-9999999, -100000, -99999, -1, 0, 1, 99999, 100000, 9999999} {
		check(v)
	}
}

func TestPackedLayout(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		digits        int
		decimalDigits int
		want          []byte
	}{
		{"positive", "12345", 5, 0, []byte{0x12, 0x34, 0x5F}},
		{"negative", "-123", 5, 0, []byte{0x00, 0x12, 0x3D}},
		{"zero", "0", 3, 0, []byte{0x00, 0x0F}},
		{"even digits", "1234", 4, 0, []byte{0x01, 0x23, 0x4F}},
		{"decimal", "-1.5", 5, 2, []byte{0x00, 0x15, 0x0D}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodePacked(decimal.RequireFromString(tt.value), tt.digits, tt.decimalDigits)
			require.NoError(t, err)
			require.Len(t, got, PackedLength(tt.digits))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EncodePacked() mismatch (-want +got):\n%s", diff)
			}

			decoded, err := DecodeFromDS(got, tt.digits, tt.decimalDigits)
			require.NoError(t, err)
			assert.True(t, decoded.Equal(decimal.RequireFromString(tt.value)), "decoded %s", decoded)
		})
	}
}

func TestPackedDecimalRoundTrip(t *testing.T) {
	for _, s := range []string{"123.45", "-99999.99", "0.01", "-0.01", "7"} {
		v := decimal.RequireFromString(s)
		encoded, err := EncodeToDS(v, 7, 2)
		require.NoError(t, err)
		decoded, err := DecodeFromDS(encoded, 7, 2)
		require.NoError(t, err)
		assert.Truef(t, decoded.Equal(v), "round trip of %s gave %s", s, decoded)
	}
}

func TestPackedStrictOutOfRange(t *testing.T) {
	_, err := EncodePacked(decimal.NewFromInt(123456), 5, 0)
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))

	_, err = EncodePacked(decimal.RequireFromString("1000.5"), 5, 2)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))
}

func TestPackedWidensForLargeValues(t *testing.T) {
	encoded, err := EncodeToDS(decimal.NewFromInt(9999999), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x99, 0x99, 0x99, 0x9F}, encoded)
}

func TestPackedInvalidData(t *testing.T) {
	_, err := DecodeFromDS([]byte{0x12, 0x34, 0x56}, 5, 0)
	assert.True(t, goerrors.Is(err, errors.ErrInvalidPackedData), "digit nibble as sign")

	_, err = DecodeFromDS([]byte{0x1A, 0x34, 0x5F}, 5, 0)
	assert.True(t, goerrors.Is(err, errors.ErrInvalidPackedData), "sign nibble as digit")

	_, err = DecodeFromDS([]byte{0x5F}, 5, 0)
	assert.True(t, goerrors.Is(err, errors.ErrInvalidPackedData), "too short")

	got, err := DecodeFromDS([]byte{0x01, 0x2B}, 3, 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(-12)), "alternate negative sign")
}

func TestZoned(t *testing.T) {
	encoded, err := EncodeZoned(decimal.NewFromInt(-123), 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "0012L", string(encoded))

	encoded, err = EncodeZoned(decimal.RequireFromString("4.20"), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, "00420", string(encoded))

	decoded, err := DecodeZoned([]byte("0012L"), 0)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(decimal.NewFromInt(-123)))

	decoded, err = DecodeZoned([]byte("  420"), 2)
	require.NoError(t, err)
	assert.True(t, decoded.Equal(decimal.RequireFromString("4.2")))

	_, err = EncodeZoned(decimal.NewFromInt(100000), 5, 0)
	assert.True(t, goerrors.Is(err, errors.ErrCodecRange))

	_, err = DecodeZoned([]byte("12A4"), 0)
	assert.True(t, goerrors.Is(err, errors.ErrInvalidPackedData))
}

func TestNumberFormats(t *testing.T) {
	types := []ast.NumberType{
		{Length: 7, DecimalDigits: 2, Format: ast.FormatZoned},
		{Length: 7, DecimalDigits: 2, Format: ast.FormatPacked},
		{Length: 9, DecimalDigits: 2, Format: ast.FormatBinary},
		{Length: 10, DecimalDigits: 0, Format: ast.FormatInteger},
	}
	for _, nt := range types {
		t.Run(nt.String(), func(t *testing.T) {
			v := decimal.RequireFromString("-1234")
			encoded, err := EncodeNumber(v, nt)
			require.NoError(t, err)
			assert.Len(t, encoded, nt.Size())

			decoded, err := DecodeNumber(encoded, nt)
			require.NoError(t, err)
			assert.True(t, decoded.Equal(v), "decoded %s", decoded)
		})
	}
}

func TestDecodeNumberBlankWindow(t *testing.T) {
	got, err := DecodeNumber([]byte("   "), ast.NumberType{Length: 5, Format: ast.FormatPacked})
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = DecodeNumber([]byte("     "), ast.NumberType{Length: 5, DecimalDigits: 2})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
