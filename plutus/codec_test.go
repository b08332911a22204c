package plutus

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoid(t *testing.T) {
	assert.Equal(t, "d87980", Void())
	assert.Equal(t, Void(), MustEncodeHex(NewConstr(0)))
}

func TestConstructorTagWindows(t *testing.T) {
	tests := []struct {
		name  string
		index uint64
		hex   string
	}{
		{"compact low", 0, "d87980"},
		{"compact alternative", 1, "d87a80"},
		{"compact high", 6, "d87f80"},
		{"extended low", 7, "d9050080"},
		{"extended high", 127, "d9057880"},
		{"general", 128, "d86682188080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hex, MustEncodeHex(NewConstr(tt.index)))

			d, err := DecodeHex(tt.hex)
			require.NoError(t, err)
			c, ok := d.(Constr)
			require.True(t, ok)
			assert.Equal(t, tt.index, c.Index)
			assert.Empty(t, c.Fields)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	big64, ok := new(big.Int).SetString("18446744073709551616", 10)
	require.True(t, ok)

	tests := []struct {
		name string
		d    Data
	}{
		{"integer", NewUint(1_000_000)},
		{"negative", NewInt(-42)},
		{"beyond uint64", Integer{Value: big64}},
		{"bytes", Bytes{0xde, 0xad, 0xbe, 0xef}},
		{"list", List{NewUint(1), NewUint(2), NewUint(3)}},
		{"nested", NewConstr(0,
			NewConstr(1, Bytes{0x01}),
			List{NewUint(7)},
			NewUint(500),
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hex, err := EncodeHex(tt.d)
			require.NoError(t, err)

			decoded, err := DecodeHex(hex)
			require.NoError(t, err)

			again, err := EncodeHex(decoded)
			require.NoError(t, err)
			assert.Equal(t, hex, again)
		})
	}
}

func TestDecodeIndefiniteLength(t *testing.T) {
	// Other producers emit indefinite-length arrays; decoding accepts
	// them and Normalize canonicalizes to definite length.
	d, err := DecodeHex("d8799fff")
	require.NoError(t, err)
	c, ok := d.(Constr)
	require.True(t, ok)
	assert.Equal(t, uint64(0), c.Index)
	assert.Empty(t, c.Fields)

	normalized, err := Normalize("d8799f0102ff")
	require.NoError(t, err)
	assert.Equal(t, "d87982" + "0102", normalized)
}

func TestNormalizeCase(t *testing.T) {
	got, err := Normalize("D87A80")
	require.NoError(t, err)
	assert.Equal(t, "d87a80", got)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"not hex", "zz"},
		{"truncated", "d879"},
		{"map", "a0"},
		{"text string", "63666f6f"},
		{"unexpected tag", "d82a80"},
		{"general missing fields", "d86681182a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHex(tt.hex)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDatumHash(t *testing.T) {
	got, err := DatumHash(NewConstr(0))
	require.NoError(t, err)
	assert.Equal(t, "923918e403bf43c34b4ef6b48eb2ee04babed17320d8d1b9ff9ad086e86f44ec", got)

	byHex, err := DatumHashHex("d87980")
	require.NoError(t, err)
	assert.Equal(t, got, byHex)
}
