package plutus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamOnBread/contract-lib/ledger"
)

const (
	payHash   = "5d87ebacd1b26282675a61a1cde3e8c64282677739abb58124138e9c"
	stakeHash = "1e3ef6f3295e88c97a5871b06a5d28ccb588ab150aa7cb86b8db9194"
)

func TestAddressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		addr ledger.Address
	}{
		{"key with stake", ledger.KeyAddress(payHash, stakeHash)},
		{"key without stake", ledger.KeyAddress(payHash, "")},
		{"script with stake", ledger.ScriptAddress(payHash, stakeHash)},
		{"script without stake", ledger.ScriptAddress(payHash, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := EncodeAddress(tt.addr)
			require.NoError(t, err)

			parsed, err := ParseAddress(d)
			require.NoError(t, err)
			assert.True(t, tt.addr.Equal(parsed))
		})
	}
}

func TestParseAddressBadShapes(t *testing.T) {
	tests := []struct {
		name string
		d    Data
	}{
		{"not a constructor", NewUint(1)},
		{"wrong index", NewConstr(1, NewConstr(0, Bytes{0x01}), NewConstr(1))},
		{"missing stake part", NewConstr(0, NewConstr(0, Bytes{0x01}))},
		{"credential kind out of range", NewConstr(0, NewConstr(2, Bytes{0x01}), NewConstr(1))},
		{"stake alternative out of range", NewConstr(0, NewConstr(0, Bytes{0x01}), NewConstr(2))},
		{"present stake with no field", NewConstr(0, NewConstr(0, Bytes{0x01}), NewConstr(0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.d)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestTreasuryDatums(t *testing.T) {
	addr, err := EncodeTreasuryAddress(ledger.KeyAddress(payHash, ""))
	require.NoError(t, err)
	ac, ok := addr.(Constr)
	require.True(t, ok)
	assert.Equal(t, uint64(0), ac.Index)

	tokens, err := EncodeTreasuryTokens(payHash, 5)
	require.NoError(t, err)
	tc, ok := tokens.(Constr)
	require.True(t, ok)
	assert.Equal(t, uint64(1), tc.Index)

	// The two commitment kinds never collide.
	assert.NotEqual(t, MustEncodeHex(addr), MustEncodeHex(tokens))
}

func TestRoyaltyRoundTrip(t *testing.T) {
	treasury := MustEncodeHex(NewConstr(0, Bytes{0xaa}))

	d, err := EncodeRoyalty(&Portion{Percent: 0.2, Treasury: treasury})
	require.NoError(t, err)
	parsed, err := ParseRoyalty(d)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.InDelta(t, 0.2, parsed.Percent, 1e-9)
	assert.Equal(t, treasury, parsed.Treasury)

	// Absent royalty.
	absent, err := EncodeRoyalty(nil)
	require.NoError(t, err)
	parsed, err = ParseRoyalty(absent)
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestPortionBasisPoints(t *testing.T) {
	tests := []struct {
		percent float64
		want    uint64
	}{
		{1, 10_000},
		{0.5, 5_000},
		{0.025, 250},
		{0.0001, 1},
		{0.00001, 1}, // rounds up, never to zero
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Portion{Percent: tt.percent}.BasisPoints())
	}
}

func TestWantedAssetRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		asset WantedAsset
	}{
		{"specific token", WantedAsset{PolicyID: payHash, AssetName: "4a6f42"}},
		{"whole collection", WantedAsset{PolicyID: payHash}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := EncodeWantedAsset(tt.asset)
			require.NoError(t, err)
			parsed, err := ParseWantedAsset(d)
			require.NoError(t, err)
			assert.Equal(t, tt.asset, parsed)
		})
	}
}

func TestInstantBuyDatumRoundTrip(t *testing.T) {
	market := MustEncodeHex(NewConstr(1, NewConstr(0, Bytes{0x01}, NewUint(5))))
	affiliate := MustEncodeHex(NewConstr(0, NewConstr(0, Bytes{0x02})))

	datum := InstantBuyDatum{
		Beneficiary:      ledger.KeyAddress(payHash, stakeHash),
		ListingMarket:    market,
		ListingAffiliate: affiliate,
		Amount:           10_000_000,
		Royalty:          &Portion{Percent: 0.05, Treasury: affiliate},
	}

	d, err := EncodeInstantBuyDatum(datum)
	require.NoError(t, err)
	parsed, err := ParseInstantBuyDatum(MustEncodeHex(d))
	require.NoError(t, err)

	assert.True(t, datum.Beneficiary.Equal(parsed.Beneficiary))
	assert.Equal(t, market, parsed.ListingMarket)
	assert.Equal(t, affiliate, parsed.ListingAffiliate)
	assert.Equal(t, uint64(10_000_000), parsed.Amount)
	require.NotNil(t, parsed.Royalty)
	assert.Equal(t, affiliate, parsed.Royalty.Treasury)
}

func TestInstantBuyDatumAffiliateDefaults(t *testing.T) {
	market := MustEncodeHex(NewConstr(0, NewConstr(0, Bytes{0x01})))

	d, err := EncodeInstantBuyDatum(InstantBuyDatum{
		Beneficiary:   ledger.KeyAddress(payHash, ""),
		ListingMarket: market,
		Amount:        42,
	})
	require.NoError(t, err)

	parsed, err := ParseInstantBuyDatum(MustEncodeHex(d))
	require.NoError(t, err)
	assert.Equal(t, market, parsed.ListingAffiliate)
	assert.Nil(t, parsed.Royalty)
}

func TestOfferDatumRoundTrip(t *testing.T) {
	market := MustEncodeHex(NewConstr(0, NewConstr(0, Bytes{0x01})))

	datum := OfferDatum{
		Beneficiary:   ledger.KeyAddress(payHash, stakeHash),
		ListingMarket: market,
		Amount:        80_000_000,
		WantedAsset:   WantedAsset{PolicyID: payHash, AssetName: "4a6f42"},
	}

	d, err := EncodeOfferDatum(datum)
	require.NoError(t, err)
	parsed, err := ParseOfferDatum(MustEncodeHex(d))
	require.NoError(t, err)

	assert.True(t, datum.Beneficiary.Equal(parsed.Beneficiary))
	assert.Equal(t, market, parsed.ListingMarket)
	assert.Equal(t, market, parsed.ListingAffiliate)
	assert.Equal(t, datum.WantedAsset, parsed.WantedAsset)
	assert.Equal(t, uint64(80_000_000), parsed.Amount)
}

func TestParseListingDatumBadShapes(t *testing.T) {
	_, err := ParseInstantBuyDatum(Void())
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParseOfferDatum("d87a80")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseExternalListingDatum(t *testing.T) {
	addr, err := EncodeAddress(ledger.KeyAddress(payHash, ""))
	require.NoError(t, err)

	d := NewConstr(0,
		List{
			NewConstr(0, addr, NewUint(7_000_000)),
			NewConstr(0, addr, NewUint(3_000_000)),
		},
		Bytes{0xca, 0xfe},
	)

	parsed, err := ParseExternalListingDatum(MustEncodeHex(d))
	require.NoError(t, err)
	require.Len(t, parsed.Payouts, 2)
	assert.Equal(t, uint64(7_000_000), parsed.Payouts[0].Amount)
	assert.Equal(t, uint64(3_000_000), parsed.Payouts[1].Amount)
	assert.Equal(t, payHash, parsed.Payouts[0].Address.Payment.Hash)
	assert.Equal(t, "cafe", parsed.Owner)
}
