package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamOnBread/contract-lib/config"
	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/reserve"
	"github.com/JamOnBread/contract-lib/txbuild"
)

const (
	treasuryHash = "0a0a"
	ibHash       = "1b1b"
	offerHash    = "2c2c"

	// Treasury datums used as plain recipient keys. They only need to be
	// decodable structured data.
	protocolDatum = "cafe01"
	marketDatum   = "41aa"
	royaltyDatum  = "41bb"
	portionDatum  = "41cc"
)

var walletAddr = ledger.KeyAddress(strings.Repeat("ab", 28), "")

func testParams() contract.Params {
	return contract.Params{
		MinimumFee:         100_000,
		MinimumProtocolFee: 200_000,
		ProtocolTreasury:   protocolDatum,
	}
}

func testNetwork(apiURL string, stakes []string) *config.Network {
	params := testParams()
	treasury := &contract.Contract{
		Kind:   contract.KindTreasury,
		Active: true,
		Hash:   treasuryHash,
		Params: params,
		Stakes: stakes,
	}
	instantBuy := &contract.Contract{
		Kind:     contract.KindInstantBuy,
		Active:   true,
		Hash:     ibHash,
		Params:   params,
		Treasury: treasury,
	}
	offer := &contract.Contract{
		Kind:     contract.KindOffer,
		Active:   true,
		Hash:     offerHash,
		Params:   params,
		Treasury: treasury,
	}
	return &config.Network{
		Name:        "test",
		APIURL:      apiURL,
		TokenPolicy: strings.Repeat("5d", 28),
		TokenName:   "4a6f42",
		TokenCount:  5,
		MinLovelace: 2_000_000,
		Registry:    contract.NewRegistry(treasury, instantBuy, offer),
	}
}

type fixture struct {
	client  *Client
	adapter *ledger.MockAdapter
	drafts  []ledger.Draft
}

// newFixture builds a client over a mock adapter and the given API
// handler. A nil handler answers every request with 404.
func newFixture(t *testing.T, handler http.Handler, stakes []string) *fixture {
	t.Helper()
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := &fixture{adapter: &ledger.MockAdapter{}}
	f.adapter.WalletAddressFn = func(ctx context.Context) (ledger.Address, error) {
		return walletAddr, nil
	}
	f.adapter.SignAndSubmitFn = func(ctx context.Context, draft ledger.Draft) (string, error) {
		f.drafts = append(f.drafts, draft)
		return "deadbeef", nil
	}

	client, err := New(testNetwork(srv.URL, stakes), f.adapter, reserve.New(srv.URL, nil), nil, nil)
	require.NoError(t, err)
	f.client = client
	return f
}

func listingUtxo(t *testing.T, datum plutus.InstantBuyDatum, lovelace uint64) ledger.UTxO {
	t.Helper()
	d, err := plutus.EncodeInstantBuyDatum(datum)
	require.NoError(t, err)
	hex, err := plutus.EncodeHex(d)
	require.NoError(t, err)
	return ledger.UTxO{
		OutRef:  ledger.OutRef{TxHash: "aa", Index: 0},
		Address: ledger.ScriptAddress(ibHash, ""),
		Value:   ledger.Value{ledger.Lovelace: lovelace, "policyasset": 1},
		Datum:   hex,
	}
}

func TestInstantBuyListTx(t *testing.T) {
	f := newFixture(t, nil, nil)

	b, err := f.client.InstantBuyListTx(context.Background(), txbuild.New(), "policyasset", 10_000_000, "", "", nil)
	require.NoError(t, err)

	outputs := b.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, ibHash, outputs[0].Address.Payment.Hash)
	assert.Equal(t, uint64(1), outputs[0].Value["policyasset"])

	datum, err := plutus.ParseInstantBuyDatum(outputs[0].Datum)
	require.NoError(t, err)
	assert.True(t, datum.Beneficiary.Equal(walletAddr))
	assert.Equal(t, uint64(10_000_000), datum.Amount)
	// Without an explicit marketplace the listing credits the protocol.
	assert.Equal(t, f.client.TreasuryDatum(), datum.ListingMarket)
	assert.Equal(t, datum.ListingMarket, datum.ListingAffiliate)
	assert.Nil(t, datum.Royalty)
}

func TestCancelTx(t *testing.T) {
	f := newFixture(t, nil, nil)
	utxo := listingUtxo(t, plutus.InstantBuyDatum{
		Beneficiary:   walletAddr,
		ListingMarket: marketDatum,
		Amount:        10_000_000,
	}, 2_000_000)
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		return []ledger.UTxO{utxo}, nil
	}

	b, err := f.client.CancelTx(context.Background(), txbuild.New(), utxo.OutRef)
	require.NoError(t, err)

	inputs := b.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "d87a80", inputs[0].Redeemer)
	require.Len(t, b.Signers(), 1)
	assert.True(t, b.Signers()[0].Equal(walletAddr))
}

func TestCancelTxMissingUtxo(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		return nil, nil
	}

	_, err := f.client.CancelTx(context.Background(), txbuild.New(), ledger.OutRef{TxHash: "aa", Index: 3})
	assert.ErrorIs(t, err, ledger.ErrUtxoNotFound)
	assert.ErrorContains(t, err, "aa#3")
}

func TestInstantBuyUpdateTx(t *testing.T) {
	f := newFixture(t, nil, nil)
	current := listingUtxo(t, plutus.InstantBuyDatum{
		Beneficiary:   walletAddr,
		ListingMarket: marketDatum,
		Amount:        10_000_000,
	}, 2_000_000)
	f.adapter.UtxoByUnitFn = func(ctx context.Context, unit string) (ledger.UTxO, error) {
		return current, nil
	}
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		require.Equal(t, []ledger.OutRef{current.OutRef}, refs)
		return []ledger.UTxO{current}, nil
	}

	// Cancel and relist ride in one accumulator: one spend of the old
	// listing, exactly one new listing output.
	b, err := f.client.InstantBuyUpdateTx(context.Background(), txbuild.New(), "policyasset", 12_000_000, "", "", nil)
	require.NoError(t, err)

	inputs := b.Inputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, current.OutRef, inputs[0].UTxO.OutRef)
	assert.Equal(t, "d87a80", inputs[0].Redeemer)

	outputs := b.Outputs()
	require.Len(t, outputs, 1)
	datum, err := plutus.ParseInstantBuyDatum(outputs[0].Datum)
	require.NoError(t, err)
	assert.Equal(t, uint64(12_000_000), datum.Amount)
}

func TestOfferListTx(t *testing.T) {
	f := newFixture(t, nil, nil)

	asset := plutus.WantedAsset{PolicyID: strings.Repeat("11", 28)}
	b, err := f.client.OfferListTx(context.Background(), txbuild.New(), asset, 5_000_000, marketDatum, "", nil)
	require.NoError(t, err)

	outputs := b.Outputs()
	require.Len(t, outputs, 1)
	assert.Equal(t, offerHash, outputs[0].Address.Payment.Hash)
	// The escrow holds the offered price on top of the minimum value.
	assert.Equal(t, uint64(7_000_000), outputs[0].Value.Lovelace())

	datum, err := plutus.ParseOfferDatum(outputs[0].Datum)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), datum.Amount)
	assert.Equal(t, asset, datum.WantedAsset)
}

func TestOfferProceedTxEscrowTooSmall(t *testing.T) {
	f := newFixture(t, nil, nil)

	d, err := plutus.EncodeOfferDatum(plutus.OfferDatum{
		Beneficiary:   walletAddr,
		ListingMarket: marketDatum,
		Amount:        5_000_000,
		WantedAsset:   plutus.WantedAsset{PolicyID: strings.Repeat("11", 28)},
	})
	require.NoError(t, err)
	hex, err := plutus.EncodeHex(d)
	require.NoError(t, err)

	escrow := ledger.UTxO{
		OutRef:  ledger.OutRef{TxHash: "bb", Index: 0},
		Address: ledger.ScriptAddress(offerHash, ""),
		Value:   ledger.Value{ledger.Lovelace: 4_000_000},
		Datum:   hex,
	}
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		return []ledger.UTxO{escrow}, nil
	}

	_, err = f.client.OfferProceedTx(context.Background(), txbuild.New(), nil, escrow.OutRef, "policyasset", false)
	assert.ErrorIs(t, err, ErrEscrowTooSmall)
}

func TestProceedTxWrongContract(t *testing.T) {
	f := newFixture(t, nil, nil)
	utxo := ledger.UTxO{
		OutRef:  ledger.OutRef{TxHash: "aa", Index: 0},
		Address: ledger.ScriptAddress(offerHash, ""),
		Value:   ledger.Value{ledger.Lovelace: 1},
		Datum:   "d87980",
	}
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		return []ledger.UTxO{utxo}, nil
	}

	_, err := f.client.InstantBuyProceedTx(context.Background(), txbuild.New(), nil, utxo.OutRef, false)
	assert.ErrorIs(t, err, ErrWrongContract)
}

func TestCreateTreasuriesTx(t *testing.T) {
	stakes := []string{"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9"}
	f := newFixture(t, nil, stakes)

	b, err := f.client.CreateTreasuriesTx(txbuild.New(), 3, 12, marketDatum, 0)
	require.NoError(t, err)

	outputs := b.Outputs()
	require.Len(t, outputs, 12)

	distinct := make(map[string]bool)
	for _, out := range outputs {
		assert.Equal(t, treasuryHash, out.Address.Payment.Hash)
		assert.Equal(t, marketDatum, out.Datum)
		// A zero amount falls back to the network minimum.
		assert.Equal(t, uint64(2_000_000), out.Value.Lovelace())
		require.NotNil(t, out.Address.Stake)
		distinct[out.Address.Stake.Hash] = true
	}
	// Outputs cycle over `unique` distinct stake variants.
	assert.Len(t, distinct, 3)
}

func TestWithdrawTreasuryTx(t *testing.T) {
	addr1 := ledger.ScriptAddress(treasuryHash, "s0")
	addr2 := ledger.ScriptAddress(treasuryHash, "s1")
	utxos := []ledger.UTxO{
		{OutRef: ledger.OutRef{TxHash: "aa", Index: 0}, Address: addr1, Value: ledger.Value{ledger.Lovelace: 9_000_000}, Datum: marketDatum},
		{OutRef: ledger.OutRef{TxHash: "aa", Index: 1}, Address: addr1, Value: ledger.Value{ledger.Lovelace: 5_000_000}, Datum: marketDatum},
		{OutRef: ledger.OutRef{TxHash: "aa", Index: 2}, Address: addr2, Value: ledger.Value{ledger.Lovelace: 3_000_000}, Datum: "41ff"},
	}

	f := newFixture(t, nil, nil)
	f.adapter.UtxosByOutRefFn = func(ctx context.Context, refs []ledger.OutRef) ([]ledger.UTxO, error) {
		return utxos, nil
	}

	refs := []ledger.OutRef{utxos[0].OutRef, utxos[1].OutRef, utxos[2].OutRef}

	b, err := f.client.WithdrawTreasuryTx(context.Background(), txbuild.New(), refs, marketDatum, false)
	require.NoError(t, err)

	// Only outputs carrying the requested datum are withdrawn, each spent
	// with the cancel redeemer and recreated at the minimum value.
	inputs := b.Inputs()
	require.Len(t, inputs, 2)
	for _, in := range inputs {
		assert.Equal(t, "d87a80", in.Redeemer)
	}
	outputs := b.Outputs()
	require.Len(t, outputs, 2)
	for _, out := range outputs {
		assert.Equal(t, uint64(2_000_000), out.Value.Lovelace())
		assert.Equal(t, marketDatum, out.Datum)
	}

	// With reduce set the two same-address treasuries collapse into one
	// replacement output.
	b, err = f.client.WithdrawTreasuryTx(context.Background(), txbuild.New(), refs, marketDatum, true)
	require.NoError(t, err)
	assert.Len(t, b.Inputs(), 2)
	assert.Len(t, b.Outputs(), 1)
}

func TestPayTokensTx(t *testing.T) {
	f := newFixture(t, nil, nil)

	b, err := f.client.PayTokensTx(context.Background(), txbuild.New(), 0)
	require.NoError(t, err)

	outputs := b.Outputs()
	require.Len(t, outputs, 1)
	unit := strings.Repeat("5d", 28) + "4a6f42"
	assert.Equal(t, uint64(5), outputs[0].Value[unit])
	assert.True(t, outputs[0].Address.Equal(walletAddr))
}

func TestRegisterStakes(t *testing.T) {
	f := newFixture(t, nil, nil)

	hash, err := f.client.RegisterStakes(context.Background(), []string{"s0", "s1"})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", hash)

	require.Len(t, f.drafts, 1)
	draft := f.drafts[0]
	require.Len(t, draft.Certificates, 2)
	assert.Equal(t, ledger.CertRegisterStake, draft.Certificates[0].Kind)
	assert.Equal(t, "s0", draft.Certificates[0].StakeHash)
	// The protocol token payment rides along.
	require.Len(t, draft.Outputs, 1)
	assert.True(t, draft.Outputs[0].Address.Equal(walletAddr))
}

func TestSignChallenge(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.adapter.SignMessageFn = func(ctx context.Context, address ledger.Address, payload string) (string, string, error) {
		assert.True(t, address.Equal(walletAddr))
		return "sig:" + payload, "key", nil
	}

	params, err := f.client.Sign(context.Background(), "1700000000000")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", params.Secret)
	assert.Equal(t, "sig:1700000000000", params.Signature)
	assert.Equal(t, "key", params.Key)

	// An empty payload is replaced with a fresh timestamp.
	params, err = f.client.Sign(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, params.Secret)
}

func TestAffiliates(t *testing.T) {
	f := newFixture(t, nil, nil)
	utxo := listingUtxo(t, plutus.InstantBuyDatum{
		Beneficiary:   walletAddr,
		ListingMarket: marketDatum,
		Amount:        10_000_000,
		Royalty:       &plutus.Portion{Percent: 0.05, Treasury: royaltyDatum},
	}, 2_000_000)

	affiliates, err := f.client.Affiliates(utxo, []plutus.Portion{{Percent: 0.5, Treasury: portionDatum}})
	require.NoError(t, err)
	assert.Equal(t, []string{portionDatum, marketDatum, marketDatum, royaltyDatum}, affiliates)
}

func TestAffiliatesPlainOutput(t *testing.T) {
	f := newFixture(t, nil, nil)
	utxo := ledger.UTxO{
		OutRef:  ledger.OutRef{TxHash: "aa", Index: 0},
		Address: walletAddr,
		Value:   ledger.Value{ledger.Lovelace: 1},
	}

	affiliates, err := f.client.Affiliates(utxo, []plutus.Portion{{Percent: 1, Treasury: portionDatum}})
	require.NoError(t, err)
	assert.Equal(t, []string{portionDatum}, affiliates)
}
