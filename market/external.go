package market

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/txbuild"
)

// externalProceedTx buys a listing held by a third-party marketplace:
// the listing is spent with the index redeemer, each row of its payout
// datum is paid verbatim, and the marketplace takes its own fee cut of
// the payout sum under a datum committing to the spent output.
func (c *Client) externalProceedTx(ctx context.Context, b txbuild.Builder, owner *contract.Contract, utxo ledger.UTxO) (txbuild.Builder, error) {
	if owner.External == nil {
		return b, fmt.Errorf("%w: external contract %s has no adapter parameters", ErrWrongContract, owner.Hash)
	}
	if utxo.Datum == "" {
		return b, ErrNoDatum
	}
	datum, err := plutus.ParseExternalListingDatum(utxo.Datum)
	if err != nil {
		return b, err
	}

	redeemer, err := plutus.EncodeHex(plutus.NewConstr(0, plutus.NewUint(0)))
	if err != nil {
		return b, err
	}
	b = b.Spend(utxo, redeemer)

	var sum uint64
	for _, payout := range datum.Payouts {
		sum += payout.Amount
	}
	fee := sum * owner.External.FeeNum / owner.External.FeeDen

	feeDatum, err := spentOutputDatum(utxo.OutRef)
	if err != nil {
		return b, err
	}
	b = b.PayTo(owner.External.FeeAddress, ledger.Value{ledger.Lovelace: fee}, feeDatum)

	for _, payout := range datum.Payouts {
		b = b.PayTo(payout.Address, ledger.Value{ledger.Lovelace: payout.Amount}, "")
	}

	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	return b.Sign(wallet), nil
}

// spentOutputDatum builds the fee output's datum: the hash of the spent
// listing's output reference, wrapped as a byte string.
func spentOutputDatum(ref ledger.OutRef) (string, error) {
	txHash, err := hex.DecodeString(ref.TxHash)
	if err != nil {
		return "", fmt.Errorf("%w: transaction hash: %w", plutus.ErrFormat, err)
	}
	commitment := plutus.NewConstr(0,
		plutus.NewConstr(0, plutus.Bytes(txHash)),
		plutus.NewUint(uint64(ref.Index)))
	sum, err := plutus.DatumHash(commitment)
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(sum)
	if err != nil {
		return "", err
	}
	return plutus.EncodeHex(plutus.Bytes(raw))
}
