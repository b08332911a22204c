package market

import (
	"context"
	"fmt"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/settle"
	"github.com/JamOnBread/contract-lib/txbuild"
)

// buyRedeemer encodes the settlement redeemer: the selling-side portions
// as (basis points, treasury) pairs.
func buyRedeemer(portions []plutus.Portion) (string, error) {
	rows := make(plutus.List, 0, len(portions))
	for _, p := range portions {
		treasury, err := plutus.DecodeHex(p.Treasury)
		if err != nil {
			return "", fmt.Errorf("market: portion treasury: %w", err)
		}
		rows = append(rows, plutus.NewConstr(0, plutus.NewUint(p.BasisPoints()), treasury))
	}
	return plutus.EncodeHex(plutus.NewConstr(0, rows))
}

// InstantBuyListTx adds a listing: the asset moves to the instant-buy
// contract under a datum naming the seller, the listing marketplace
// (defaulting to the protocol treasury), an optional affiliate, the
// price and an optional royalty.
func (c *Client) InstantBuyListTx(ctx context.Context, b txbuild.Builder, unit string, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (txbuild.Builder, error) {
	instantBuy, err := c.registry.Active(contract.KindInstantBuy)
	if err != nil {
		return b, err
	}
	if listingMarket == "" {
		listingMarket = c.treasuryDatum
	}
	seller, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	datum, err := plutus.EncodeInstantBuyDatum(plutus.InstantBuyDatum{
		Beneficiary:      seller,
		ListingMarket:    listingMarket,
		ListingAffiliate: listingAffiliate,
		Amount:           price,
		Royalty:          royalty,
	})
	if err != nil {
		return b, err
	}
	hex, err := plutus.EncodeHex(datum)
	if err != nil {
		return b, err
	}
	return b.PayTo(instantBuy.Address(-1), ledger.Value{unit: 1}, hex), nil
}

// InstantBuyList lists an asset and submits the transaction.
func (c *Client) InstantBuyList(ctx context.Context, unit string, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (string, error) {
	b, err := c.InstantBuyListTx(ctx, txbuild.New(), unit, price, listingMarket, listingAffiliate, royalty)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// InstantBuyCancelTx spends a listing back to its owner.
func (c *Client) InstantBuyCancelTx(ctx context.Context, b txbuild.Builder, ref ledger.OutRef) (txbuild.Builder, error) {
	return c.CancelTx(ctx, b, ref)
}

// InstantBuyCancel cancels a listing and submits the transaction.
func (c *Client) InstantBuyCancel(ctx context.Context, ref ledger.OutRef) (string, error) {
	b, err := c.CancelTx(ctx, txbuild.New(), ref)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// InstantBuyUpdateTx cancels the current listing of the unit and relists
// it under new terms, in one accumulator: one spend of the old listing
// output, one new listing output.
func (c *Client) InstantBuyUpdateTx(ctx context.Context, b txbuild.Builder, unit string, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (txbuild.Builder, error) {
	current, err := c.adapter.UtxoByUnit(ctx, unit)
	if err != nil {
		return b, fmt.Errorf("market: find listing: %w", err)
	}
	b, err = c.CancelTx(ctx, b, current.OutRef)
	if err != nil {
		return b, err
	}
	return c.InstantBuyListTx(ctx, b, unit, price, listingMarket, listingAffiliate, royalty)
}

// InstantBuyUpdate updates a listing and submits the transaction.
func (c *Client) InstantBuyUpdate(ctx context.Context, unit string, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (string, error) {
	b, err := c.InstantBuyUpdateTx(ctx, txbuild.New(), unit, price, listingMarket, listingAffiliate, royalty)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// InstantBuyProceedTx settles a purchase: the listing is spent with the
// settlement redeemer, the seller receives the price net of provision
// plus the value locked in the listing, and every fee recipient is paid
// through the treasury reservation protocol. The asset reaches the buyer
// through the adapter's change handling.
func (c *Client) InstantBuyProceedTx(ctx context.Context, b txbuild.Builder, s *Session, ref ledger.OutRef, force bool, portions ...plutus.Portion) (txbuild.Builder, error) {
	utxos, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{ref})
	if err != nil || len(utxos) == 0 {
		return b, fmt.Errorf("%w: %s#%d", ledger.ErrUtxoNotFound, ref.TxHash, ref.Index)
	}
	utxo := utxos[0]

	owner, err := c.registry.ByAddress(utxo.Address)
	if err != nil {
		return b, err
	}
	if owner.Kind != contract.KindInstantBuy {
		return b, fmt.Errorf("%w: %s is not an instant-buy contract", ErrWrongContract, owner.Kind)
	}
	if utxo.Datum == "" {
		return b, ErrNoDatum
	}
	datum, err := plutus.ParseInstantBuyDatum(utxo.Datum)
	if err != nil {
		return b, err
	}

	st := settle.Compute(settle.Input{
		Amount:           datum.Amount,
		ListingMarket:    datum.ListingMarket,
		ListingAffiliate: datum.ListingAffiliate,
		Royalty:          datum.Royalty,
	}, portions, owner.Params)

	redeemer, err := buyRedeemer(portions)
	if err != nil {
		return b, err
	}
	b = b.Spend(utxo, redeemer)
	b = b.PayTo(datum.Beneficiary,
		ledger.Value{ledger.Lovelace: st.SellerProceeds(utxo.Value.Lovelace())}, "")

	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	b = b.Sign(wallet)

	return c.payToTreasuries(ctx, b, utxo.OutRef, st, owner, force, s)
}

// InstantBuyProceed settles a purchase and submits the transaction. The
// optional session observes the settlement's phase transitions.
func (c *Client) InstantBuyProceed(ctx context.Context, s *Session, ref ledger.OutRef, force bool, portions ...plutus.Portion) (string, error) {
	b, err := c.InstantBuyProceedTx(ctx, txbuild.New(), s, ref, force, portions...)
	if err != nil {
		return "", err
	}
	return c.finish(ctx, b, s)
}
