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

// OfferListTx escrows the offered price plus the minimum output value at
// the offer contract, under a datum naming the offerer, the listing
// marketplace, the wanted asset and the offer terms.
func (c *Client) OfferListTx(ctx context.Context, b txbuild.Builder, asset plutus.WantedAsset, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (txbuild.Builder, error) {
	offer, err := c.registry.Active(contract.KindOffer)
	if err != nil {
		return b, err
	}
	if listingMarket == "" {
		listingMarket = c.treasuryDatum
	}
	offerer, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	datum, err := plutus.EncodeOfferDatum(plutus.OfferDatum{
		Beneficiary:      offerer,
		ListingMarket:    listingMarket,
		ListingAffiliate: listingAffiliate,
		Amount:           price,
		WantedAsset:      asset,
		Royalty:          royalty,
	})
	if err != nil {
		return b, err
	}
	hex, err := plutus.EncodeHex(datum)
	if err != nil {
		return b, err
	}
	escrow := ledger.Value{ledger.Lovelace: c.network.MinLovelace + price}
	return b.PayTo(offer.Address(-1), escrow, hex), nil
}

// OfferList places an offer and submits the transaction.
func (c *Client) OfferList(ctx context.Context, asset plutus.WantedAsset, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (string, error) {
	b, err := c.OfferListTx(ctx, txbuild.New(), asset, price, listingMarket, listingAffiliate, royalty)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// OfferCancelTx spends the offer escrow back to its owner.
func (c *Client) OfferCancelTx(ctx context.Context, b txbuild.Builder, ref ledger.OutRef) (txbuild.Builder, error) {
	return c.CancelTx(ctx, b, ref)
}

// OfferCancel cancels an offer and submits the transaction.
func (c *Client) OfferCancel(ctx context.Context, ref ledger.OutRef) (string, error) {
	b, err := c.CancelTx(ctx, txbuild.New(), ref)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// OfferUpdateTx cancels the offer and places a new one in the same
// accumulator.
func (c *Client) OfferUpdateTx(ctx context.Context, b txbuild.Builder, ref ledger.OutRef, asset plutus.WantedAsset, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (txbuild.Builder, error) {
	b, err := c.CancelTx(ctx, b, ref)
	if err != nil {
		return b, err
	}
	return c.OfferListTx(ctx, b, asset, price, listingMarket, listingAffiliate, royalty)
}

// OfferUpdate updates an offer and submits the transaction.
func (c *Client) OfferUpdate(ctx context.Context, ref ledger.OutRef, asset plutus.WantedAsset, price uint64, listingMarket, listingAffiliate string, royalty *plutus.Portion) (string, error) {
	b, err := c.OfferUpdateTx(ctx, txbuild.New(), ref, asset, price, listingMarket, listingAffiliate, royalty)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// OfferProceedTx accepts an offer: the escrow is spent with the
// settlement redeemer, the offerer receives the wanted asset plus the
// escrow surplus over the amount, and the fee recipients are paid
// through the treasury reservation protocol. unit names the concrete
// asset delivered, which must satisfy the offer's wanted asset.
func (c *Client) OfferProceedTx(ctx context.Context, b txbuild.Builder, s *Session, ref ledger.OutRef, unit string, force bool, portions ...plutus.Portion) (txbuild.Builder, error) {
	utxos, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{ref})
	if err != nil || len(utxos) == 0 {
		return b, fmt.Errorf("%w: %s#%d", ledger.ErrUtxoNotFound, ref.TxHash, ref.Index)
	}
	utxo := utxos[0]

	owner, err := c.registry.ByAddress(utxo.Address)
	if err != nil {
		return b, err
	}
	if owner.Kind != contract.KindOffer {
		return b, fmt.Errorf("%w: %s is not an offer contract", ErrWrongContract, owner.Kind)
	}
	if utxo.Datum == "" {
		return b, ErrNoDatum
	}
	datum, err := plutus.ParseOfferDatum(utxo.Datum)
	if err != nil {
		return b, err
	}
	if utxo.Value.Lovelace() < datum.Amount {
		return b, fmt.Errorf("%w: escrow %d, amount %d", ErrEscrowTooSmall, utxo.Value.Lovelace(), datum.Amount)
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
	b = b.PayTo(datum.Beneficiary, ledger.Value{
		ledger.Lovelace: st.OffererRefund(utxo.Value.Lovelace()),
		unit:            1,
	}, "")

	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	b = b.Sign(wallet)

	return c.payToTreasuries(ctx, b, utxo.OutRef, st, owner, force, s)
}

// OfferProceed accepts an offer and submits the transaction.
func (c *Client) OfferProceed(ctx context.Context, s *Session, ref ledger.OutRef, unit string, force bool, portions ...plutus.Portion) (string, error) {
	b, err := c.OfferProceedTx(ctx, txbuild.New(), s, ref, unit, force, portions...)
	if err != nil {
		return "", err
	}
	return c.finish(ctx, b, s)
}
