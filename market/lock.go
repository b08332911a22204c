package market

import (
	"context"

	"go.uber.org/zap"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
)

// Lock is the outcome of a reservation probe: whether every treasury a
// settlement needs could be held at once.
type Lock int

const (
	// LockLocked: every requested treasury was reserved.
	LockLocked Lock = iota
	// LockPartial: some treasuries were reserved, others are held by a
	// competing settlement.
	LockPartial
	// LockBlocked: nothing could be reserved.
	LockBlocked
	// LockError: the probe itself failed.
	LockError
)

// String returns the outcome name.
func (l Lock) String() string {
	switch l {
	case LockLocked:
		return "locked"
	case LockPartial:
		return "partial"
	case LockBlocked:
		return "blocked"
	default:
		return "error"
	}
}

// Affiliates collects every treasury datum a settlement of the given
// output would pay, starting from the caller's selling-side portions.
// Outputs of non-trading contracts contribute nothing beyond the
// portions.
func (c *Client) Affiliates(utxo ledger.UTxO, portions []plutus.Portion) ([]string, error) {
	affiliates := make([]string, 0, len(portions)+3)
	for _, p := range portions {
		affiliates = append(affiliates, p.Treasury)
	}

	owner, err := c.registry.ByAddress(utxo.Address)
	if err != nil {
		return affiliates, nil
	}

	switch owner.Kind {
	case contract.KindInstantBuy:
		datum, err := plutus.ParseInstantBuyDatum(utxo.Datum)
		if err != nil {
			return nil, err
		}
		affiliates = append(affiliates, datum.ListingMarket, datum.ListingAffiliate)
		if datum.Royalty != nil {
			affiliates = append(affiliates, datum.Royalty.Treasury)
		}
	case contract.KindOffer:
		datum, err := plutus.ParseOfferDatum(utxo.Datum)
		if err != nil {
			return nil, err
		}
		affiliates = append(affiliates, datum.ListingMarket, datum.ListingAffiliate)
		if datum.Royalty != nil {
			affiliates = append(affiliates, datum.Royalty.Treasury)
		}
	}
	return affiliates, nil
}

// LockUtxo probes whether a settlement of the given output could reserve
// every treasury it needs, without holding the reservation.
func (c *Client) LockUtxo(ctx context.Context, utxo ledger.UTxO, portions ...plutus.Portion) Lock {
	affiliates, err := c.Affiliates(utxo, portions)
	if err != nil {
		c.log.Debug("lock probe failed", zap.Error(err))
		return LockError
	}
	result, err := c.provider.Reserve(ctx, utxo.OutRef, affiliates, false)
	if err != nil {
		c.log.Debug("lock probe failed", zap.Error(err))
		return LockError
	}
	switch {
	case result.All:
		return LockLocked
	case len(result.Utxos) > 0:
		return LockPartial
	default:
		return LockBlocked
	}
}

// LockRef probes by output reference.
func (c *Client) LockRef(ctx context.Context, ref ledger.OutRef, portions ...plutus.Portion) Lock {
	utxos, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{ref})
	if err != nil || len(utxos) == 0 {
		return LockError
	}
	return c.LockUtxo(ctx, utxos[0], portions...)
}

// LockUnit probes by the asset unit held in the listing.
func (c *Client) LockUnit(ctx context.Context, unit string, portions ...plutus.Portion) Lock {
	utxo, err := c.adapter.UtxoByUnit(ctx, unit)
	if err != nil {
		return LockError
	}
	return c.LockUtxo(ctx, utxo, portions...)
}
