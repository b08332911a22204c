package market

import (
	"context"
	"fmt"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/txbuild"
)

// CancelTx spends a protocol output back to its owner: the cancel
// redeemer plus the wallet's signature, which the validator checks
// against the datum's beneficiary.
func (c *Client) CancelTx(ctx context.Context, b txbuild.Builder, ref ledger.OutRef) (txbuild.Builder, error) {
	utxos, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{ref})
	if err != nil || len(utxos) == 0 {
		return b, fmt.Errorf("%w: %s#%d", ledger.ErrUtxoNotFound, ref.TxHash, ref.Index)
	}
	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	cancel := plutus.MustEncodeHex(plutus.NewConstr(1))
	return b.Spend(utxos[0], cancel).Sign(wallet), nil
}

// ProcessTx settles any spendable protocol output by its owning
// contract: treasuries pass through with the unit redeemer, instant-buy
// listings settle as purchases, external listings run through the
// marketplace adapter, and outputs outside the registry spend as plain
// key-locked inputs. Offers need the delivered asset and go through
// OfferProceedTx.
func (c *Client) ProcessTx(ctx context.Context, b txbuild.Builder, s *Session, ref ledger.OutRef, force bool, portions ...plutus.Portion) (txbuild.Builder, error) {
	utxos, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{ref})
	if err != nil || len(utxos) == 0 {
		return b, fmt.Errorf("%w: %s#%d", ledger.ErrUtxoNotFound, ref.TxHash, ref.Index)
	}
	utxo := utxos[0]

	owner, err := c.registry.ByAddress(utxo.Address)
	if err != nil {
		// Key-locked output, no validator involved.
		return b.Spend(utxo, ""), nil
	}

	switch owner.Kind {
	case contract.KindTreasury:
		return b.Spend(utxo, ""), nil
	case contract.KindInstantBuy:
		return c.InstantBuyProceedTx(ctx, b, s, ref, force, portions...)
	case contract.KindOffer:
		return b, fmt.Errorf("%w: offer settlement needs the delivered asset", ErrWrongContract)
	case contract.KindExternal:
		return c.externalProceedTx(ctx, b, owner, utxo)
	case contract.KindStake, contract.KindLock:
		wallet, err := c.adapter.WalletAddress(ctx)
		if err != nil {
			return b, fmt.Errorf("market: wallet address: %w", err)
		}
		return b.Spend(utxo, "").Sign(wallet), nil
	default:
		return b, fmt.Errorf("%w: %s", ErrWrongContract, owner.Kind)
	}
}
