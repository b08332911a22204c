package market

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/reserve"
	"github.com/JamOnBread/contract-lib/settle"
	"github.com/JamOnBread/contract-lib/txbuild"
)

// addrKey flattens an address for map keying.
func addrKey(a ledger.Address) string {
	key := a.Payment.Hash
	if a.Stake != nil {
		key += "/" + a.Stake.Hash
	}
	return key
}

// stakeStep spreads consecutive fresh treasuries across stake variants;
// coprime to every deployed variant count, so a run of `unique` picks
// never repeats early.
const stakeStep = 13

// CreateTreasuriesTx adds `total` fresh treasury outputs carrying datum,
// spread across `unique` stake variants chosen from a random starting
// point. A zero amount defaults to the network's minimum output value.
func (c *Client) CreateTreasuriesTx(b txbuild.Builder, unique, total int, datum string, amount uint64) (txbuild.Builder, error) {
	treasury, err := c.registry.Active(contract.KindTreasury)
	if err != nil {
		return b, err
	}
	if amount == 0 {
		amount = c.network.MinLovelace
	}
	if unique < 1 {
		unique = 1
	}

	count := treasury.StakeCount()
	start := 0
	if count > 0 {
		start = rand.Intn(count)
	}
	stakes := make([]int, unique)
	for i := range stakes {
		if count > 0 {
			stakes[i] = (start + i*stakeStep) % count
		}
	}

	for i := 0; i < total; i++ {
		b = b.PayTo(treasury.Address(stakes[i%len(stakes)]), ledger.Value{ledger.Lovelace: amount}, datum)
	}
	return b, nil
}

// CreateTreasuries builds and submits a treasury creation transaction.
func (c *Client) CreateTreasuries(ctx context.Context, unique, total int, datum string, amount uint64) (string, error) {
	b, err := c.CreateTreasuriesTx(txbuild.New(), unique, total, datum, amount)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// CreateTreasuryAddress creates treasuries committed to an address.
func (c *Client) CreateTreasuryAddress(ctx context.Context, addr ledger.Address, unique, total int, amount uint64) (string, error) {
	datum, err := c.AddressDatum(addr)
	if err != nil {
		return "", err
	}
	return c.CreateTreasuries(ctx, unique, total, datum, amount)
}

// CreateTreasuryToken creates treasuries committed to holders of a
// token policy.
func (c *Client) CreateTreasuryToken(ctx context.Context, policyID string, minTokens uint64, unique, total int, amount uint64) (string, error) {
	datum, err := c.TokenDatum(policyID, minTokens)
	if err != nil {
		return "", err
	}
	return c.CreateTreasuries(ctx, unique, total, datum, amount)
}

// WithdrawTreasuryTx spends the given treasury outputs carrying datum
// and recreates each at its address with the minimum value, freeing the
// accumulated fees into the transaction's change. With reduce set, each
// distinct address gets one replacement output instead of one per spent
// treasury.
func (c *Client) WithdrawTreasuryTx(ctx context.Context, b txbuild.Builder, refs []ledger.OutRef, datum string, reduce bool) (txbuild.Builder, error) {
	utxos, err := c.adapter.UtxosByOutRef(ctx, refs)
	if err != nil {
		return b, fmt.Errorf("market: resolve treasuries: %w", err)
	}

	cancel := plutus.MustEncodeHex(plutus.NewConstr(1))
	seen := make(map[string]bool)
	var addresses []ledger.Address
	var total uint64

	for _, utxo := range utxos {
		if utxo.Datum != datum {
			continue
		}
		b = b.Spend(utxo, cancel)
		total += utxo.Value.Lovelace()
		if key := addrKey(utxo.Address); !seen[key] {
			seen[key] = true
			addresses = append(addresses, utxo.Address)
		}
		if !reduce {
			b = b.PayTo(utxo.Address, ledger.Value{ledger.Lovelace: c.network.MinLovelace}, datum)
		}
	}
	if reduce {
		for _, addr := range addresses {
			b = b.PayTo(addr, ledger.Value{ledger.Lovelace: c.network.MinLovelace}, datum)
		}
	}
	c.log.Debug("treasury withdrawal",
		zap.String("datum", datum),
		zap.Uint64("collected", total),
		zap.Int("spent", len(addresses)))
	return b, nil
}

// WithdrawTreasury asks the service to release the treasuries of one
// datum, proves wallet ownership with a signed challenge, and submits
// the withdrawal. A nil challenge is signed on the spot.
func (c *Client) WithdrawTreasury(ctx context.Context, datum string, reduce bool, params *reserve.SignParams) (string, error) {
	if params == nil {
		signed, err := c.Sign(ctx, "")
		if err != nil {
			return "", err
		}
		params = &signed
	}
	grant, err := c.provider.Withdraw(ctx, datum, *params)
	if err != nil {
		return "", err
	}
	b, err := c.WithdrawTreasuryTx(ctx, txbuild.New(), grant.Utxos, datum, reduce)
	if err != nil {
		return "", err
	}
	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b.Sign(wallet))
}

// payToTreasuries reserves one treasury output per settlement recipient
// and routes each payout: a reserved output is spent with the
// pass-through redeemer and recreated with its value plus the share, a
// recipient without a free treasury gets a fresh output at the trading
// contract's linked treasury. Without force, anything short of a full
// reservation aborts the settlement.
func (c *Client) payToTreasuries(ctx context.Context, b txbuild.Builder, spent ledger.OutRef, st *settle.Settlement, owner *contract.Contract, force bool, s *Session) (txbuild.Builder, error) {
	treasury := owner.Treasury
	if treasury == nil {
		var err error
		treasury, err = c.registry.Active(contract.KindTreasury)
		if err != nil {
			return b, err
		}
	}
	params := owner.Params

	s.to(PhaseReserving)
	reservation, err := c.provider.Reserve(ctx, spent, st.Treasuries(), force)
	if err != nil {
		s.reject(err)
		return b, err
	}
	if !reservation.All && !force {
		err := fmt.Errorf("%w: %d of %d", reserve.ErrTreasuriesUnavailable, len(reservation.Utxos), len(st.Treasuries()))
		s.reject(err)
		return b, err
	}
	s.to(PhaseBuilding)

	refs := make([]ledger.OutRef, 0, len(reservation.Utxos))
	for _, ref := range reservation.Utxos {
		refs = append(refs, ref)
	}
	reserved, err := c.provider.UtxosByOutRef(ctx, refs)
	if err != nil {
		return b, fmt.Errorf("market: resolve reserved treasuries: %w", err)
	}
	// Payout keys are lowercased, so normalize whatever casing the
	// provider returned the datum in.
	byDatum := make(map[string]ledger.UTxO, len(reserved))
	for _, utxo := range reserved {
		byDatum[strings.ToLower(utxo.Datum)] = utxo
	}

	for _, payout := range st.Payouts() {
		if utxo, ok := byDatum[payout.Treasury]; ok {
			b = b.Spend(utxo, "") // pass-through
			b = b.PayToMerged(utxo.Address,
				ledger.Value{ledger.Lovelace: utxo.Value.Lovelace() + payout.Amount},
				payout.Treasury)
			continue
		}
		amount := payout.Amount
		if amount < params.MinUtxoValue {
			amount = params.MinUtxoValue
		}
		b = b.PayToMerged(treasury.Address(-1), ledger.Value{ledger.Lovelace: amount}, payout.Treasury)
	}
	return b, nil
}
