package market

import (
	"context"

	"github.com/JamOnBread/contract-lib/txbuild"
)

// RegisterStakesTx adds registration certificates for the given stake
// script hashes.
func (c *Client) RegisterStakesTx(b txbuild.Builder, stakes []string) txbuild.Builder {
	for _, stake := range stakes {
		b = b.RegisterStake(stake)
	}
	return b
}

// RegisterStakes registers the stake credentials and submits the
// transaction. The wallet's protocol tokens ride along, proving the
// caller may operate the protocol's stake scripts.
func (c *Client) RegisterStakes(ctx context.Context, stakes []string) (string, error) {
	b := c.RegisterStakesTx(txbuild.New(), stakes)
	b, err := c.PayTokensTx(ctx, b, 0)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// DelegateTx adds a delegation of the stake script to the given pool.
func (c *Client) DelegateTx(b txbuild.Builder, stake, poolID string) txbuild.Builder {
	return b.Delegate(stake, poolID)
}

// Delegate delegates a protocol stake credential and submits the
// transaction.
func (c *Client) Delegate(ctx context.Context, stake, poolID string) (string, error) {
	b := c.DelegateTx(txbuild.New(), stake, poolID)
	b, err := c.PayTokensTx(ctx, b, 0)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}

// WithdrawRewardsTx adds a reward withdrawal from the stake credential.
func (c *Client) WithdrawRewardsTx(b txbuild.Builder, stake string, amount uint64) txbuild.Builder {
	return b.WithdrawRewards(stake, amount)
}

// WithdrawRewards withdraws accumulated staking rewards and submits the
// transaction.
func (c *Client) WithdrawRewards(ctx context.Context, stake string, amount uint64) (string, error) {
	b := c.WithdrawRewardsTx(txbuild.New(), stake, amount)
	b, err := c.PayTokensTx(ctx, b, 0)
	if err != nil {
		return "", err
	}
	return c.FinishTx(ctx, b)
}
