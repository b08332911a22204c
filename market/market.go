// Package market implements the marketplace operations: listing,
// cancelling, updating and settling instant-buy listings and offers,
// creating and withdrawing shared treasuries, the reservation lock probe
// and the stake-credential operations. Every operation composes through
// the transaction accumulator, so callers can batch several operations
// into one transaction before finishing it.
package market

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/JamOnBread/contract-lib/config"
	"github.com/JamOnBread/contract-lib/contract"
	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
	"github.com/JamOnBread/contract-lib/reserve"
	"github.com/JamOnBread/contract-lib/scriptstore"
	"github.com/JamOnBread/contract-lib/txbuild"
)

// Client runs marketplace operations on one network through an external
// wallet adapter. It is safe for concurrent use; all transaction state
// lives in the accumulators passed through it.
type Client struct {
	network  *config.Network
	registry *contract.Registry
	adapter  ledger.Adapter
	provider *reserve.Client
	scripts  *scriptstore.Resolver
	log      *zap.Logger

	// treasuryDatum is the protocol's token-commitment treasury datum.
	treasuryDatum string
}

// New builds a client for the given network and wallet adapter. A nil
// provider defaults to the network's API endpoint, a nil scripts resolver
// to an in-memory cache over that provider, a nil logger to no logging.
func New(network *config.Network, adapter ledger.Adapter, provider *reserve.Client, scripts *scriptstore.Resolver, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if provider == nil {
		provider = reserve.New(network.APIURL, log)
	}
	if scripts == nil {
		scripts = scriptstore.NewResolver(scriptstore.NewMemStore(0), fetchFrom(provider), log)
	}

	datum, err := plutus.EncodeTreasuryTokens(network.TokenPolicy, network.TokenCount)
	if err != nil {
		return nil, fmt.Errorf("market: protocol treasury datum: %w", err)
	}
	return &Client{
		network:       network,
		registry:      network.Registry,
		adapter:       adapter,
		provider:      provider,
		scripts:       scripts,
		log:           log,
		treasuryDatum: plutus.MustEncodeHex(datum),
	}, nil
}

// fetchFrom adapts the provider's script endpoint to the resolver.
func fetchFrom(provider *reserve.Client) scriptstore.FetchFunc {
	return func(ctx context.Context, hash string) (ledger.Script, error) {
		s, err := provider.Script(ctx, hash)
		if err != nil {
			return ledger.Script{}, err
		}
		return ledger.Script{Hash: s.Hash, Kind: s.Kind, Hex: s.Hex, Ref: s.OutRef}, nil
	}
}

// Provider returns the marketplace API client.
func (c *Client) Provider() *reserve.Client { return c.provider }

// TreasuryDatum returns the protocol's own treasury datum in hex.
func (c *Client) TreasuryDatum() string { return c.treasuryDatum }

// AddressDatum builds the address-commitment treasury datum for the
// payment credential of the given address.
func (c *Client) AddressDatum(addr ledger.Address) (string, error) {
	d, err := plutus.EncodeTreasuryAddress(ledger.Address{Payment: addr.Payment})
	if err != nil {
		return "", err
	}
	return plutus.EncodeHex(d)
}

// TokenDatum builds a token-commitment treasury datum.
func (c *Client) TokenDatum(policyID string, minTokens uint64) (string, error) {
	d, err := plutus.EncodeTreasuryTokens(policyID, minTokens)
	if err != nil {
		return "", err
	}
	return plutus.EncodeHex(d)
}

// WalletAddress returns the wallet's receive address. Part of the
// lowering environment.
func (c *Client) WalletAddress(ctx context.Context) (ledger.Address, error) {
	return c.adapter.WalletAddress(ctx)
}

// ScriptFor resolves a validator by payment credential. Part of the
// lowering environment.
func (c *Client) ScriptFor(ctx context.Context, credentialHash string) (ledger.Script, error) {
	if hit, err := c.registry.ByHash(credentialHash); err == nil && hit.Ref != nil {
		refs, err := c.adapter.UtxosByOutRef(ctx, []ledger.OutRef{*hit.Ref})
		if err == nil && len(refs) == 1 {
			return ledger.Script{Hash: credentialHash, Kind: "plutusV2", Ref: hit.Ref}, nil
		}
	}
	return c.scripts.ScriptFor(ctx, credentialHash)
}

// Sign produces the signed challenge proving wallet ownership. An empty
// payload defaults to the current timestamp in milliseconds.
func (c *Client) Sign(ctx context.Context, payload string) (reserve.SignParams, error) {
	if payload == "" {
		payload = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	address, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return reserve.SignParams{}, fmt.Errorf("market: wallet address: %w", err)
	}
	signature, key, err := c.adapter.SignMessage(ctx, address, payload)
	if err != nil {
		return reserve.SignParams{}, fmt.Errorf("market: sign challenge: %w", err)
	}
	return reserve.SignParams{
		Address:   address,
		Secret:    payload,
		Signature: signature,
		Key:       key,
	}, nil
}

// PayTokensTx pays the wallet its own protocol tokens, forcing the
// token-commitment treasury proof into the transaction. A zero amount
// defaults to the network's threshold count.
func (c *Client) PayTokensTx(ctx context.Context, b txbuild.Builder, amount uint64) (txbuild.Builder, error) {
	if amount == 0 {
		amount = c.network.TokenCount
	}
	wallet, err := c.adapter.WalletAddress(ctx)
	if err != nil {
		return b, fmt.Errorf("market: wallet address: %w", err)
	}
	unit := c.network.TokenPolicy + c.network.TokenName
	return b.PayTo(wallet, ledger.Value{unit: amount}, ""), nil
}

// FinishTx lowers the accumulator, then hands the draft to the adapter
// for balancing, signing and submission. The returned hash identifies
// the submitted transaction.
func (c *Client) FinishTx(ctx context.Context, b txbuild.Builder) (string, error) {
	return c.finish(ctx, b, nil)
}

func (c *Client) finish(ctx context.Context, b txbuild.Builder, s *Session) (string, error) {
	draft, err := b.Lower(ctx, c)
	if err != nil {
		return "", err
	}
	s.to(PhaseSigning)
	hash, err := c.adapter.SignAndSubmit(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ledger.ErrSubmit, err)
	}
	s.to(PhaseSubmitted)
	c.log.Info("transaction submitted",
		zap.String("hash", hash),
		zap.Int("inputs", len(draft.Inputs)),
		zap.Int("outputs", len(draft.Outputs)))
	return hash, nil
}

// AwaitTx blocks until the network confirms the transaction or the
// context is done.
func (c *Client) AwaitTx(ctx context.Context, hash string) (bool, error) {
	return c.provider.AwaitTx(ctx, hash, 0)
}
