// Package txbuild holds the transaction accumulator: an immutable,
// append-only description of a not-yet-finalized transaction. Every
// operation returns a new value, so independent composition sequences can
// run concurrently without synchronization, and a half-built accumulator
// can always be retried or abandoned without side effects.
package txbuild

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/JamOnBread/contract-lib/ledger"
	"github.com/JamOnBread/contract-lib/plutus"
)

// Env supplies the two lookups lowering needs: the wallet's own address
// and validator resolution by payment credential.
type Env interface {
	WalletAddress(ctx context.Context) (ledger.Address, error)
	ScriptFor(ctx context.Context, credentialHash string) (ledger.Script, error)
}

// Builder accumulates reference inputs, spends, payments and signers.
// The zero value is an empty accumulator ready for use. Values share
// their backing storage structurally; appending never mutates a prefix
// another Builder can observe.
type Builder struct {
	refs        []ledger.UTxO
	spends      []ledger.Input
	pays        []ledger.Output
	merged      []ledger.Output
	certs       []ledger.Certificate
	withdrawals []ledger.Withdrawal
	signers     []ledger.Address
}

// New returns an empty accumulator.
func New() Builder { return Builder{} }

func appended[T any](s []T, v T) []T {
	return append(slices.Clip(s), v)
}

// Read adds a reference input, resolved but not spent.
func (b Builder) Read(utxo ledger.UTxO) Builder {
	b.refs = appended(b.refs, utxo)
	return b
}

// Spend queues an output for spending with the given redeemer. An empty
// redeemer becomes the unit constructor; hex case is normalized.
func (b Builder) Spend(utxo ledger.UTxO, redeemer string) Builder {
	if redeemer == "" {
		redeemer = plutus.Void()
	}
	b.spends = appended(b.spends, ledger.Input{UTxO: utxo, Redeemer: strings.ToLower(redeemer)})
	return b
}

// PayTo adds a payment output with an optional inline datum.
func (b Builder) PayTo(addr ledger.Address, value ledger.Value, datum string) Builder {
	b.pays = appended(b.pays, ledger.Output{Address: addr, Value: value.Clone(), Datum: strings.ToLower(datum)})
	return b
}

// PayToMerged adds a payment that merges with any earlier merged payment
// to the same address and datum, summing values instead of creating a
// second output. Used for treasury accumulators, where one output per
// recipient datum must absorb every contribution.
func (b Builder) PayToMerged(addr ledger.Address, value ledger.Value, datum string) Builder {
	datum = strings.ToLower(datum)
	merged := make([]ledger.Output, len(b.merged), len(b.merged)+1)
	copy(merged, b.merged)
	for i := range merged {
		if merged[i].Address.Equal(addr) && merged[i].Datum == datum {
			merged[i].Value = merged[i].Value.Add(value)
			b.merged = merged
			return b
		}
	}
	b.merged = append(merged, ledger.Output{Address: addr, Value: value.Clone(), Datum: datum})
	return b
}

// RegisterStake adds a stake-credential registration certificate.
// Registration needs no validator witness, so no redeemer is taken.
func (b Builder) RegisterStake(stakeHash string) Builder {
	b.certs = appended(b.certs, ledger.Certificate{
		Kind:      ledger.CertRegisterStake,
		StakeHash: stakeHash,
	})
	return b
}

// Delegate adds a delegation certificate for a script stake credential.
// The stake validator runs with the unit redeemer.
func (b Builder) Delegate(stakeHash, poolID string) Builder {
	b.certs = appended(b.certs, ledger.Certificate{
		Kind:      ledger.CertDelegate,
		StakeHash: stakeHash,
		PoolID:    poolID,
		Redeemer:  plutus.Void(),
	})
	return b
}

// WithdrawRewards adds a reward withdrawal for a script stake credential.
func (b Builder) WithdrawRewards(stakeHash string, amount uint64) Builder {
	b.withdrawals = appended(b.withdrawals, ledger.Withdrawal{
		StakeHash: stakeHash,
		Amount:    amount,
		Redeemer:  plutus.Void(),
	})
	return b
}

// Sign requires a signature from the given address at finalization.
func (b Builder) Sign(addr ledger.Address) Builder {
	b.signers = appended(b.signers, addr)
	return b
}

// References returns the accumulated reference inputs.
func (b Builder) References() []ledger.UTxO { return slices.Clone(b.refs) }

// Inputs returns the accumulated spends in order.
func (b Builder) Inputs() []ledger.Input { return slices.Clone(b.spends) }

// Outputs returns plain payments followed by merged payments.
func (b Builder) Outputs() []ledger.Output {
	out := make([]ledger.Output, 0, len(b.pays)+len(b.merged))
	out = append(out, b.pays...)
	return append(out, b.merged...)
}

// Certificates returns the accumulated stake certificates.
func (b Builder) Certificates() []ledger.Certificate { return slices.Clone(b.certs) }

// Withdrawals returns the accumulated reward withdrawals.
func (b Builder) Withdrawals() []ledger.Withdrawal { return slices.Clone(b.withdrawals) }

// Signers returns the accumulated extra signers.
func (b Builder) Signers() []ledger.Address { return slices.Clone(b.signers) }

// Lower finalizes the accumulator into a draft: resolves the validator of
// every script-locked spend, deduplicates scripts and signers, and puts
// the wallet's own signature requirement first. The Builder itself is
// unchanged and may be lowered again.
func (b Builder) Lower(ctx context.Context, env Env) (ledger.Draft, error) {
	wallet, err := env.WalletAddress(ctx)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("txbuild: wallet address: %w", err)
	}

	var scripts []ledger.Script
	seen := make(map[string]bool)
	resolve := func(hash string) error {
		if seen[hash] {
			return nil
		}
		script, err := env.ScriptFor(ctx, hash)
		if err != nil {
			return fmt.Errorf("txbuild: resolve script %s: %w", hash, err)
		}
		seen[hash] = true
		scripts = append(scripts, script)
		return nil
	}
	for _, in := range b.spends {
		cred := in.UTxO.Address.Payment
		if cred.Kind != ledger.ScriptCredential {
			continue
		}
		if err := resolve(cred.Hash); err != nil {
			return ledger.Draft{}, err
		}
	}
	// Delegations and withdrawals run the stake validator; registration
	// does not.
	for _, cert := range b.certs {
		if cert.Redeemer == "" {
			continue
		}
		if err := resolve(cert.StakeHash); err != nil {
			return ledger.Draft{}, err
		}
	}
	for _, w := range b.withdrawals {
		if w.Redeemer == "" {
			continue
		}
		if err := resolve(w.StakeHash); err != nil {
			return ledger.Draft{}, err
		}
	}

	signers := []ledger.Address{wallet}
	for _, s := range b.signers {
		if !slices.ContainsFunc(signers, s.Equal) {
			signers = append(signers, s)
		}
	}

	return ledger.Draft{
		References:   b.References(),
		Inputs:       b.Inputs(),
		Outputs:      b.Outputs(),
		Certificates: b.Certificates(),
		Withdrawals:  b.Withdrawals(),
		Signers:      signers,
		Scripts:      scripts,
	}, nil
}
