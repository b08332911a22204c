package contract

import (
	"math/rand"

	"github.com/JamOnBread/contract-lib/ledger"
)

// Kind is the closed set of deployed contract variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindTreasury
	KindInstantBuy
	KindOffer
	KindStake
	KindLock
	// KindExternal routes listings held by a third-party marketplace
	// through the adapter validator.
	KindExternal
)

// String returns the variant name for logs and errors.
func (k Kind) String() string {
	switch k {
	case KindTreasury:
		return "treasury"
	case KindInstantBuy:
		return "instantbuy"
	case KindOffer:
		return "offer"
	case KindStake:
		return "stake"
	case KindLock:
		return "lock"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Params is the parameter bundle shared by the contracts of one
// deployment epoch. Amounts are in the minor unit.
type Params struct {
	// MinimumFee floors every non-protocol treasury payout.
	MinimumFee uint64
	// MinimumProtocolFee floors the protocol treasury payout.
	MinimumProtocolFee uint64
	// ProtocolTreasury is the protocol's own treasury datum in hex.
	ProtocolTreasury string
	// MinUtxoValue floors the value of any freshly created treasury output.
	MinUtxoValue uint64
}

// Contract is one deployed contract instance. Its script hash doubles as
// the payment credential of every address the contract owns; the stake
// variants spread those addresses to avoid UTXO contention.
type Contract struct {
	Kind     Kind
	Active   bool
	Hash     string
	Params   Params
	Stakes   []string
	Treasury *Contract
	// Ref points at the on-chain output carrying the validator, when one
	// was published as a reference script.
	Ref *ledger.OutRef
	// External carries the adapter parameters for third-party
	// marketplace contracts; nil for protocol-native kinds.
	External *ExternalParams
}

// ExternalParams configures a third-party marketplace handled through the
// adapter contract: where its own fee goes and the fee fraction taken
// from the payout sum.
type ExternalParams struct {
	FeeAddress ledger.Address
	FeeNum     uint64
	FeeDen     uint64
}

// StakeCount returns the number of stake-credential variants.
func (c *Contract) StakeCount() int { return len(c.Stakes) }

// Stake returns the stake variant selected by id modulo the variant
// count. A negative id picks pseudo-randomly.
func (c *Contract) Stake(id int) string {
	if len(c.Stakes) == 0 {
		return ""
	}
	if id < 0 {
		id = rand.Intn(len(c.Stakes))
	}
	return c.Stakes[id%len(c.Stakes)]
}

// Address combines the contract's script-hash payment credential with the
// selected stake variant. A negative stakeID picks pseudo-randomly,
// spreading load across the contract's addresses.
func (c *Contract) Address(stakeID int) ledger.Address {
	return ledger.ScriptAddress(c.Hash, c.Stake(stakeID))
}
